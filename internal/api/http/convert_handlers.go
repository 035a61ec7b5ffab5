package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fuse-lms/qti-converter/internal/auth"
	"github.com/fuse-lms/qti-converter/internal/convert"
	"github.com/fuse-lms/qti-converter/internal/formats"
	"github.com/fuse-lms/qti-converter/internal/quiz/guided"
	"github.com/fuse-lms/qti-converter/internal/rbac"
)

// POST /convert
func ConvertHandler(svc *convert.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req convert.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		owner := auth.SubjectFromContext(r.Context())
		c, err := svc.Convert(r.Context(), owner, req)
		if err != nil {
			var pe *guided.ParseError
			switch {
			case errors.As(err, &pe), errors.Is(err, guided.ErrNoQuestions):
				// The text did not parse; tell the author what to fix.
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			case errors.Is(err, convert.ErrInvalidRequest):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":             c.ID,
			"question_count": c.QuestionCount,
			"content_type":   c.ContentType,
			"download":       "/conversions/" + c.ID + "/download",
		})
	}
}

// GET /conversions?limit=&offset=
func ListConversionsHandler(store convert.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := convert.ListOpts{
			Limit:  atoiOr(r.URL.Query().Get("limit"), 0),
			Offset: atoiOr(r.URL.Query().Get("offset"), 0),
		}
		// Authors see their own history; admins see everyone's.
		if rbac.RoleFromContext(r.Context()) != "admin" {
			opts.OwnerID = auth.SubjectFromContext(r.Context())
		}

		cs, err := store.ListConversions(r.Context(), opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if cs == nil {
			cs = []convert.Conversion{}
		}
		_ = json.NewEncoder(w).Encode(cs)
	}
}

// GET /conversions/{id}/download
func DownloadHandler(svc *convert.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		c, rc, err := svc.Open(r.Context(), id)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", c.ContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+c.Filename()+`"`)
		_, _ = io.Copy(w, rc)
	}
}

// GET /formats
func ListFormatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(formats.All())
	}
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
