package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	api "github.com/fuse-lms/qti-converter/internal/api/http"
	"github.com/fuse-lms/qti-converter/internal/auth"
	"github.com/fuse-lms/qti-converter/internal/config"
	"github.com/fuse-lms/qti-converter/internal/convert"
	"github.com/fuse-lms/qti-converter/internal/db"
	"github.com/fuse-lms/qti-converter/internal/formats"
	"github.com/fuse-lms/qti-converter/internal/rbac"
	"github.com/fuse-lms/qti-converter/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := convert.NewSQLStore(dbh)

	// --- Artifact storage ---
	blobs, err := storage.NewFSStore(cfg.ArtifactBasePath)
	if err != nil {
		log.Fatalf("artifact store: %v", err)
	}

	// --- Format presets ---
	if cfg.PresetDir != "" {
		if err := formats.LoadDir(cfg.PresetDir); err != nil {
			log.Fatalf("load presets: %v", err)
		}
	}

	svc := convert.NewService(store, blobs, cfg.DefaultPoints)

	// --- Auth (local JWT) ---
	secret := getenvOr("AUTH_HMAC_SECRET", "supersecret-dev-key")
	authSvc := auth.NewAuthService(secret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, dbh, cfg.AdminUser, cfg.AdminPassHash))
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("convert:create")).
			Post("/convert", api.ConvertHandler(svc))

		pr.With(rbac.Require("conversions:view")).
			Get("/conversions", api.ListConversionsHandler(store))
		pr.With(rbac.Require("conversions:view")).
			Get("/conversions/{id}/download", api.DownloadHandler(svc))

		pr.With(rbac.Require("formats:view")).
			Get("/formats", api.ListFormatsHandler())
	})

	log.Printf("qti-converter listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal(err)
	}
}

func getenvOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
