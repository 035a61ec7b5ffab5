package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckerHas(t *testing.T) {
	c := NewChecker(nil)

	if !c.Has("author", "convert:create") {
		t.Fatalf("author must be allowed to convert")
	}
	if c.Has("author", "users:manage") {
		t.Fatalf("author must not hold unlisted permissions")
	}
	if !c.Has("admin", "anything:at-all") {
		t.Fatalf("admin wildcard must match everything")
	}
	if c.Has("unknown-role", "convert:create") {
		t.Fatalf("unknown role must hold nothing")
	}
}

func TestCheckerPrefixWildcard(t *testing.T) {
	c := NewChecker(map[string][]string{
		"reviewer": {"conversions:*"},
	})
	if !c.Has("reviewer", "conversions:view") {
		t.Fatalf("prefix wildcard must match")
	}
	if c.Has("reviewer", "convert:create") {
		t.Fatalf("prefix wildcard must not match other resources")
	}
}

func TestRequireMiddleware(t *testing.T) {
	h := Require("convert:create")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	// Role with the permission passes through.
	req := httptest.NewRequest("POST", "/convert", nil)
	req = req.WithContext(WithRole(req.Context(), "author"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want pass-through", w.Code)
	}

	// Missing role is forbidden.
	req = httptest.NewRequest("POST", "/convert", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 without a role", w.Code)
	}

	// Role without the permission is forbidden.
	req = httptest.NewRequest("POST", "/convert", nil)
	req = req.WithContext(WithRole(req.Context(), "unknown-role"))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for unknown role", w.Code)
	}
}
