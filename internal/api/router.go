package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/menutree/internal/catalog"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *catalog.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Canonical tree.
	r.Get("/tree", h.GetTree)
	r.Put("/tree", h.ReplaceTree)

	// Search.
	r.Get("/search", h.Search)

	// Path resolution.
	r.Get("/nodes/{key}/label", h.NodeLabel)
	r.Get("/nodes/{key}/path", h.NodePath)
	r.Post("/breadcrumb", h.Breadcrumb)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
