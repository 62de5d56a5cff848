package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/starford/menutree/internal/apperr"
	"github.com/starford/menutree/internal/catalog"
)

// Handler holds API route handlers.
type Handler struct {
	svc *catalog.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

// nodeKey extracts the {key} URL parameter, decoding escaped characters
// such as %2F so keys may contain slashes.
func nodeKey(r *http.Request) string {
	raw := chi.URLParam(r, "key")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// GetTree handles GET /api/tree.
//
//	@Summary		Get the canonical menu tree
//	@Tags			tree
//	@Produce		json
//	@Success		200	{object}	TreeResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tree [get]
func (h *Handler) GetTree(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Current()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("tree not loaded"))
		return
	}
	writeJSON(w, http.StatusOK, TreeResponse{
		Checksum: snap.Checksum,
		Source:   snap.Source,
		Items:    snap.Tree,
	})
}

// ReplaceTree handles PUT /api/tree.
//
//	@Summary		Replace the source menu tree
//	@Tags			tree
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ReplaceTreeRequest	true	"New tree"
//	@Success		200		{object}	TreeResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tree [put]
func (h *Handler) ReplaceTree(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req ReplaceTreeRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Items == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("items is required"))
		return
	}
	snap, err := h.svc.Replace(r.Context(), req.Items)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidTree) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("replace tree failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, TreeResponse{
		Checksum: snap.Checksum,
		Source:   snap.Source,
		Items:    snap.Tree,
	})
}

// Search handles GET /api/search.
//
// An empty q resets the view: the full tree with nothing expanded.
//
//	@Summary		Filter the menu tree by a substring
//	@Tags			search
//	@Produce		json
//	@Param			q	query		string	false	"Search query (case-insensitive, literal)"
//	@Success		200	{object}	SearchResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	res, err := h.svc.Search(r.Context(), q)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusServiceUnavailable, errorBody("tree not loaded"))
			return
		}
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, newSearchResponse(res))
}

// NodeLabel handles GET /api/nodes/{key}/label.
//
//	@Summary		Get the plain label of a node
//	@Tags			nodes
//	@Produce		json
//	@Param			key	path		string	true	"Node key"
//	@Success		200	{object}	LabelResponse
//	@Security		BearerAuth
//	@Router			/nodes/{key}/label [get]
func (h *Handler) NodeLabel(w http.ResponseWriter, r *http.Request) {
	key := nodeKey(r)
	writeJSON(w, http.StatusOK, LabelResponse{
		Key:   key,
		Label: h.svc.LabelOf(r.Context(), key),
	})
}

// NodePath handles GET /api/nodes/{key}/path.
//
//	@Summary		Get the key path, labels and breadcrumb of a node
//	@Tags			nodes
//	@Produce		json
//	@Param			key	path		string	true	"Node key"
//	@Success		200	{object}	NodePathResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/nodes/{key}/path [get]
func (h *Handler) NodePath(w http.ResponseWriter, r *http.Request) {
	key := nodeKey(r)
	np, err := h.svc.PathOf(r.Context(), key)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("node path failed", slog.String("key", key), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, np)
}

// Breadcrumb handles POST /api/breadcrumb.
//
//	@Summary		Render a breadcrumb from ancestor keys and a label
//	@Tags			nodes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		BreadcrumbRequest	true	"Ancestor keys and clicked label"
//	@Success		200		{object}	BreadcrumbResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/breadcrumb [post]
func (h *Handler) Breadcrumb(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req BreadcrumbRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	writeJSON(w, http.StatusOK, BreadcrumbResponse{
		Breadcrumb: h.svc.Breadcrumb(r.Context(), req.ParentKeys, req.Label),
	})
}
