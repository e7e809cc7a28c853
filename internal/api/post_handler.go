package api

import (
	"net/http"

	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/alexivanou/geocommunity/internal/service"
)

// CreatePost handles POST /api/v1/posts
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req model.NewPost
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	post, err := h.service.CreatePost(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, post)
}

// GetPost handles GET /api/v1/posts/{id}
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPost(r.Context(), pathVar(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, post)
}

// ListPosts handles GET /api/v1/posts?district_id=|neighborhood_id=|author_id=&status=
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	posts, err := h.service.ListPosts(r.Context(), service.PostQuery{
		DistrictID:     q.Get("district_id"),
		NeighborhoodID: q.Get("neighborhood_id"),
		AuthorID:       q.Get("author_id"),
		Status:         q.Get("status"),
	}, p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(h, w, posts, p, func(post model.Post) string { return post.ID })
}

// UpdatePost handles PATCH /api/v1/posts/{id}
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req model.PostUpdate
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	post, err := h.service.UpdatePost(r.Context(), pathVar(r, "id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, post)
}

// ChangePostStatus handles PUT /api/v1/posts/{id}/status
func (h *Handler) ChangePostStatus(w http.ResponseWriter, r *http.Request) {
	var req model.StatusChange
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	post, err := h.service.ChangePostStatus(r.Context(), pathVar(r, "id"), req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, post)
}

// DeletePost handles DELETE /api/v1/posts/{id}
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePost(r.Context(), pathVar(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
