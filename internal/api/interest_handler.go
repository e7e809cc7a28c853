package api

import (
	"net/http"

	"github.com/alexivanou/geocommunity/internal/model"
)

type createInterestRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// CreateInterest handles POST /api/v1/interests
func (h *Handler) CreateInterest(w http.ResponseWriter, r *http.Request) {
	var req createInterestRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := h.service.CreateInterest(r.Context(), req.Name, req.Description)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, in)
}

// GetInterest handles GET /api/v1/interests/{id}
func (h *Handler) GetInterest(w http.ResponseWriter, r *http.Request) {
	in, err := h.service.GetInterest(r.Context(), pathVar(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, in)
}

// ListInterests handles GET /api/v1/interests
func (h *Handler) ListInterests(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	interests, err := h.service.ListInterests(r.Context(), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(h, w, interests, p, func(i model.Interest) string { return i.ID })
}

// DeleteInterest handles DELETE /api/v1/interests/{id}
func (h *Handler) DeleteInterest(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteInterest(r.Context(), pathVar(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSubscribers handles GET /api/v1/interests/{id}/subscribers
func (h *Handler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	users, err := h.service.ListSubscribers(r.Context(), pathVar(r, "id"), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(h, w, users, p, func(u model.User) string { return u.ID })
}
