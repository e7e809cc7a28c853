package api

import (
	"net/http"

	"github.com/alexivanou/geocommunity/internal/model"
)

// CreateUser handles POST /api/v1/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.NewUser
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.service.RegisterUser(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, u)
}

// GetUser handles GET /api/v1/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetUser(r.Context(), pathVar(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, u)
}

// ListUsers handles GET /api/v1/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	users, err := h.service.ListUsers(r.Context(), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(h, w, users, p, func(u model.User) string { return u.ID })
}

// UpdateUser handles PATCH /api/v1/users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req model.UserUpdate
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.service.UpdateUser(r.Context(), pathVar(r, "id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, u)
}

// DeleteUser handles DELETE /api/v1/users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), pathVar(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUserInterests handles GET /api/v1/users/{id}/interests
func (h *Handler) ListUserInterests(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	interests, err := h.service.ListUserInterests(r.Context(), pathVar(r, "id"), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(h, w, interests, p, func(i model.Interest) string { return i.ID })
}

// Subscribe handles PUT /api/v1/users/{id}/interests/{interestId}
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	link, err := h.service.Subscribe(r.Context(), pathVar(r, "id"), pathVar(r, "interestId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, link)
}

// Unsubscribe handles DELETE /api/v1/users/{id}/interests/{interestId}
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Unsubscribe(r.Context(), pathVar(r, "id"), pathVar(r, "interestId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUserEvents handles GET /api/v1/users/{id}/events
func (h *Handler) ListUserEvents(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	events, err := h.service.ListUserEvents(r.Context(), pathVar(r, "id"), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(h, w, events, p, func(e model.Event) string { return e.ID })
}
