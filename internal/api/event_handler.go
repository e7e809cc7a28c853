package api

import (
	"net/http"

	"github.com/alexivanou/geocommunity/internal/model"
)

type registerRequest struct {
	UserID string `json:"user_id"`
}

// CreateEvent handles POST /api/v1/events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.NewEvent
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	ev, err := h.service.CreateEvent(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, ev)
}

// GetEvent handles GET /api/v1/events/{id}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.service.GetEvent(r.Context(), pathVar(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ev)
}

// ListEvents handles GET /api/v1/events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	events, err := h.service.ListEvents(r.Context(), model.EventFilter{
		DistrictID:     q.Get("district_id"),
		NeighborhoodID: q.Get("neighborhood_id"),
		OrganizerID:    q.Get("organizer_id"),
		InterestID:     q.Get("interest_id"),
		Status:         model.EventStatus(q.Get("status")),
	}, p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(h, w, events, p, func(e model.Event) string { return e.ID })
}

// UpdateEvent handles PATCH /api/v1/events/{id}
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.EventUpdate
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	ev, err := h.service.UpdateEvent(r.Context(), pathVar(r, "id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ev)
}

// ChangeEventStatus handles PUT /api/v1/events/{id}/status
func (h *Handler) ChangeEventStatus(w http.ResponseWriter, r *http.Request) {
	var req model.StatusChange
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	ev, err := h.service.ChangeEventStatus(r.Context(), pathVar(r, "id"), req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ev)
}

// DeleteEvent handles DELETE /api/v1/events/{id}
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteEvent(r.Context(), pathVar(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterAttendee handles POST /api/v1/events/{id}/attendees
func (h *Handler) RegisterAttendee(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.UserID == "" {
		h.writeError(w, r, &badRequest{msg: "user_id is required"})
		return
	}
	a, err := h.service.RegisterAttendee(r.Context(), pathVar(r, "id"), req.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, a)
}

// ListAttendees handles GET /api/v1/events/{id}/attendees
func (h *Handler) ListAttendees(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	attendees, err := h.service.ListAttendees(r.Context(), pathVar(r, "id"), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(h, w, attendees, p, func(a model.EventAttendee) string { return a.ID })
}

// CancelAttendance handles DELETE /api/v1/events/{id}/attendees/{userId}
func (h *Handler) CancelAttendance(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CancelAttendance(r.Context(), pathVar(r, "id"), pathVar(r, "userId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
