package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/alexivanou/geocommunity/internal/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Handler handles HTTP requests
type Handler struct {
	service service.ServiceInterface
	logger  *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(service service.ServiceInterface, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

type listResponse[T any] struct {
	Items []T    `json:"items"`
	Count int    `json:"count"`
	Next  string `json:"next,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error encoding response", zap.Error(err))
	}
}

// writeList wraps items with a cursor for the next page. The cursor is only
// set when the page is full.
func writeList[T any](h *Handler, w http.ResponseWriter, items []T, p model.ListParams, id func(T) string) {
	resp := listResponse[T]{Items: items, Count: len(items)}
	if n := len(items); n > 0 && n == p.Normalize().Limit {
		resp.Next = id(items[n-1])
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// writeError maps domain errors to HTTP statuses. Unknown errors are logged
// and reported as 500 without details.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		msg = "internal server error"
	}
	h.writeJSON(w, status, errorResponse{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrParentNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrDuplicateKey),
		errors.Is(err, model.ErrHasDependents),
		errors.Is(err, model.ErrCapacityExceeded),
		errors.Is(err, model.ErrInvalidStateTransition):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

var errBadRequest = errors.New("bad request")

type badRequest struct{ msg string }

func (e *badRequest) Error() string { return e.msg }
func (e *badRequest) Unwrap() error { return errBadRequest }

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &badRequest{msg: "invalid request body: " + err.Error()}
	}
	return nil
}

// listParams reads after, limit and offset from the query string.
func listParams(r *http.Request) (model.ListParams, error) {
	q := r.URL.Query()
	p := model.ListParams{After: q.Get("after")}

	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return p, &badRequest{msg: "invalid limit parameter"}
		}
		p.Limit = limit
	}
	if offsetStr := q.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return p, &badRequest{msg: "invalid offset parameter"}
		}
		p.Offset = offset
	}
	return p, nil
}

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
