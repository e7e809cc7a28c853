package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexivanou/geocommunity/internal/metrics"
	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/alexivanou/geocommunity/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockService is a mock implementation of ServiceInterface. Methods a test
// does not stub fall through to the nil embedded interface and panic.
type MockService struct {
	service.ServiceInterface
	mock.Mock
}

func (m *MockService) GetCountry(ctx context.Context, idOrCode string) (*model.Country, error) {
	args := m.Called(ctx, idOrCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Country), args.Error(1)
}

func (m *MockService) ListCountries(ctx context.Context, p model.ListParams) ([]model.Country, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Country), args.Error(1)
}

func (m *MockService) DeleteGeo(ctx context.Context, level service.GeoLevel, id string) error {
	args := m.Called(ctx, level, id)
	return args.Error(0)
}

func (m *MockService) CreatePost(ctx context.Context, in model.NewPost) (*model.Post, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockService) ListPosts(ctx context.Context, q service.PostQuery, p model.ListParams) ([]model.Post, error) {
	args := m.Called(ctx, q, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockService) RegisterAttendee(ctx context.Context, eventID, userID string) (*model.EventAttendee, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventAttendee), args.Error(1)
}

func (m *MockService) ChangeEventStatus(ctx context.Context, id, status string) (*model.Event, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func newTestRouter(ms *MockService) http.Handler {
	return NewRouter(ms, nil, metrics.New(), zap.NewNop())
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", &badRequest{msg: "x"}, http.StatusBadRequest},
		{"credentials", model.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not found", fmt.Errorf("event e1: %w", model.ErrNotFound), http.StatusNotFound},
		{"token", model.ErrTokenNotFoundOrExpired, http.StatusNotFound},
		{"parent", model.ErrParentNotFound, http.StatusUnprocessableEntity},
		{"validation", &model.ValidationError{Field: "name", Message: "is required"}, http.StatusUnprocessableEntity},
		{"location mismatch", model.ErrLocationMismatch, http.StatusUnprocessableEntity},
		{"duplicate", model.ErrDuplicateEmail, http.StatusConflict},
		{"already registered", model.ErrAlreadyRegistered, http.StatusConflict},
		{"dependents", model.ErrHasDependents, http.StatusConflict},
		{"full", model.ErrEventFull, http.StatusConflict},
		{"not open", model.ErrEventNotOpen, http.StatusConflict},
		{"transition", &model.TransitionError{Entity: "post", From: "DRAFT", To: "ARCHIVED"}, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestHandler_GetCountry(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		mockSetup      func(*MockService)
		expectedStatus int
	}{
		{
			name: "by code",
			id:   "IE",
			mockSetup: func(ms *MockService) {
				ms.On("GetCountry", mock.Anything, "IE").Return(&model.Country{ID: "c1", Name: "Ireland", Code: "IE"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			id:   "ZZ",
			mockSetup: func(ms *MockService) {
				ms.On("GetCountry", mock.Anything, "ZZ").Return(nil, fmt.Errorf("country ZZ: %w", model.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "internal error hides details",
			id:   "IE",
			mockSetup: func(ms *MockService) {
				ms.On("GetCountry", mock.Anything, "IE").Return(nil, errors.New("connection reset"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := new(MockService)
			tt.mockSetup(ms)

			rr := serve(newTestRouter(ms), "GET", "/api/v1/countries/"+tt.id, "")

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.NotContains(t, rr.Body.String(), "connection reset")
			ms.AssertExpectations(t)
		})
	}
}

func TestHandler_ListCountries_Pagination(t *testing.T) {
	ms := new(MockService)
	ms.On("ListCountries", mock.Anything, model.ListParams{After: "c0", Limit: 2}).
		Return([]model.Country{{ID: "c1", Code: "AA"}, {ID: "c2", Code: "BB"}}, nil)

	rr := serve(newTestRouter(ms), "GET", "/api/v1/countries?after=c0&limit=2", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var resp listResponse[model.Country]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "c2", resp.Next)
	ms.AssertExpectations(t)
}

func TestHandler_ListParams_Invalid(t *testing.T) {
	ms := new(MockService)
	h := newTestRouter(ms)

	for _, q := range []string{"limit=abc", "limit=0", "offset=-1"} {
		rr := serve(h, "GET", "/api/v1/countries?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, q)
	}
	ms.AssertNotCalled(t, "ListCountries", mock.Anything, mock.Anything)
}

func TestHandler_DeleteDistrict(t *testing.T) {
	ms := new(MockService)
	ms.On("DeleteGeo", mock.Anything, service.LevelDistrict, "d1").Return(nil).Once()
	ms.On("DeleteGeo", mock.Anything, service.LevelDistrict, "d2").Return(model.ErrHasDependents).Once()
	h := newTestRouter(ms)

	assert.Equal(t, http.StatusNoContent, serve(h, "DELETE", "/api/v1/districts/d1", "").Code)
	assert.Equal(t, http.StatusConflict, serve(h, "DELETE", "/api/v1/districts/d2", "").Code)
	ms.AssertExpectations(t)
}

func TestHandler_CreatePost(t *testing.T) {
	ms := new(MockService)
	ms.On("CreatePost", mock.Anything, mock.MatchedBy(func(in model.NewPost) bool {
		return in.AuthorID == "u1" && in.Title == "Lost cat" &&
			in.Location.NeighborhoodID != nil && *in.Location.NeighborhoodID == "n1"
	})).Return(&model.Post{ID: "p1", Title: "Lost cat", Status: model.PostDraft}, nil)
	h := newTestRouter(ms)

	rr := serve(h, "POST", "/api/v1/posts",
		`{"author_id":"u1","title":"Lost cat","description":"grey","location":{"neighborhood_id":"n1"}}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var post model.Post
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &post))
	assert.Equal(t, "p1", post.ID)

	rr = serve(h, "POST", "/api/v1/posts", `{"author_id":"u1","unknown":true}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	ms.AssertNumberOfCalls(t, "CreatePost", 1)
}

func TestHandler_ListPosts_Query(t *testing.T) {
	ms := new(MockService)
	ms.On("ListPosts", mock.Anything,
		service.PostQuery{DistrictID: "d1", Status: "PUBLISHED"},
		model.ListParams{}).Return([]model.Post{}, nil)

	rr := serve(newTestRouter(ms), "GET", "/api/v1/posts?district_id=d1&status=PUBLISHED", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	ms.AssertExpectations(t)
}

func TestHandler_RegisterAttendee(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(*MockService)
		expectedStatus int
	}{
		{
			name: "registered",
			body: `{"user_id":"u1"}`,
			mockSetup: func(ms *MockService) {
				ms.On("RegisterAttendee", mock.Anything, "e1", "u1").
					Return(&model.EventAttendee{ID: "a1", EventID: "e1", UserID: "u1"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "full",
			body: `{"user_id":"u1"}`,
			mockSetup: func(ms *MockService) {
				ms.On("RegisterAttendee", mock.Anything, "e1", "u1").Return(nil, model.ErrEventFull)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "unknown user",
			body: `{"user_id":"u1"}`,
			mockSetup: func(ms *MockService) {
				ms.On("RegisterAttendee", mock.Anything, "e1", "u1").Return(nil, model.ErrParentNotFound)
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "missing user id",
			body:           `{}`,
			mockSetup:      func(ms *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := new(MockService)
			tt.mockSetup(ms)

			rr := serve(newTestRouter(ms), "POST", "/api/v1/events/e1/attendees", tt.body)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			ms.AssertExpectations(t)
		})
	}
}

func TestHandler_ChangeEventStatus(t *testing.T) {
	ms := new(MockService)
	ms.On("ChangeEventStatus", mock.Anything, "e1", "COMPLETED").
		Return(nil, &model.TransitionError{Entity: "event", From: "SCHEDULED", To: "COMPLETED"})

	rr := serve(newTestRouter(ms), "PUT", "/api/v1/events/e1/status", `{"status":"COMPLETED"}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "SCHEDULED")
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	ms := new(MockService)
	ms.On("GetCountry", mock.Anything, "IE").Return(&model.Country{ID: "c1", Code: "IE"}, nil)
	m := metrics.New()
	h := NewRouter(ms, nil, m, zap.NewNop())

	serve(h, "GET", "/api/v1/countries/IE", "")
	rr := serve(h, "GET", "/metrics", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `route="/api/v1/countries/{id}"`)
}

func TestHandler_HealthCheck(t *testing.T) {
	rr := serve(newTestRouter(new(MockService)), "GET", "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}
