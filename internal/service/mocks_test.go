package service

import (
	"context"
	"time"

	"github.com/alexivanou/geocommunity/internal/config"
	"github.com/alexivanou/geocommunity/internal/metrics"
	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/alexivanou/geocommunity/internal/repository"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// Each mock embeds its repository interface; calling a method the mock does
// not override panics, which flags unexpected repository use.

type MockGeoRepository struct {
	repository.GeoRepository
	mock.Mock
}

func (m *MockGeoRepository) CreateCountry(ctx context.Context, name, code string) (*model.Country, error) {
	args := m.Called(ctx, name, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Country), args.Error(1)
}

func (m *MockGeoRepository) GetCountry(ctx context.Context, id string) (*model.Country, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Country), args.Error(1)
}

func (m *MockGeoRepository) GetCountryByCode(ctx context.Context, code string) (*model.Country, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Country), args.Error(1)
}

func (m *MockGeoRepository) DeleteDistrict(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockIdentityRepository struct {
	repository.IdentityRepository
	mock.Mock
}

func (m *MockIdentityRepository) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockIdentityRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockIdentityRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockIdentityRepository) MarkEmailVerified(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockIdentityRepository) CreateSession(ctx context.Context, userID string, expires time.Time) (*model.Session, error) {
	args := m.Called(ctx, userID, expires)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockIdentityRepository) GetSessionAndUser(ctx context.Context, token string) (*model.SessionAndUser, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionAndUser), args.Error(1)
}

func (m *MockIdentityRepository) UpdateSessionExpiry(ctx context.Context, token string, expires time.Time) error {
	args := m.Called(ctx, token, expires)
	return args.Error(0)
}

func (m *MockIdentityRepository) CreateVerificationToken(ctx context.Context, vt model.VerificationToken) error {
	args := m.Called(ctx, vt)
	return args.Error(0)
}

func (m *MockIdentityRepository) ConsumeVerificationToken(ctx context.Context, identifier, token string) (*model.VerificationToken, error) {
	args := m.Called(ctx, identifier, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerificationToken), args.Error(1)
}

type MockPostRepository struct {
	repository.PostRepository
	mock.Mock
}

func (m *MockPostRepository) TransitionPost(ctx context.Context, id string, next model.PostStatus) (*model.Post, error) {
	args := m.Called(ctx, id, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) ListPostsByDistrict(ctx context.Context, districtID string, f model.PostFilter, p model.ListParams) ([]model.Post, error) {
	args := m.Called(ctx, districtID, f, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostRepository) ListPostsByNeighborhood(ctx context.Context, neighborhoodID string, f model.PostFilter, p model.ListParams) ([]model.Post, error) {
	args := m.Called(ctx, neighborhoodID, f, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

type MockEventRepository struct {
	repository.EventRepository
	mock.Mock
}

func (m *MockEventRepository) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) CountAttendees(ctx context.Context, eventID string) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *MockEventRepository) RegisterAttendee(ctx context.Context, eventID, userID string) (*model.EventAttendee, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventAttendee), args.Error(1)
}

type mocks struct {
	geo      *MockGeoRepository
	identity *MockIdentityRepository
	post     *MockPostRepository
	event    *MockEventRepository
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, mocks) {
	m := mocks{
		geo:      &MockGeoRepository{},
		identity: &MockIdentityRepository{},
		post:     &MockPostRepository{},
		event:    &MockEventRepository{},
	}
	svc := NewService(&repository.Container{
		Geo:      m.geo,
		Identity: m.identity,
		Post:     m.post,
		Event:    m.event,
	}, config.AuthConfig{
		SessionTTL:      24 * time.Hour,
		VerificationTTL: time.Hour,
		BcryptCost:      4,
	}, zap.NewNop(), metrics.New())
	svc.now = func() time.Time { return fixedNow }
	return svc, m
}
