package service

import (
	"time"

	"github.com/alexivanou/geocommunity/internal/config"
	"github.com/alexivanou/geocommunity/internal/metrics"
	"github.com/alexivanou/geocommunity/internal/repository"
	"go.uber.org/zap"
)

// Service provides business logic for the API
type Service struct {
	geoRepo      repository.GeoRepository
	identityRepo repository.IdentityRepository
	postRepo     repository.PostRepository
	interestRepo repository.InterestRepository
	eventRepo    repository.EventRepository

	auth    config.AuthConfig
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService creates a new service instance
func NewService(
	repos *repository.Container,
	auth config.AuthConfig,
	logger *zap.Logger,
	m *metrics.Metrics,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Service{
		geoRepo:      repos.Geo,
		identityRepo: repos.Identity,
		postRepo:     repos.Post,
		interestRepo: repos.Interest,
		eventRepo:    repos.Event,
		auth:         auth,
		logger:       logger,
		metrics:      m,
		now:          func() time.Time { return time.Now().UTC() },
	}
}
