package repository

import (
	"context"
	"time"

	"github.com/alexivanou/geocommunity/internal/config"
	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/jmoiron/sqlx"
)

// GeoRepository defines operations for the country/city/district/neighborhood tree
type GeoRepository interface {
	CreateCountry(ctx context.Context, name, code string) (*model.Country, error)
	CreateCity(ctx context.Context, countryID, name string) (*model.City, error)
	CreateDistrict(ctx context.Context, cityID, name string) (*model.District, error)
	CreateNeighborhood(ctx context.Context, districtID, name string) (*model.Neighborhood, error)

	GetCountry(ctx context.Context, id string) (*model.Country, error)
	GetCountryByCode(ctx context.Context, code string) (*model.Country, error)
	GetCity(ctx context.Context, id string) (*model.City, error)
	GetDistrict(ctx context.Context, id string) (*model.District, error)
	GetNeighborhood(ctx context.Context, id string) (*model.Neighborhood, error)

	FindCity(ctx context.Context, countryID, name string) (*model.City, error)
	FindDistrict(ctx context.Context, cityID, name string) (*model.District, error)
	FindNeighborhood(ctx context.Context, districtID, name string) (*model.Neighborhood, error)

	ListCountries(ctx context.Context, p model.ListParams) ([]model.Country, error)
	ListCities(ctx context.Context, countryID string, p model.ListParams) ([]model.City, error)
	ListDistricts(ctx context.Context, cityID string, p model.ListParams) ([]model.District, error)
	ListNeighborhoods(ctx context.Context, districtID string, p model.ListParams) ([]model.Neighborhood, error)

	DeleteCountry(ctx context.Context, id string) error
	DeleteCity(ctx context.Context, id string) error
	DeleteDistrict(ctx context.Context, id string) error
	DeleteNeighborhood(ctx context.Context, id string) error

	BulkInsertCountries(ctx context.Context, countries []model.Country) error
}

// IdentityRepository defines operations for users and their auth artifacts
type IdentityRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, p model.ListParams) ([]model.User, error)
	UpdateUser(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error)
	SetPassword(ctx context.Context, id, hash string) error
	MarkEmailVerified(ctx context.Context, id string, at time.Time) error
	DeleteUser(ctx context.Context, id string) error

	CreateSession(ctx context.Context, userID string, expires time.Time) (*model.Session, error)
	GetSessionAndUser(ctx context.Context, token string) (*model.SessionAndUser, error)
	UpdateSessionExpiry(ctx context.Context, token string, expires time.Time) error
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)

	CreateAccount(ctx context.Context, acc model.NewAccount) (*model.Account, error)
	GetUserByAccount(ctx context.Context, provider, providerAccountID string) (*model.User, error)
	ListAccounts(ctx context.Context, userID string) ([]model.Account, error)
	UnlinkAccount(ctx context.Context, provider, providerAccountID string) error

	CreateVerificationToken(ctx context.Context, vt model.VerificationToken) error
	ConsumeVerificationToken(ctx context.Context, identifier, token string) (*model.VerificationToken, error)
}

// PostRepository defines operations for posts
type PostRepository interface {
	CreatePost(ctx context.Context, in model.NewPost) (*model.Post, error)
	GetPost(ctx context.Context, id string) (*model.Post, error)
	UpdatePost(ctx context.Context, id string, upd model.PostUpdate) (*model.Post, error)
	TransitionPost(ctx context.Context, id string, next model.PostStatus) (*model.Post, error)
	DeletePost(ctx context.Context, id string) error
	ListPostsByDistrict(ctx context.Context, districtID string, f model.PostFilter, p model.ListParams) ([]model.Post, error)
	ListPostsByNeighborhood(ctx context.Context, neighborhoodID string, f model.PostFilter, p model.ListParams) ([]model.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID string, f model.PostFilter, p model.ListParams) ([]model.Post, error)
}

// InterestRepository defines operations for interests and subscriptions
type InterestRepository interface {
	CreateInterest(ctx context.Context, name string, description *string) (*model.Interest, error)
	GetInterest(ctx context.Context, id string) (*model.Interest, error)
	ListInterests(ctx context.Context, p model.ListParams) ([]model.Interest, error)
	DeleteInterest(ctx context.Context, id string) error
	Subscribe(ctx context.Context, userID, interestID string) (*model.UserInterest, error)
	Unsubscribe(ctx context.Context, userID, interestID string) error
	ListUsersByInterest(ctx context.Context, interestID string, p model.ListParams) ([]model.User, error)
	ListInterestsByUser(ctx context.Context, userID string, p model.ListParams) ([]model.Interest, error)
}

// EventRepository defines operations for events and attendance
type EventRepository interface {
	CreateEvent(ctx context.Context, in model.NewEvent) (*model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	UpdateEvent(ctx context.Context, id string, upd model.EventUpdate) (*model.Event, error)
	TransitionEvent(ctx context.Context, id string, next model.EventStatus) (*model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context, f model.EventFilter, p model.ListParams) ([]model.Event, error)

	RegisterAttendee(ctx context.Context, eventID, userID string) (*model.EventAttendee, error)
	CancelAttendance(ctx context.Context, eventID, userID string) error
	ListAttendees(ctx context.Context, eventID string, p model.ListParams) ([]model.EventAttendee, error)
	CountAttendees(ctx context.Context, eventID string) (int, error)
	ListEventsByAttendee(ctx context.Context, userID string, p model.ListParams) ([]model.Event, error)
}

// Container holds all repositories
type Container struct {
	Geo      GeoRepository
	Identity IdentityRepository
	Post     PostRepository
	Interest InterestRepository
	Event    EventRepository
}

// NewRepositories creates repository implementations based on DB type
func NewRepositories(db *sqlx.DB, dbType config.DBType) *Container {
	var s store
	if dbType == config.DBTypePostgreSQL {
		s = store{db: db, d: pgDialect{}}
	} else {
		// Default to SQLite
		s = store{db: db, d: sqliteDialect{}}
	}

	return &Container{
		Geo:      &geoRepository{store: s},
		Identity: &identityRepository{store: s},
		Post:     &postRepository{store: s},
		Interest: &interestRepository{store: s},
		Event:    &eventRepository{store: s},
	}
}

// IsDatabaseEmpty reports whether no reference data has been loaded yet
func IsDatabaseEmpty(ctx context.Context, db *sqlx.DB) (bool, error) {
	var count int
	err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM countries")
	if err != nil {
		// Simplify error handling for non-existent tables
		return true, nil
	}
	return count == 0, nil
}
