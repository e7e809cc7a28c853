package service

import (
	"context"

	"github.com/alexivanou/geocommunity/internal/model"
)

// GeoService manages the country/city/district/neighborhood tree
type GeoService interface {
	CreateCountry(ctx context.Context, name, code string) (*model.Country, error)
	CreateCity(ctx context.Context, countryID, name string) (*model.City, error)
	CreateDistrict(ctx context.Context, cityID, name string) (*model.District, error)
	CreateNeighborhood(ctx context.Context, districtID, name string) (*model.Neighborhood, error)

	GetCountry(ctx context.Context, idOrCode string) (*model.Country, error)
	GetCity(ctx context.Context, id string) (*model.City, error)
	GetDistrict(ctx context.Context, id string) (*model.District, error)
	GetNeighborhood(ctx context.Context, id string) (*model.Neighborhood, error)

	ListCountries(ctx context.Context, p model.ListParams) ([]model.Country, error)
	ListCities(ctx context.Context, countryID string, p model.ListParams) ([]model.City, error)
	ListDistricts(ctx context.Context, cityID string, p model.ListParams) ([]model.District, error)
	ListNeighborhoods(ctx context.Context, districtID string, p model.ListParams) ([]model.Neighborhood, error)

	DeleteGeo(ctx context.Context, level GeoLevel, id string) error
}

// IdentityService manages users, credentials, sessions and linked accounts
type IdentityService interface {
	RegisterUser(ctx context.Context, in model.NewUser) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context, p model.ListParams) ([]model.User, error)
	UpdateUser(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
	ChangePassword(ctx context.Context, id, password string) error

	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	IssueSession(ctx context.Context, userID string) (*model.Session, error)
	ResolveSession(ctx context.Context, token string) (*model.SessionAndUser, error)
	RevokeSession(ctx context.Context, token string) error
	PurgeExpiredSessions(ctx context.Context) (int64, error)

	LinkAccount(ctx context.Context, in model.NewAccount) (*model.Account, error)
	GetUserByAccount(ctx context.Context, provider, providerAccountID string) (*model.User, error)
	UnlinkAccount(ctx context.Context, provider, providerAccountID string) error

	RequestEmailVerification(ctx context.Context, email string) (*model.VerificationToken, error)
	VerifyEmail(ctx context.Context, email, token string) (*model.User, error)
}

// PostService manages community posts
type PostService interface {
	CreatePost(ctx context.Context, in model.NewPost) (*model.Post, error)
	GetPost(ctx context.Context, id string) (*model.Post, error)
	UpdatePost(ctx context.Context, id string, upd model.PostUpdate) (*model.Post, error)
	ChangePostStatus(ctx context.Context, id, status string) (*model.Post, error)
	DeletePost(ctx context.Context, id string) error
	ListPosts(ctx context.Context, q PostQuery, p model.ListParams) ([]model.Post, error)
}

// InterestService manages interests and subscriptions
type InterestService interface {
	CreateInterest(ctx context.Context, name string, description *string) (*model.Interest, error)
	GetInterest(ctx context.Context, id string) (*model.Interest, error)
	ListInterests(ctx context.Context, p model.ListParams) ([]model.Interest, error)
	DeleteInterest(ctx context.Context, id string) error
	Subscribe(ctx context.Context, userID, interestID string) (*model.UserInterest, error)
	Unsubscribe(ctx context.Context, userID, interestID string) error
	ListSubscribers(ctx context.Context, interestID string, p model.ListParams) ([]model.User, error)
	ListUserInterests(ctx context.Context, userID string, p model.ListParams) ([]model.Interest, error)
}

// EventService manages events and attendance
type EventService interface {
	CreateEvent(ctx context.Context, in model.NewEvent) (*model.Event, error)
	GetEvent(ctx context.Context, id string) (*EventDetail, error)
	UpdateEvent(ctx context.Context, id string, upd model.EventUpdate) (*model.Event, error)
	ChangeEventStatus(ctx context.Context, id, status string) (*model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context, f model.EventFilter, p model.ListParams) ([]model.Event, error)

	RegisterAttendee(ctx context.Context, eventID, userID string) (*model.EventAttendee, error)
	CancelAttendance(ctx context.Context, eventID, userID string) error
	ListAttendees(ctx context.Context, eventID string, p model.ListParams) ([]model.EventAttendee, error)
	ListUserEvents(ctx context.Context, userID string, p model.ListParams) ([]model.Event, error)
}

// ServiceInterface is everything the HTTP layer depends on
type ServiceInterface interface {
	GeoService
	IdentityService
	PostService
	InterestService
	EventService
}

var _ ServiceInterface = (*Service)(nil)
