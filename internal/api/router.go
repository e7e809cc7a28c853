package api

import (
	"github.com/alexivanou/geocommunity/internal/metrics"
	"github.com/alexivanou/geocommunity/internal/service"
	"github.com/alexivanou/geocommunity/internal/stats"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter creates a new HTTP router
func NewRouter(svc service.ServiceInterface, statsCollector *stats.Collector, m *metrics.Metrics, logger *zap.Logger) *mux.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	handler := NewHandler(svc, logger)

	router := mux.NewRouter()
	router.Use(instrument(m, logger))

	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	router.Handle("/metrics", m.Handler()).Methods("GET")

	v1 := router.PathPrefix("/api/v1").Subrouter()

	// Geo
	v1.HandleFunc("/countries", handler.ListCountries).Methods("GET")
	v1.HandleFunc("/countries", handler.CreateCountry).Methods("POST")
	v1.HandleFunc("/countries/{id}", handler.GetCountry).Methods("GET")
	v1.HandleFunc("/countries/{id}", handler.deleteGeo(service.LevelCountry)).Methods("DELETE")
	v1.HandleFunc("/countries/{id}/cities", handler.ListCities).Methods("GET")
	v1.HandleFunc("/countries/{id}/cities", handler.CreateCity).Methods("POST")
	v1.HandleFunc("/cities/{id}", handler.GetCity).Methods("GET")
	v1.HandleFunc("/cities/{id}", handler.deleteGeo(service.LevelCity)).Methods("DELETE")
	v1.HandleFunc("/cities/{id}/districts", handler.ListDistricts).Methods("GET")
	v1.HandleFunc("/cities/{id}/districts", handler.CreateDistrict).Methods("POST")
	v1.HandleFunc("/districts/{id}", handler.GetDistrict).Methods("GET")
	v1.HandleFunc("/districts/{id}", handler.deleteGeo(service.LevelDistrict)).Methods("DELETE")
	v1.HandleFunc("/districts/{id}/neighborhoods", handler.ListNeighborhoods).Methods("GET")
	v1.HandleFunc("/districts/{id}/neighborhoods", handler.CreateNeighborhood).Methods("POST")
	v1.HandleFunc("/neighborhoods/{id}", handler.GetNeighborhood).Methods("GET")
	v1.HandleFunc("/neighborhoods/{id}", handler.deleteGeo(service.LevelNeighborhood)).Methods("DELETE")

	// Users
	v1.HandleFunc("/users", handler.ListUsers).Methods("GET")
	v1.HandleFunc("/users", handler.CreateUser).Methods("POST")
	v1.HandleFunc("/users/{id}", handler.GetUser).Methods("GET")
	v1.HandleFunc("/users/{id}", handler.UpdateUser).Methods("PATCH")
	v1.HandleFunc("/users/{id}", handler.DeleteUser).Methods("DELETE")
	v1.HandleFunc("/users/{id}/interests", handler.ListUserInterests).Methods("GET")
	v1.HandleFunc("/users/{id}/interests/{interestId}", handler.Subscribe).Methods("PUT")
	v1.HandleFunc("/users/{id}/interests/{interestId}", handler.Unsubscribe).Methods("DELETE")
	v1.HandleFunc("/users/{id}/events", handler.ListUserEvents).Methods("GET")

	// Posts
	v1.HandleFunc("/posts", handler.ListPosts).Methods("GET")
	v1.HandleFunc("/posts", handler.CreatePost).Methods("POST")
	v1.HandleFunc("/posts/{id}", handler.GetPost).Methods("GET")
	v1.HandleFunc("/posts/{id}", handler.UpdatePost).Methods("PATCH")
	v1.HandleFunc("/posts/{id}", handler.DeletePost).Methods("DELETE")
	v1.HandleFunc("/posts/{id}/status", handler.ChangePostStatus).Methods("PUT")

	// Interests
	v1.HandleFunc("/interests", handler.ListInterests).Methods("GET")
	v1.HandleFunc("/interests", handler.CreateInterest).Methods("POST")
	v1.HandleFunc("/interests/{id}", handler.GetInterest).Methods("GET")
	v1.HandleFunc("/interests/{id}", handler.DeleteInterest).Methods("DELETE")
	v1.HandleFunc("/interests/{id}/subscribers", handler.ListSubscribers).Methods("GET")

	// Events
	v1.HandleFunc("/events", handler.ListEvents).Methods("GET")
	v1.HandleFunc("/events", handler.CreateEvent).Methods("POST")
	v1.HandleFunc("/events/{id}", handler.GetEvent).Methods("GET")
	v1.HandleFunc("/events/{id}", handler.UpdateEvent).Methods("PATCH")
	v1.HandleFunc("/events/{id}", handler.DeleteEvent).Methods("DELETE")
	v1.HandleFunc("/events/{id}/status", handler.ChangeEventStatus).Methods("PUT")
	v1.HandleFunc("/events/{id}/attendees", handler.ListAttendees).Methods("GET")
	v1.HandleFunc("/events/{id}/attendees", handler.RegisterAttendee).Methods("POST")
	v1.HandleFunc("/events/{id}/attendees/{userId}", handler.CancelAttendance).Methods("DELETE")

	if statsCollector != nil {
		statsHandler := NewStatsHandler(statsCollector, logger)
		v1.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")
	}

	return router
}
