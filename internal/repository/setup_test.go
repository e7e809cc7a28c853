package repository

import (
	"context"
	"testing"

	"github.com/alexivanou/geocommunity/internal/config"
	"github.com/alexivanou/geocommunity/internal/database"
	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// setupRepo returns repositories over a fresh, migrated in-memory database.
func setupRepo(t *testing.T) (*Container, *sqlx.DB) {
	t.Helper()
	cfg := config.DBConfig{Type: config.DBTypeMemory, Name: "repo_" + model.NewID()}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, cfg, "../../migrations"))

	return NewRepositories(db, config.DBTypeMemory), db
}

type geoFixture struct {
	country      *model.Country
	city         *model.City
	district     *model.District
	neighborhood *model.Neighborhood
}

func seedGeo(t *testing.T, repos *Container) geoFixture {
	t.Helper()
	ctx := context.Background()

	country, err := repos.Geo.CreateCountry(ctx, "Testland", "TL")
	require.NoError(t, err)
	city, err := repos.Geo.CreateCity(ctx, country.ID, "Metro")
	require.NoError(t, err)
	district, err := repos.Geo.CreateDistrict(ctx, city.ID, "Center")
	require.NoError(t, err)
	hood, err := repos.Geo.CreateNeighborhood(ctx, district.ID, "Old Town")
	require.NoError(t, err)

	return geoFixture{country: country, city: city, district: district, neighborhood: hood}
}

func seedUser(t *testing.T, repos *Container, email string) *model.User {
	t.Helper()
	u := &model.User{Email: email, Name: email}
	require.NoError(t, repos.Identity.CreateUser(context.Background(), u))
	return u
}

func ptr[T any](v T) *T {
	return &v
}
