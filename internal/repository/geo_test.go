package repository

import (
	"context"
	"testing"

	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeoRepository_CityUniquenessScopedToCountry(t *testing.T) {
	repos, _ := setupRepo(t)
	ctx := context.Background()

	testland, err := repos.Geo.CreateCountry(ctx, "Testland", "TL")
	require.NoError(t, err)
	otherland, err := repos.Geo.CreateCountry(ctx, "Otherland", "OL")
	require.NoError(t, err)

	_, err = repos.Geo.CreateCity(ctx, testland.ID, "Metro")
	require.NoError(t, err)

	_, err = repos.Geo.CreateCity(ctx, otherland.ID, "Metro")
	assert.NoError(t, err, "same name under a different country must succeed")

	_, err = repos.Geo.CreateCity(ctx, testland.ID, "Metro")
	assert.ErrorIs(t, err, model.ErrDuplicateName)
	assert.ErrorIs(t, err, model.ErrDuplicateKey)
}

func TestGeoRepository_DuplicatePairsPerLevel(t *testing.T) {
	repos, _ := setupRepo(t)
	ctx := context.Background()
	geo := seedGeo(t, repos)

	otherCity, err := repos.Geo.CreateCity(ctx, geo.country.ID, "Harbor")
	require.NoError(t, err)
	otherDistrict, err := repos.Geo.CreateDistrict(ctx, otherCity.ID, "Center")
	require.NoError(t, err, "district names are scoped per city")

	tests := []struct {
		name   string
		create func() error
	}{
		{"country name", func() error {
			_, err := repos.Geo.CreateCountry(ctx, "Testland", "XX")
			return err
		}},
		{"country code", func() error {
			_, err := repos.Geo.CreateCountry(ctx, "Elsewhere", "TL")
			return err
		}},
		{"district", func() error {
			_, err := repos.Geo.CreateDistrict(ctx, geo.city.ID, "Center")
			return err
		}},
		{"neighborhood", func() error {
			_, err := repos.Geo.CreateNeighborhood(ctx, geo.district.ID, "Old Town")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.create(), model.ErrDuplicateKey)
		})
	}

	_, err = repos.Geo.CreateNeighborhood(ctx, otherDistrict.ID, "Old Town")
	assert.NoError(t, err)
}

func TestGeoRepository_ParentNotFound(t *testing.T) {
	repos, _ := setupRepo(t)
	ctx := context.Background()
	missing := model.NewID()

	_, err := repos.Geo.CreateCity(ctx, missing, "Metro")
	assert.ErrorIs(t, err, model.ErrParentNotFound)

	_, err = repos.Geo.CreateDistrict(ctx, missing, "Center")
	assert.ErrorIs(t, err, model.ErrParentNotFound)

	_, err = repos.Geo.CreateNeighborhood(ctx, missing, "Old Town")
	assert.ErrorIs(t, err, model.ErrParentNotFound)
	assert.ErrorIs(t, err, model.ErrForeignKeyViolation)
}

func TestGeoRepository_GetAndFind(t *testing.T) {
	repos, _ := setupRepo(t)
	ctx := context.Background()
	geo := seedGeo(t, repos)

	c, err := repos.Geo.GetCountryByCode(ctx, "TL")
	require.NoError(t, err)
	assert.Equal(t, geo.country.ID, c.ID)

	c, err = repos.Geo.GetCountry(ctx, geo.country.ID)
	require.NoError(t, err)
	assert.Equal(t, "Testland", c.Name)

	city, err := repos.Geo.GetCity(ctx, geo.city.ID)
	require.NoError(t, err)
	assert.Equal(t, "Metro", city.Name)
	assert.Equal(t, geo.country.ID, city.CountryID)

	d, err := repos.Geo.FindDistrict(ctx, geo.city.ID, "Center")
	require.NoError(t, err)
	assert.Equal(t, geo.district.ID, d.ID)

	d, err = repos.Geo.GetDistrict(ctx, geo.district.ID)
	require.NoError(t, err)
	assert.Equal(t, geo.city.ID, d.CityID)

	n, err := repos.Geo.FindNeighborhood(ctx, geo.district.ID, "Old Town")
	require.NoError(t, err)
	assert.Equal(t, geo.neighborhood.ID, n.ID)

	_, err = repos.Geo.GetNeighborhood(ctx, model.NewID())
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = repos.Geo.FindCity(ctx, geo.country.ID, "Atlantis")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGeoRepository_ListPagination(t *testing.T) {
	repos, _ := setupRepo(t)
	ctx := context.Background()
	geo := seedGeo(t, repos)

	names := []string{"North", "South", "East", "West"}
	for _, name := range names {
		_, err := repos.Geo.CreateDistrict(ctx, geo.city.ID, name)
		require.NoError(t, err)
	}

	all, err := repos.Geo.ListDistricts(ctx, geo.city.ID, model.ListParams{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "Center", all[0].Name)

	page1, err := repos.Geo.ListDistricts(ctx, geo.city.ID, model.ListParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page1, 2)

	page2, err := repos.Geo.ListDistricts(ctx, geo.city.ID, model.ListParams{Limit: 2, After: page1[1].ID})
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, all[2].ID, page2[0].ID)

	byOffset, err := repos.Geo.ListDistricts(ctx, geo.city.ID, model.ListParams{Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, byOffset, 1)
	assert.Equal(t, all[4].ID, byOffset[0].ID)

	other, err := repos.Geo.ListDistricts(ctx, model.NewID(), model.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, other)

	cities, err := repos.Geo.ListCities(ctx, geo.country.ID, model.ListParams{})
	require.NoError(t, err)
	assert.Len(t, cities, 1)

	hoods, err := repos.Geo.ListNeighborhoods(ctx, geo.district.ID, model.ListParams{})
	require.NoError(t, err)
	require.Len(t, hoods, 1)
	assert.Equal(t, geo.neighborhood.ID, hoods[0].ID)

	_, err = repos.Geo.CreateCountry(ctx, "Otherland", "OL")
	require.NoError(t, err)
	countries, err := repos.Geo.ListCountries(ctx, model.ListParams{Limit: 1, After: geo.country.ID})
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, "OL", countries[0].Code)
}

func TestGeoRepository_DeleteRestrictsChildren(t *testing.T) {
	repos, _ := setupRepo(t)
	ctx := context.Background()
	geo := seedGeo(t, repos)

	err := repos.Geo.DeleteCountry(ctx, geo.country.ID)
	assert.ErrorIs(t, err, model.ErrHasDependents)

	err = repos.Geo.DeleteDistrict(ctx, geo.district.ID)
	assert.ErrorIs(t, err, model.ErrForeignKeyViolation)

	require.NoError(t, repos.Geo.DeleteNeighborhood(ctx, geo.neighborhood.ID))
	require.NoError(t, repos.Geo.DeleteDistrict(ctx, geo.district.ID))
	require.NoError(t, repos.Geo.DeleteCity(ctx, geo.city.ID))
	require.NoError(t, repos.Geo.DeleteCountry(ctx, geo.country.ID))

	err = repos.Geo.DeleteCountry(ctx, geo.country.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGeoRepository_BulkInsertCountriesSkipsExisting(t *testing.T) {
	repos, db := setupRepo(t)
	ctx := context.Background()

	_, err := repos.Geo.CreateCountry(ctx, "Germany", "DE")
	require.NoError(t, err)

	err = repos.Geo.BulkInsertCountries(ctx, []model.Country{
		{Name: "Germany", Code: "DE"},
		{Name: "France", Code: "FR"},
		{Name: "Ireland", Code: "IE"},
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.GetContext(ctx, &count, "SELECT COUNT(*) FROM countries"))
	assert.Equal(t, 3, count)

	empty, err := IsDatabaseEmpty(ctx, db)
	require.NoError(t, err)
	assert.False(t, empty)
}
