package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/jmoiron/sqlx"
)

const (
	countryColumns      = "id, name, code, created_at, updated_at"
	cityColumns         = "id, name, country_id, created_at, updated_at"
	districtColumns     = "id, name, city_id, created_at, updated_at"
	neighborhoodColumns = "id, name, district_id, created_at, updated_at"
)

// geoLevel describes one level of the hierarchy below Country.
type geoLevel struct {
	label       string
	table       string
	parentLabel string
	parentTable string
	parentCol   string
	columns     string
}

var (
	cityLevel         = geoLevel{"city", "cities", "country", "countries", "country_id", cityColumns}
	districtLevel     = geoLevel{"district", "districts", "city", "cities", "city_id", districtColumns}
	neighborhoodLevel = geoLevel{"neighborhood", "neighborhoods", "district", "districts", "district_id", neighborhoodColumns}
)

type geoRepository struct {
	store
}

func (r *geoRepository) CreateCountry(ctx context.Context, name, code string) (*model.Country, error) {
	ts := now()
	c := &model.Country{ID: model.NewID(), Name: name, Code: code, CreatedAt: ts, UpdatedAt: ts}

	_, err := sqlx.NamedExecContext(ctx, r.db, `
		INSERT INTO countries (id, name, code, created_at, updated_at)
		VALUES (:id, :name, :code, :created_at, :updated_at)`, c)
	if err != nil {
		return nil, r.translate(err, fmt.Errorf("country %q/%q: %w", name, code, model.ErrDuplicateName), nil)
	}
	return c, nil
}

// createChild inserts row into lvl.table after checking that its parent
// exists, all in one transaction.
func (r *geoRepository) createChild(ctx context.Context, lvl geoLevel, parentID, name string, row any) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		ok, err := exists(ctx, tx, lvl.parentTable, parentID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s %s: %w", lvl.parentLabel, parentID, model.ErrParentNotFound)
		}

		q := fmt.Sprintf(`INSERT INTO %s (id, name, %s, created_at, updated_at)
			VALUES (:id, :name, :%s, :created_at, :updated_at)`, lvl.table, lvl.parentCol, lvl.parentCol)
		if _, err := sqlx.NamedExecContext(ctx, tx, q, row); err != nil {
			return r.translate(err,
				fmt.Errorf("%s %q in %s %s: %w", lvl.label, name, lvl.parentLabel, parentID, model.ErrDuplicateName),
				fmt.Errorf("%s %s: %w", lvl.parentLabel, parentID, model.ErrParentNotFound))
		}
		return nil
	})
}

func (r *geoRepository) CreateCity(ctx context.Context, countryID, name string) (*model.City, error) {
	ts := now()
	c := &model.City{ID: model.NewID(), Name: name, CountryID: countryID, CreatedAt: ts, UpdatedAt: ts}
	if err := r.createChild(ctx, cityLevel, countryID, name, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *geoRepository) CreateDistrict(ctx context.Context, cityID, name string) (*model.District, error) {
	ts := now()
	d := &model.District{ID: model.NewID(), Name: name, CityID: cityID, CreatedAt: ts, UpdatedAt: ts}
	if err := r.createChild(ctx, districtLevel, cityID, name, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *geoRepository) CreateNeighborhood(ctx context.Context, districtID, name string) (*model.Neighborhood, error) {
	ts := now()
	n := &model.Neighborhood{ID: model.NewID(), Name: name, DistrictID: districtID, CreatedAt: ts, UpdatedAt: ts}
	if err := r.createChild(ctx, neighborhoodLevel, districtID, name, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *geoRepository) getOne(ctx context.Context, dest any, what, query string, args ...any) error {
	err := get(ctx, r.db, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, model.ErrNotFound)
	}
	return err
}

func (r *geoRepository) GetCountry(ctx context.Context, id string) (*model.Country, error) {
	var c model.Country
	if err := r.getOne(ctx, &c, "country "+id, "SELECT "+countryColumns+" FROM countries WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *geoRepository) GetCountryByCode(ctx context.Context, code string) (*model.Country, error) {
	var c model.Country
	if err := r.getOne(ctx, &c, "country "+code, "SELECT "+countryColumns+" FROM countries WHERE code = ?", code); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *geoRepository) GetCity(ctx context.Context, id string) (*model.City, error) {
	var c model.City
	if err := r.getOne(ctx, &c, "city "+id, "SELECT "+cityColumns+" FROM cities WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *geoRepository) GetDistrict(ctx context.Context, id string) (*model.District, error) {
	var d model.District
	if err := r.getOne(ctx, &d, "district "+id, "SELECT "+districtColumns+" FROM districts WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *geoRepository) GetNeighborhood(ctx context.Context, id string) (*model.Neighborhood, error) {
	var n model.Neighborhood
	if err := r.getOne(ctx, &n, "neighborhood "+id, "SELECT "+neighborhoodColumns+" FROM neighborhoods WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *geoRepository) findChild(ctx context.Context, lvl geoLevel, parentID, name string, dest any) error {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? AND name = ?", lvl.columns, lvl.table, lvl.parentCol)
	return r.getOne(ctx, dest, fmt.Sprintf("%s %q", lvl.label, name), q, parentID, name)
}

func (r *geoRepository) FindCity(ctx context.Context, countryID, name string) (*model.City, error) {
	var c model.City
	if err := r.findChild(ctx, cityLevel, countryID, name, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *geoRepository) FindDistrict(ctx context.Context, cityID, name string) (*model.District, error) {
	var d model.District
	if err := r.findChild(ctx, districtLevel, cityID, name, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *geoRepository) FindNeighborhood(ctx context.Context, districtID, name string) (*model.Neighborhood, error) {
	var n model.Neighborhood
	if err := r.findChild(ctx, neighborhoodLevel, districtID, name, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *geoRepository) ListCountries(ctx context.Context, p model.ListParams) ([]model.Country, error) {
	q, args := newListQuery("SELECT "+countryColumns+" FROM countries", "id").build(p)
	countries := []model.Country{}
	if err := selectAll(ctx, r.db, &countries, q, args...); err != nil {
		return nil, err
	}
	return countries, nil
}

func (r *geoRepository) listChildren(ctx context.Context, lvl geoLevel, parentID string, p model.ListParams, dest any) error {
	lq := newListQuery(fmt.Sprintf("SELECT %s FROM %s", lvl.columns, lvl.table), "id")
	if parentID != "" {
		lq.where(lvl.parentCol+" = ?", parentID)
	}
	q, args := lq.build(p)
	return selectAll(ctx, r.db, dest, q, args...)
}

func (r *geoRepository) ListCities(ctx context.Context, countryID string, p model.ListParams) ([]model.City, error) {
	cities := []model.City{}
	if err := r.listChildren(ctx, cityLevel, countryID, p, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

func (r *geoRepository) ListDistricts(ctx context.Context, cityID string, p model.ListParams) ([]model.District, error) {
	districts := []model.District{}
	if err := r.listChildren(ctx, districtLevel, cityID, p, &districts); err != nil {
		return nil, err
	}
	return districts, nil
}

func (r *geoRepository) ListNeighborhoods(ctx context.Context, districtID string, p model.ListParams) ([]model.Neighborhood, error) {
	hoods := []model.Neighborhood{}
	if err := r.listChildren(ctx, neighborhoodLevel, districtID, p, &hoods); err != nil {
		return nil, err
	}
	return hoods, nil
}

// deleteRow removes a geo row; children are RESTRICTed by the schema, so a
// foreign key error means the row still has dependents.
func (r *geoRepository) deleteRow(ctx context.Context, label, table, id string) error {
	res, err := exec(ctx, r.db, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return r.translate(err, nil, fmt.Errorf("%s %s: %w", label, id, model.ErrHasDependents))
	}
	return requireAffected(res, label+" "+id)
}

func (r *geoRepository) DeleteCountry(ctx context.Context, id string) error {
	return r.deleteRow(ctx, "country", "countries", id)
}

func (r *geoRepository) DeleteCity(ctx context.Context, id string) error {
	return r.deleteRow(ctx, cityLevel.label, cityLevel.table, id)
}

func (r *geoRepository) DeleteDistrict(ctx context.Context, id string) error {
	return r.deleteRow(ctx, districtLevel.label, districtLevel.table, id)
}

func (r *geoRepository) DeleteNeighborhood(ctx context.Context, id string) error {
	return r.deleteRow(ctx, neighborhoodLevel.label, neighborhoodLevel.table, id)
}

// BulkInsertCountries inserts reference countries, skipping rows whose name
// or code already exists.
func (r *geoRepository) BulkInsertCountries(ctx context.Context, countries []model.Country) error {
	ts := now()
	for i := range countries {
		if countries[i].ID == "" {
			countries[i].ID = model.NewID()
		}
		if countries[i].CreatedAt.IsZero() {
			countries[i].CreatedAt = ts
			countries[i].UpdatedAt = ts
		}
	}

	chunkSize := r.d.batchSize(5)
	for i := 0; i < len(countries); i += chunkSize {
		end := i + chunkSize
		if end > len(countries) {
			end = len(countries)
		}
		batch := countries[i:end]

		_, err := sqlx.NamedExecContext(ctx, r.db, `
		INSERT INTO countries (id, name, code, created_at, updated_at)
		VALUES (:id, :name, :code, :created_at, :updated_at)
		ON CONFLICT DO NOTHING`,
			batch)
		if err != nil {
			return r.translate(err, nil, nil)
		}
	}
	return nil
}
