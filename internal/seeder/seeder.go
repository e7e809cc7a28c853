package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/alexivanou/geocommunity/internal/repository"
	"go.uber.org/zap"
)

// Result counts the rows created by one import run
type Result struct {
	Countries     int
	Cities        int
	Districts     int
	Neighborhoods int
	Skipped       int
}

// Seeder imports reference geo data. Running it twice creates nothing new.
type Seeder struct {
	geo    repository.GeoRepository
	parser *Parser
	logger *zap.Logger

	known         map[string]bool   // codes present in the country file
	countries     map[string]string // code -> id
	cities        map[[2]string]string
	districts     map[[2]string]string
	neighborhoods map[[2]string]string
}

// New creates a seeder that writes through geo
func New(geo repository.GeoRepository, parser *Parser, logger *zap.Logger) *Seeder {
	return &Seeder{
		geo:           geo,
		parser:        parser,
		logger:        logger,
		countries:     make(map[string]string),
		cities:        make(map[[2]string]string),
		districts:     make(map[[2]string]string),
		neighborhoods: make(map[[2]string]string),
	}
}

// Run imports countries first, then every place below them.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	s.logger.Info("Parsing countries...")
	countries, err := s.parser.ParseCountries()
	if err != nil {
		return nil, err
	}

	s.known = CreateCountryCodeMap(countries)

	before, err := s.countCountries(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Inserting countries...", zap.Int("parsed", len(countries)))
	if err := s.geo.BulkInsertCountries(ctx, countries); err != nil {
		return nil, fmt.Errorf("failed to insert countries: %w", err)
	}
	after, err := s.countCountries(ctx)
	if err != nil {
		return nil, err
	}
	res.Countries = after - before

	s.logger.Info("Importing places (streaming mode)...")
	err = s.parser.ProcessPlaces(func(batch []Place) error {
		for _, place := range batch {
			if err := s.importPlace(ctx, place, res); err != nil {
				return err
			}
		}
		s.logger.Debug("places batch imported", zap.Int("size", len(batch)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Data import completed",
		zap.Int("countries", res.Countries),
		zap.Int("cities", res.Cities),
		zap.Int("districts", res.Districts),
		zap.Int("neighborhoods", res.Neighborhoods),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

func (s *Seeder) countCountries(ctx context.Context) (int, error) {
	total := 0
	p := model.ListParams{Limit: model.MaxListLimit}
	for {
		page, err := s.geo.ListCountries(ctx, p)
		if err != nil {
			return 0, fmt.Errorf("failed to list countries: %w", err)
		}
		total += len(page)
		if len(page) < p.Limit {
			return total, nil
		}
		p.After = page[len(page)-1].ID
	}
}

func (s *Seeder) countryID(ctx context.Context, code string) (string, error) {
	if id, ok := s.countries[code]; ok {
		return id, nil
	}
	c, err := s.geo.GetCountryByCode(ctx, code)
	if errors.Is(err, model.ErrNotFound) {
		s.countries[code] = ""
		return "", nil
	}
	if err != nil {
		return "", err
	}
	s.countries[code] = c.ID
	return c.ID, nil
}

func (s *Seeder) importPlace(ctx context.Context, place Place, res *Result) error {
	if !s.known[place.CountryCode] {
		res.Skipped++
		return nil
	}
	countryID, err := s.countryID(ctx, place.CountryCode)
	if err != nil {
		return err
	}
	if countryID == "" {
		res.Skipped++
		return nil
	}

	cityID, err := ensure(s.cities, countryID, place.City, &res.Cities,
		func() (string, error) {
			c, err := s.geo.FindCity(ctx, countryID, place.City)
			if err != nil {
				return "", err
			}
			return c.ID, nil
		},
		func() (string, error) {
			c, err := s.geo.CreateCity(ctx, countryID, place.City)
			if err != nil {
				return "", err
			}
			return c.ID, nil
		})
	if err != nil || place.District == "" {
		return err
	}

	districtID, err := ensure(s.districts, cityID, place.District, &res.Districts,
		func() (string, error) {
			d, err := s.geo.FindDistrict(ctx, cityID, place.District)
			if err != nil {
				return "", err
			}
			return d.ID, nil
		},
		func() (string, error) {
			d, err := s.geo.CreateDistrict(ctx, cityID, place.District)
			if err != nil {
				return "", err
			}
			return d.ID, nil
		})
	if err != nil || place.Neighborhood == "" {
		return err
	}

	_, err = ensure(s.neighborhoods, districtID, place.Neighborhood, &res.Neighborhoods,
		func() (string, error) {
			n, err := s.geo.FindNeighborhood(ctx, districtID, place.Neighborhood)
			if err != nil {
				return "", err
			}
			return n.ID, nil
		},
		func() (string, error) {
			n, err := s.geo.CreateNeighborhood(ctx, districtID, place.Neighborhood)
			if err != nil {
				return "", err
			}
			return n.ID, nil
		})
	return err
}

// ensure returns the id of (parentID, name), looking it up in cache, then
// the database, and creating it as a last step. A concurrent insert that wins
// the race is picked up by a second lookup.
func ensure(
	cache map[[2]string]string,
	parentID, name string,
	created *int,
	find, create func() (string, error),
) (string, error) {
	key := [2]string{parentID, name}
	if id, ok := cache[key]; ok {
		return id, nil
	}

	id, err := find()
	if errors.Is(err, model.ErrNotFound) {
		id, err = create()
		if err == nil {
			*created++
		} else if errors.Is(err, model.ErrDuplicateName) {
			id, err = find()
		}
	}
	if err != nil {
		return "", fmt.Errorf("failed to import %q: %w", name, err)
	}

	cache[key] = id
	return id, nil
}
