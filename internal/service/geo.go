package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexivanou/geocommunity/internal/model"
	"go.uber.org/zap"
)

// GeoLevel names one level of the geo tree
type GeoLevel string

const (
	LevelCountry      GeoLevel = "country"
	LevelCity         GeoLevel = "city"
	LevelDistrict     GeoLevel = "district"
	LevelNeighborhood GeoLevel = "neighborhood"
)

func (s *Service) CreateCountry(ctx context.Context, name, code string) (*model.Country, error) {
	name, nameErr := requireText("name", name, maxNameLength)
	code, codeErr := normalizeCountryCode(code)
	if err := collect(nameErr, codeErr); err != nil {
		return nil, err
	}

	c, err := s.geoRepo.CreateCountry(ctx, name, code)
	if err != nil {
		return nil, fmt.Errorf("failed to create country: %w", err)
	}
	s.logger.Info("country created", zap.String("id", c.ID), zap.String("code", c.Code))
	return c, nil
}

func (s *Service) CreateCity(ctx context.Context, countryID, name string) (*model.City, error) {
	name, err := requireText("name", name, maxNameLength)
	if err := collect(err, requireID("country_id", countryID)); err != nil {
		return nil, err
	}
	c, err := s.geoRepo.CreateCity(ctx, countryID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create city: %w", err)
	}
	return c, nil
}

func (s *Service) CreateDistrict(ctx context.Context, cityID, name string) (*model.District, error) {
	name, err := requireText("name", name, maxNameLength)
	if err := collect(err, requireID("city_id", cityID)); err != nil {
		return nil, err
	}
	d, err := s.geoRepo.CreateDistrict(ctx, cityID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create district: %w", err)
	}
	return d, nil
}

func (s *Service) CreateNeighborhood(ctx context.Context, districtID, name string) (*model.Neighborhood, error) {
	name, err := requireText("name", name, maxNameLength)
	if err := collect(err, requireID("district_id", districtID)); err != nil {
		return nil, err
	}
	n, err := s.geoRepo.CreateNeighborhood(ctx, districtID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create neighborhood: %w", err)
	}
	return n, nil
}

// GetCountry accepts either an id or an ISO code.
func (s *Service) GetCountry(ctx context.Context, idOrCode string) (*model.Country, error) {
	if code, err := normalizeCountryCode(idOrCode); err == nil {
		c, err := s.geoRepo.GetCountryByCode(ctx, code)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("failed to get country: %w", err)
		}
	}
	c, err := s.geoRepo.GetCountry(ctx, idOrCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get country: %w", err)
	}
	return c, nil
}

func (s *Service) GetCity(ctx context.Context, id string) (*model.City, error) {
	return s.geoRepo.GetCity(ctx, id)
}

func (s *Service) GetDistrict(ctx context.Context, id string) (*model.District, error) {
	return s.geoRepo.GetDistrict(ctx, id)
}

func (s *Service) GetNeighborhood(ctx context.Context, id string) (*model.Neighborhood, error) {
	return s.geoRepo.GetNeighborhood(ctx, id)
}

func (s *Service) ListCountries(ctx context.Context, p model.ListParams) ([]model.Country, error) {
	return s.geoRepo.ListCountries(ctx, p)
}

func (s *Service) ListCities(ctx context.Context, countryID string, p model.ListParams) ([]model.City, error) {
	return s.geoRepo.ListCities(ctx, countryID, p)
}

func (s *Service) ListDistricts(ctx context.Context, cityID string, p model.ListParams) ([]model.District, error) {
	return s.geoRepo.ListDistricts(ctx, cityID, p)
}

func (s *Service) ListNeighborhoods(ctx context.Context, districtID string, p model.ListParams) ([]model.Neighborhood, error) {
	return s.geoRepo.ListNeighborhoods(ctx, districtID, p)
}

// DeleteGeo removes a node of the tree. Nodes with children are refused.
func (s *Service) DeleteGeo(ctx context.Context, level GeoLevel, id string) error {
	var err error
	switch level {
	case LevelCountry:
		err = s.geoRepo.DeleteCountry(ctx, id)
	case LevelCity:
		err = s.geoRepo.DeleteCity(ctx, id)
	case LevelDistrict:
		err = s.geoRepo.DeleteDistrict(ctx, id)
	case LevelNeighborhood:
		err = s.geoRepo.DeleteNeighborhood(ctx, id)
	default:
		return invalid("level", fmt.Sprintf("unknown level %q", level))
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", level, err)
	}
	s.logger.Info("geo node deleted", zap.String("level", string(level)), zap.String("id", id))
	return nil
}
