package seeder

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexivanou/geocommunity/internal/config"
	"github.com/alexivanou/geocommunity/internal/model"
)

const (
	countriesFile = "countryInfo.txt"
	placesFile    = "places.tsv"
	placesZip     = "places.zip"
)

// Place is one row of places.tsv: a city with an optional district and
// neighborhood below it.
type Place struct {
	CountryCode  string
	City         string
	District     string
	Neighborhood string
}

// Parser parses reference data files
type Parser struct {
	dataDir          string
	batchSize        int
	allowedCountries map[string]bool
}

// NewParser creates a new parser instance with config
func NewParser(dataDir string, seederCfg config.SeederConfig) *Parser {
	allowed := make(map[string]bool)
	for _, code := range seederCfg.AllowedCountries {
		allowed[strings.ToUpper(strings.TrimSpace(code))] = true
	}

	return &Parser{
		dataDir:          dataDir,
		batchSize:        seederCfg.BatchSize,
		allowedCountries: allowed,
	}
}

func (p *Parser) countryAllowed(code string) bool {
	return len(p.allowedCountries) == 0 || p.allowedCountries[code]
}

// ParseCountries parses countryInfo.txt (GeoNames format)
func (p *Parser) ParseCountries() ([]model.Country, error) {
	filePath := filepath.Join(p.dataDir, countriesFile)
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", countriesFile, err)
	}
	defer file.Close()

	return p.parseCountriesFromReader(file)
}

func (p *Parser) parseCountriesFromReader(reader io.Reader) ([]model.Country, error) {
	var countries []model.Country
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(reader)

	for scanner.Scan() {
		line := scanner.Text()

		// Skip comments
		if strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		// ISO code is column 0, the English name column 4
		if len(parts) < 5 {
			continue
		}

		code := strings.ToUpper(strings.TrimSpace(parts[0]))
		name := strings.TrimSpace(parts[4])
		if code == "" || name == "" || seen[code] || !p.countryAllowed(code) {
			continue
		}
		seen[code] = true

		countries = append(countries, model.Country{Code: code, Name: name})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", countriesFile, err)
	}

	return countries, nil
}

// ProcessPlaces streams places.tsv (or places.zip) and hands batches of
// distinct places to callback.
func (p *Parser) ProcessPlaces(callback func(batch []Place) error) error {
	zipPath := filepath.Join(p.dataDir, placesZip)
	if _, err := os.Stat(zipPath); err == nil {
		r, err := zip.OpenReader(zipPath)
		if err != nil {
			return fmt.Errorf("failed to open zip: %w", err)
		}
		defer r.Close()

		for _, f := range r.File {
			if strings.HasSuffix(f.Name, ".tsv") || strings.HasSuffix(f.Name, ".txt") {
				rc, err := f.Open()
				if err != nil {
					return fmt.Errorf("failed to open file in zip: %w", err)
				}
				defer rc.Close()
				return p.processPlacesFromReader(rc, callback)
			}
		}
		return fmt.Errorf("no tsv file found in zip")
	}

	file, err := os.Open(filepath.Join(p.dataDir, placesFile))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", placesFile, err)
	}
	defer file.Close()

	return p.processPlacesFromReader(file, callback)
}

func (p *Parser) processPlacesFromReader(reader io.Reader, callback func(batch []Place) error) error {
	scanner := bufio.NewScanner(reader)

	batchSize := p.batchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	batch := make([]Place, 0, batchSize)
	seen := make(map[Place]bool)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		place := Place{CountryCode: strings.ToUpper(parts[0]), City: parts[1]}
		if len(parts) > 2 {
			place.District = parts[2]
		}
		if len(parts) > 3 {
			place.Neighborhood = parts[3]
		}

		if place.CountryCode == "" || place.City == "" || !p.countryAllowed(place.CountryCode) {
			continue
		}
		// a neighborhood always needs its district
		if place.Neighborhood != "" && place.District == "" {
			continue
		}
		if seen[place] {
			continue
		}
		seen[place] = true

		batch = append(batch, place)
		if len(batch) >= batchSize {
			if err := callback(batch); err != nil {
				return fmt.Errorf("places callback error: %w", err)
			}
			batch = batch[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to scan places: %w", err)
	}

	if len(batch) > 0 {
		if err := callback(batch); err != nil {
			return fmt.Errorf("places callback error: %w", err)
		}
	}

	return nil
}

// CreateCountryCodeMap creates a map of country codes
func CreateCountryCodeMap(countries []model.Country) map[string]bool {
	m := make(map[string]bool)
	for _, country := range countries {
		m[country.Code] = true
	}
	return m
}
