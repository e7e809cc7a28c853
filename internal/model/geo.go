package model

import "time"

// Country is the root of the geo hierarchy
type Country struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Code      string    `json:"code" db:"code"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// City belongs to a Country; names are unique per country
type City struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CountryID string    `json:"country_id" db:"country_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// District belongs to a City; names are unique per city
type District struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CityID    string    `json:"city_id" db:"city_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Neighborhood belongs to a District; names are unique per district
type Neighborhood struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	DistrictID string    `json:"district_id" db:"district_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
