package model

// Location is an optional geo tag for posts and events. When a neighborhood
// is set, DistrictID always equals the neighborhood's district.
type Location struct {
	DistrictID     *string `json:"district_id,omitempty"`
	NeighborhoodID *string `json:"neighborhood_id,omitempty"`
}

// NewLocation builds a consistent Location from the referenced rows. Either
// argument may be nil. A neighborhood given without a district implies its
// own district.
func NewLocation(district *District, neighborhood *Neighborhood) (Location, error) {
	var loc Location
	if neighborhood != nil {
		if district != nil && neighborhood.DistrictID != district.ID {
			return Location{}, ErrLocationMismatch
		}
		districtID := neighborhood.DistrictID
		neighborhoodID := neighborhood.ID
		loc.DistrictID = &districtID
		loc.NeighborhoodID = &neighborhoodID
		return loc, nil
	}
	if district != nil {
		districtID := district.ID
		loc.DistrictID = &districtID
	}
	return loc, nil
}

// IsZero reports whether the location is untagged.
func (l Location) IsZero() bool {
	return l.DistrictID == nil && l.NeighborhoodID == nil
}
