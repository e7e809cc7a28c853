package api

import (
	"net/http"

	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/alexivanou/geocommunity/internal/service"
)

type createCountryRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type createGeoRequest struct {
	Name string `json:"name"`
}

// CreateCountry handles POST /api/v1/countries
func (h *Handler) CreateCountry(w http.ResponseWriter, r *http.Request) {
	var req createCountryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.service.CreateCountry(r.Context(), req.Name, req.Code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, c)
}

// GetCountry handles GET /api/v1/countries/{id}; id may be an ISO code
func (h *Handler) GetCountry(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCountry(r.Context(), pathVar(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

// ListCountries handles GET /api/v1/countries
func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	countries, err := h.service.ListCountries(r.Context(), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(h, w, countries, p, func(c model.Country) string { return c.ID })
}

// CreateCity handles POST /api/v1/countries/{id}/cities
func (h *Handler) CreateCity(w http.ResponseWriter, r *http.Request) {
	var req createGeoRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.service.CreateCity(r.Context(), pathVar(r, "id"), req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, c)
}

// ListCities handles GET /api/v1/countries/{id}/cities
func (h *Handler) ListCities(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	cities, err := h.service.ListCities(r.Context(), pathVar(r, "id"), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(h, w, cities, p, func(c model.City) string { return c.ID })
}

// GetCity handles GET /api/v1/cities/{id}
func (h *Handler) GetCity(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCity(r.Context(), pathVar(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

// CreateDistrict handles POST /api/v1/cities/{id}/districts
func (h *Handler) CreateDistrict(w http.ResponseWriter, r *http.Request) {
	var req createGeoRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	d, err := h.service.CreateDistrict(r.Context(), pathVar(r, "id"), req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, d)
}

// ListDistricts handles GET /api/v1/cities/{id}/districts
func (h *Handler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	districts, err := h.service.ListDistricts(r.Context(), pathVar(r, "id"), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(h, w, districts, p, func(d model.District) string { return d.ID })
}

// GetDistrict handles GET /api/v1/districts/{id}
func (h *Handler) GetDistrict(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.GetDistrict(r.Context(), pathVar(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, d)
}

// CreateNeighborhood handles POST /api/v1/districts/{id}/neighborhoods
func (h *Handler) CreateNeighborhood(w http.ResponseWriter, r *http.Request) {
	var req createGeoRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	n, err := h.service.CreateNeighborhood(r.Context(), pathVar(r, "id"), req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, n)
}

// ListNeighborhoods handles GET /api/v1/districts/{id}/neighborhoods
func (h *Handler) ListNeighborhoods(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	hoods, err := h.service.ListNeighborhoods(r.Context(), pathVar(r, "id"), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(h, w, hoods, p, func(n model.Neighborhood) string { return n.ID })
}

// GetNeighborhood handles GET /api/v1/neighborhoods/{id}
func (h *Handler) GetNeighborhood(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.GetNeighborhood(r.Context(), pathVar(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, n)
}

// deleteGeo returns a handler for DELETE on one level of the tree
func (h *Handler) deleteGeo(level service.GeoLevel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.DeleteGeo(r.Context(), level, pathVar(r, "id")); err != nil {
			h.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
