package httpapi

import (
	"net/http"
	"strings"

	"acredge.in/internal/auth"
	"acredge.in/internal/docstore"
	"acredge.in/internal/obs"
)

var statsCollections = map[string]string{
	"developers": docstore.Developers,
	"projects":   docstore.Projects,
	"towers":     docstore.Towers,
	"series":     docstore.Series,
	"amenities":  docstore.Amenities,
}

func (a *API) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	stats, err := a.catalog.DashboardStats(r.Context())
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) handleKindStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/dashboard/")
	kind, ok := strings.CutSuffix(rest, "/stats")
	if !ok {
		writeMessage(w, r, http.StatusNotFound, "resource not found")
		return
	}
	collection, ok := statsCollections[kind]
	if !ok {
		writeMessage(w, r, http.StatusNotFound, "resource not found")
		return
	}
	stats, err := a.catalog.StatsFor(r.Context(), collection)
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.requirePrincipal(w, r) {
		return
	}
	if a.places == nil {
		writeError(w, r, http.StatusServiceUnavailable, "places lookup not configured")
		return
	}
	input := strings.TrimSpace(r.URL.Query().Get("input"))
	if input == "" {
		writeError(w, r, http.StatusBadRequest, "input is required")
		return
	}
	suggestions, err := a.places.Autocomplete(r.Context(), input)
	if err != nil {
		obs.LogError("places autocomplete failed", err, requestFields(r))
		writeError(w, r, http.StatusBadGateway, "location lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (a *API) handlePlaceDetails(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.requirePrincipal(w, r) {
		return
	}
	if a.places == nil {
		writeError(w, r, http.StatusServiceUnavailable, "places lookup not configured")
		return
	}
	placeID := strings.TrimSpace(r.URL.Query().Get("placeId"))
	if placeID == "" {
		writeError(w, r, http.StatusBadRequest, "placeId is required")
		return
	}
	details, err := a.places.Details(r.Context(), placeID)
	if err != nil {
		obs.LogError("places details failed", err, requestFields(r))
		writeError(w, r, http.StatusBadGateway, "location lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// requirePrincipal admits any authenticated caller, admin or consumer.
func (a *API) requirePrincipal(w http.ResponseWriter, r *http.Request) bool {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok || p.Kind == auth.KindPublic {
		writeMessage(w, r, http.StatusUnauthorized, "authentication required")
		return false
	}
	return true
}
