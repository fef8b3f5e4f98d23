// Package httpapi exposes the catalog, auth, places, and dashboard
// surfaces over REST.
package httpapi

import (
	"context"
	"net/http"
	"strings"

	"acredge.in/internal/auth"
	"acredge.in/internal/catalog"
	"acredge.in/internal/obs"
	"acredge.in/internal/places"
)

// ReadyProbe reports whether downstream dependencies answer.
type ReadyProbe struct {
	Check func(ctx context.Context) error
}

func (rp ReadyProbe) check(ctx context.Context) error {
	if rp.Check == nil {
		return nil
	}
	return rp.Check(ctx)
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	catalog    *catalog.Service
	auth       *auth.Service
	places     *places.Client
	readyProbe ReadyProbe
	version    string

	allowedOrigins []string
	userOrigin     string
}

// Option configures the API.
type Option func(*API)

// WithReadyProbe wires the readiness check.
func WithReadyProbe(rp ReadyProbe) Option {
	return func(a *API) { a.readyProbe = rp }
}

// WithVersion reports a build version from /healthz.
func WithVersion(v string) Option {
	return func(a *API) { a.version = v }
}

// WithAllowedOrigins sets the CORS reflection list.
func WithAllowedOrigins(origins ...string) Option {
	return func(a *API) { a.allowedOrigins = origins }
}

// WithUserOrigin sets the consumer-site origin from which tokenless
// catalog reads are admitted as public. Empty disables the gate.
func WithUserOrigin(origin string) Option {
	return func(a *API) { a.userOrigin = strings.TrimSpace(origin) }
}

// WithPlaces enables the location proxy routes.
func WithPlaces(c *places.Client) Option {
	return func(a *API) { a.places = c }
}

// New wires every route onto a fresh mux.
func New(catalogSvc *catalog.Service, authSvc *auth.Service, opts ...Option) *API {
	a := &API{
		mux:     http.NewServeMux(),
		catalog: catalogSvc,
		auth:    authSvc,
		version: "dev",
	}
	for _, opt := range opts {
		opt(a)
	}

	a.mux.HandleFunc("/healthz", a.handleHealthz)
	a.mux.HandleFunc("/readyz", a.handleReady)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/api/auth/verify-email", a.handleVerifyEmail)
	a.mux.HandleFunc("/api/auth/verify-phone", a.handleVerifyPhone)
	a.mux.HandleFunc("/api/auth/verify-otp", a.handleVerifyOTP)
	a.mux.HandleFunc("/api/auth/logout", a.handleLogout)
	a.mux.HandleFunc("/api/auth/check-auth", a.handleCheckAuth)

	for _, routes := range kindRoutes {
		routes := routes
		a.mux.HandleFunc("/api/"+routes.path, func(w http.ResponseWriter, r *http.Request) {
			a.handleCollection(w, r, routes)
		})
		a.mux.HandleFunc("/api/"+routes.path+"/", func(w http.ResponseWriter, r *http.Request) {
			a.handleResource(w, r, routes)
		})
	}

	a.mux.HandleFunc("/api/places/autocomplete", a.handleAutocomplete)
	a.mux.HandleFunc("/api/places/details", a.handlePlaceDetails)

	a.mux.HandleFunc("/api/dashboard/stats", a.handleDashboardStats)
	a.mux.HandleFunc("/api/dashboard/", a.handleKindStats)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, r, http.StatusNotFound, "resource not found")
	})

	return a
}

// Handler assembles the middleware chain around the mux.
func (a *API) Handler() http.Handler {
	h := a.withAuth(a.mux)
	h = CORS(h, a.allowedOrigins...)
	h = SecurityHeaders(h)
	h = Logging(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "acredge-api",
		"version": a.version,
	})
}

func (a *API) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}
