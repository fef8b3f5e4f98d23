package httpapi

import (
	"net/http"
	"strings"

	"acredge.in/internal/auth"
)

const (
	sessionCookie = "token"
	authHeader    = "Authorization"
	bearer        = "Bearer "
)

var publicPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
	"/api/auth/verify-email",
	"/api/auth/verify-phone",
	"/api/auth/verify-otp",
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

// isCatalogRead reports whether the request is a read of the public
// catalog surface, which anonymous consumers may browse.
func isCatalogRead(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/") &&
		!strings.HasPrefix(r.URL.Path, "/api/auth/") &&
		!strings.HasPrefix(r.URL.Path, "/api/dashboard/") &&
		!strings.HasPrefix(r.URL.Path, "/api/places/")
}

// extractToken takes the session token from the cookie or, failing that,
// the Authorization header.
func extractToken(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := strings.TrimSpace(r.Header.Get(authHeader))
	if strings.HasPrefix(strings.ToLower(h), strings.ToLower(bearer)) {
		return strings.TrimSpace(h[len(bearer):])
	}
	return ""
}

// requestOrigin is what the domain gate inspects: the Origin header,
// falling back to the Referer.
func requestOrigin(r *http.Request) string {
	if o := r.Header.Get("Origin"); o != "" {
		return o
	}
	return r.Header.Get("Referer")
}

// fromUserOrigin reports whether the request arrives from the configured
// consumer-site origin. An empty configured origin disables the gate.
func (a *API) fromUserOrigin(r *http.Request) bool {
	if a.userOrigin == "" {
		return true
	}
	host := a.userOrigin
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	host = strings.TrimSuffix(host, "/")
	return host != "" && strings.Contains(requestOrigin(r), host)
}

// withAuth authenticates every request outside the public set and attaches
// the resulting principal to the context. Anonymous catalog reads from the
// consumer site pass through with the public principal.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token := extractToken(r)
		if token == "" {
			if isCatalogRead(r) && a.fromUserOrigin(r) {
				ctx := auth.ContextWithPrincipal(r.Context(), auth.Public)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			writeMessage(w, r, http.StatusUnauthorized, "authentication required")
			return
		}

		principal, err := a.auth.Authenticate(r.Context(), token, requestOrigin(r), r.Method == http.MethodGet)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}

		ctx := auth.ContextWithPrincipal(r.Context(), principal)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin gates mutating catalog routes and the dashboard. Writes the
// response itself and returns the admin principal with ok=false otherwise.
func requireAdmin(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok || p.Kind == auth.KindPublic {
		writeMessage(w, r, http.StatusUnauthorized, "authentication required")
		return auth.Principal{}, false
	}
	if !p.IsAdmin() {
		writeMessage(w, r, http.StatusForbidden, "admin access required")
		return auth.Principal{}, false
	}
	return p, true
}
