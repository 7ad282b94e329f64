package middleware

import (
	"context"
	"net/http"

	userDomain "github.com/avelez/tonewheel/internal/modules/user/domain"
	"github.com/avelez/tonewheel/internal/shared/infrastructure/session"
)

type contextKey string

const contextKeyPrincipal contextKey = "principal"

// AdminChecker is the slice of the credential store the middleware needs to
// gate admin routes.
type AdminChecker interface {
	CheckAdmin(ctx context.Context, username string) (bool, error)
}

// SessionMiddleware authenticates requests from the session cookie. The
// domain layer never reads cookies itself; this is the boundary where the
// HTTP world turns into a principal.
type SessionMiddleware struct {
	store      *session.Store
	admins     AdminChecker
	cookieName string
}

func NewSessionMiddleware(store *session.Store, admins AdminChecker, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{store: store, admins: admins, cookieName: cookieName}
}

// RequireSession rejects unauthenticated requests and injects the principal
// into the request context.
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := m.resolve(r)
		if principal == nil {
			http.Error(w, `{"error": "authentication required"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// OptionalSession injects the principal when a valid session cookie is
// present and proceeds as guest otherwise.
func (m *SessionMiddleware) OptionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if principal := m.resolve(r); principal != nil {
			r = r.WithContext(WithPrincipal(r.Context(), principal))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin is RequireSession plus an admin-flag check against the
// credential store.
func (m *SessionMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, _ := PrincipalFrom(r.Context())
		isAdmin, err := m.admins.CheckAdmin(r.Context(), principal.Username)
		if err != nil || !isAdmin {
			http.Error(w, `{"error": "admin access required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// WithPrincipal attaches an authenticated principal to a context.
func WithPrincipal(ctx context.Context, principal *userDomain.Principal) context.Context {
	return context.WithValue(ctx, contextKeyPrincipal, principal)
}

// PrincipalFrom extracts the authenticated principal from a request context.
func PrincipalFrom(ctx context.Context) (*userDomain.Principal, bool) {
	principal, ok := ctx.Value(contextKeyPrincipal).(*userDomain.Principal)
	return principal, ok
}

func (m *SessionMiddleware) resolve(r *http.Request) *userDomain.Principal {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	principal, err := m.store.Resolve(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return principal
}
