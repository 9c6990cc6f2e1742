package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/phrazzld/taskhub-api/internal/api/shared"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// UserIDHeader is set by the gateway after validating a bearer token.
const UserIDHeader = "X-User-ID"

// UserEmailHeader optionally accompanies UserIDHeader and feeds the
// best-effort email notification on task creation.
const UserEmailHeader = "X-User-Email"

// SessionCookieName is the auth service's session cookie.
const SessionCookieName = "sid"

// Identity resolves the requesting user for the task service. Two variants
// coexist: a gateway-injected X-User-ID header, or a sid cookie resolved
// against the shared session store. Requests with neither get 401.
type Identity struct {
	sessions store.SessionStore
}

// NewIdentity creates the identity middleware.
func NewIdentity(sessions store.SessionStore) *Identity {
	return &Identity{sessions: sessions}
}

// Require authenticates the request and stores the user ID (and email, when
// supplied) in the context.
func (m *Identity) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID, err := m.resolve(r)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) || errors.Is(err, errNoIdentity) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
				return
			}
			log.Error("failed to resolve identity", "error", err)
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
		if email := r.Header.Get(UserEmailHeader); email != "" {
			ctx = context.WithValue(ctx, shared.UserEmailContextKey, email)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

var errNoIdentity = errors.New("no identity supplied")

func (m *Identity) resolve(r *http.Request) (int64, error) {
	if header := r.Header.Get(UserIDHeader); header != "" {
		userID, err := strconv.ParseInt(header, 10, 64)
		if err != nil || userID <= 0 {
			return 0, errNoIdentity
		}
		return userID, nil
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return 0, errNoIdentity
	}

	return m.sessions.Get(r.Context(), cookie.Value)
}
