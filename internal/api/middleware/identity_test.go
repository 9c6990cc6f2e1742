package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskhub-api/internal/api/shared"
	"github.com/phrazzld/taskhub-api/internal/store"
)

type stubSessionStore struct {
	sessions map[string]int64
}

func (s *stubSessionStore) Create(ctx context.Context, sid string, userID int64, ttl time.Duration) error {
	s.sessions[sid] = userID
	return nil
}

func (s *stubSessionStore) Get(ctx context.Context, sid string) (int64, error) {
	userID, ok := s.sessions[sid]
	if !ok {
		return 0, store.ErrSessionNotFound
	}
	return userID, nil
}

func (s *stubSessionStore) Delete(ctx context.Context, sid string) error {
	delete(s.sessions, sid)
	return nil
}

func identityProbe(t *testing.T, sessions store.SessionStore) (http.Handler, *int64, *string) {
	t.Helper()

	var gotUserID int64
	var gotEmail string

	m := NewIdentity(sessions)
	handler := m.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := shared.UserIDFromContext(r.Context())
		require.True(t, ok)
		gotUserID = userID
		gotEmail = shared.UserEmailFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	return handler, &gotUserID, &gotEmail
}

func TestIdentityFromGatewayHeaders(t *testing.T) {
	handler, gotUserID, gotEmail := identityProbe(t, &stubSessionStore{sessions: map[string]int64{}})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set(UserIDHeader, "42")
	req.Header.Set(UserEmailHeader, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), *gotUserID)
	assert.Equal(t, "alice@example.com", *gotEmail)
}

func TestIdentityFromSessionCookie(t *testing.T) {
	sessions := &stubSessionStore{sessions: map[string]int64{"session-1": 7}}
	handler, gotUserID, gotEmail := identityProbe(t, sessions)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "session-1"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), *gotUserID)
	assert.Empty(t, *gotEmail, "cookie identity carries no email")
}

func TestIdentityHeaderTakesPrecedenceOverCookie(t *testing.T) {
	sessions := &stubSessionStore{sessions: map[string]int64{"session-1": 7}}
	handler, gotUserID, _ := identityProbe(t, sessions)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set(UserIDHeader, "42")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "session-1"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), *gotUserID)
}

func TestIdentityRejections(t *testing.T) {
	cases := []struct {
		name  string
		build func(r *http.Request)
	}{
		{"no identity at all", func(r *http.Request) {}},
		{"malformed header", func(r *http.Request) { r.Header.Set(UserIDHeader, "abc") }},
		{"non-positive header", func(r *http.Request) { r.Header.Set(UserIDHeader, "0") }},
		{"unknown session", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "expired"})
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler, _, _ := identityProbe(t, &stubSessionStore{sessions: map[string]int64{}})

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			tc.build(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
