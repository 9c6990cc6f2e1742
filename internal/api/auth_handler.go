package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/taskhub-api/internal/api/middleware"
	"github.com/phrazzld/taskhub-api/internal/api/shared"
	"github.com/phrazzld/taskhub-api/internal/config"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/service/auth"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// AuthHandler handles registration, session lifecycle, and the bearer-token
// endpoints the gateway depends on.
type AuthHandler struct {
	users     store.UserStore
	sessions  store.SessionStore
	tokens    auth.TokenService
	hasher    auth.PasswordHasher
	verifier  auth.PasswordVerifier
	cfg       *config.AuthConfig
	validator *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	users store.UserStore,
	sessions store.SessionStore,
	tokens auth.TokenService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	cfg *config.AuthConfig,
) *AuthHandler {
	return &AuthHandler{
		users:     users,
		sessions:  sessions,
		tokens:    tokens,
		hasher:    hasher,
		verifier:  verifier,
		cfg:       cfg,
		validator: validator.New(),
	}
}

func (h *AuthHandler) sessionTTL() time.Duration {
	return time.Duration(h.cfg.SessionLifetimeHours) * time.Hour
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := domain.NewUser(req.Username, req.Email, req.Password)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}

	hashed, err := h.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create user", err)
		return
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := h.users.Create(r.Context(), user); err != nil {
		if store.IsDuplicateError(err) {
			shared.RespondWithError(w, r, http.StatusConflict, GetSafeErrorMessage(err))
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create user", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewUserResponse(user))
}

// Login handles POST /api/auth/login. On success it mints a fresh session
// identifier, sets it as an HttpOnly cookie, and returns an access token for
// the bearer variant.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Same response as a wrong password; do not reveal which.
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to authenticate user", err)
		return
	}

	if err := h.verifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	sid := uuid.NewString()
	if err := h.sessions.Create(r.Context(), sid, user.ID, h.sessionTTL()); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create session", err)
		return
	}

	token, err := h.tokens.Generate(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to generate access token", "error", err, "user_id", user.ID)
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to generate access token", err)
		return
	}

	h.setSessionCookie(w, sid, int(h.sessionTTL().Seconds()))

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		User:        NewUserResponse(user),
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Logout handles POST /api/auth/logout. Deleting an absent or already
// expired session still succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to log out", err)
			return
		}
	}

	h.setSessionCookie(w, "", -1)
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Logged out"})
}

// Me handles GET /api/auth/me. A session whose user row has disappeared is
// treated the same as a missing session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "No session")
		return
	}

	userID, err := h.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Session expired")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to resolve session", err)
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Session expired")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to load user", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// Validate handles GET /api/auth/validate behind the bearer middleware. The
// gateway calls this on token-cache misses.
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	h.respondCurrentUser(w, r)
}

// Profile handles GET /api/profile behind the bearer middleware.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	h.respondCurrentUser(w, r)
}

func (h *AuthHandler) respondCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to load user", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// ListUsers handles GET /api/users behind the bearer middleware.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
