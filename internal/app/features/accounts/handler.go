// internal/app/features/accounts/handler.go
package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/workifyhq/workify/internal/app/store/users"
	"github.com/workifyhq/workify/internal/app/system/auth"
	"github.com/workifyhq/workify/internal/app/system/normalize"
	"github.com/workifyhq/workify/internal/app/system/ratelimit"
	"github.com/workifyhq/workify/internal/app/system/respond"
	"github.com/workifyhq/workify/internal/app/system/timeouts"
	"github.com/workifyhq/workify/internal/domain/models"
)

const (
	minUsernameLen = 3
	minPasswordLen = 8
)

// Handler serves account registration, login, and profile management.
type Handler struct {
	Users  *users.Store
	Limits *ratelimit.LoginLimiter
	Log    *zap.Logger
}

// NewHandler constructs an accounts Handler.
func NewHandler(u *users.Store, limits *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{Users: u, Limits: limits, Log: logger}
}

type registerRequest struct {
	Username        string   `json:"username"`
	Name            string   `json:"name"`
	Surname         string   `json:"surname"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	Role            string   `json:"role"`
	Specializations []string `json:"specializations"`
	Skills          []string `json:"skills"`
}

// Register handles POST /register. New accounts get a salted hash and a
// bearer token; the token is only handed out by Login.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	req.Username = normalize.Username(req.Username)
	if len(req.Username) < minUsernameLen {
		respond.Error(w, http.StatusBadRequest, "username must be at least 3 characters")
		return
	}
	if len(req.Password) < minPasswordLen {
		respond.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	role := models.Role(normalize.Role(req.Role))
	if !role.Valid() {
		respond.Error(w, http.StatusBadRequest, "role must be VOLUNTEER or ORGANIZER")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Scan())
	defer cancel()

	_, err := h.Users.Register(ctx, users.RegisterParams{
		Username: req.Username,
		Role:     role,
		Password: req.Password,
		Profile: users.Profile{
			Name:            req.Name,
			Surname:         req.Surname,
			Email:           req.Email,
			Specializations: req.Specializations,
			Skills:          req.Skills,
		},
	})
	switch {
	case errors.Is(err, users.ErrUsernameTaken):
		respond.Error(w, http.StatusConflict, "username already taken")
		return
	case err != nil:
		h.Log.Error("register failed", zap.String("username", req.Username), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "registration failed")
		return
	}

	h.Log.Info("account registered",
		zap.String("username", req.Username), zap.String("role", string(role)))
	respond.Message(w, http.StatusCreated, "user registered successfully")
}

// Login handles POST /login with HTTP basic credentials. On success the
// bearer token is rotated and returned; the previous token stops
// working. The rotation happens only after the password verifies.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username, password, ok := r.BasicAuth()
	if !ok {
		w.Header().Set("WWW-Authenticate", `Basic realm="workify"`)
		respond.Error(w, http.StatusUnauthorized, "basic credentials required")
		return
	}

	// Throttle before any corpus scan or hash derivation.
	if allowed, reason := h.Limits.Check(r, username); !allowed {
		h.Log.Warn("login throttled",
			zap.String("username", normalize.Username(username)),
			zap.String("ip", ratelimit.ClientIP(r)))
		respond.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Scan())
	defer cancel()

	u, err := h.Users.FindByUsername(ctx, normalize.Username(username))
	if err != nil {
		// Same answer as a wrong password: the login surface must not
		// reveal which usernames exist.
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	mgr := h.Users.Manager(u.Username, u.Role)
	if !mgr.Verify(ctx, password) {
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := mgr.RotateToken(ctx)
	if err != nil {
		h.Log.Error("token rotation failed", zap.String("username", u.Username), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "login failed")
		return
	}
	h.Limits.ResetUser(u.Username)

	respond.JSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"username": u.Username,
		"role":     u.Role,
		"token":    token,
	})
}

// Profile handles GET /profile for the authenticated account.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	respond.JSON(w, http.StatusOK, profileView(u))
}

type profilePatchRequest struct {
	Name            *string   `json:"name"`
	Surname         *string   `json:"surname"`
	Email           *string   `json:"email"`
	AvatarURL       *string   `json:"avatar_url"`
	Specializations *[]string `json:"specializations"`
	Skills          *[]string `json:"skills"`
	IsAvailable     *bool     `json:"is_available"`
}

// UpdateProfile handles PATCH /profile. Only the enumerated profile
// fields are mutable; fields absent from the body are left unchanged.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req profilePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Users.Manager(u.Username, u.Role).UpdateProfile(ctx, users.ProfilePatch{
		Name:            req.Name,
		Surname:         req.Surname,
		Email:           req.Email,
		AvatarURL:       req.AvatarURL,
		Specializations: req.Specializations,
		Skills:          req.Skills,
		IsAvailable:     req.IsAvailable,
	})
	if err != nil {
		h.Log.Error("profile update failed", zap.String("username", u.Username), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "profile update failed")
		return
	}
	respond.JSON(w, http.StatusOK, profileView(updated))
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword handles POST /password. A wrong old password is a 401
// with no side effect on the stored credentials.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if len(req.NewPassword) < minPasswordLen {
		respond.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ok, err := h.Users.Manager(u.Username, u.Role).ChangePassword(ctx, req.OldPassword, req.NewPassword)
	if err != nil {
		h.Log.Error("password change failed", zap.String("username", u.Username), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "password change failed")
		return
	}
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "old password incorrect")
		return
	}
	respond.Message(w, http.StatusOK, "password changed")
}

// profileView strips credentials from an account document before it
// leaves the service. The bearer token is excluded too; it is only
// issued by Login.
func profileView(u *models.User) map[string]any {
	return map[string]any{
		"username":        u.Username,
		"role":            u.Role,
		"name":            u.Name,
		"surname":         u.Surname,
		"email":           u.Email,
		"avatar_url":      u.AvatarURL,
		"specializations": u.Specializations,
		"skills":          u.Skills,
		"is_available":    u.IsAvailable,
		"events":          u.Events,
		"rating":          u.Rating,
		"followers":       u.Followers,
		"following":       u.Following,
		"created_at":      u.CreatedAt,
		"updated_at":      u.UpdatedAt,
	}
}
