// internal/app/features/social/handler.go
package social

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/workifyhq/workify/internal/app/store/social"
	"github.com/workifyhq/workify/internal/app/store/users"
	"github.com/workifyhq/workify/internal/app/system/auth"
	"github.com/workifyhq/workify/internal/app/system/normalize"
	"github.com/workifyhq/workify/internal/app/system/respond"
	"github.com/workifyhq/workify/internal/app/system/timeouts"
)

// Handler serves the follow graph and rating endpoints.
type Handler struct {
	Social *social.Store
	Log    *zap.Logger
}

// NewHandler constructs a social Handler.
func NewHandler(s *social.Store, logger *zap.Logger) *Handler {
	return &Handler{Social: s, Log: logger}
}

type targetRequest struct {
	Username string `json:"username"`
}

// Follow handles POST /follow: the authenticated volunteer starts
// following the named account.
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	h.relate(w, r, h.Social.Follow, "user followed successfully")
}

// Unfollow handles DELETE /follow.
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.relate(w, r, h.Social.Unfollow, "user unfollowed successfully")
}

func (h *Handler) relate(w http.ResponseWriter, r *http.Request,
	op func(context.Context, string, string) error, okMsg string) {

	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req targetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	req.Username = normalize.Username(req.Username)
	if req.Username == "" {
		respond.Error(w, http.StatusBadRequest, "username is required")
		return
	}
	if req.Username == u.Username {
		respond.Error(w, http.StatusBadRequest, "cannot follow yourself")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := op(ctx, u.Username, req.Username); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("follow operation failed",
			zap.String("follower", u.Username),
			zap.String("followee", req.Username),
			zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "operation failed")
		return
	}
	respond.Message(w, http.StatusOK, okMsg)
}

// Followers handles GET /followers for the authenticated account.
func (h *Handler) Followers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Social.Followers, "followers")
}

// Following handles GET /following for the authenticated account.
func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Social.Following, "following")
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request,
	op func(context.Context, string) ([]string, error), key string) {

	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Scan())
	defer cancel()

	names, err := op(ctx, u.Username)
	if err != nil {
		h.Log.Error("relation list failed", zap.String("username", u.Username), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if names == nil {
		names = []string{}
	}
	respond.JSON(w, http.StatusOK, map[string][]string{key: names})
}

type rateRequest struct {
	Username string  `json:"username"`
	Rate     float64 `json:"rate"`
	Comment  string  `json:"comment"`
}

// Rate handles POST /rate. The score must be within [0,5]; the store
// appends whatever it is given, so the range check lives here.
func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	req.Username = normalize.Username(req.Username)
	if req.Username == "" {
		respond.Error(w, http.StatusBadRequest, "username is required")
		return
	}
	if req.Rate < 0 || req.Rate > social.MaxRate {
		respond.Error(w, http.StatusBadRequest, "rate must be between 0 and 5")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Social.Rate(ctx, u.Username, req.Username, req.Rate, req.Comment); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("rate failed", zap.String("ratee", req.Username), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "rating failed")
		return
	}
	respond.Message(w, http.StatusOK, "user rated successfully")
}

// AverageRating handles GET /rating?username=… and is public: anyone can
// look up an account's average score.
func (h *Handler) AverageRating(w http.ResponseWriter, r *http.Request) {
	username := normalize.QueryParam(r.URL.Query().Get("username"))
	if username == "" {
		respond.Error(w, http.StatusBadRequest, "username is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Scan())
	defer cancel()

	avg, err := h.Social.AverageRating(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("average rating failed", zap.String("username", username), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]float64{"avg_rating": avg})
}
