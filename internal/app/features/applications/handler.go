// internal/app/features/applications/handler.go
package applications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	appstore "github.com/workifyhq/workify/internal/app/store/applications"
	"github.com/workifyhq/workify/internal/app/system/auth"
	"github.com/workifyhq/workify/internal/app/system/respond"
	"github.com/workifyhq/workify/internal/app/system/timeouts"
	"github.com/workifyhq/workify/internal/domain/models"
)

// Handler serves the work-order application endpoints.
type Handler struct {
	Apps *appstore.Store
	Log  *zap.Logger
}

// NewHandler constructs an applications Handler.
func NewHandler(apps *appstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Apps: apps, Log: logger}
}

type createRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    models.Location `json:"location"`
	Skills      []string        `json:"skills"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
	Reward      bool            `json:"reward"`
}

// Create handles POST /applications (organizers only). The store owns
// the id, timestamp, and volunteer list.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if req.Title == "" {
		respond.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	created, err := h.Apps.Create(ctx, models.Application{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		WhoCreated:  u.Username,
		Skills:      req.Skills,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Reward:      req.Reward,
	})
	if err != nil {
		h.Log.Error("application create failed", zap.String("creator", u.Username), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "create failed")
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

// List handles GET /applications. The full collection is public: the
// board is how volunteers discover work.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	apps, err := h.Apps.All(ctx)
	if err != nil {
		h.Log.Error("application list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "list failed")
		return
	}
	respond.JSON(w, http.StatusOK, apps)
}

// Mine handles GET /applications/mine: applications created by the
// authenticated account.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	apps, err := h.Apps.ByCreator(ctx, u.Username)
	if err != nil {
		h.Log.Error("my applications failed", zap.String("username", u.Username), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "list failed")
		return
	}
	respond.JSON(w, http.StatusOK, apps)
}

// Get handles GET /applications/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	app, err := h.Apps.Get(ctx, id)
	if err != nil {
		h.storeError(w, err, "get failed")
		return
	}
	respond.JSON(w, http.StatusOK, app)
}

// AssignSelf handles PATCH /applications/{id}/volunteers: the
// authenticated volunteer signs up for the work. The first call
// succeeds; repeats report failure without changing the list.
func (h *Handler) AssignSelf(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	id, ok := h.appID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	assigned, err := h.Apps.AssignVolunteer(ctx, id, u.Username)
	if err != nil {
		h.storeError(w, err, "assignment failed")
		return
	}
	if !assigned {
		respond.JSON(w, http.StatusOK, map[string]string{
			"status":  "failed",
			"message": "volunteer already assigned",
		})
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "volunteer assigned successfully",
	})
}

// Volunteers handles GET /applications/{id}/volunteers (organizers
// only).
func (h *Handler) Volunteers(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	vols, err := h.Apps.Volunteers(ctx, id)
	if err != nil {
		h.storeError(w, err, "lookup failed")
		return
	}
	respond.JSON(w, http.StatusOK, map[string][]string{"volunteers": vols})
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /applications/{id}/status. Only the
// creator may move their application through its lifecycle.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	id, ok := h.appID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		respond.Error(w, http.StatusBadRequest, "status is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	app, err := h.Apps.Get(ctx, id)
	if err != nil {
		h.storeError(w, err, "get failed")
		return
	}
	if app.WhoCreated != u.Username {
		respond.Error(w, http.StatusForbidden, "only the creator can change status")
		return
	}

	if err := h.Apps.UpdateStatus(ctx, id, req.Status); err != nil {
		h.storeError(w, err, "status update failed")
		return
	}
	respond.Message(w, http.StatusOK, "status updated")
}

func (h *Handler) appID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		respond.Error(w, http.StatusBadRequest, "invalid application id")
		return 0, false
	}
	return id, true
}

func (h *Handler) storeError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, appstore.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "application not found")
		return
	}
	h.Log.Error(msg, zap.Error(err))
	respond.Error(w, http.StatusInternalServerError, msg)
}
