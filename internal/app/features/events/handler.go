// internal/app/features/events/handler.go
package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	eventstore "github.com/workifyhq/workify/internal/app/store/events"
	"github.com/workifyhq/workify/internal/app/system/auth"
	"github.com/workifyhq/workify/internal/app/system/normalize"
	"github.com/workifyhq/workify/internal/app/system/respond"
	"github.com/workifyhq/workify/internal/app/system/timeouts"
	"github.com/workifyhq/workify/internal/domain/models"
)

// Handler serves the event endpoints.
type Handler struct {
	Events *eventstore.Store
	Log    *zap.Logger
}

// NewHandler constructs an events Handler.
func NewHandler(events *eventstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Events: events, Log: logger}
}

type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Status      string `json:"status"`
}

// Create handles POST /events (organizers only). The store owns the id,
// creator, status, and timestamps.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req eventRequest
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

	created, err := h.Events.Create(ctx, models.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
	}, u.Username)
	if err != nil {
		h.Log.Error("event create failed", zap.String("creator", u.Username), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "create failed")
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

// List handles GET /events with optional ?status= and ?creator= filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	status := normalize.QueryParam(r.URL.Query().Get("status"))
	creator := normalize.QueryParam(r.URL.Query().Get("creator"))

	evs, err := h.Events.List(ctx, status, creator)
	if err != nil {
		h.Log.Error("event list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "list failed")
		return
	}
	respond.JSON(w, http.StatusOK, evs)
}

// Get handles GET /events/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Events.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "get failed")
		return
	}
	respond.JSON(w, http.StatusOK, ev)
}

// Update handles PATCH /events/{id}. Only the creator may edit.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	id := chi.URLParam(r, "id")
	stored, err := h.Events.Get(ctx, id)
	if err != nil {
		h.storeError(w, err, "get failed")
		return
	}
	if stored.WhoCreated != u.Username {
		respond.Error(w, http.StatusForbidden, "only the creator can edit the event")
		return
	}

	err = h.Events.Update(ctx, id, models.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Status:      req.Status,
	})
	if err != nil {
		h.storeError(w, err, "update failed")
		return
	}

	updated, err := h.Events.Get(ctx, id)
	if err != nil {
		h.storeError(w, err, "get failed")
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /events/{id}: a soft delete, creator only.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	id := chi.URLParam(r, "id")
	stored, err := h.Events.Get(ctx, id)
	if err != nil {
		h.storeError(w, err, "get failed")
		return
	}
	if stored.WhoCreated != u.Username {
		respond.Error(w, http.StatusForbidden, "only the creator can delete the event")
		return
	}

	if err := h.Events.SoftDelete(ctx, id); err != nil {
		h.storeError(w, err, "delete failed")
		return
	}
	respond.Message(w, http.StatusOK, "event deleted")
}

// Join handles POST /events/{id}/participants: the authenticated
// volunteer joins the event. Repeats report failure without growing the
// list.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	added, err := h.Events.AddParticipant(ctx, chi.URLParam(r, "id"), u.Username)
	if err != nil {
		h.storeError(w, err, "join failed")
		return
	}
	if !added {
		respond.JSON(w, http.StatusOK, map[string]string{
			"status":  "failed",
			"message": "already participating",
		})
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "joined event",
	})
}

type commentRequest struct {
	Text string `json:"text"`
}

// Comment handles POST /events/{id}/comments. The author is taken from
// the authenticated account, never from the body.
func (h *Handler) Comment(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		respond.Error(w, http.StatusBadRequest, "text is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	err := h.Events.AddComment(ctx, chi.URLParam(r, "id"), models.EventComment{
		Author: u.Username,
		Text:   req.Text,
	})
	if err != nil {
		h.storeError(w, err, "comment failed")
		return
	}
	respond.Message(w, http.StatusCreated, "comment added")
}

func (h *Handler) storeError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, eventstore.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "event not found")
		return
	}
	h.Log.Error(msg, zap.Error(err))
	respond.Error(w, http.StatusInternalServerError, msg)
}
