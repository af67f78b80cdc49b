// internal/app/features/events/routes.go
package events

import (
	"github.com/go-chi/chi/v5"

	"github.com/workifyhq/workify/internal/app/store/users"
	"github.com/workifyhq/workify/internal/app/system/auth"
	"github.com/workifyhq/workify/internal/domain/models"
)

// Routes returns the event endpoints. Listings are public; creation,
// editing, and deletion are organizer operations gated to the creator;
// joining is a volunteer operation; any authenticated account may
// comment.
func Routes(h *Handler, store *users.Store) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(store, h.Log))

		r.Post("/{id}/comments", h.Comment)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleOrganizer))
			r.Post("/", h.Create)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleVolunteer))
			r.Post("/{id}/participants", h.Join)
		})
	})

	return r
}
