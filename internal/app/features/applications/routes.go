// internal/app/features/applications/routes.go
package applications

import (
	"github.com/go-chi/chi/v5"

	"github.com/workifyhq/workify/internal/app/store/users"
	"github.com/workifyhq/workify/internal/app/system/auth"
	"github.com/workifyhq/workify/internal/domain/models"
)

// Routes returns the application endpoints. The board itself is public;
// creation and status changes are organizer operations, self-assignment
// is a volunteer operation.
func Routes(h *Handler, store *users.Store) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(store, h.Log))

		r.Get("/mine", h.Mine)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleOrganizer))
			r.Post("/", h.Create)
			r.Get("/{id}/volunteers", h.Volunteers)
			r.Patch("/{id}/status", h.UpdateStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleVolunteer))
			r.Patch("/{id}/volunteers", h.AssignSelf)
		})
	})

	return r
}
