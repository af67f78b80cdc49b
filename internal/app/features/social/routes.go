// internal/app/features/social/routes.go
package social

import (
	"github.com/go-chi/chi/v5"

	"github.com/workifyhq/workify/internal/app/store/users"
	"github.com/workifyhq/workify/internal/app/system/auth"
	"github.com/workifyhq/workify/internal/domain/models"
)

// Routes returns the social graph endpoints as a standalone router.
func Routes(h *Handler, store *users.Store) chi.Router {
	r := chi.NewRouter()
	Register(r, h, store)
	return r
}

// Register adds the social graph endpoints to r. Only volunteers can
// follow or unfollow (organizers are the ones being followed); anyone
// authenticated can rate; average rating is public. Like the account
// endpoints, these live at the API root and share its router.
func Register(r chi.Router, h *Handler, store *users.Store) {
	r.Get("/rating", h.AverageRating)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(store, h.Log))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleVolunteer))
			r.Post("/follow", h.Follow)
			r.Delete("/follow", h.Unfollow)
		})

		r.Get("/followers", h.Followers)
		r.Get("/following", h.Following)
		r.Post("/rate", h.Rate)
	})
}
