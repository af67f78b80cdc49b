// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/go-chi/chi/v5"

	"github.com/workifyhq/workify/internal/app/store/users"
	"github.com/workifyhq/workify/internal/app/system/auth"
)

// Routes returns the account endpoints as a standalone router.
func Routes(h *Handler, store *users.Store) chi.Router {
	r := chi.NewRouter()
	Register(r, h, store)
	return r
}

// Register adds the account endpoints to r. Registration and login are
// public; profile and password operations require a bearer token. The
// endpoints live at the root of the API, so they are registered onto a
// shared router rather than mounted under a prefix.
func Register(r chi.Router, h *Handler, store *users.Store) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(store, h.Log))
		r.Get("/profile", h.Profile)
		r.Patch("/profile", h.UpdateProfile)
		r.Post("/password", h.ChangePassword)
	})
}
