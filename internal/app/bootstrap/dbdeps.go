// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/workifyhq/workify/internal/app/store/applications"
	"github.com/workifyhq/workify/internal/app/store/document"
	"github.com/workifyhq/workify/internal/app/store/events"
	"github.com/workifyhq/workify/internal/app/store/social"
	"github.com/workifyhq/workify/internal/app/store/users"
)

// DBDeps holds the storage dependencies for the app. The backing store
// is the file corpus, so there are no connections here, just the store
// layers built over the corpus root in ConnectDB.
type DBDeps struct {
	Docs         *document.Store
	Users        *users.Store
	Social       *social.Store
	Applications *applications.Store
	Events       *events.Store
}
