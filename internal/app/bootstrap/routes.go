// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	accountsfeature "github.com/workifyhq/workify/internal/app/features/accounts"
	applicationsfeature "github.com/workifyhq/workify/internal/app/features/applications"
	eventsfeature "github.com/workifyhq/workify/internal/app/features/events"
	healthfeature "github.com/workifyhq/workify/internal/app/features/health"
	socialfeature "github.com/workifyhq/workify/internal/app/features/social"
	"github.com/workifyhq/workify/internal/app/system/ratelimit"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, the corpus stores, partition
// setup, and any Startup hooks have completed. Applications and events
// get their own prefixes; the account and social endpoints live at the
// API root and share one mounted router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.Docs.Root(), logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Corpus counters (document reads/writes, directory scans).
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Work-order applications board.
	appsHandler := applicationsfeature.NewHandler(deps.Applications, logger)
	r.Mount("/applications", applicationsfeature.Routes(appsHandler, deps.Users))

	// Events.
	eventsHandler := eventsfeature.NewHandler(deps.Events, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler, deps.Users))

	// Root-level endpoints: registration, login, profile, password,
	// follow graph, ratings.
	root := chi.NewRouter()
	accountsHandler := accountsfeature.NewHandler(deps.Users, ratelimit.NewLoginLimiter(), logger)
	accountsfeature.Register(root, accountsHandler, deps.Users)
	socialfeature.Register(root, socialfeature.NewHandler(deps.Social, logger), deps.Users)
	r.Mount("/", root)

	return r, nil
}
