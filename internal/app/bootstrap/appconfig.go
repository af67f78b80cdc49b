// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration: WAFFLE's CoreConfig
// keeps framework-level settings like HTTP ports, TLS, logging level,
// and CORS, while everything specific to the volunteering platform
// lives here.
type AppConfig struct {
	// CorpusRoot is the directory holding the account corpus: the
	// Volunteer/ and Organizer/ partitions plus the shared
	// applications.json and events.json collections.
	CorpusRoot string

	// Pepper is the deployment-wide secret mixed into every password
	// hash alongside the per-user salt. It must be strong in
	// production; rotating it invalidates all stored credentials.
	Pepper string

	// Argon2id cost settings. Zero values fall back to the hasher's
	// defaults. Changing them only affects new hashes; verification
	// reads each stored hash's own cost encoding.
	HashTime        int // passes over memory
	HashMemoryKiB   int
	HashParallelism int

	// Corpus I/O budgets. TimeoutScan bounds the full-directory walks
	// behind token and username lookups, so it has to grow with the
	// account count.
	TimeoutPing  time.Duration
	TimeoutShort time.Duration
	TimeoutScan  time.Duration
	TimeoutLong  time.Duration
}
