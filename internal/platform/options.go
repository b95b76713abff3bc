package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/fieldboard/pkg/core"
	"github.com/aretw0/fieldboard/pkg/record"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterMemory  = "memory"
	AdapterFS      = "fs"
	AdapterCopilot = "copilot"
)

// DefaultStorePath is the fields file used by the fs adapter when none is configured.
const DefaultStorePath = ".fieldboard/fields.json"

// options holds the internal configuration for a board and its store.
type options struct {
	store          core.Store
	logger         *slog.Logger
	adapter        string
	path           string
	baseURL        string
	token          string
	watchPattern   string
	schema         record.Schema
	persistTimeout time.Duration
}

// Option defines a functional option for configuring fieldboard.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: AdapterFS,
		path:    DefaultStorePath,
		schema:  record.DefaultSchema(),
	}
}

// WithLogger sets the logger shared by the store and the board.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore injects a custom store. The adapter settings are ignored when set.
func WithStore(s core.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithAdapter selects the store adapter by name ("fs", "memory", "copilot").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithPath sets the fields file for the fs adapter.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithBaseURL sets the API root for the copilot adapter.
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = u
	}
}

// WithToken sets the fallback bearer token for the copilot adapter.
// Session tokens passed through the call context take precedence.
func WithToken(token string) Option {
	return func(o *options) {
		o.token = token
	}
}

// WithWatchPattern limits fs watch events to field names matching a doublestar glob.
func WithWatchPattern(pattern string) Option {
	return func(o *options) {
		o.watchPattern = pattern
	}
}

// WithSchema overrides the field naming convention.
func WithSchema(s record.Schema) Option {
	return func(o *options) {
		o.schema = s
	}
}

// WithPersistTimeout bounds every upsert issued by the board. Zero means no bound.
func WithPersistTimeout(d time.Duration) Option {
	return func(o *options) {
		o.persistTimeout = d
	}
}
