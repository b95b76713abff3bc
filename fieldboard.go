package fieldboard

import (
	_ "embed"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/fieldboard/internal/platform"
	"github.com/aretw0/fieldboard/pkg/board"
	"github.com/aretw0/fieldboard/pkg/core"
	"github.com/aretw0/fieldboard/pkg/record"
)

//go:embed VERSION
var version string

// Version is the library version.
var Version = strings.TrimSpace(version)

// --- Types ---

// Board is a public alias for the local state cache.
type Board = board.Board

// Config is the YAML configuration file layout.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring fieldboard.
type Option = platform.Option

// Adapter names.
const (
	AdapterMemory  = platform.AdapterMemory
	AdapterFS      = platform.AdapterFS
	AdapterCopilot = platform.AdapterCopilot
)

// WithLogger sets the logger for the store and the board.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore injects a custom store adapter.
func WithStore(s core.Store) Option {
	return platform.WithStore(s)
}

// WithAdapter selects the store adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithPath sets the fields file of the fs adapter.
func WithPath(path string) Option {
	return platform.WithPath(path)
}

// WithBaseURL sets the API root of the copilot adapter.
func WithBaseURL(u string) Option {
	return platform.WithBaseURL(u)
}

// WithToken sets the fallback bearer token of the copilot adapter.
func WithToken(token string) Option {
	return platform.WithToken(token)
}

// WithWatchPattern filters fs watch events by field name.
func WithWatchPattern(pattern string) Option {
	return platform.WithWatchPattern(pattern)
}

// WithSchema overrides the field naming convention.
func WithSchema(s record.Schema) Option {
	return platform.WithSchema(s)
}

// WithPersistTimeout bounds every upsert.
func WithPersistTimeout(d time.Duration) Option {
	return platform.WithPersistTimeout(d)
}

// --- Factory ---

// New creates a board over the configured store. Call Activate before use.
func New(opts ...Option) (*Board, error) {
	return platform.New(opts...)
}

// OpenStore returns the configured store without a board.
func OpenStore(opts ...Option) (core.Store, error) {
	return platform.OpenStore(opts...)
}

// --- Files ---

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	return platform.LoadConfig(path)
}

// LoadSession reads a YAML session file, applying the FIELDBOARD_TOKEN override.
func LoadSession(path string) (core.Session, error) {
	return platform.LoadSession(path)
}

// ErrNoConfig is returned by FindConfig when no config file exists up the tree.
var ErrNoConfig = platform.ErrNoConfig

// FindConfig looks upwards from startDir for fieldboard.yaml.
func FindConfig(startDir string) (string, error) {
	return platform.FindConfig(startDir)
}
