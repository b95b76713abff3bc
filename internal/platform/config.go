package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/fieldboard/pkg/core"
	"github.com/aretw0/fieldboard/pkg/record"
)

// TokenEnv overrides the session token when set.
const TokenEnv = "FIELDBOARD_TOKEN"

// Config is the YAML configuration file.
//
//	store:
//	  adapter: fs
//	  path: .fieldboard/fields.json
//	schema:
//	  item_prefix: pm_project_
//	persist_timeout: 10s
type Config struct {
	Store struct {
		Adapter string `yaml:"adapter"`
		Path    string `yaml:"path"`
		BaseURL string `yaml:"base_url"`
		Watch   string `yaml:"watch"`
	} `yaml:"store"`
	Schema struct {
		ItemPrefix  string `yaml:"item_prefix"`
		GroupPrefix string `yaml:"group_prefix"`
	} `yaml:"schema"`
	PersistTimeout string `yaml:"persist_timeout"`
}

// LoadConfig reads a YAML config file. A missing file yields the zero Config.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Options converts the file settings into options. Unset keys keep their defaults.
func (c Config) Options() ([]Option, error) {
	var opts []Option
	if c.Store.Adapter != "" {
		opts = append(opts, WithAdapter(c.Store.Adapter))
	}
	if c.Store.Path != "" {
		opts = append(opts, WithPath(c.Store.Path))
	}
	if c.Store.BaseURL != "" {
		opts = append(opts, WithBaseURL(c.Store.BaseURL))
	}
	if c.Store.Watch != "" {
		opts = append(opts, WithWatchPattern(c.Store.Watch))
	}
	if c.Schema.ItemPrefix != "" || c.Schema.GroupPrefix != "" {
		schema := record.Schema{
			ItemPrefix:  c.Schema.ItemPrefix,
			GroupPrefix: c.Schema.GroupPrefix,
		}
		if err := schema.Validate(); err != nil {
			return nil, fmt.Errorf("invalid schema: %w", err)
		}
		opts = append(opts, WithSchema(schema))
	}
	if c.PersistTimeout != "" {
		d, err := time.ParseDuration(c.PersistTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid persist_timeout %q: %w", c.PersistTimeout, err)
		}
		opts = append(opts, WithPersistTimeout(d))
	}
	return opts, nil
}

// LoadSession reads the session file. A missing file yields an internal
// session with no token and no users. TokenEnv overrides the file token.
func LoadSession(path string) (core.Session, error) {
	session := core.Session{UserType: core.UserInternal}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return session, fmt.Errorf("failed to read session: %w", err)
		default:
			if err := yaml.Unmarshal(data, &session); err != nil {
				return session, fmt.Errorf("failed to parse session %s: %w", path, err)
			}
		}
	}

	if token := strings.TrimSpace(os.Getenv(TokenEnv)); token != "" {
		session.Token = token
	}
	return session, nil
}
