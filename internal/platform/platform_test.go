package platform

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fieldboard/pkg/adapters/copilot"
	"github.com/aretw0/fieldboard/pkg/adapters/fs"
	"github.com/aretw0/fieldboard/pkg/adapters/memory"
	"github.com/aretw0/fieldboard/pkg/core"
	"github.com/aretw0/fieldboard/pkg/record"
)

func TestOpenStore_Adapters(t *testing.T) {
	s, err := OpenStore(WithAdapter(AdapterMemory))
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, s)

	path := filepath.Join(t.TempDir(), "fields.json")
	s, err = OpenStore(WithPath(path))
	require.NoError(t, err, "fs is the default adapter")
	require.IsType(t, &fs.Store{}, s)
	assert.Equal(t, path, s.(*fs.Store).Path())

	s, err = OpenStore(WithAdapter(AdapterCopilot), WithBaseURL("https://portal.example/api"))
	require.NoError(t, err)
	assert.IsType(t, &copilot.Client{}, s)

	_, err = OpenStore(WithAdapter(AdapterCopilot))
	assert.Error(t, err, "copilot needs a base url")
}

func TestOpenStore_Unknown(t *testing.T) {
	_, err := OpenStore(WithAdapter("s3"))
	assert.True(t, errors.Is(err, core.ErrUnknownAdapter))
}

func TestOpenStore_Injected(t *testing.T) {
	injected := memory.NewStore()
	s, err := OpenStore(WithStore(injected), WithAdapter("ignored"))
	require.NoError(t, err)
	assert.Same(t, injected, s)
}

func TestNew_ActivatesAgainstStore(t *testing.T) {
	store := memory.NewStore()
	b, err := New(WithStore(store), WithPersistTimeout(time.Second))
	require.NoError(t, err)
	assert.Same(t, core.Store(store), b.Store())

	act := b.Activate(context.Background(), core.Session{UserType: core.UserInternal})
	assert.True(t, act.Seeded)
	assert.Len(t, b.Groups(), 2)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  adapter: memory
  watch: "pm_group_*"
schema:
  item_prefix: x_item_
persist_timeout: 2s
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Adapter)
	assert.Equal(t, "x_item_", cfg.Schema.ItemPrefix)

	opts, err := cfg.Options()
	require.NoError(t, err)
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	assert.Equal(t, AdapterMemory, o.adapter)
	assert.Equal(t, "pm_group_*", o.watchPattern)
	assert.Equal(t, "x_item_", o.schema.ItemPrefix)
	assert.Equal(t, 2*time.Second, o.persistTimeout)
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Empty(t, opts)
}

func TestConfig_BadTimeout(t *testing.T) {
	var cfg Config
	cfg.PersistTimeout = "soon"
	_, err := cfg.Options()
	assert.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("store: [unclosed"), 0644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadSession(t *testing.T) {
	t.Setenv(TokenEnv, "")
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
givenName: Ada
familyName: King
userType: client
token: file-token
clients:
  - id: c1
    givenName: Cleo
internalUsers:
  - id: i1
    givenName: Ines
`), 0644))

	s, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada", s.GivenName)
	assert.Equal(t, core.UserClient, s.UserType)
	assert.Equal(t, "file-token", s.Token)
	require.Len(t, s.Clients, 1)
	assert.Equal(t, "c1", s.Clients[0].ID)
	require.Len(t, s.InternalUsers, 1)

	t.Setenv(TokenEnv, "env-token")
	s, err = LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", s.Token)
}

func TestLoadSession_Missing(t *testing.T) {
	t.Setenv(TokenEnv, "")
	s, err := LoadSession(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.True(t, s.IsInternal())
	assert.Empty(t, s.Token)
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("{}"), 0644))

	found, err := FindConfig(nested)
	require.NoError(t, err)
	want, err := filepath.Abs(filepath.Join(root, ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, want, found)
}

func TestConfig_OverlappingPrefixes(t *testing.T) {
	var cfg Config
	cfg.Schema.ItemPrefix = "pm_"
	_, err := cfg.Options()
	assert.ErrorIs(t, err, record.ErrOverlappingPrefixes)

	_, err = New(WithStore(memory.NewStore()), WithSchema(record.Schema{ItemPrefix: "g_", GroupPrefix: "g_"}))
	assert.ErrorIs(t, err, record.ErrOverlappingPrefixes)
}
