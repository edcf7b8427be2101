package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcup/arcup-web/internal/content"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		envListenAddr, envPort, envStaticDir, envCatalog, envEnvironment, envNodeEnv,
		envLogLevel, envLogDir, envLogMaxMB, envLogMaxFiles, envLogMaxAge, envResendAPIKey, envMailFrom, envMailTo, envMailEndpoint,
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.False(t, cfg.Production())
	assert.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(envPort, "9000")
	t.Setenv(envNodeEnv, "production")
	t.Setenv(envResendAPIKey, "re_123")
	t.Setenv(envMailTo, " a@example.com, ,b@example.com ")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.True(t, cfg.Production())
	assert.Equal(t, "re_123", cfg.Mail.APIKey)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Mail.To)

	t.Setenv(envListenAddr, "127.0.0.1:8080")
	t.Setenv(envEnvironment, "staging")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr, "LISTEN_ADDR wins over PORT")
	assert.False(t, cfg.Production(), "ARCUP_ENV wins over NODE_ENV")
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "arcup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":7000"
static_dir: public
environment: production
mail:
  from: Site <site@example.com>
  to: [team@example.com]
`), 0o600))
	t.Setenv(envStaticDir, "build")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, "build", cfg.StaticDir)
	assert.Equal(t, "Site <site@example.com>", cfg.Mail.From)
	assert.Equal(t, []string{"team@example.com"}, cfg.Mail.To)
	assert.Equal(t, defaultLogLevel, cfg.LogLevel)
	assert.True(t, cfg.Production())
}

func TestLogRotationSettings(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "arcup.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_files:\n  max_size_mb: 2\n  max_age: 6h\n"), 0o600))
	t.Setenv(envLogMaxFiles, "9")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, LogFiles{MaxSizeMB: 2, MaxFiles: 9, MaxAge: 6 * time.Hour}, cfg.LogFiles)

	t.Setenv(envLogMaxMB, "lots")
	_, err = Load(path)
	assert.ErrorContains(t, err, envLogMaxMB)

	t.Setenv(envLogMaxMB, "")
	t.Setenv(envLogMaxAge, "forever")
	_, err = Load(path)
	assert.ErrorContains(t, err, envLogMaxAge)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "arcup.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":1\"\n"), 0o600))
	_, err := Load(path)
	assert.ErrorContains(t, err, "config: parse")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "config: read")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"defaults", func(*Config) {}, ""},
		{"no listen", func(c *Config) { c.ListenAddr = " " }, "listen address"},
		{"no static", func(c *Config) { c.StaticDir = "" }, "static directory"},
		{"no sender", func(c *Config) { c.Mail.From = "" }, "mail sender"},
		{"zero log files", func(c *Config) { c.LogFiles.MaxFiles = 0 }, "log rotation"},
		{"negative log size", func(c *Config) { c.LogFiles.MaxSizeMB = -1 }, "log rotation"},
		{"key without recipient", func(c *Config) { c.Mail.APIKey = "k" }, "mail recipient"},
		{"key with recipient", func(c *Config) { c.Mail.APIKey = "k"; c.Mail.To = []string{"x@example.com"} }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestFlagsOnlyApplyWhenSet(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--listen", ":1234", "-c", "site.yaml"}))

	cfg := Defaults()
	cfg.StaticDir = "from-file"
	flags.Apply(&cfg)

	assert.Equal(t, ":1234", cfg.ListenAddr)
	assert.Equal(t, "from-file", cfg.StaticDir, "unset flag keeps loaded value")
	assert.Equal(t, "site.yaml", flags.ConfigPath)
}

func TestWatchCatalogReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	original, err := os.ReadFile(filepath.Join("..", "content", "catalog.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, original, 0o600))

	store := content.NewStore(content.Default())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- WatchCatalog(ctx, path, store, nil) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	data := []byte(strings.Replace(string(original), "default_persona: student", "default_persona: researcher", 1))

	// The watcher may not be registered yet on the first write.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, data, 0o600)
		return store.Catalog().DefaultPersona == "researcher"
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("personas: ["), 0o600))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, "researcher", store.Catalog().DefaultPersona, "broken file keeps previous catalog")
}
