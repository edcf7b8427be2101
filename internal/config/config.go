// Package config loads runtime settings for the ArcUp site server and the
// contact function.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr  = ":4321"
	defaultStaticDir   = "dist"
	defaultEnvironment = "development"
	defaultLogLevel    = "INFO"
	defaultMailFrom    = "ArcUp <onboarding@resend.dev>"
	defaultLogMaxMB    = 10
	defaultLogMaxFiles = 5
	defaultLogMaxAge   = 24 * time.Hour

	envListenAddr   = "LISTEN_ADDR"
	envPort         = "PORT"
	envStaticDir    = "ARCUP_STATIC_DIR"
	envCatalog      = "ARCUP_CATALOG"
	envEnvironment  = "ARCUP_ENV"
	envNodeEnv      = "NODE_ENV"
	envLogLevel     = "ARCUP_LOG_LEVEL"
	envLogDir       = "ARCUP_LOG_DIR"
	envLogMaxMB     = "ARCUP_LOG_MAX_SIZE_MB"
	envLogMaxFiles  = "ARCUP_LOG_MAX_FILES"
	envLogMaxAge    = "ARCUP_LOG_MAX_AGE"
	envResendAPIKey = "RESEND_API_KEY"
	envMailFrom     = "ARCUP_MAIL_FROM"
	envMailTo       = "ARCUP_MAIL_TO"
	envMailEndpoint = "ARCUP_MAIL_ENDPOINT"
)

// Mail configures contact notification delivery. With no APIKey messages are
// logged instead of sent.
type Mail struct {
	APIKey   string   `yaml:"api_key"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
	Endpoint string   `yaml:"endpoint"`
}

// LogFiles configures rotation of the log file written under LogDir.
type LogFiles struct {
	MaxSizeMB int           `yaml:"max_size_mb"`
	MaxFiles  int           `yaml:"max_files"`
	MaxAge    time.Duration `yaml:"max_age"`
}

// Config captures runtime settings.
type Config struct {
	ListenAddr  string   `yaml:"listen_addr"`
	StaticDir   string   `yaml:"static_dir"`
	CatalogPath string   `yaml:"catalog"`
	Environment string   `yaml:"environment"`
	LogLevel    string   `yaml:"log_level"`
	LogDir      string   `yaml:"log_dir"`
	LogFiles    LogFiles `yaml:"log_files"`
	Mail        Mail     `yaml:"mail"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		ListenAddr:  defaultListenAddr,
		StaticDir:   defaultStaticDir,
		Environment: defaultEnvironment,
		LogLevel:    defaultLogLevel,
		LogFiles: LogFiles{
			MaxSizeMB: defaultLogMaxMB,
			MaxFiles:  defaultLogMaxFiles,
			MaxAge:    defaultLogMaxAge,
		},
		Mail: Mail{From: defaultMailFrom},
	}
}

// Load builds a Config from defaults, the YAML file at path when path is not
// empty, and then the environment.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv constructs a Config from defaults and environment variables only.
func FromEnv() (Config, error) {
	return Load("")
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	if v := get(envListenAddr); v != "" {
		c.ListenAddr = v
	} else if port := get(envPort); port != "" {
		c.ListenAddr = fmt.Sprintf(":%s", port)
	}
	if v := get(envStaticDir); v != "" {
		c.StaticDir = v
	}
	if v := get(envCatalog); v != "" {
		c.CatalogPath = v
	}
	if v := get(envEnvironment); v != "" {
		c.Environment = v
	} else if v := get(envNodeEnv); v != "" {
		c.Environment = v
	}
	if v := get(envLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := get(envLogDir); v != "" {
		c.LogDir = v
	}
	if v := get(envResendAPIKey); v != "" {
		c.Mail.APIKey = v
	}
	if v := get(envMailFrom); v != "" {
		c.Mail.From = v
	}
	if v := get(envMailTo); v != "" {
		c.Mail.To = splitList(v)
	}
	if v := get(envMailEndpoint); v != "" {
		c.Mail.Endpoint = v
	}

	for key, dst := range map[string]*int{envLogMaxMB: &c.LogFiles.MaxSizeMB, envLogMaxFiles: &c.LogFiles.MaxFiles} {
		v := get(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = n
	}
	if v := get(envLogMaxAge); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", envLogMaxAge, err)
		}
		c.LogFiles.MaxAge = d
	}
	return nil
}

// Production reports whether failure details must be hidden from clients.
func (c Config) Production() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

// Validate ensures the configuration is usable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("config: listen address is required")
	}
	if strings.TrimSpace(c.StaticDir) == "" {
		return fmt.Errorf("config: static directory is required")
	}
	if strings.TrimSpace(c.Mail.From) == "" {
		return fmt.Errorf("config: mail sender is required")
	}
	if c.LogFiles.MaxSizeMB <= 0 || c.LogFiles.MaxFiles <= 0 || c.LogFiles.MaxAge <= 0 {
		return fmt.Errorf("config: log rotation limits must be positive")
	}
	if c.Mail.APIKey != "" && len(c.Mail.To) == 0 {
		return fmt.Errorf("config: mail recipient is required when %s is set", envResendAPIKey)
	}
	return nil
}

// Flags holds command-line overrides. Only flags set on the command line
// replace loaded values.
type Flags struct {
	fs *pflag.FlagSet

	ConfigPath  string
	listenAddr  string
	staticDir   string
	catalogPath string
	environment string
	logLevel    string
	logDir      string
}

// RegisterFlags adds the server flags to fs.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	def := Defaults()
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to a YAML config file")
	fs.StringVar(&f.listenAddr, "listen", def.ListenAddr, "address to listen on")
	fs.StringVar(&f.staticDir, "dir", def.StaticDir, "directory containing the built site")
	fs.StringVar(&f.catalogPath, "catalog", "", "path to a persona/pillar catalog YAML (default: built in)")
	fs.StringVar(&f.environment, "env", def.Environment, "environment name (production hides error details)")
	fs.StringVar(&f.logLevel, "log-level", def.LogLevel, "minimum log level")
	fs.StringVar(&f.logDir, "log-dir", "", "directory for rotated log files (default: stdout only)")
	return f
}

// Apply copies every flag the user set onto c.
func (f *Flags) Apply(c *Config) {
	set := func(name string, dst *string, v string) {
		if f.fs.Changed(name) {
			*dst = v
		}
	}
	set("listen", &c.ListenAddr, f.listenAddr)
	set("dir", &c.StaticDir, f.staticDir)
	set("catalog", &c.CatalogPath, f.catalogPath)
	set("env", &c.Environment, f.environment)
	set("log-level", &c.LogLevel, f.logLevel)
	set("log-dir", &c.LogDir, f.logDir)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
