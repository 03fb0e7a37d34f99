package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all cczip configuration.
type Config struct {
	// Context ceiling used for percentage targets and usage reporting.
	CtxLimit int `yaml:"ctx_limit"`

	// Root of the Claude projects tree (default: ~/.claude/projects).
	ProjectsDir string `yaml:"projects_dir"`

	// Span selection
	Compaction CompactionConfig `yaml:"compaction"`

	// Backup retention
	Backup BackupConfig `yaml:"backup"`

	// Live usage reporting
	Watch WatchConfig `yaml:"watch"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// BackupConfig controls the timestamped copies taken before a rewrite.
type BackupConfig struct {
	// MaxBackups keeps at most this many backups per session file. 0 keeps all.
	MaxBackups int `yaml:"max_backups"`
}

// WatchConfig configures `cczip watch`.
type WatchConfig struct {
	Debounce    string `yaml:"debounce"`
	WarnPercent int    `yaml:"warn_percent"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CtxLimit: 200000,

		Compaction: CompactionConfig{
			DefaultCompressPercent: 50,
			ProtectStart:           2,
			ProtectEnd:             3,
			RecentWindow:           3,
			MinWordLength:          4,
		},

		Backup: BackupConfig{
			MaxBackups: 0,
		},

		Watch: WatchConfig{
			Debounce:    "500ms",
			WarnPercent: 80,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPath returns ~/.config/cczip/config.yaml, or "" when the home
// directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "cczip", "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// Override with environment variables
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from a .env file into the process
// environment without overriding variables that are already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies CCZIP_* environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"CCZIP_CTX_LIMIT", &c.CtxLimit},
		{"CCZIP_PROTECT_START", &c.Compaction.ProtectStart},
		{"CCZIP_PROTECT_END", &c.Compaction.ProtectEnd},
		{"CCZIP_MAX_BACKUPS", &c.Backup.MaxBackups},
	}
	for _, o := range ints {
		v := os.Getenv(o.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", o.name, v, err)
		}
		*o.dst = n
	}

	if dir := os.Getenv("CCZIP_PROJECTS_DIR"); dir != "" {
		c.ProjectsDir = dir
	}
	if level := os.Getenv("CCZIP_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	return nil
}

// ResolveProjectsDir returns the configured projects root or ~/.claude/projects.
func (c *Config) ResolveProjectsDir() (string, error) {
	if c.ProjectsDir != "" {
		return c.ProjectsDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "projects"), nil
}

// GetWatchDebounce returns the watch debounce as a duration.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.CtxLimit <= 0 {
		return fmt.Errorf("ctx_limit must be > 0, got %d", c.CtxLimit)
	}
	if err := c.ValidateCompaction(); err != nil {
		return err
	}
	if c.Backup.MaxBackups < 0 {
		return fmt.Errorf("backup.max_backups must be >= 0")
	}
	if c.Watch.WarnPercent < 0 || c.Watch.WarnPercent > 100 {
		return fmt.Errorf("watch.warn_percent must be within 0..100")
	}
	return nil
}
