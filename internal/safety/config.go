package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Environment variables recognized at load time.
const (
	// EnvConfig points at the purgeall.yaml to load.
	EnvConfig = "PURGEALL_CONFIG"
	// EnvDeployEnv is the deployment environment indicator.
	// "production" or "prod" marks a production deployment.
	EnvDeployEnv = "PURGEALL_ENV"
	// EnvDisabled disables bulk deletion unconditionally when set to
	// "true" or "1". It wins over every other setting.
	EnvDisabled = "PURGEALL_DISABLED"
)

// Config holds all safety parameters plus deployment wiring.
// Loaded once at process start; reloading is a fresh Load, never an
// in-place mutation.
type Config struct {
	Enabled                       bool     `yaml:"enabled"`
	ProductionEnabled             bool     `yaml:"production_enabled"`
	ExcludedApps                  []string `yaml:"excluded_apps"`
	ExcludedModels                []string `yaml:"excluded_models"`
	MaxObjectsWithoutConfirmation int64    `yaml:"max_objects_without_confirmation"`
	RequireConfirmationAbove      int64    `yaml:"require_confirmation_above"`
	AuditDeletions                bool     `yaml:"audit_deletions"`

	// Recognized for forward compatibility; no component acts on it yet.
	BackupBeforeDelete bool `yaml:"backup_before_delete"`

	// Deployment wiring.
	Database string `yaml:"database"`
	AuditLog string `yaml:"audit_log"`
}

// DefaultConfig returns the built-in safety defaults.
func DefaultConfig() *Config {
	return &Config{
		Enabled:           true,
		ProductionEnabled: false,
		ExcludedApps: []string{
			"auth",
			"admin",
			"contenttypes",
			"sessions",
			"messages",
			"staticfiles",
		},
		ExcludedModels:                []string{},
		MaxObjectsWithoutConfirmation: 100,
		RequireConfirmationAbove:      10,
		AuditDeletions:                true,
		BackupBeforeDelete:            false,
	}
}

// LoadOptions control how environment overrides are applied.
type LoadOptions struct {
	// ProductionOverride suppresses the production-indicator check
	// (CLI --production-override). The explicit disable flag still wins.
	ProductionOverride bool

	// Lookup resolves environment variables. Nil means os.Getenv.
	Lookup func(string) string

	// Logger receives the override warning. Nil means no logging.
	Logger *zap.Logger
}

// Load reads safety configuration from a YAML file and applies
// environment overrides. A missing file returns defaults. Invalid YAML
// returns an error. Overrides are evaluated once, here, never per call.
func Load(path string, opts LoadOptions) (*Config, error) {
	if opts.Lookup == nil {
		opts.Lookup = os.Getenv
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read safety config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse safety config: %w", err)
		}
	}

	cfg.applyEnvOverrides(opts)
	return cfg, nil
}

func (c *Config) applyEnvOverrides(opts LoadOptions) {
	if !opts.ProductionOverride && !c.ProductionEnabled && c.productionIndicated(opts.Lookup) {
		if c.Enabled {
			opts.Logger.Warn("bulk deletion disabled in production environment",
				zap.String("env", opts.Lookup(EnvDeployEnv)),
				zap.String("database", c.Database))
		}
		c.Enabled = false
	}

	switch strings.ToLower(opts.Lookup(EnvDisabled)) {
	case "true", "1":
		c.Enabled = false
	}
}

// productionIndicated reports whether the deployment looks like
// production: an explicit environment flag, or a datastore name that
// carries a production marker.
func (c *Config) productionIndicated(lookup func(string) string) bool {
	switch strings.ToLower(lookup(EnvDeployEnv)) {
	case "production", "prod":
		return true
	}
	return strings.Contains(strings.ToLower(filepath.Base(c.Database)), "prod")
}

// DefaultConfigYAML returns a commented YAML string for purgeall init.
func DefaultConfigYAML() string {
	return `# purgeall configuration
# Generated by: purgeall init
#
# Safety rules, applied in order (first failing rule wins):
#   1. enabled: false            -> blocked
#   2. namespace in excluded_apps -> blocked
#   3. model in excluded_models   -> blocked
#   4. count > max_objects_without_confirmation -> blocked

enabled: true

# Deletion stays disabled when PURGEALL_ENV=production (or the database
# name carries a "prod" marker) unless production_enabled is true.
production_enabled: false

# Namespaces that can never be bulk-deleted.
excluded_apps:
  - auth
  - admin
  - contenttypes
  - sessions
  - messages
  - staticfiles

# Fully qualified models (namespace.model) that can never be bulk-deleted.
excluded_models: []

# Hard ceiling: deletions above this count are blocked outright.
max_objects_without_confirmation: 100

# Deletions above this count require an explicit confirmation.
require_confirmation_above: 10

# Record every attempt and success in the audit log.
audit_deletions: true

# Recognized but not implemented yet.
backup_before_delete: false

# Deployment wiring.
database: ./app.db
audit_log: ./purgeall-audit.jsonl
`
}
