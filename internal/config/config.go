// Package config loads and validates leadsync configuration via Viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	GCP       GCPConfig       `mapstructure:"gcp"`
	Warehouse WarehouseConfig `mapstructure:"warehouse"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Trigger   TriggerConfig   `mapstructure:"trigger"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// APIConfig points at the LeadDocket tenant to sync from.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// GCPConfig identifies the project and the Secret Manager secret
// holding the LeadDocket API key.
type GCPConfig struct {
	ProjectID string `mapstructure:"project_id"`
	SecretID  string `mapstructure:"secret_id"`
}

// WarehouseConfig names the BigQuery destination objects.
type WarehouseConfig struct {
	Provider     string `mapstructure:"provider"`
	Dataset      string `mapstructure:"dataset"`
	ProdTable    string `mapstructure:"prod_table"`
	StagingTable string `mapstructure:"staging_table"`
	Location     string `mapstructure:"location"`
}

// ArchiveConfig controls the optional per-run NDJSON archive.
type ArchiveConfig struct {
	Provider string `mapstructure:"provider"`
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
}

// TriggerConfig holds the Pub/Sub subscription consumed in serve mode.
type TriggerConfig struct {
	SubscriptionID  string `mapstructure:"subscription_id"`
	DefaultLookback int    `mapstructure:"default_lookback_minutes"`
}

// ServerConfig controls the health/metrics HTTP server in serve mode.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// InitConfig wires Viper defaults and environment variables, reading
// cfgFile when given and falling back to the standard search paths
// otherwise. Called once by the root command before anything else
// reads configuration.
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/leadsync/")
		viper.AddConfigPath("$HOME/.leadsync")
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("LEADSYNC") // e.g. LEADSYNC_API_BASE_URL
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Missing config files are fine; required values are enforced by
	// Validate once the typed Config is built.
	_ = viper.ReadInConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.timeout_seconds", 30)
	v.SetDefault("warehouse.provider", "bigquery")
	v.SetDefault("warehouse.location", "US")
	v.SetDefault("archive.provider", "noop")
	v.SetDefault("archive.prefix", "runs")
	v.SetDefault("trigger.default_lookback_minutes", 12)
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", false)
}

// Load builds a typed Config from a Viper instance and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces required values before any network call is made.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must be set")
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be > 0")
	}
	if c.GCP.ProjectID == "" {
		return fmt.Errorf("gcp.project_id must be set")
	}
	if c.GCP.SecretID == "" {
		return fmt.Errorf("gcp.secret_id must be set")
	}
	switch c.Warehouse.Provider {
	case "bigquery":
		if c.Warehouse.Dataset == "" {
			return fmt.Errorf("warehouse.dataset must be set")
		}
		if c.Warehouse.ProdTable == "" {
			return fmt.Errorf("warehouse.prod_table must be set")
		}
		if c.Warehouse.StagingTable == "" {
			return fmt.Errorf("warehouse.staging_table must be set")
		}
	case "noop":
	default:
		return fmt.Errorf("unknown warehouse provider: %s", c.Warehouse.Provider)
	}
	switch c.Archive.Provider {
	case "gcs":
		if c.Archive.Bucket == "" {
			return fmt.Errorf("archive.bucket must be set when archive.provider is 'gcs'")
		}
	case "noop":
	default:
		return fmt.Errorf("unknown archive provider: %s", c.Archive.Provider)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	return nil
}
