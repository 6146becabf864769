// Package config provides a reusable loader for the runtime's
// configuration files and environment variables, layering YAML defaults
// with environment-specific overrides and `.env` values.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/nexargate/resource-engine/pkg/utils"
)

// Config is the unified configuration for a standalone runtime process
// (the txsim CLI or an embedding host): where the ledger lives, how
// often it compacts, and the simulator-level defaults (trace logging,
// a default account address for convenience commands).
type Config struct {
	Ledger struct {
		DataDir          string `mapstructure:"data_dir" json:"data_dir"`
		SnapshotInterval int    `mapstructure:"snapshot_interval" json:"snapshot_interval"`
	} `mapstructure:"ledger" json:"ledger"`

	Runtime struct {
		Trace          bool   `mapstructure:"trace" json:"trace"`
		DefaultAccount string `mapstructure:"default_account" json:"default_account"`
	} `mapstructure:"runtime" json:"runtime"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment-specific
// overrides. The resulting configuration is stored in AppConfig and
// returned. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	_ = godotenv.Load() // best effort; a missing .env is not an error

	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/txsim/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.AutomaticEnv()

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the RESOURCE_ENGINE_ENV
// environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("RESOURCE_ENGINE_ENV", ""))
}
