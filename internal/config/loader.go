package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultConfigFile is the config file name looked up by default.
const DefaultConfigFile = "ammd.toml"

// LoadConfig loads configuration from multiple sources in priority order:
// 1. Default values
// 2. Configuration file (ammd.toml), if the path is non-empty
// 3. Environment variables (AMMD_ prefix)
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults first
	setDefaults(v)

	// 2. Load configuration file when one was given
	if configPath != "" {
		if err := loadMainConfig(v, configPath); err != nil {
			return nil, fmt.Errorf("failed to load main config: %w", err)
		}
	}

	// 3. Set up environment variable support
	v.SetEnvPrefix("AMMD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Unmarshal into struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.configPath = configPath

	// 5. Validate the complete configuration
	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// loadMainConfig loads the main configuration file
func loadMainConfig(v *viper.Viper, configPath string) error {
	v.SetConfigFile(configPath)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	return nil
}

// LoadConfigFromDir loads configuration from a directory containing ammd.toml
func LoadConfigFromDir(configDir string) (*Config, error) {
	return LoadConfig(filepath.Join(configDir, DefaultConfigFile))
}

// LoadDefaultConfig loads built-in defaults plus environment overrides,
// without requiring a config file.
func LoadDefaultConfig() (*Config, error) {
	return LoadConfig("")
}

// SaveExampleConfig saves an example configuration file
func SaveExampleConfig(configPath string) error {
	exampleConfig := generateExampleConfig()

	v := viper.New()
	for key, value := range exampleConfig {
		v.Set(key, value)
	}

	v.SetConfigFile(configPath)
	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write example config: %w", err)
	}

	return nil
}

// generateExampleConfig generates example configuration values
func generateExampleConfig() map[string]interface{} {
	return map[string]interface{}{
		"engine.pool_creation_fee": "100",
		"engine.fee_symbol":        "BEE",
		"engine.fee_account":       "amm.fees",
		"engine.burn_account":      "null",
		"engine.contract_account":  "amm.pools",
		"engine.peg_symbol":        "USD",
		"engine.max_slippage":      "0.01",
		"engine.max_deviation":     "0.05",

		"storage.backend":     "pebble",
		"storage.path":        "/var/lib/ammd/db",
		"storage.compression": true,
		"storage.cache_size":  1024,

		"history.enabled": true,
		"history.driver":  "sqlite",
		"history.dsn":     "file:/var/lib/ammd/history.db",
	}
}
