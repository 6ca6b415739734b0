// Package config loads node configuration from defaults, an optional
// config file and AMMD_ environment variables.
package config

import (
	"fmt"

	"github.com/LeJamon/goAMMd/internal/core/action"
	"github.com/LeJamon/goAMMd/internal/core/dec"
)

// Config represents the complete ammd configuration.
type Config struct {
	Engine  EngineConfig  `toml:"engine" mapstructure:"engine"`
	Storage StorageConfig `toml:"storage" mapstructure:"storage"`
	History HistoryConfig `toml:"history" mapstructure:"history"`

	// Internal field for configuration management
	configPath string `toml:"-" mapstructure:"-"`
}

// EngineConfig holds the pool engine parameters. Amounts and fractions
// are decimal text so no float ever reaches the engine.
type EngineConfig struct {
	// PoolCreationFee is burned on each pool creation. "0" disables it.
	PoolCreationFee string `toml:"pool_creation_fee" mapstructure:"pool_creation_fee"`
	// FeeSymbol is the token the creation fee is paid in.
	FeeSymbol string `toml:"fee_symbol" mapstructure:"fee_symbol"`
	// FeeAccount is exempt from the creation fee.
	FeeAccount string `toml:"fee_account" mapstructure:"fee_account"`
	// BurnAccount receives burned creation fees.
	BurnAccount string `toml:"burn_account" mapstructure:"burn_account"`
	// ContractAccount holds pool reserves in custody.
	ContractAccount string `toml:"contract_account" mapstructure:"contract_account"`
	// PegSymbol is the oracle's unit of account; it is always priced at 1.
	PegSymbol string `toml:"peg_symbol" mapstructure:"peg_symbol"`
	// MaxSlippage is the default slippage fraction for deposits and swaps.
	MaxSlippage string `toml:"max_slippage" mapstructure:"max_slippage"`
	// MaxDeviation is the default oracle deviation fraction for first
	// deposits. A non-positive value disables the guard.
	MaxDeviation string `toml:"max_deviation" mapstructure:"max_deviation"`
}

// StorageConfig selects and tunes the key-value backend.
type StorageConfig struct {
	// Backend is one of "pebble", "leveldb" or "memory".
	Backend string `toml:"backend" mapstructure:"backend"`
	// Path is the base directory for on-disk backends.
	Path string `toml:"path" mapstructure:"path"`
	// Compression enables transparent lz4 value compression.
	Compression bool `toml:"compression" mapstructure:"compression"`
	// CacheSize is the pool record cache capacity.
	CacheSize int `toml:"cache_size" mapstructure:"cache_size"`
}

// HistoryConfig configures the relational action history store. The
// history store is an observer; the engine never reads from it.
type HistoryConfig struct {
	Enabled bool `toml:"enabled" mapstructure:"enabled"`
	// Driver is "sqlite" or "postgres".
	Driver string `toml:"driver" mapstructure:"driver"`
	// DSN is the driver-specific data source name.
	DSN string `toml:"dsn" mapstructure:"dsn"`
}

// GetConfigPath returns the path to the main configuration file.
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// EngineParams converts the decimal-text engine settings into the
// typed parameter struct actions consume.
func (c *Config) EngineParams() (action.Params, error) {
	fee, err := dec.Parse(c.Engine.PoolCreationFee)
	if err != nil {
		return action.Params{}, fmt.Errorf("invalid pool_creation_fee: %w", err)
	}
	slippage, err := dec.Parse(c.Engine.MaxSlippage)
	if err != nil {
		return action.Params{}, fmt.Errorf("invalid max_slippage: %w", err)
	}
	deviation, err := dec.Parse(c.Engine.MaxDeviation)
	if err != nil {
		return action.Params{}, fmt.Errorf("invalid max_deviation: %w", err)
	}

	return action.Params{
		PoolCreationFee:     fee,
		FeeSymbol:           c.Engine.FeeSymbol,
		FeeAccount:          c.Engine.FeeAccount,
		BurnAccount:         c.Engine.BurnAccount,
		ContractAccount:     c.Engine.ContractAccount,
		PegSymbol:           c.Engine.PegSymbol,
		DefaultMaxSlippage:  slippage,
		DefaultMaxDeviation: deviation,
	}, nil
}
