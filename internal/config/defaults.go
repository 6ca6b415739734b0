package config

import "github.com/spf13/viper"

// setDefaults sets all default values for a standalone node.
func setDefaults(v *viper.Viper) {
	// Engine defaults
	v.SetDefault("engine.pool_creation_fee", "0")
	v.SetDefault("engine.fee_symbol", "")
	v.SetDefault("engine.fee_account", "")
	v.SetDefault("engine.burn_account", "null")
	v.SetDefault("engine.contract_account", "amm.pools")
	v.SetDefault("engine.peg_symbol", "USD")
	v.SetDefault("engine.max_slippage", "0.01")
	v.SetDefault("engine.max_deviation", "0")

	// Storage defaults
	v.SetDefault("storage.backend", "pebble")
	v.SetDefault("storage.path", "data")
	v.SetDefault("storage.compression", true)
	v.SetDefault("storage.cache_size", 1024)

	// History defaults
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.driver", "sqlite")
	v.SetDefault("history.dsn", "file:history.db")
}
