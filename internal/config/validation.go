package config

import (
	"fmt"

	"github.com/LeJamon/goAMMd/internal/core/dec"
)

// ValidateConfig performs validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := validateEngine(&config.Engine); err != nil {
		return fmt.Errorf("engine config validation failed: %w", err)
	}
	if err := validateStorage(&config.Storage); err != nil {
		return fmt.Errorf("storage config validation failed: %w", err)
	}
	if err := validateHistory(&config.History); err != nil {
		return fmt.Errorf("history config validation failed: %w", err)
	}
	return nil
}

func validateEngine(e *EngineConfig) error {
	fee, err := dec.Parse(e.PoolCreationFee)
	if err != nil {
		return fmt.Errorf("invalid pool_creation_fee: %w", err)
	}
	if fee.IsNegative() {
		return fmt.Errorf("pool_creation_fee cannot be negative")
	}
	if fee.IsPositive() && e.FeeSymbol == "" {
		return fmt.Errorf("fee_symbol is required when pool_creation_fee is set")
	}

	slippage, err := dec.Parse(e.MaxSlippage)
	if err != nil {
		return fmt.Errorf("invalid max_slippage: %w", err)
	}
	if slippage.IsNegative() || slippage.GreaterThanOrEqual(dec.One) {
		return fmt.Errorf("max_slippage must be a fraction in [0, 1)")
	}

	if _, err := dec.Parse(e.MaxDeviation); err != nil {
		return fmt.Errorf("invalid max_deviation: %w", err)
	}

	if e.ContractAccount == "" {
		return fmt.Errorf("contract_account is required")
	}
	if e.BurnAccount == "" {
		return fmt.Errorf("burn_account is required")
	}
	return nil
}

func validateStorage(s *StorageConfig) error {
	switch s.Backend {
	case "pebble", "leveldb", "memory":
	default:
		return fmt.Errorf("unknown backend %q", s.Backend)
	}
	if s.Backend != "memory" && s.Path == "" {
		return fmt.Errorf("path is required for backend %q", s.Backend)
	}
	if s.CacheSize < 0 {
		return fmt.Errorf("cache_size cannot be negative")
	}
	return nil
}

func validateHistory(h *HistoryConfig) error {
	if !h.Enabled {
		return nil
	}
	switch h.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown driver %q", h.Driver)
	}
	if h.DSN == "" {
		return fmt.Errorf("dsn is required when history is enabled")
	}
	return nil
}
