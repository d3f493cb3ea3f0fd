package config

import (
	"fmt"
	"runtime"
)

// Validator checks a Config for internal consistency and fills in any
// fields Load left at their zero value.
type Validator struct{}

func NewValidator() *Validator { return &Validator{} }

// ValidateAndSetDefaults validates cfg and applies smart defaults for
// fields a flams.kdl file left unset.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if len(cfg.Library.Roots) == 0 {
		return fmt.Errorf("config: library.root must name at least one archive root")
	}
	if cfg.Cache.DocumentCapacity < 0 {
		return fmt.Errorf("config: cache.document_capacity cannot be negative, got %d", cfg.Cache.DocumentCapacity)
	}
	if cfg.Cache.ModuleCapacity < 0 {
		return fmt.Errorf("config: cache.module_capacity cannot be negative, got %d", cfg.Cache.ModuleCapacity)
	}
	if cfg.Watch.DebounceMs < 0 {
		return fmt.Errorf("config: watch.debounce_ms cannot be negative, got %d", cfg.Watch.DebounceMs)
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8090"
	}
	if cfg.Watch.DebounceMs == 0 {
		cfg.Watch.DebounceMs = 300
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 300
	}
	if cfg.Cache.DocumentCapacity == 0 {
		cfg.Cache.DocumentCapacity = max(runtime.NumCPU(), 100)
	}
	if cfg.Cache.ModuleCapacity == 0 {
		cfg.Cache.ModuleCapacity = 2000
	}
}

// Validate is a convenience wrapper around ValidateAndSetDefaults.
func Validate(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
