package config

import (
	"strings"
	"time"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyStoreDefaults(&cfg.Store)
	applyTransferDefaults(&cfg.Transfer)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyServerDefaults sets network listener defaults.
func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "0.0.0.0:8080"
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
}

// applyStoreDefaults sets the staging directory default.
func applyStoreDefaults(cfg *StoreConfig) {
	if cfg.BaseDir == "" {
		cfg.BaseDir = "./storage"
	}
}

// applyTransferDefaults sets ingest tuning defaults.
func applyTransferDefaults(cfg *TransferConfig) {
	if cfg.IngestBufferBytes == 0 {
		cfg.IngestBufferBytes = 8192
	}
	if cfg.MetaPersistInterval == 0 {
		cfg.MetaPersistInterval = 1 << 20 // 1 MiB
	}
}

// GetDefaultConfig returns a Config populated entirely with default values.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
