package config

import (
	"os"
	"strconv"
)

const (
	// EnvMaxFileBytes is the environment variable name for the input size limit.
	EnvMaxFileBytes = "DOCX_SANITIZER_MAX_FILE_BYTES"

	// EnvMaxUnwrapPasses is the environment variable name for the SDT unwrap
	// pass cap.
	EnvMaxUnwrapPasses = "DOCX_SANITIZER_MAX_SDT_PASSES"

	// DefaultMaxFileBytes is the default maximum accepted input size (50 MiB).
	DefaultMaxFileBytes int64 = 50 << 20

	// DefaultMaxUnwrapPasses bounds the SDT unwrap loop. One pass removes one
	// wrapper, so this is also the maximum number of wrappers handled in a
	// single document.
	DefaultMaxUnwrapPasses = 10000
)

// Config holds runtime configuration sourced from environment variables.
type Config struct {
	MaxFileSizeBytes int64
	MaxUnwrapPasses  int
}

// MaxFileSizeMB returns the configured limit in whole megabytes.
func (c *Config) MaxFileSizeMB() int64 {
	return c.MaxFileSizeBytes >> 20
}

// Load reads Config from environment variables, falling back to defaults for
// missing or invalid values.
func Load() *Config {
	cfg := &Config{
		MaxFileSizeBytes: DefaultMaxFileBytes,
		MaxUnwrapPasses:  DefaultMaxUnwrapPasses,
	}
	if v := os.Getenv(EnvMaxFileBytes); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxFileSizeBytes = n
		}
	}
	if v := os.Getenv(EnvMaxUnwrapPasses); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxUnwrapPasses = n
		}
	}
	return cfg
}
