// Package config provides configuration management functionality.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ReturnsPath  string  // Reference returns CSV (percentage points)
	MetadataPath string  // Instrument metadata CSV; empty skips loading
	ReturnsScale float64 // Divisor applied to every return value
	Alpha        float64 // L1 penalty weight
	MaxIter      int     // Coordinate-descent pass limit
	Tol          float64 // Convergence tolerance
	Positive     bool    // Restrict hedge weights to be non-negative
	LogLevel     string
	LogPretty    bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Set-but-empty disables metadata loading, unset uses the default file
	metadataPath, set := os.LookupEnv("HEDGER_METADATA_PATH")
	if !set {
		metadataPath = "stocks_metadata.csv"
	}

	var env envParser
	cfg := &Config{
		ReturnsPath:  getEnv("HEDGER_RETURNS_PATH", "stocks_returns.csv"),
		MetadataPath: metadataPath,
		ReturnsScale: env.getFloat("HEDGER_RETURNS_SCALE", 100),
		Alpha:        env.getFloat("HEDGER_ALPHA", 0.1),
		MaxIter:      env.getInt("HEDGER_MAX_ITER", 10000),
		Tol:          env.getFloat("HEDGER_TOL", 1e-4),
		Positive:     env.getBool("HEDGER_POSITIVE", false),
		LogLevel:     getEnv("LOG_LEVEL", "warn"),
		LogPretty:    env.getBool("LOG_PRETTY", false),
	}
	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}

	// Validate ranges
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that numeric settings are in range
func (c *Config) Validate() error {
	if c.ReturnsPath == "" {
		return fmt.Errorf("returns path is required")
	}
	if !(c.ReturnsScale > 0) || math.IsInf(c.ReturnsScale, 0) {
		return fmt.Errorf("returns scale must be a positive number, got %v", c.ReturnsScale)
	}
	if !(c.Alpha >= 0) || math.IsInf(c.Alpha, 0) {
		return fmt.Errorf("alpha must be a finite number >= 0, got %v", c.Alpha)
	}
	if c.MaxIter < 1 {
		return fmt.Errorf("max iterations must be >= 1, got %d", c.MaxIter)
	}
	if !(c.Tol > 0) {
		return fmt.Errorf("tolerance must be > 0, got %v", c.Tol)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envParser reads typed environment values, collecting every malformed one
// instead of silently falling back to the default.
type envParser struct {
	errs []error
}

func (p *envParser) getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s %q: %w", key, value, err))
		return defaultValue
	}
	return intVal
}

func (p *envParser) getFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s %q: %w", key, value, err))
		return defaultValue
	}
	return floatVal
}

func (p *envParser) getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s %q: %w", key, value, err))
		return defaultValue
	}
	return boolVal
}
