// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Storage StorageConfig
	Auth    AuthConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig holds database storage configuration.
type StorageConfig struct {
	// Path is the SQLite database file location.
	Path string
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// SessionDuration is how long a session token stays valid (default: 168h / 7 days).
	SessionDuration time.Duration
	// SweepInterval is how often expired sessions are purged (default: 1h).
	SweepInterval time.Duration
	// SecureCookies marks session cookies as Secure. Forced on in production.
	SecureCookies bool
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dbPath := flag.String("db-path", "", "Path to the SQLite database file")

	sessionDuration := flag.String("session-duration", "", "Session lifetime (e.g., 168h)")
	sweepInterval := flag.String("sweep-interval", "", "Expired session sweep interval (e.g., 1h)")
	secureCookies := flag.String("secure-cookies", "", "Mark session cookies Secure (default: true in production)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Path: getConfigValue(*dbPath, "DB_PATH", ""),
		},
	}

	// Parse auth durations.
	sessionDurationStr := getConfigValue(*sessionDuration, "SESSION_DURATION", "168h")
	parsedSession, err := time.ParseDuration(sessionDurationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid session duration %q: %w", sessionDurationStr, err)
	}
	cfg.Auth.SessionDuration = parsedSession

	sweepIntervalStr := getConfigValue(*sweepInterval, "SWEEP_INTERVAL", "1h")
	parsedSweep, err := time.ParseDuration(sweepIntervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep interval %q: %w", sweepIntervalStr, err)
	}
	cfg.Auth.SweepInterval = parsedSweep

	cfg.Auth.SecureCookies = getBoolConfigValue(*secureCookies, "SECURE_COOKIES",
		cfg.App.Environment == "production")
	if cfg.App.Environment == "production" {
		cfg.Auth.SecureCookies = true
	}

	// Expand and validate database path.
	if err := cfg.expandStoragePath(); err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Storage.Path == "" {
		return errors.New("database path cannot be empty after expansion")
	}

	if c.Auth.SessionDuration <= 0 {
		return errors.New("session duration must be positive")
	}
	if c.Auth.SweepInterval <= 0 {
		return errors.New("sweep interval must be positive")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandStoragePath expands ~ and makes the database path absolute.
// Defaults to ~/Taleblock/taleblock.db.
func (c *Config) expandStoragePath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Taleblock", "taleblock.db")

	expanded, err := expandPath(c.Storage.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Storage.Path = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
