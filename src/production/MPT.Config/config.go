package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the local env file loaded before reading the environment
const DefaultEnvFile = "./.env.local"

const (
	EnvSupabaseURL            = "SUPABASE_URL"
	EnvSupabaseServiceRoleKey = "SUPABASE_SERVICE_ROLE_KEY"
	EnvSupabaseAnonKey        = "SUPABASE_ANON_KEY"
)

// SeederConfig holds configuration for the device seeder
type SeederConfig struct {
	// Supabase configuration
	Supabase SupabaseConfig `json:"supabase"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// EnvFileErr is set when the env file exists but could not be parsed
	EnvFileErr error `json:"-"`
}

// SupabaseConfig holds the project URL and the credential used by the client
type SupabaseConfig struct {
	URL       string `json:"url"`
	Key       string `json:"-"`
	KeySource string `json:"key_source"` // name of the variable the key was read from
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level        string `json:"level"`
	Format       string `json:"format"` // json or text
	Output       string `json:"output"` // stdout or stderr
	EnableCaller bool   `json:"enable_caller"`
}

// MissingEnvError reports required environment variables that resolved to empty
type MissingEnvError struct {
	Vars []string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("%s and %s (or %s) must be set in the environment, missing: %v",
		EnvSupabaseURL, EnvSupabaseServiceRoleKey, EnvSupabaseAnonKey, e.Vars)
}

// Load loads the seeder configuration from DefaultEnvFile and the environment
func Load() (*SeederConfig, error) {
	return LoadFrom(DefaultEnvFile)
}

// LoadFrom loads envFile into the process environment without overriding
// variables that are already set, then reads the seeder configuration.
func LoadFrom(envFile string) (*SeederConfig, error) {
	// Try to load the env file, but don't fail if it is missing or malformed.
	// A malformed file is kept on the config so it can be logged as a warning.
	var envFileErr error
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		envFileErr = fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	enableCaller, err := getBool("LOG_ENABLE_CALLER", false)
	if err != nil {
		return nil, err
	}

	config := &SeederConfig{
		Supabase: SupabaseConfig{
			URL: getEnv(EnvSupabaseURL, ""),
		},
		Logging: LoggingConfig{
			Level:        getEnv("LOG_LEVEL", "warn"),
			Format:       getEnv("LOG_FORMAT", "text"),
			Output:       getEnv("LOG_OUTPUT", "stderr"),
			EnableCaller: enableCaller,
		},
		EnvFileErr: envFileErr,
	}
	config.Supabase.Key, config.Supabase.KeySource = getFirstEnv(EnvSupabaseServiceRoleKey, EnvSupabaseAnonKey)

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that both the URL and a credential are present
func (c *SeederConfig) Validate() error {
	var missing []string
	if c.Supabase.URL == "" {
		missing = append(missing, EnvSupabaseURL)
	}
	if c.Supabase.Key == "" {
		missing = append(missing, EnvSupabaseServiceRoleKey, EnvSupabaseAnonKey)
	}
	if len(missing) > 0 {
		return &MissingEnvError{Vars: missing}
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getFirstEnv returns the first non-empty value among keys and the key it came from
func getFirstEnv(keys ...string) (string, string) {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value, key
		}
	}
	return "", ""
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if value == "1" || value == "true" || value == "TRUE" {
		return true, nil
	}
	if value == "0" || value == "false" || value == "FALSE" {
		return false, nil
	}
	return defaultValue, fmt.Errorf("invalid %s: %q (expected true/false or 1/0)", key, value)
}
