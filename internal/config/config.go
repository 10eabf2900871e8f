// Package config loads the configuration of the ledger from the environment.
//
// Values are read from environment variables. An optional .env file in the
// working directory and an optional TOML file are loaded into the environment
// first, variables that are already set are never overwritten.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slices"
)

type Config struct {
	// HTTP Server
	APIURL string
	Port   string

	// Database. A set DBHost selects postgres, otherwise sqlite at DBPath is used.
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Logging
	LogFormat string
	GinMode   string

	// Router
	CORSAllowOrigins []string
	EnablePprof      bool

	// Problems found while reading the environment, reported by Validate
	problems []string
}

// Load reads the configuration. If file is not empty, it is parsed as TOML
// and its keys are used as environment variables, e.g.
//
//	api_url = "https://ledger.example.com/api"
//	cors_allow_origins = ["https://ledger.example.com"]
func Load(file string) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}

	if file != "" {
		err := loadFile(file)
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		APIURL: getEnv("API_URL", ""),
		Port:   getEnv("PORT", "8080"),

		DBPath:     getEnv("DB_PATH", "data/ledger.db"),
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "ledger"),

		LogFormat: getEnv("LOG_FORMAT", ""),
		GinMode:   getEnv("GIN_MODE", "release"),

		CORSAllowOrigins: strings.Fields(getEnv("CORS_ALLOW_ORIGINS", "")),
	}

	cfg.EnablePprof, err = getEnvBool("ENABLE_PPROF", false)
	if err != nil {
		cfg.problems = append(cfg.problems, err.Error())
	}

	return cfg, nil
}

// loadFile sets the keys of the TOML file as environment variables.
// Lists are joined with spaces.
func loadFile(file string) error {
	var values map[string]any
	_, err := toml.DecodeFile(file, &values)
	if err != nil {
		return fmt.Errorf("could not parse configuration file %s: %w", file, err)
	}

	for key, value := range values {
		key = strings.ToUpper(key)
		if _, ok := os.LookupEnv(key); ok {
			continue
		}

		var s string
		switch v := value.(type) {
		case []any:
			parts := make([]string, 0, len(v))
			for _, p := range v {
				parts = append(parts, fmt.Sprint(p))
			}
			s = strings.Join(parts, " ")
		default:
			s = fmt.Sprint(v)
		}

		err := os.Setenv(key, s)
		if err != nil {
			return fmt.Errorf("could not set %s from configuration file: %w", key, err)
		}
	}

	return nil
}

// UsePostgres reports if the postgres database is configured.
func (c *Config) UsePostgres() bool {
	return c.DBHost != ""
}

// BaseURL returns the parsed URL the API is reachable on.
func (c *Config) BaseURL() (*url.URL, error) {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API_URL '%s': %w", c.APIURL, err)
	}

	return u, nil
}

// PostgresDSN returns the connection string for the postgres database.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	errors := slices.Clone(c.problems)

	// Validate the API URL
	if c.APIURL == "" {
		errors = append(errors, "API_URL must be set and point to the URL the API is reachable on")
	} else if u, err := c.BaseURL(); err != nil {
		errors = append(errors, err.Error())
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid API_URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	}

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate the database
	if c.UsePostgres() {
		if c.DBUser == "" {
			errors = append(errors, "DB_USER must be set when DB_HOST is set")
		}
		if c.DBName == "" {
			errors = append(errors, "DB_NAME must not be empty when DB_HOST is set")
		}
	} else if c.DBPath == "" {
		errors = append(errors, "DB_PATH must not be empty when no DB_HOST is set")
	}

	// Validate log format and gin mode
	if c.LogFormat != "" && !slices.Contains([]string{"human", "json"}, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'human' or 'json'", c.LogFormat))
	}

	if !slices.Contains([]string{"debug", "release", "test"}, c.GinMode) {
		errors = append(errors, fmt.Sprintf("invalid gin mode '%s': must be one of debug, release or test", c.GinMode))
	}

	for _, origin := range c.CORSAllowOrigins {
		if u, err := url.Parse(origin); err != nil || u.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid CORS origin '%s': must be an URL", origin))
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s '%s': must be a boolean", key, value)
	}
	return b, nil
}
