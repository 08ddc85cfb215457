// Package config reads the backend configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP
	GinMode          string
	LogFormat        string
	Port             string
	APIURL           string
	CORSAllowOrigins []string
	EnablePprof      bool

	// Database. PostgreSQL is used if DBHost is set, SQLite in DataDir otherwise.
	DataDir    string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Authentication
	JWTSecret     string
	JWTTTL        time.Duration
	AdminEmail    string
	AdminPassword string

	// Treasury
	Timezone                string
	TreasuryIncludeOutflows bool

	// Suggestions are kept in Redis if set
	RedisURL string

	// problems found while parsing, reported by Validate
	problems []string
}

// Load reads the environment. Variables from the files, .env by default,
// are added if they are not set already. Missing files are ignored.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not load %s: %w", f, err)
		}
	}

	cfg := &Config{
		GinMode:          getEnv("GIN_MODE", "release"),
		LogFormat:        getEnv("LOG_FORMAT", ""),
		Port:             getEnv("PORT", "8080"),
		APIURL:           getEnv("API_URL", "http://localhost:8080"),
		CORSAllowOrigins: strings.Fields(os.Getenv("CORS_ALLOW_ORIGINS")),

		DataDir:    getEnv("DATA_DIR", "data"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "salonspa"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "salonspa"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		Timezone: getEnv("TIMEZONE", "UTC"),
		RedisURL: os.Getenv("REDIS_URL"),
	}

	cfg.EnablePprof = cfg.getEnvBool("ENABLE_PPROF", false)
	cfg.JWTTTL = cfg.getEnvDuration("JWT_TTL", 12*time.Hour)
	cfg.TreasuryIncludeOutflows = cfg.getEnvBool("TREASURY_INCLUDE_OUTFLOWS", true)

	return cfg, nil
}

// Validate returns all configuration problems at once.
func (c *Config) Validate() error {
	problems := append([]string{}, c.problems...)

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid PORT '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid PORT %d: must be between 1 and 65535", port))
	}

	if u, err := url.Parse(c.APIURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid API_URL '%s': %v", c.APIURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid API_URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	}

	if c.GinMode != "release" && c.GinMode != "debug" && c.GinMode != "test" {
		problems = append(problems, fmt.Sprintf("invalid GIN_MODE '%s': must be one of release, debug, test", c.GinMode))
	}

	if len(c.JWTSecret) < 32 {
		problems = append(problems, "JWT_SECRET must be set to at least 32 characters")
	}

	if c.JWTTTL < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid JWT_TTL %v: must be at least one minute", c.JWTTTL))
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("invalid TIMEZONE '%s': %v", c.Timezone, err))
	}

	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		problems = append(problems, "ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	if c.RedisURL != "" {
		if u, err := url.Parse(c.RedisURL); err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			problems = append(problems, fmt.Sprintf("invalid REDIS_URL '%s': must be a redis:// or rediss:// URL", c.RedisURL))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}

	return nil
}

// Location returns the time zone for reports. Validate must have passed.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BaseURL returns the parsed API_URL. Validate must have passed.
func (c *Config) BaseURL() *url.URL {
	u, _ := url.Parse(c.APIURL)
	return u
}

// PostgresDSN returns the connection string for DB_HOST.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("invalid %s '%s': must be true or false", key, value))
		return defaultValue
	}
	return b
}

func (c *Config) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("invalid %s '%s': must be a duration like 12h", key, value))
		return defaultValue
	}
	return d
}
