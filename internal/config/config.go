package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var ErrMissingConfig = errors.New("missing required configuration")

type Config struct {
	MongoURI            string
	PostgresURI         string
	RedisURI            string // optional; empty disables the lost-pets cache and Redis rate limiting
	SecretKey           string
	Port                string
	StoreDriver         string
	AllowedOrigins      []string // CORS: from ALLOWED_ORIGINS, "*" when unset
	TrustProxy          bool     // TRUST_PROXY: take the client IP from X-Forwarded-For / X-Real-IP
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	Environment         string // ENV: production, development, etc.
	LogLevel            string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	return &Config{
		MongoURI:            getEnv("MONGO_URI", getEnv("MONGODB_URI", "")),
		PostgresURI:         getEnv("POSTGRES_URI", ""),
		RedisURI:            getEnv("REDIS_URI", ""),
		SecretKey:           getEnv("SECRET_KEY", getEnv("JWT_SECRET", "")),
		Port:                getEnv("PORT", "5000"),
		StoreDriver:         strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", DriverMongo))),
		AllowedOrigins:      allowedOrigins,
		TrustProxy:          getEnvBool("TRUST_PROXY", false),
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		Environment:         env,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports the settings the process cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.SecretKey) == "" {
		missing = append(missing, "SECRET_KEY")
	}
	switch c.StoreDriver {
	case DriverMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			missing = append(missing, "MONGO_URI")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.PostgresURI) == "" {
			missing = append(missing, "POSTGRES_URI")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// UploadsEnabled is true when all Cloudinary credentials are present.
func (c *Config) UploadsEnabled() bool {
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
