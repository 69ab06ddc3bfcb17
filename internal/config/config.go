package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string

	// TLS/mTLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // CA for verifying client certs (mTLS)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Upstream ITSM API
	ITSMBaseURL        string
	ITSMUsername       string
	ITSMPassword       string
	ITSMClientID       string
	ITSMClientSecret   string
	InsecureSkipVerify bool // The appliance ships with a self-signed cert.

	// Search defaults
	DefaultOffset int
	DefaultSize   int
	MaxSize       int
	DefaultSortBy string

	// Status handling
	ClosedStatusID int64 // Fallback when the status endpoint is unreachable.

	// Timeouts
	RequestTimeout     time.Duration
	TokenRefreshMargin time.Duration // Refresh this long before token expiry.
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:        getEnv("ENV", "development"),
		ServerAddr: getEnv("SERVER_ADDR", ":5000"),

		TLSEnabled:  getEnv("TLS_ENABLED", "") != "",
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:   getEnv("TLS_CA_FILE", ""),

		CORSOrigins: getEnv("CORS_ORIGINS", ""),

		ITSMBaseURL:        getEnv("ITSM_BASE_URL", "https://172.16.15.113"),
		ITSMUsername:       getEnv("ITSM_USERNAME", ""),
		ITSMPassword:       getEnv("ITSM_PASSWORD", ""),
		ITSMClientID:       getEnv("ITSM_CLIENT_ID", "floto-web-app"),
		ITSMClientSecret:   getEnv("ITSM_CLIENT_SECRET", ""),
		InsecureSkipVerify: getEnv("ITSM_INSECURE_SKIP_VERIFY", "") != "",

		DefaultOffset: getEnvInt("SEARCH_DEFAULT_OFFSET", 0),
		DefaultSize:   getEnvInt("SEARCH_DEFAULT_SIZE", 25),
		MaxSize:       getEnvInt("SEARCH_MAX_SIZE", 100),
		DefaultSortBy: getEnv("SEARCH_DEFAULT_SORT_BY", "createdTime"),

		ClosedStatusID: int64(getEnvInt("CLOSED_STATUS_ID", 13)),

		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		TokenRefreshMargin: getEnvDuration("TOKEN_REFRESH_MARGIN", 60*time.Second),
	}
}

// OAuthTokenURL returns the upstream OAuth token endpoint.
func (c *Config) OAuthTokenURL() string {
	return c.ITSMBaseURL + "/api/oauth/token"
}

// RequestSearchURL returns the qualification search endpoint for requests.
func (c *Config) RequestSearchURL() string {
	return c.ITSMBaseURL + "/api/request/search/byqual"
}

// StatusSearchURL returns the qualification search endpoint for request statuses.
func (c *Config) StatusSearchURL() string {
	return c.ITSMBaseURL + "/api/request/status/search/byqual"
}

// RequestDetailURL returns the detail endpoint for a single request.
func (c *Config) RequestDetailURL(id int64) string {
	return fmt.Sprintf("%s/api/request/%d", c.ITSMBaseURL, id)
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsMTLSEnabled returns true if mTLS is configured with a CA file.
func (c *Config) IsMTLSEnabled() bool {
	return c.TLSEnabled && c.TLSCAFile != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer for %s, using default %d", key, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s, using default %s", key, fallback)
		return fallback
	}
	return d
}
