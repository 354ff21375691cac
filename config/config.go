package config

import (
	"os"
	"strconv"
	"time"
)

type LDAPConfig struct {
	BindUser string
	BindPass string
	FQDN     string
	Port     int
	BaseDN   string
}

type JWTConfig struct {
	Key           []byte
	ExpirySeconds int
}

type DBConfig struct {
	Name     string
	Host     string
	User     string
	Password string
	Port     int
	SSL      string
}

type ESConfig struct {
	CloudID string
	APIKey  string
	Index   string
}

// WebhookConfig holds the outbound delivery knobs. An attempt is the
// initial call plus MaxRetries retries, RetryDelay apart.
type WebhookConfig struct {
	RequestTimeout time.Duration
	MaxRedirects   int
	MaxRetries     int
	RetryDelay     time.Duration
}

type Config struct {
	Environment   string
	RootPassword  string
	DebugMode     bool
	LDAP          LDAPConfig
	JWT           JWTConfig
	DB            DBConfig
	ElasticSearch ESConfig
	Webhook       WebhookConfig
}

// New returns a new Config struct
func NewConfig() Config {
	return Config{
		Environment:  getEnv("ENV", "development"),
		RootPassword: getEnv("ROOT_PASSWORD", "feedhub-root"),
		DebugMode:    getEnvAsBool("DEBUG_MODE", true),
		LDAP: LDAPConfig{
			BindUser: getEnv("LDAP_BIND_USER", ""),
			BindPass: getEnv("LDAP_BIND_PASS", ""),
			FQDN:     getEnv("LDAP_FQDN", ""),
			Port:     getEnvAsInt("LDAP_PORT", -1),
			BaseDN:   getEnv("LDAP_BASE_DN", ""),
		},
		JWT: JWTConfig{
			Key:           []byte(getEnv("JWT_KEY", "")),
			ExpirySeconds: getEnvAsInt("JWT_EXPIRY_SECONDS", 3600), // Default 1 hour expiry
		},
		DB: DBConfig{
			Name:     getEnv("DB_NAME", ""),
			Host:     getEnv("DB_HOST", ""),
			User:     getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Port:     getEnvAsInt("DB_PORT", -1),
			SSL:      getEnv("DB_SSL", "disabled"),
		},
		ElasticSearch: ESConfig{
			CloudID: getEnv("ES_CLOUD_ID", ""),
			APIKey:  getEnv("ES_API_KEY", ""),
			Index:   getEnv("ES_INDEX", "feedhub-audit"),
		},
		Webhook: WebhookConfig{
			RequestTimeout: time.Duration(getEnvAsInt("WEBHOOK_TIMEOUT_MS", 5000)) * time.Millisecond,
			MaxRedirects:   getEnvAsInt("WEBHOOK_MAX_REDIRECTS", 5),
			MaxRetries:     getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
			RetryDelay:     time.Duration(getEnvAsInt("WEBHOOK_RETRY_DELAY_MS", 3000)) * time.Millisecond,
		},
	}
}

// Simple helper function to read an environment or return a default value
func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}

	return defaultVal
}

// Simple helper function to read an environment variable into integer or return a default value
func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}

	return defaultVal
}

// Helper to read an environment variable into a bool or return default value
func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}
