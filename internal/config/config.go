package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	LDAP     LDAPConfig
	Mail     MailConfig
	Storage  StorageConfig
	Frontend FrontendConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	Timezone              string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr                 string
	Password             string
	DB                   int
	DirectoryCacheTTLSec int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// LDAPConfig points at the directory server used for specialist accounts.
type LDAPConfig struct {
	URL              string
	BindUsername     string
	BindPassword     string
	SearchBase       string
	UserDomain       string
	SpecialistStates []string
}

// MailConfig holds SMTP transport settings for outbound notifications.
type MailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	LogoPath    string
}

// AttachmentPolicy decides what happens to an oversized upload within a batch.
type AttachmentPolicy string

const (
	// AttachmentPolicySkip drops the offending file and keeps the rest.
	AttachmentPolicySkip AttachmentPolicy = "skip"
	// AttachmentPolicyReject fails the whole request.
	AttachmentPolicyReject AttachmentPolicy = "reject"
)

// StorageConfig controls attachment persistence.
type StorageConfig struct {
	UploadRoot         string
	MaxAttachmentBytes int64
	Policy             AttachmentPolicy
}

// FrontendConfig carries the base URL used to build links embedded in mails.
type FrontendConfig struct {
	BaseURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	policy := AttachmentPolicy(strings.ToLower(getEnv("ATTACHMENT_POLICY", string(AttachmentPolicySkip))))
	if policy != AttachmentPolicySkip && policy != AttachmentPolicyReject {
		return nil, fmt.Errorf("invalid ATTACHMENT_POLICY: %q", policy)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			Timezone:              getEnv("APP_TIMEZONE", "America/Bogota"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:                 getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:             os.Getenv("REDIS_PASSWORD"),
			DB:                   redisDB,
			DirectoryCacheTTLSec: getEnvAsInt("DIRECTORY_CACHE_TTL_SECONDS", 300),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 7*24*60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		LDAP: LDAPConfig{
			URL:              os.Getenv("LDAP_SERVER"),
			BindUsername:     os.Getenv("LDAP_USERNAME"),
			BindPassword:     os.Getenv("LDAP_PASSWORD"),
			SearchBase:       os.Getenv("LDAP_SEARCH_BASE"),
			UserDomain:       getEnv("LDAP_USER_DOMAIN", "mindeporte.loc"),
			SpecialistStates: splitList(getEnv("LDAP_SPECIALIST_STATES", "260,307")),
		},
		Mail: MailConfig{
			Host:        getEnv("MAIL_HOST", "localhost"),
			Port:        getEnvAsInt("MAIL_PORT", 587),
			Username:    os.Getenv("MAIL_USERNAME"),
			Password:    os.Getenv("MAIL_PASSWORD"),
			FromAddress: getEnv("MAIL_FROM", "noreply@example.com"),
			LogoPath:    os.Getenv("MAIL_LOGO_PATH"),
		},
		Storage: StorageConfig{
			UploadRoot:         getEnv("UPLOAD_ROOT", "uploads"),
			MaxAttachmentBytes: int64(getEnvAsInt("MAX_ATTACHMENT_BYTES", 10<<20)),
			Policy:             policy,
		},
		Frontend: FrontendConfig{
			BaseURL: getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Location resolves the configured time zone, falling back to UTC.
func (a AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DirectoryCacheTTL returns the listing cache duration.
func (r RedisConfig) DirectoryCacheTTL() time.Duration {
	if r.DirectoryCacheTTLSec <= 0 {
		return 0
	}
	return time.Duration(r.DirectoryCacheTTLSec) * time.Second
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
