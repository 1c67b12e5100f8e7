package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// Storage backend: "postgres" or "memory"
	StoreDriver string

	// Database
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration

	// Redis session records; RedisEnabled=false leaves sessions JWT-only
	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Session tokens
	JWTSecret  string
	SessionTTL time.Duration // 0 = tokens never expire
	BcryptCost int

	// Access model for POST /posts
	PostCreateRequiresToken bool

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Migrations
	MigrationsDir string

	// Google Cloud Storage (post covers); empty bucket disables uploads
	GCSBucket              string
	GCSCredentialsJSONPath string

	// Mailgun
	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	// RabbitMQ
	RabbitMQURL        string
	RabbitMQEmailQueue string

	// Elasticsearch; empty addrs falls back to Postgres search
	ElasticsearchAddrs string // comma-separated
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESPostsIndex       string

	// Links for emails
	CompanyName string
	AppURL      string
	SupportURL  string

	// Email sending toggle
	MailSendEnabled bool

	// Debug metrics (/api/debug/vars)
	DebugMetricsEnabled bool

	// HTTP access log toggle
	HTTPLogEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		AppName: getenv("APP_NAME", "go-ddd-blog"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "release"),

		StoreDriver: getenv("STORE_DRIVER", "postgres"),

		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPassword:    getenv("DB_PASSWORD", "postgres"),
		DBName:        getenv("DB_NAME", "blogdb"),
		DBSSLMode:     getenv("DB_SSLMODE", "disable"),
		DBMaxConns:    int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife: getdur("DB_MAX_CONN_LIFETIME", time.Hour),

		RedisEnabled:  getbool("REDIS_ENABLED", true),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		JWTSecret:  getenv("JWT_SECRET", "devsessionsecret"),
		SessionTTL: getdur("SESSION_TTL", 24*time.Hour),
		BcryptCost: getint("BCRYPT_COST", 10),

		PostCreateRequiresToken: getbool("POST_CREATE_REQUIRES_TOKEN", false),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),

		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),

		GCSBucket:              getenv("GCS_BUCKET", ""),
		GCSCredentialsJSONPath: getenv("GCS_CREDENTIALS_JSON", ""),

		MailgunDomain: getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getenv("MAILGUN_API_KEY", ""),
		MailgunSender: getenv("MAILGUN_SENDER", ""),

		RabbitMQURL:        getenv("RABBITMQ_URL", ""),
		RabbitMQEmailQueue: getenv("RABBITMQ_EMAIL_QUEUE", "emails"),

		ElasticsearchAddrs: getenv("ELASTICSEARCH_ADDRS", ""),
		ElasticsearchUser:  getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPass:  getenv("ELASTICSEARCH_PASSWORD", ""),
		ESPostsIndex:       getenv("ES_POSTS_INDEX", "posts"),

		CompanyName: getenv("COMPANY_NAME", "Blog"),
		AppURL:      getenv("APP_URL", "http://localhost:3000"),
		SupportURL:  getenv("SUPPORT_URL", ""),

		MailSendEnabled:     getbool("MAIL_SEND_ENABLED", false),
		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", false),
		HTTPLogEnabled:      getbool("HTTP_LOG_ENABLED", true),
	}
	if cfg.StoreDriver != "postgres" && cfg.StoreDriver != "memory" {
		log.Printf("invalid STORE_DRIVER %q, using postgres", cfg.StoreDriver)
		cfg.StoreDriver = "postgres"
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		log.Printf("invalid BCRYPT_COST %d, using default 10", cfg.BcryptCost)
		cfg.BcryptCost = 10
	}
	return cfg
}

// PostgresDSN returns a DSN compatible with pgx
func (c *Config) PostgresDSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string {
	return splitList(c.ElasticsearchAddrs)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
