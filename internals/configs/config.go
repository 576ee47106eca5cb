package configs

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ .env file not found, using system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running in Railway, using system ENV")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return strings.TrimSpace(value)
}

func getEnvInt(key string, def int) int {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// bare number = seconds
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

// =======================
// CONFIG
// =======================

type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	DB       DBConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	OSS      OSSConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// statement_timeout in milliseconds
	StatementTimeout int
}

// UpstreamConfig describes the student-information API the backend proxies.
type UpstreamConfig struct {
	BaseURL     string
	Application string

	// DefaultProfileID is used when the caller does not name a profile id.
	DefaultProfileID string
	Timeout          time.Duration
}

type RedisConfig struct {
	URL string
	TTL time.Duration
}

type OSSConfig struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	Prefix          string
	PublicBaseURL   string
	MaxSide         int
	Quality         float32
}

func (o OSSConfig) Enabled() bool {
	return o.Endpoint != "" && o.AccessKeyID != "" && o.AccessKeySecret != "" && o.Bucket != ""
}

func Load() *Config {
	return &Config{
		AppPort:  GetEnv("PORT", "3000"),
		AppEnv:   GetEnv("APP_ENV", "development"),
		LogLevel: GetEnv("LOG_LEVEL", "info"),

		DB: DBConfig{
			Host:             GetEnv("DB_HOST", "localhost"),
			Port:             GetEnv("DB_PORT", "5432"),
			User:             GetEnv("DB_USER", "postgres"),
			Password:         GetEnv("DB_PASSWORD"),
			Name:             GetEnv("DB_NAME", "spectra"),
			SSLMode:          GetEnv("DB_SSLMODE", "require"),
			StatementTimeout: getEnvInt("DB_STATEMENT_TIMEOUT_MS", 3000),
		},

		Upstream: UpstreamConfig{
			BaseURL:          strings.TrimRight(GetEnv("KMIT_API_BASE_URL", "https://kmit-api.teleuniv.in"), "/"),
			Application:      GetEnv("KMIT_API_APPLICATION", "sanjaya"),
			DefaultProfileID: GetEnv("KMIT_API_DEFAULT_PROFILE_ID", "4135"),
			Timeout:          getEnvDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		},

		Redis: RedisConfig{
			URL: GetEnv("REDIS_URL"),
			TTL: getEnvDuration("CACHE_TTL", 5*time.Minute),
		},

		OSS: OSSConfig{
			Endpoint:        normalizeEndpoint(GetEnv("ALI_OSS_ENDPOINT")),
			AccessKeyID:     GetEnv("ALI_OSS_ACCESS_KEY"),
			AccessKeySecret: GetEnv("ALI_OSS_SECRET_KEY"),
			Bucket:          GetEnv("ALI_OSS_BUCKET"),
			Prefix:          strings.Trim(GetEnv("ALI_OSS_PICTURE_PREFIX", "students/pictures"), "/"),
			PublicBaseURL:   strings.TrimRight(GetEnv("ALI_OSS_PUBLIC_BASE_URL"), "/"),
			MaxSide:         getEnvInt("IMAGE_WEBP_MAX_SIDE", 512),
			Quality:         float32(getEnvInt("IMAGE_WEBP_QUALITY", 80)),
		},
	}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// DSN builds the Postgres URL with a server-side statement_timeout.
func (c DBConfig) DSN() string {
	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	q.Set("application_name", "spectra")
	q.Set("options", fmt.Sprintf("-c statement_timeout=%d", c.StatementTimeout))

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func normalizeEndpoint(ep string) string {
	ep = strings.TrimSpace(ep)
	ep = strings.TrimPrefix(ep, "https://")
	ep = strings.TrimPrefix(ep, "http://")
	return strings.TrimRight(ep, "/")
}
