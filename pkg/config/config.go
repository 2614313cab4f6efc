package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAPIBaseURL = "https://cmr.test.api.stroyka.kz"

	SignatoryEndpoint = "/rest/api/v1/aitu/sign-applications/by-signatory/"
	SigningEndpoint   = "/rest/api/v1/aitu/signable-pdf/"
	FilesPDFEndpoint  = "/rest/api/v1/files/sign-applications/%s/pdf"
)

const (
	PolicyCache = "cache"
	PolicyFresh = "fresh"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Config is built once at startup and handed to every component.
type Config struct {
	APIBaseURL     string        `json:"api_base_url"`
	PageOrigin     string        `json:"page_origin"`
	S3PublicBase   string        `json:"s3_public_base,omitempty"`
	RequestTimeout time.Duration `json:"request_timeout"`
	EarlyPDF       bool          `json:"early_pdf"`

	PDFPolicy       string        `json:"pdf_policy"`
	CacheBackend    string        `json:"cache_backend"`
	CacheMaxEntries int           `json:"cache_max_entries"`
	RedisURL        string        `json:"redis_url,omitempty"`
	RedisTTL        time.Duration `json:"redis_ttl"`
	DatabaseURL     string        `json:"-"`
	S3Bucket        string        `json:"s3_bucket,omitempty"`
	S3Prefix        string        `json:"s3_prefix,omitempty"`
	S3Region        string        `json:"s3_region,omitempty"`
	S3Endpoint      string        `json:"s3_endpoint,omitempty"`
	// Static S3 keys, for S3-compatible endpoints. Empty means the default
	// AWS credential chain.
	S3AccessKeyID     string `json:"-"`
	S3SecretAccessKey string `json:"-"`

	DefaultLocale string `json:"default_locale"`
	AppStoreURL   string `json:"app_store_url"`
	PlayStoreURL  string `json:"play_store_url"`
	// SignRatePerMinute caps sign attempts per signatory; 0 disables it.
	SignRatePerMinute int `json:"sign_rate_per_minute"`

	ServicePort string `json:"service_port"`
	LogLevel    string `json:"log_level"`
	LogFormat   string `json:"log_format"`
}

func Default() Config {
	return Config{
		APIBaseURL:        DefaultAPIBaseURL,
		PageOrigin:        "http://localhost:8090",
		RequestTimeout:    30 * time.Second,
		EarlyPDF:          true,
		PDFPolicy:         PolicyCache,
		CacheBackend:      BackendMemory,
		CacheMaxEntries:   64,
		RedisTTL:          24 * time.Hour,
		S3Prefix:          "pdf-cache/",
		S3Region:          "us-east-1",
		DefaultLocale:     "ru",
		AppStoreURL:       "https://apps.apple.com/us/app/stroyka-kz/id6742178994",
		PlayStoreURL:      "https://play.google.com/store/apps/details?id=kz.cmrhub",
		SignRatePerMinute: 5,
		ServicePort:       "8090",
		LogLevel:          "info",
		LogFormat:         "json",
	}
}

// FromEnv overlays the process environment on Default. The API base is taken
// from DOCSIGN_API_BASE_URL, then API_BASE_URL, then the default.
func FromEnv() Config {
	c := Default()
	c.APIBaseURL = firstEnv(c.APIBaseURL, "DOCSIGN_API_BASE_URL", "API_BASE_URL")
	c.PageOrigin = firstEnv(c.PageOrigin, "DOCSIGN_PAGE_ORIGIN")
	c.S3PublicBase = firstEnv(c.S3PublicBase, "DOCSIGN_S3_PUBLIC_BASE_URL")
	c.RequestTimeout = envDurationDefault("DOCSIGN_REQUEST_TIMEOUT", c.RequestTimeout)
	c.EarlyPDF = envBoolDefault("DOCSIGN_EARLY_PDF", c.EarlyPDF)

	c.PDFPolicy = strings.ToLower(firstEnv(c.PDFPolicy, "DOCSIGN_PDF_POLICY"))
	c.CacheBackend = strings.ToLower(firstEnv(c.CacheBackend, "DOCSIGN_CACHE_BACKEND"))
	c.CacheMaxEntries = envIntDefault("DOCSIGN_CACHE_MAX_ENTRIES", c.CacheMaxEntries)
	c.RedisURL = firstEnv(c.RedisURL, "DOCSIGN_REDIS_URL", "REDIS_URL")
	c.RedisTTL = envDurationDefault("DOCSIGN_REDIS_TTL", c.RedisTTL)
	c.DatabaseURL = firstEnv(c.DatabaseURL, "DOCSIGN_DATABASE_URL", "DATABASE_URL")
	c.S3Bucket = firstEnv(c.S3Bucket, "DOCSIGN_S3_BUCKET")
	c.S3Prefix = firstEnv(c.S3Prefix, "DOCSIGN_S3_PREFIX")
	c.S3Region = firstEnv(c.S3Region, "DOCSIGN_S3_REGION", "AWS_REGION")
	c.S3Endpoint = firstEnv(c.S3Endpoint, "DOCSIGN_S3_ENDPOINT")
	c.S3AccessKeyID = firstEnv(c.S3AccessKeyID, "DOCSIGN_S3_ACCESS_KEY_ID")
	c.S3SecretAccessKey = firstEnv(c.S3SecretAccessKey, "DOCSIGN_S3_SECRET_ACCESS_KEY")

	c.DefaultLocale = strings.ToLower(firstEnv(c.DefaultLocale, "DOCSIGN_DEFAULT_LOCALE"))
	c.AppStoreURL = firstEnv(c.AppStoreURL, "DOCSIGN_APP_STORE_URL")
	c.PlayStoreURL = firstEnv(c.PlayStoreURL, "DOCSIGN_PLAY_STORE_URL")
	c.SignRatePerMinute = envIntDefault("DOCSIGN_SIGN_RATE_PER_MINUTE", c.SignRatePerMinute)

	c.ServicePort = firstEnv(c.ServicePort, "SERVICE_PORT")
	c.LogLevel = strings.ToLower(firstEnv(c.LogLevel, "DOCSIGN_LOG_LEVEL", "LOG_LEVEL"))
	c.LogFormat = strings.ToLower(firstEnv(c.LogFormat, "DOCSIGN_LOG_FORMAT"))
	return c.Normalized()
}

// Normalized clamps values that would otherwise break a component.
func (c Config) Normalized() Config {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.PDFPolicy != PolicyFresh {
		c.PDFPolicy = PolicyCache
	}
	switch c.CacheBackend {
	case BackendMemory, BackendRedis, BackendPostgres, BackendS3:
	default:
		c.CacheBackend = BackendMemory
	}
	if c.CacheMaxEntries <= 0 {
		c.CacheMaxEntries = 64
	}
	if c.DefaultLocale == "" {
		c.DefaultLocale = "ru"
	}
	return c
}

func firstEnv(def string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return def
}

func envBoolDefault(key string, def bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if raw == "" {
		return def
	}
	switch raw {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func envIntDefault(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

// envDurationDefault accepts Go durations ("45s") or plain milliseconds.
func envDurationDefault(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}
