package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const defaultSessionSecret = "dev-secret-change-in-production"

// Storage backends for credentials and affiliates.
const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

// Photo backends.
const (
	PhotoBackendDisk = "disk"
	PhotoBackendS3   = "s3"
)

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	Storage     string
	Migrate     bool

	SessionSecret string
	SessionTTL    time.Duration
	RequireAuth   bool

	PhotoBackend   string
	UploadDir      string
	MaxUploadBytes int64

	S3 S3Config

	LoginRateRPS   float64
	LoginRateBurst int
	TrustProxy     bool
}

// S3Config points the photo store at an S3-compatible bucket.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

func Load() Config {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/afiliados?parseTime=true"),
		Storage:     getEnv("STORAGE", StorageMySQL),
		Migrate:     getBool("MIGRATE", true),

		SessionSecret: getEnv("SESSION_SECRET", defaultSessionSecret),
		SessionTTL:    getDuration("SESSION_TTL", 12*time.Hour),
		RequireAuth:   getBool("REQUIRE_AUTH", true),

		PhotoBackend:   getEnv("PHOTO_BACKEND", PhotoBackendDisk),
		UploadDir:      getEnv("UPLOAD_DIR", "static/uploads"),
		MaxUploadBytes: getInt64("MAX_UPLOAD_BYTES", 10<<20),

		S3: S3Config{
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Prefix:    getEnv("S3_PREFIX", "uploads/"),
		},

		LoginRateRPS:   getFloat("LOGIN_RATE_RPS", 5),
		LoginRateBurst: int(getInt64("LOGIN_RATE_BURST", 10)),
		TrustProxy:     getBool("TRUST_PROXY", false),
	}

	if cfg.Env == "production" && cfg.SessionSecret == defaultSessionSecret {
		slog.Error("SESSION_SECRET must be set in production environment")
		os.Exit(1)
	}

	if cfg.PhotoBackend == PhotoBackendS3 && cfg.S3.Bucket == "" {
		slog.Error("S3_BUCKET must be set when PHOTO_BACKEND=s3")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getInt64(key string, fallback int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
