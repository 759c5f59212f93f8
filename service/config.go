package service

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Environment string
	Port        string
	DBPath      string

	Session struct {
		Secret string
	}

	Admin struct {
		Username string
		Password string
	}

	ContentAPI struct {
		URL     string
		Key     string
		Timeout time.Duration
	}

	Media struct {
		Provider string
		MaxSize  int64
	}

	Cloudinary struct {
		Cloud        string
		UploadPreset string
	}

	S3 struct {
		Bucket          string
		Region          string
		Prefix          string
		AccessKeyID     string
		SecretAccessKey string
		PublicBaseURL   string
	}

	Carousel struct {
		PageSize int
		IdleTTL  time.Duration
	}

	Activity struct {
		Retention time.Duration
	}
}

func LoadConfig() (*Config, error) {
	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8000"),
		DBPath:      getEnv("DB_PATH", "./db/sitedesk.db"),
	}

	// Session
	config.Session.Secret = getEnv("SESSION_SECRET", "development-session-secret-32byte")

	// Admin
	config.Admin.Username = getEnv("ADMIN_USERNAME", "admin")
	config.Admin.Password = getEnv("ADMIN_PASSWORD", "password")

	// Content API
	config.ContentAPI.URL = getEnv("CONTENT_API_URL", "http://localhost:5000/api")
	config.ContentAPI.Key = getEnv("CONTENT_API_KEY", "")
	config.ContentAPI.Timeout = getDuration("CONTENT_API_TIMEOUT", 15*time.Second)

	// Media
	config.Media.Provider = getEnv("MEDIA_PROVIDER", "cloudinary")
	config.Media.MaxSize = getInt64("UPLOAD_MAX_SIZE", 10<<20) // 10MB default
	config.Cloudinary.Cloud = getEnv("CLOUDINARY_CLOUD", "")
	config.Cloudinary.UploadPreset = getEnv("CLOUDINARY_UPLOAD_PRESET", "")
	config.S3.Bucket = getEnv("S3_BUCKET", "")
	config.S3.Region = getEnv("S3_REGION", "us-east-1")
	config.S3.Prefix = getEnv("S3_PREFIX", "uploads")
	config.S3.AccessKeyID = getEnv("S3_ACCESS_KEY_ID", "")
	config.S3.SecretAccessKey = getEnv("S3_SECRET_ACCESS_KEY", "")
	config.S3.PublicBaseURL = getEnv("S3_PUBLIC_BASE_URL", "")

	// Carousel
	config.Carousel.PageSize = int(getInt64("CAROUSEL_PAGE_SIZE", 10))
	config.Carousel.IdleTTL = getDuration("CAROUSEL_IDLE_TTL", 30*time.Minute)

	// Activity log
	config.Activity.Retention = getDuration("ACTIVITY_RETENTION", 90*24*time.Hour)

	if config.Environment == "production" {
		if config.Admin.Password == "password" {
			return nil, fmt.Errorf("ADMIN_PASSWORD must be set in production")
		}
		if len(config.Session.Secret) < 32 || config.Session.Secret == "development-session-secret-32byte" {
			return nil, fmt.Errorf("SESSION_SECRET must be set to at least 32 characters in production")
		}
	}
	switch config.Media.Provider {
	case "cloudinary", "s3":
	default:
		return nil, fmt.Errorf("MEDIA_PROVIDER must be cloudinary or s3, got %q", config.Media.Provider)
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	if n, err := strconv.ParseInt(getEnv(key, ""), 10, 64); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
