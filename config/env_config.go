package config

import (
	"os"
	"strconv"
	"strings"
)

type EnvConfig struct {
	Postgres struct {
		Host     string
		Database string
		Username string
		Password string
		Port     string
	}
	JWT struct {
		SecretKey string
		Expire    int
	}
	CORS struct {
		AllowDomains string
	}
	Redis struct {
		Password string
		Database int
		Host     string
		Port     string
	}
	RabbitMQ struct {
		Host     string
		Port     string
		Username string
		Password string
	}
	Minio struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		UseSSL    bool
	}
	Upload struct {
		ChunkSize       int64  // Chunk size for large video uploads (default 6MB)
		MaxVideoSize    int64  // Ceiling for video files (default 2GB)
		MaxImageSize    int64  // Ceiling for image files (default 25MB)
		MediaBucket     string // Bucket holding video chunks
		ThumbnailBucket string // Bucket holding derived thumbnails
		ChunkRetries    int    // Per-chunk retry budget
		ChunkTimeout    int    // Per-chunk upload timeout in seconds
	}
	Playback struct {
		URLExpire int // Presigned URL lifetime in seconds
	}
	Otel struct {
		OTLPEndpoint string
		ServiceName  string
	}

	Environment struct {
		Mode string
	}
}

func LoadEnvConfig() *EnvConfig {
	var config EnvConfig

	// Postgres
	config.Postgres.Host = os.Getenv("PGPOOL_HOST")
	config.Postgres.Database = os.Getenv("PGPOOL_DB")
	config.Postgres.Username = os.Getenv("PGPOOL_USER")
	config.Postgres.Password = os.Getenv("PGPOOL_PASSWORD")
	config.Postgres.Port = os.Getenv("PGPOOL_PORT")

	// JWT
	config.JWT.SecretKey = os.Getenv("JWT_SECRET_KEY")
	if val := os.Getenv("JWT_EXPIRE"); val != "" {
		config.JWT.Expire, _ = strconv.Atoi(val)
	} else {
		config.JWT.Expire = 3600 * 24 * 7
	}

	config.CORS.AllowDomains = os.Getenv("ALLOWED_DOMAINS")

	// Redis
	config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	config.Redis.Database, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	config.Redis.Host = os.Getenv("REDIS_HOST")
	config.Redis.Port = os.Getenv("REDIS_PORT")

	// RabbitMQ
	config.RabbitMQ.Host = os.Getenv("RABBITMQ_HOST")
	if config.RabbitMQ.Host == "" {
		config.RabbitMQ.Host = "localhost"
	}
	config.RabbitMQ.Port = os.Getenv("RABBITMQ_PORT")
	if config.RabbitMQ.Port == "" {
		config.RabbitMQ.Port = "5672"
	}
	config.RabbitMQ.Username = os.Getenv("RABBITMQ_USER")
	if config.RabbitMQ.Username == "" {
		config.RabbitMQ.Username = "guest"
	}
	config.RabbitMQ.Password = os.Getenv("RABBITMQ_PASSWORD")
	if config.RabbitMQ.Password == "" {
		config.RabbitMQ.Password = "guest"
	}

	// MinIO
	config.Minio.Endpoint = os.Getenv("MINIO_ENDPOINT")
	config.Minio.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
	config.Minio.SecretKey = os.Getenv("MINIO_SECRET_KEY")
	config.Minio.UseSSL = os.Getenv("MINIO_USE_SSL") == "true"

	// Upload limits. Chunk size must stay below the edge proxy's request
	// body ceiling, otherwise chunk uploads get rejected with 413.
	config.Upload.ChunkSize = envInt64("UPLOAD_CHUNK_SIZE", 6*1024*1024)
	config.Upload.MaxVideoSize = envInt64("UPLOAD_MAX_VIDEO_SIZE", 2*1024*1024*1024)
	config.Upload.MaxImageSize = envInt64("UPLOAD_MAX_IMAGE_SIZE", 25*1024*1024)
	config.Upload.MediaBucket = os.Getenv("UPLOAD_MEDIA_BUCKET")
	if config.Upload.MediaBucket == "" {
		config.Upload.MediaBucket = "media-chunks"
	}
	config.Upload.ThumbnailBucket = os.Getenv("UPLOAD_THUMBNAIL_BUCKET")
	if config.Upload.ThumbnailBucket == "" {
		config.Upload.ThumbnailBucket = "media-thumbnails"
	}
	config.Upload.ChunkRetries = envInt("UPLOAD_CHUNK_RETRIES", 3)
	config.Upload.ChunkTimeout = envInt("UPLOAD_CHUNK_TIMEOUT", 60)

	config.Playback.URLExpire = envInt("PLAYBACK_URL_EXPIRE", 3600)

	// OpenTelemetry
	otlpEndpoint := os.Getenv("OTLP_ENDPOINT")
	otlpEndpoint = strings.TrimPrefix(otlpEndpoint, "https://")
	otlpEndpoint = strings.TrimPrefix(otlpEndpoint, "http://")
	config.Otel.OTLPEndpoint = otlpEndpoint
	config.Otel.ServiceName = os.Getenv("SERVICE_NAME")
	if config.Otel.ServiceName == "" {
		config.Otel.ServiceName = "lumen-media-service"
	}

	config.Environment.Mode = os.Getenv("DEPLOY_ENV")
	if config.Environment.Mode == "" {
		config.Environment.Mode = "development"
	}

	return &config
}

func envInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
