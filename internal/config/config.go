package config

import (
	"strings"
	"time"

	"github.com/SeakMengs/AutoActa/internal/env"
)

type Config struct {
	Port          string
	ENV           string
	DB            DatabaseConfig
	Mail          MailConfig
	Auth          AuthConfig
	Blob          BlobConfig
	PDF           PDFConfig
	Registry      RegistryConfig
	RateLimiter   RateLimiterConfig
	RemoteTimeout time.Duration
	// PublicURL is the base of the record link encoded in dossier covers.
	PublicURL string
}

type AuthConfig struct {
	JWT_SECRET string
}

type DatabaseConfig struct {
	DB_HOST      string
	DB_PORT      string
	DB_DATABASE  string
	DB_USERNAME  string
	DB_PASSWORD  string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  string
}

type MailConfig struct {
	// DRIVER is either "sendgrid" or "smtp".
	DRIVER     string
	SEND_GRID  SendGridConfig
	SMTP       SMTPConfig
	FROM_EMAIL string
	FROM_NAME  string
}

type SendGridConfig struct {
	API_KEY string
}

type SMTPConfig struct {
	HOST     string
	PORT     int
	USERNAME string
	PASSWORD string
}

type BlobConfig struct {
	// Driver is either "minio" or "s3".
	Driver     string
	Bucket     string
	Endpoint   string
	AccessKey  string
	SecretKey  string
	UseSSL     bool
	Region     string
	Prefix     string
	PresignTTL time.Duration
}

type PDFConfig struct {
	// FontPath replaces the embedded Latin Modern faces when set.
	FontPath        string
	FontSize        float64
	TimestampLayout string
}

type RegistryConfig struct {
	SeedPath string
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.ENV, "production")
}

func GetConfig() Config {
	return Config{
		Port: env.GetString("PORT", "8080"),
		ENV:  env.GetString("ENV", "development"),
		DB: DatabaseConfig{
			DB_HOST:      env.GetString("DB_HOST", "127.0.0.1"),
			DB_PORT:      env.GetString("DB_PORT", "5432"),
			DB_USERNAME:  env.GetString("DB_USERNAME", "root"),
			DB_PASSWORD:  env.GetString("DB_PASSWORD", ""),
			DB_DATABASE:  env.GetString("DB_DATABASE", "autoacta"),
			MaxOpenConns: env.GetInt("DB_MAX_OPEN_CONNS", 30),
			MaxIdleConns: env.GetInt("DB_MAX_IDLE_CONNS", 30),
			MaxIdleTime:  env.GetString("DB_MAX_IDLE_TIME", "15m"),
		},
		Mail: MailConfig{
			DRIVER:     strings.ToLower(env.GetString("MAIL_DRIVER", "sendgrid")),
			FROM_EMAIL: env.GetString("MAIL_FROM_MAIL", ""),
			FROM_NAME:  env.GetString("MAIL_FROM_NAME", "AutoActa"),
			SEND_GRID: SendGridConfig{
				API_KEY: env.GetString("MAIL_SEND_GRID_API_KEY", ""),
			},
			SMTP: SMTPConfig{
				HOST:     env.GetString("MAIL_SMTP_HOST", "smtp.gmail.com"),
				PORT:     env.GetInt("MAIL_SMTP_PORT", 587),
				USERNAME: env.GetString("MAIL_SMTP_USERNAME", ""),
				PASSWORD: env.GetString("MAIL_SMTP_PASSWORD", ""),
			},
		},
		Auth: AuthConfig{
			JWT_SECRET: env.GetString("AUTH_JWT_SECRET", ""),
		},
		Blob: BlobConfig{
			Driver:     strings.ToLower(env.GetString("BLOB_DRIVER", "minio")),
			Bucket:     env.GetString("BLOB_BUCKET", "autoacta"),
			Endpoint:   env.GetString("BLOB_ENDPOINT", "127.0.0.1:9000"),
			AccessKey:  env.GetString("BLOB_ACCESS_KEY", ""),
			SecretKey:  env.GetString("BLOB_SECRET_KEY", ""),
			UseSSL:     env.GetBool("BLOB_USE_SSL", false),
			Region:     env.GetString("BLOB_REGION", "us-east-1"),
			Prefix:     env.GetString("BLOB_PREFIX", "concursos"),
			PresignTTL: env.GetDuration("BLOB_PRESIGN_TTL", time.Hour),
		},
		PDF: PDFConfig{
			FontPath:        env.GetString("PDF_FONT_PATH", ""),
			FontSize:        float64(env.GetInt("PDF_FONT_SIZE", 11)),
			TimestampLayout: env.GetString("PDF_TIMESTAMP_LAYOUT", "02/01/2006 15:04"),
		},
		Registry: RegistryConfig{
			SeedPath: env.GetString("REGISTRY_SEED_PATH", "templates.yaml"),
		},
		RateLimiter: RateLimiterConfig{
			RequestsPerTimeFrame: env.GetInt("RATE_LIMITER_REQUESTS_PER_TIME_FRAME", 60),
			TimeFrame:            env.GetDuration("RATE_LIMITER_TIME_FRAME", time.Minute),
			Enabled:              env.GetBool("RATE_LIMITER_ENABLED", true),
		},
		RemoteTimeout: env.GetDuration("REMOTE_TIMEOUT", 30*time.Second),
		PublicURL:     strings.TrimRight(env.GetString("APP_PUBLIC_URL", ""), "/"),
	}
}
