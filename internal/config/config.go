package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	NotificationChannel    string
	JWTSecret              string
	RequestTimeout         time.Duration
	ScholarshipCacheTTL    time.Duration
	StorageDriver          string
	StorageLocalDir        string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	UploadMaxMB            int
	Mail                   MailConfig
	Notifications          NotificationSettings
}

// MailConfig selects and configures the outbound mail transport.
type MailConfig struct {
	Provider       string
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	SMTPSkipVerify bool
	SendGridAPIKey string
	Timeout        time.Duration
	Workers        int
	QueueSize      int
}

// NotificationSettings is the value injected into the notification dispatcher.
// It starts from the environment and is overlaid with system_settings rows at startup.
type NotificationSettings struct {
	EmailEnabled bool
	SiteName     string
	PortalURL    string
	FromAddress  string
	FromName     string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SCHOLAR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Scholarship Portal API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("notifications.channel", "scholar")
	v.SetDefault("request.timeout", "10s")
	v.SetDefault("scholarships.cache_ttl", "2m")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_dir", "uploads")
	v.SetDefault("cloudinary.folder", "scholarship/documents")
	v.SetDefault("upload.max_mb", 10)
	v.SetDefault("mail.provider", "log")
	v.SetDefault("mail.from_name", "Scholarship Portal")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("email.enabled", true)
	v.SetDefault("email.timeout", "15s")
	v.SetDefault("email.workers", 4)
	v.SetDefault("email.queue_size", 256)
	v.SetDefault("portal.url", "http://localhost:8080")

	requestTimeout, err := parseDuration(v, "request.timeout", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := parseDuration(v, "scholarships.cache_ttl", 2*time.Minute)
	if err != nil {
		return Config{}, err
	}
	emailTimeout, err := parseDuration(v, "email.timeout", 15*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		NotificationChannel:    v.GetString("notifications.channel"),
		JWTSecret:              v.GetString("jwt.secret"),
		RequestTimeout:         requestTimeout,
		ScholarshipCacheTTL:    cacheTTL,
		StorageDriver:          strings.ToLower(v.GetString("storage.driver")),
		StorageLocalDir:        v.GetString("storage.local_dir"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		UploadMaxMB:            v.GetInt("upload.max_mb"),
		Mail: MailConfig{
			Provider:       strings.ToLower(v.GetString("mail.provider")),
			SMTPHost:       v.GetString("smtp.host"),
			SMTPPort:       v.GetInt("smtp.port"),
			SMTPUsername:   v.GetString("smtp.username"),
			SMTPPassword:   v.GetString("smtp.password"),
			SMTPSkipVerify: v.GetBool("smtp.skip_tls_verify"),
			SendGridAPIKey: v.GetString("sendgrid.api_key"),
			Timeout:        emailTimeout,
			Workers:        v.GetInt("email.workers"),
			QueueSize:      v.GetInt("email.queue_size"),
		},
		Notifications: NotificationSettings{
			EmailEnabled: v.GetBool("email.enabled"),
			SiteName:     v.GetString("app.name"),
			PortalURL:    v.GetString("portal.url"),
			FromAddress:  v.GetString("mail.from_address"),
			FromName:     v.GetString("mail.from_name"),
		},
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.UploadMaxMB <= 0 {
		cfg.UploadMaxMB = 10
	}
	if cfg.Mail.Workers <= 0 {
		cfg.Mail.Workers = 4
	}
	if cfg.Mail.QueueSize <= 0 {
		cfg.Mail.QueueSize = 256
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if parsed <= 0 {
		return fallback, nil
	}
	return parsed, nil
}
