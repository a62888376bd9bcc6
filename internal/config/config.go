package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Tracking TrackingConfig
	Lead     LeadConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	URL      string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string
}

// TrackingConfig drives the client-side pipeline: where batches go and how
// often they are drained.
type TrackingConfig struct {
	AnalyticsEndpoint    string
	ContactEndpoint      string
	FraudEndpoint        string
	TrackingEndpoint     string
	FlushInterval        time.Duration
	ContactFlushInterval time.Duration
	FraudCheckInterval   time.Duration
	EventLogCap          int
	MouseSampleCap       int
	ClickPositionCap     int
}

// LeadConfig points at the external spreadsheet endpoint. The security token
// is a static shared secret, a basic denial filter only.
type LeadConfig struct {
	Endpoint      string
	SecurityToken string
	CORSEnabled   bool
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	viper.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "15s")

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("LOG_OUTPUT_PATH", "")
	viper.SetDefault("LOG_MAX_SIZE", 100)
	viper.SetDefault("LOG_MAX_BACKUPS", 3)
	viper.SetDefault("LOG_MAX_AGE", 28)
	viper.SetDefault("LOG_COMPRESS", true)

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "root")
	viper.SetDefault("DB_PASSWORD", "root")
	viper.SetDefault("DB_NAME", "leadtrack")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MIN_CONNS", 2)

	viper.SetDefault("ANALYTICS_ENDPOINT", "/api/analytics")
	viper.SetDefault("CONTACT_TRACKING_ENDPOINT", "/api/contact-tracking")
	viper.SetDefault("FRAUD_DETECTION_ENDPOINT", "/api/fraud-detection")
	viper.SetDefault("TRACKING_ENDPOINT", "/api/tracking")
	viper.SetDefault("FLUSH_INTERVAL", "30s")
	viper.SetDefault("CONTACT_FLUSH_INTERVAL", "60s")
	viper.SetDefault("FRAUD_CHECK_INTERVAL", "30s")
	viper.SetDefault("EVENT_LOG_CAP", 1000)
	viper.SetDefault("MOUSE_SAMPLE_CAP", 1000)
	viper.SetDefault("CLICK_POSITION_CAP", 500)

	viper.SetDefault("LEAD_ENDPOINT", "")
	viper.SetDefault("LEAD_SECURITY_TOKEN", "betaviet_form_2024")
	viper.SetDefault("LEAD_CORS_ENABLED", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, using default values")
	}

	redisConfig := RedisConfig{
		Host:     viper.GetString("REDIS_HOST"),
		Port:     viper.GetString("REDIS_PORT"),
		Password: viper.GetString("REDIS_PASSWORD"),
		DB:       viper.GetInt("REDIS_DB"),
	}

	redisConfig.Addr = fmt.Sprintf("%s:%s", redisConfig.Host, redisConfig.Port)

	dbConfig := DatabaseConfig{
		Host:     viper.GetString("DB_HOST"),
		Port:     viper.GetString("DB_PORT"),
		User:     viper.GetString("DB_USER"),
		Password: viper.GetString("DB_PASSWORD"),
		Name:     viper.GetString("DB_NAME"),
		MaxConns: viper.GetInt("DB_MAX_CONNS"),
		MinConns: viper.GetInt("DB_MIN_CONNS"),
	}

	dbConfig.URL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.Name,
	)

	cfg := &Config{
		Server: ServerConfig{
			Port:            viper.GetString("SERVER_PORT"),
			ReadTimeout:     viper.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    viper.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: viper.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Log: LogConfig{
			Level:      viper.GetString("LOG_LEVEL"),
			Format:     viper.GetString("LOG_FORMAT"),
			OutputPath: viper.GetString("LOG_OUTPUT_PATH"),
			MaxSize:    viper.GetInt("LOG_MAX_SIZE"),
			MaxBackups: viper.GetInt("LOG_MAX_BACKUPS"),
			MaxAge:     viper.GetInt("LOG_MAX_AGE"),
			Compress:   viper.GetBool("LOG_COMPRESS"),
		},
		Database: dbConfig,
		Redis:    redisConfig,
		Tracking: TrackingConfig{
			AnalyticsEndpoint:    viper.GetString("ANALYTICS_ENDPOINT"),
			ContactEndpoint:      viper.GetString("CONTACT_TRACKING_ENDPOINT"),
			FraudEndpoint:        viper.GetString("FRAUD_DETECTION_ENDPOINT"),
			TrackingEndpoint:     viper.GetString("TRACKING_ENDPOINT"),
			FlushInterval:        viper.GetDuration("FLUSH_INTERVAL"),
			ContactFlushInterval: viper.GetDuration("CONTACT_FLUSH_INTERVAL"),
			FraudCheckInterval:   viper.GetDuration("FRAUD_CHECK_INTERVAL"),
			EventLogCap:          viper.GetInt("EVENT_LOG_CAP"),
			MouseSampleCap:       viper.GetInt("MOUSE_SAMPLE_CAP"),
			ClickPositionCap:     viper.GetInt("CLICK_POSITION_CAP"),
		},
		Lead: LeadConfig{
			Endpoint:      viper.GetString("LEAD_ENDPOINT"),
			SecurityToken: viper.GetString("LEAD_SECURITY_TOKEN"),
			CORSEnabled:   viper.GetBool("LEAD_CORS_ENABLED"),
		},
	}

	return cfg, nil
}
