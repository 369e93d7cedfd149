package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Queue     QueueConfig
	Storage   StorageConfig
	PRA       PRAConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Bootstrap BootstrapConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Debug    bool
	Timezone string
}

type DatabaseConfig struct {
	Driver   string // postgres | mysql
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

// AuthConfig points at the hosted auth provider. Access tokens are verified
// locally with JWTSecret; the service-role key is used for admin calls.
type AuthConfig struct {
	URL            string
	JWTSecret      string
	ServiceRoleKey string
	Timeout        time.Duration
}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	SettingsTTL time.Duration
}

// QueueConfig tunes the background worker. The queue shares the Redis server.
type QueueConfig struct {
	Concurrency   int
	PurgeInterval time.Duration
}

type StorageConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	UploadMaxSize int64
}

type PRAConfig struct {
	ProductionURL string
	SandboxURL    string
	Timeout       time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type PrinterConfig struct {
	Type    string // usb | network | none
	USBPath string
	Address string
	Width   int // characters per line: 32 for 58mm paper, 48 for 80mm
}

// BootstrapConfig seeds the first business and its admin on an empty database.
type BootstrapConfig struct {
	BusinessName string
	AdminAuthUID string
	AdminEmail   string
	AdminName    string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "hotelpos-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("APP_TIMEZONE", "Asia/Karachi")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "hotelpos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Karachi")
	viper.SetDefault("AUTH_URL", "http://localhost:54321")
	viper.SetDefault("AUTH_JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("AUTH_TIMEOUT_SECONDS", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_SETTINGS_TTL_SECONDS", 300)
	viper.SetDefault("STORAGE_REGION", "ap-south-1")
	viper.SetDefault("UPLOAD_MAX_SIZE", 2097152)
	viper.SetDefault("PRA_PRODUCTION_URL", "https://ims.pral.com.pk/ims/production/api/Live/PostData")
	viper.SetDefault("PRA_SANDBOX_URL", "https://ims.pral.com.pk/ims/sandbox/api/Live/PostData")
	viper.SetDefault("PRA_TIMEOUT_SECONDS", 20)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_WIDTH", 48)
	viper.SetDefault("BOOTSTRAP_BUSINESS_NAME", "")
	viper.SetDefault("BOOTSTRAP_ADMIN_NAME", "Admin")
	viper.SetDefault("QUEUE_CONCURRENCY", 5)
	viper.SetDefault("IDEMPOTENCY_PURGE_MINUTES", 60)

	return &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Env:      viper.GetString("APP_ENV"),
			Port:     viper.GetString("APP_PORT"),
			Debug:    viper.GetBool("APP_DEBUG"),
			Timezone: viper.GetString("APP_TIMEZONE"),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		Auth: AuthConfig{
			URL:            viper.GetString("AUTH_URL"),
			JWTSecret:      viper.GetString("AUTH_JWT_SECRET"),
			ServiceRoleKey: viper.GetString("AUTH_SERVICE_ROLE_KEY"),
			Timeout:        time.Duration(viper.GetInt("AUTH_TIMEOUT_SECONDS")) * time.Second,
		},
		Redis: RedisConfig{
			Addr:        viper.GetString("REDIS_ADDR"),
			Password:    viper.GetString("REDIS_PASSWORD"),
			DB:          viper.GetInt("REDIS_DB"),
			SettingsTTL: time.Duration(viper.GetInt("REDIS_SETTINGS_TTL_SECONDS")) * time.Second,
		},
		Queue: QueueConfig{
			Concurrency:   viper.GetInt("QUEUE_CONCURRENCY"),
			PurgeInterval: time.Duration(viper.GetInt("IDEMPOTENCY_PURGE_MINUTES")) * time.Minute,
		},
		Storage: StorageConfig{
			Bucket:        viper.GetString("STORAGE_BUCKET"),
			Region:        viper.GetString("STORAGE_REGION"),
			Endpoint:      viper.GetString("STORAGE_ENDPOINT"),
			AccessKey:     viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey:     viper.GetString("STORAGE_SECRET_KEY"),
			PublicBaseURL: viper.GetString("STORAGE_PUBLIC_BASE_URL"),
			UploadMaxSize: viper.GetInt64("UPLOAD_MAX_SIZE"),
		},
		PRA: PRAConfig{
			ProductionURL: viper.GetString("PRA_PRODUCTION_URL"),
			SandboxURL:    viper.GetString("PRA_SANDBOX_URL"),
			Timeout:       time.Duration(viper.GetInt("PRA_TIMEOUT_SECONDS")) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:    viper.GetString("PRINTER_TYPE"),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
			Width:   viper.GetInt("PRINTER_WIDTH"),
		},
		Bootstrap: BootstrapConfig{
			BusinessName: viper.GetString("BOOTSTRAP_BUSINESS_NAME"),
			AdminAuthUID: viper.GetString("BOOTSTRAP_ADMIN_AUTH_UID"),
			AdminEmail:   viper.GetString("BOOTSTRAP_ADMIN_EMAIL"),
			AdminName:    viper.GetString("BOOTSTRAP_ADMIN_NAME"),
		},
	}
}

// DSN renders the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.Name)
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// Location returns the business time zone used for day boundaries, or UTC
// if the configured zone cannot be loaded.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
