package config

import (
	"log"
	"strings"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Catalog   CatalogConfig
	Orders    OrdersConfig
	Store     StoreConfig
	Suspend   SuspendConfig
	Redis     RedisConfig
	Printer   PrinterConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
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

// CatalogConfig points at the product catalog service
type CatalogConfig struct {
	BaseURL         string
	Timeout         time.Duration
	CacheSize       int
	CacheTTL        time.Duration
	FallbackEnabled bool
}

// OrdersConfig points at the order service that receives completed sales
type OrdersConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StoreConfig is the store header printed on receipts
type StoreConfig struct {
	Name    string
	Address string
	Phone   string
	TaxID   string
}

// SuspendConfig selects where suspended transactions are parked
type SuspendConfig struct {
	Store string // postgres, redis or memory
	TTL   time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PrinterConfig struct {
	Type      string // usb, network or none
	USBPath   string
	Address   string
	CharWidth int
	AutoPrint bool
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "pos-terminal")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "pos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("CATALOG_BASE_URL", "http://localhost:4000")
	viper.SetDefault("CATALOG_TIMEOUT_SECONDS", 5)
	viper.SetDefault("CATALOG_CACHE_SIZE", 1024)
	viper.SetDefault("CATALOG_CACHE_TTL_SECONDS", 300)
	viper.SetDefault("CATALOG_FALLBACK_ENABLED", true)
	viper.SetDefault("ORDERS_BASE_URL", "http://localhost:4000")
	viper.SetDefault("ORDERS_TIMEOUT_SECONDS", 15)
	viper.SetDefault("STORE_NAME", "POS Store")
	viper.SetDefault("SUSPEND_STORE", "postgres")
	viper.SetDefault("SUSPEND_TTL_HOURS", 24)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_CHAR_WIDTH", 48)
	viper.SetDefault("PRINTER_AUTO_PRINT", false)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
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
		Catalog: CatalogConfig{
			BaseURL:         strings.TrimRight(viper.GetString("CATALOG_BASE_URL"), "/"),
			Timeout:         time.Duration(viper.GetInt("CATALOG_TIMEOUT_SECONDS")) * time.Second,
			CacheSize:       viper.GetInt("CATALOG_CACHE_SIZE"),
			CacheTTL:        time.Duration(viper.GetInt("CATALOG_CACHE_TTL_SECONDS")) * time.Second,
			FallbackEnabled: viper.GetBool("CATALOG_FALLBACK_ENABLED"),
		},
		Orders: OrdersConfig{
			BaseURL: strings.TrimRight(viper.GetString("ORDERS_BASE_URL"), "/"),
			Timeout: time.Duration(viper.GetInt("ORDERS_TIMEOUT_SECONDS")) * time.Second,
		},
		Store: StoreConfig{
			Name:    viper.GetString("STORE_NAME"),
			Address: viper.GetString("STORE_ADDRESS"),
			Phone:   viper.GetString("STORE_PHONE"),
			TaxID:   viper.GetString("STORE_TAX_ID"),
		},
		Suspend: SuspendConfig{
			Store: strings.ToLower(viper.GetString("SUSPEND_STORE")),
			TTL:   time.Duration(viper.GetInt("SUSPEND_TTL_HOURS")) * time.Hour,
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Printer: PrinterConfig{
			Type:      strings.ToLower(viper.GetString("PRINTER_TYPE")),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			CharWidth: viper.GetInt("PRINTER_CHAR_WIDTH"),
			AutoPrint: viper.GetBool("PRINTER_AUTO_PRINT"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// StoreInfo returns the receipt header for storeNumber
func (c *StoreConfig) StoreInfo(storeNumber string) entity.StoreInfo {
	return entity.StoreInfo{
		StoreNumber: storeNumber,
		StoreName:   c.Name,
		Address:     c.Address,
		Phone:       c.Phone,
		TaxID:       c.TaxID,
	}
}
