package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Printer   PrinterConfig
	Store     StoreConfig
	Sale      SaleConfig
	Log       LogConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Driver   string // postgres or memory
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
	Seed     bool
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

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	RuleTTL  time.Duration
	CartTTL  time.Duration
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
	Buffer  int
}

type PrinterConfig struct {
	Type    string
	USBPath string
	Address string
	Width   int

	KitchenType    string
	KitchenUSBPath string
	KitchenAddress string
	KitchenWidth   int
}

type StoreConfig struct {
	Name    string
	Address string
	Phone   string
	TaxID   string
}

type SaleConfig struct {
	InvoicePrefix      string
	DefaultPaymentMode string
	TaxRate            float64
}

type LogConfig struct {
	Level string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(viper.GetString("DB_DRIVER")),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
			Seed:     viper.GetBool("DB_SEED"),
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
		Redis: RedisConfig{
			Enabled:  viper.GetBool("REDIS_ENABLED"),
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			RuleTTL:  time.Duration(viper.GetInt("REDIS_RULE_TTL_SECONDS")) * time.Second,
			CartTTL:  time.Duration(viper.GetInt("REDIS_CART_TTL_HOURS")) * time.Hour,
		},
		Kafka: KafkaConfig{
			Enabled: viper.GetBool("KAFKA_ENABLED"),
			Brokers: splitList(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
			Buffer:  viper.GetInt("KAFKA_BUFFER"),
		},
		Printer: PrinterConfig{
			Type:           viper.GetString("PRINTER_TYPE"),
			USBPath:        viper.GetString("PRINTER_USB_PATH"),
			Address:        viper.GetString("PRINTER_ADDRESS"),
			Width:          viper.GetInt("PRINTER_WIDTH"),
			KitchenType:    viper.GetString("KITCHEN_PRINTER_TYPE"),
			KitchenUSBPath: viper.GetString("KITCHEN_PRINTER_USB_PATH"),
			KitchenAddress: viper.GetString("KITCHEN_PRINTER_ADDRESS"),
			KitchenWidth:   viper.GetInt("KITCHEN_PRINTER_WIDTH"),
		},
		Store: StoreConfig{
			Name:    viper.GetString("STORE_NAME"),
			Address: viper.GetString("STORE_ADDRESS"),
			Phone:   viper.GetString("STORE_PHONE"),
			TaxID:   viper.GetString("STORE_TAX_ID"),
		},
		Sale: SaleConfig{
			InvoicePrefix:      viper.GetString("SALE_INVOICE_PREFIX"),
			DefaultPaymentMode: viper.GetString("SALE_DEFAULT_PAYMENT_MODE"),
			TaxRate:            viper.GetFloat64("TAX_RATE"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "tablepos-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "tablepos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("DB_SEED", false)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_RULE_TTL_SECONDS", 60)
	viper.SetDefault("REDIS_CART_TTL_HOURS", 12)
	viper.SetDefault("KAFKA_ENABLED", false)
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_TOPIC", "pos.sales")
	viper.SetDefault("KAFKA_BUFFER", 256)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_WIDTH", 32)
	viper.SetDefault("KITCHEN_PRINTER_TYPE", "none")
	viper.SetDefault("KITCHEN_PRINTER_WIDTH", 48)
	viper.SetDefault("STORE_NAME", "TablePOS")
	viper.SetDefault("SALE_INVOICE_PREFIX", "ANN")
	viper.SetDefault("SALE_DEFAULT_PAYMENT_MODE", "Cash")
	viper.SetDefault("TAX_RATE", 0)
	viper.SetDefault("LOG_LEVEL", "info")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
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
