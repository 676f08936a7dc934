package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	WhatsApp  WhatsAppConfig
	Sheets    SheetsConfig
	Salon     SalonConfig
	Scheduler SchedulerConfig
	LogLevel  string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// RedisConfig holds the booking lock store settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	Enabled       bool
	AccessToken   string
	PhoneNumberID string
	VerifyToken   string
	BaseURL       string
	APIVersion    string
	CountryCode   string
	BusinessPhone string
}

// SheetsConfig contains configuration required to export sales to Google Sheets.
type SheetsConfig struct {
	Enabled         bool
	CredentialsPath string
	SpreadsheetID   string
	SalesRange      string
}

// SalonConfig describes the business day and tax rules.
type SalonConfig struct {
	Name                string
	Timezone            string
	BusinessStartHour   int
	BusinessEndHour     int
	SlotMinutes         int
	SlotHeight          float64
	HeaderOffsetMinutes int
	BreakWindowMinutes  int
	GSTRate             float64
}

// SchedulerConfig holds cron expressions for background jobs.
type SchedulerConfig struct {
	ReminderCron  string
	SalesSyncCron string
}

// Location resolves the salon time zone.
func (s SalonConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine when everything comes from the environment.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "salonpos"),
		},
		Redis: RedisConfig{
			Addr:     getenvWithDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getIntEnv("REDIS_DB", 0),
			LockTTL:  time.Duration(getIntEnv("BOOKING_LOCK_TTL_SECONDS", 10)) * time.Second,
		},
		WhatsApp: WhatsAppConfig{
			Enabled:       getBoolEnv("WHATSAPP_ENABLED", true),
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:   os.Getenv("META_VERIFY_TOKEN"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			CountryCode:   getenvWithDefault("WHATSAPP_COUNTRY_CODE", "91"),
			BusinessPhone: os.Getenv("SALON_BUSINESS_PHONE"),
		},
		Sheets: SheetsConfig{
			Enabled:         getBoolEnv("SHEETS_ENABLED", true),
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_SALES_ID"),
			SalesRange:      getenvWithDefault("GOOGLE_SHEET_SALES_RANGE", "Sales!A:K"),
		},
		Salon: SalonConfig{
			Name:                getenvWithDefault("SALON_NAME", "RG Salon"),
			Timezone:            getenvWithDefault("TIMEZONE", "Asia/Kolkata"),
			BusinessStartHour:   getIntEnv("BUSINESS_START_HOUR", 8),
			BusinessEndHour:     getIntEnv("BUSINESS_END_HOUR", 22),
			SlotMinutes:         getIntEnv("SLOT_MINUTES", 15),
			SlotHeight:          getFloatEnv("SLOT_HEIGHT", 30),
			HeaderOffsetMinutes: getIntEnv("HEADER_OFFSET_MINUTES", 30),
			BreakWindowMinutes:  getIntEnv("BREAK_WINDOW_MINUTES", 30),
			GSTRate:             getFloatEnv("GST_RATE", 0.18),
		},
		Scheduler: SchedulerConfig{
			ReminderCron:  getenvWithDefault("REMINDER_CRON_SCHEDULE", "*/15 * * * *"),
			SalesSyncCron: getenvWithDefault("SALES_SYNC_CRON_SCHEDULE", "30 22 * * *"),
		},
		LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	case c.Redis.Addr == "":
		return errors.New("REDIS_ADDR must be provided")
	case c.Redis.LockTTL <= 0:
		return errors.New("BOOKING_LOCK_TTL_SECONDS must be positive")
	}

	if c.WhatsApp.Enabled {
		switch {
		case c.WhatsApp.AccessToken == "":
			return errors.New("WHATSAPP_TOKEN must be provided")
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.VerifyToken == "":
			return errors.New("META_VERIFY_TOKEN must be provided")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if c.Sheets.Enabled {
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_SALES_ID must be provided")
		}
	}

	s := c.Salon
	if _, err := s.Location(); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}
	if s.BusinessStartHour < 0 || s.BusinessEndHour > 24 || s.BusinessEndHour <= s.BusinessStartHour {
		return errors.New("BUSINESS_START_HOUR and BUSINESS_END_HOUR must describe a valid day")
	}
	if s.SlotMinutes <= 0 || 60%s.SlotMinutes != 0 {
		return errors.New("SLOT_MINUTES must divide an hour")
	}
	if s.SlotHeight <= 0 {
		return errors.New("SLOT_HEIGHT must be positive")
	}
	if s.GSTRate < 0 {
		return errors.New("GST_RATE must not be negative")
	}

	if c.Scheduler.ReminderCron == "" {
		return errors.New("REMINDER_CRON_SCHEDULE must be provided")
	}
	if c.Scheduler.SalesSyncCron == "" {
		return errors.New("SALES_SYNC_CRON_SCHEDULE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getFloatEnv(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getBoolEnv(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}
