package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Booking   BookingConfig
	Messaging MessagingConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// BookingConfig holds the process-wide rental rules. It is passed into the
// pricing engine and the ledger at construction.
type BookingConfig struct {
	HoldMinutes     int
	SecurityDeposit float64
	LateFeePerHour  float64
	PickupHour      int
	Timezone        string
	SweepSchedule   string
}

type MessagingConfig struct {
	BaseURL   string
	ShopPhone string
}

type AdminConfig struct {
	KeyHash string
}

// HoldDuration returns how long a pending booking blocks its dates.
func (c BookingConfig) HoldDuration() time.Duration {
	return time.Duration(c.HoldMinutes) * time.Minute
}

// Location resolves the business timezone used for seasons and pickup windows.
func (c BookingConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", c.Timezone, err)
	}
	return loc, nil
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	return LoadConfigFile(".env")
}

func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "costume-rental")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("HOLD_MINUTES", 10)
	v.SetDefault("SECURITY_DEPOSIT", 100)
	v.SetDefault("LATE_FEE_PER_HOUR", 30)
	v.SetDefault("PICKUP_HOUR", 8)
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("SWEEP_SCHEDULE", "")
	v.SetDefault("MESSAGING_BASE_URL", "https://wa.me/")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Port:        v.GetString("PORT"),
			Debug:       v.GetBool("DEBUG"),
			LogPath:     v.GetString("LOG_PATH"),
			CORSOrigins: splitCSV(v.GetString("CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Booking: BookingConfig{
			HoldMinutes:     v.GetInt("HOLD_MINUTES"),
			SecurityDeposit: v.GetFloat64("SECURITY_DEPOSIT"),
			LateFeePerHour:  v.GetFloat64("LATE_FEE_PER_HOUR"),
			PickupHour:      v.GetInt("PICKUP_HOUR"),
			Timezone:        v.GetString("TIMEZONE"),
			SweepSchedule:   v.GetString("SWEEP_SCHEDULE"),
		},
		Messaging: MessagingConfig{
			BaseURL:   v.GetString("MESSAGING_BASE_URL"),
			ShopPhone: v.GetString("SHOP_PHONE"),
		},
		Admin: AdminConfig{
			KeyHash: v.GetString("ADMIN_KEY_HASH"),
		},
	}

	if config.Booking.HoldMinutes <= 0 {
		return nil, fmt.Errorf("HOLD_MINUTES must be positive, got %d", config.Booking.HoldMinutes)
	}
	if config.Booking.PickupHour < 0 || config.Booking.PickupHour > 23 {
		return nil, fmt.Errorf("PICKUP_HOUR must be between 0 and 23, got %d", config.Booking.PickupHour)
	}

	return config, nil
}

func splitCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
