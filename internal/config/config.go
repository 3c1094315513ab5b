package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Plate recognition
	PlateProvider        string  `envconfig:"PLATE_PROVIDER" default:"platerecognizer"`
	PlateRecognizerURL   string  `envconfig:"PLATE_RECOGNIZER_URL" default:"https://api.platerecognizer.com/v1"`
	PlateRecognizerToken string  `envconfig:"PLATE_RECOGNIZER_TOKEN"`
	AWSRegion            string  `envconfig:"AWS_REGION" default:"us-east-1"`
	MinPlateConfidence   float64 `envconfig:"MIN_PLATE_CONFIDENCE" default:"0.7"`

	// Mailer
	MailerURL    string `envconfig:"MAILER_URL"`
	MailerAPIKey string `envconfig:"MAILER_API_KEY"`
	MailerFrom   string `envconfig:"MAILER_FROM" default:"recibos@parqueadero.local"`

	// Billing
	AllowBackdatedExit bool `envconfig:"ALLOW_BACKDATED_EXIT" default:"false"`

	// Recognition requests per client per minute, 0 disables the limit
	PlateRateLimit int `envconfig:"PLATE_RATE_LIMIT" default:"30"`

	// Reports
	ReportCacheTTL time.Duration `envconfig:"REPORT_CACHE_TTL" default:"30s"`

	// Occupancy alerts, threshold 0 disables them
	OccupancyAlertThreshold float64 `envconfig:"OCCUPANCY_ALERT_THRESHOLD" default:"0"`
	AlertEmail              string  `envconfig:"ALERT_EMAIL"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
