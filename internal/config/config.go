package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	IFood      IFoodConfig
	MongoDB    MongoDBConfig
	Sheets     SheetsConfig
	Scheduling SchedulingConfig
	Thresholds Thresholds
	AI         AIConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// IFoodConfig contains credentials for the iFood Merchant API.
type IFoodConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	MerchantID   string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig configures the optional daily report export spreadsheet.
// Export is disabled when CredentialsPath is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	ReportRange     string
}

// SchedulingConfig holds cron expressions for the background jobs.
type SchedulingConfig struct {
	DailyReportCron string
	AlertScanCron   string
	Timezone        string
}

// Thresholds are the business targets the alert classifier compares KPI
// snapshots against. They are injected at construction, never read ad hoc
// mid-computation.
type Thresholds struct {
	// ConversionTarget is the minimum acceptable conversion rate (%).
	// Below it the severity bands apply: < ConversionCritical raises
	// CRÍTICO, < ConversionHigh raises ALTO, anything else below target
	// raises MÉDIO.
	ConversionTarget   float64
	ConversionHigh     float64
	ConversionCritical float64

	// DeliveryTargetMin is the maximum acceptable average delivery time in
	// minutes; above DeliveryCriticalMin the alert escalates to CRÍTICO.
	DeliveryTargetMin   float64
	DeliveryCriticalMin float64
}

// DefaultThresholds returns the business-configured constants from the KPI
// playbook: conversion >= 80%, delivery <= 45 min.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ConversionTarget:    80,
		ConversionHigh:      70,
		ConversionCritical:  60,
		DeliveryTargetMin:   45,
		DeliveryCriticalMin: 60,
	}
}

// AIConfig holds settings for the advisory LLM provider.
type AIConfig struct {
	OpenAIKey   string
	OpenAIModel string
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
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	thresholds := DefaultThresholds()
	var err error
	if thresholds.ConversionTarget, err = getenvFloat("KPI_CONVERSION_TARGET", thresholds.ConversionTarget); err != nil {
		return nil, err
	}
	if thresholds.ConversionHigh, err = getenvFloat("KPI_CONVERSION_HIGH", thresholds.ConversionHigh); err != nil {
		return nil, err
	}
	if thresholds.ConversionCritical, err = getenvFloat("KPI_CONVERSION_CRITICAL", thresholds.ConversionCritical); err != nil {
		return nil, err
	}
	if thresholds.DeliveryTargetMin, err = getenvFloat("KPI_DELIVERY_TARGET_MIN", thresholds.DeliveryTargetMin); err != nil {
		return nil, err
	}
	if thresholds.DeliveryCriticalMin, err = getenvFloat("KPI_DELIVERY_CRITICAL_MIN", thresholds.DeliveryCriticalMin); err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		IFood: IFoodConfig{
			ClientID:     os.Getenv("IFOOD_CLIENT_ID"),
			ClientSecret: os.Getenv("IFOOD_CLIENT_SECRET"),
			BaseURL:      getenvWithDefault("IFOOD_API_BASE_URL", "https://merchant-api.ifood.com.br"),
			MerchantID:   os.Getenv("IFOOD_MERCHANT_ID"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "logimax"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_REPORT_ID"),
			ReportRange:     getenvWithDefault("GOOGLE_SHEET_REPORT_RANGE", "RelatoriosKPI!A:H"),
		},
		Scheduling: SchedulingConfig{
			DailyReportCron: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 23 * * *"),
			AlertScanCron:   getenvWithDefault("ALERT_CRON_SCHEDULE", "0 * * * *"),
			Timezone:        getenvWithDefault("TIMEZONE", "America/Sao_Paulo"),
		},
		Thresholds: thresholds,
		AI: AIConfig{
			OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
			OpenAIModel: getenvWithDefault("OPENAI_MODEL", "gpt-4o"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and that
// the threshold bands are coherent.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if err := c.Thresholds.Validate(); err != nil {
		return err
	}

	if c.Scheduling.DailyReportCron == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}
	if c.Scheduling.AlertScanCron == "" {
		return errors.New("ALERT_CRON_SCHEDULE must be provided")
	}
	if c.Scheduling.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	// iFood credentials are only required when the sync feature is used;
	// a partial pair is always a mistake.
	if (c.IFood.ClientID == "") != (c.IFood.ClientSecret == "") {
		return errors.New("IFOOD_CLIENT_ID and IFOOD_CLIENT_SECRET must be provided together")
	}

	if c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_REPORT_ID must be provided when sheets export is enabled")
	}

	return nil
}

// Validate checks the ordering of the severity bands.
func (t Thresholds) Validate() error {
	if t.ConversionTarget <= 0 || t.ConversionTarget > 100 {
		return fmt.Errorf("conversion target %.2f out of range (0, 100]", t.ConversionTarget)
	}
	if !(t.ConversionCritical < t.ConversionHigh && t.ConversionHigh < t.ConversionTarget) {
		return fmt.Errorf("conversion bands must satisfy critical < high < target, got %.2f/%.2f/%.2f",
			t.ConversionCritical, t.ConversionHigh, t.ConversionTarget)
	}
	if t.DeliveryTargetMin <= 0 {
		return fmt.Errorf("delivery target %.2f must be positive", t.DeliveryTargetMin)
	}
	if t.DeliveryCriticalMin <= t.DeliveryTargetMin {
		return fmt.Errorf("delivery critical band %.2f must exceed target %.2f",
			t.DeliveryCriticalMin, t.DeliveryTargetMin)
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric: %w", key, err)
	}
	return parsed, nil
}
