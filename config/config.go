package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Pipeline specifics
	Gmail          GmailConfig
	GoogleCalendar GoogleCalendarConfig
	Gemini         GeminiConfig
	OCR            OCRConfig
	Ledger         LedgerConfig
	Scheduler      SchedulerConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type GmailConfig struct {
	Sender          string
	SubjectKeyword  string
	CredentialsPath string
	TokenPath       string
}

type GoogleCalendarConfig struct {
	CredentialsPath string
	TokenPath       string
	CalendarID      string
	Timezone        string
}

type GeminiConfig struct {
	APIKey            string
	Model             string
	APIURL            string
	RequestsPerMinute int
}

type OCRConfig struct {
	TesseractPath string
	PdftoppmPath  string
	Languages     string
	CacheSize     int
	CacheTTL      time.Duration
}

type LedgerConfig struct {
	Path string
}

type SchedulerConfig struct {
	Interval          time.Duration
	DayStartHour      int
	EveningCutoffHour int
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Gmail source
	cfg.Gmail.Sender = viper.GetString("gmail.sender")
	cfg.Gmail.SubjectKeyword = viper.GetString("gmail.subject_keyword")
	cfg.Gmail.CredentialsPath = viper.GetString("gmail.credentials_path")
	cfg.Gmail.TokenPath = viper.GetString("gmail.token_path")
	if gmailCreds := viper.GetString("gmail_credentials"); gmailCreds != "" {
		cfg.Gmail.CredentialsPath = gmailCreds
	}

	// Google Calendar
	cfg.GoogleCalendar.CredentialsPath = viper.GetString("google_calendar.credentials_path")
	cfg.GoogleCalendar.TokenPath = viper.GetString("google_calendar.token_path")
	cfg.GoogleCalendar.CalendarID = viper.GetString("google_calendar.calendar_id")
	cfg.GoogleCalendar.Timezone = viper.GetString("google_calendar.timezone")
	if googleCreds := viper.GetString("google_calendar_credentials"); googleCreds != "" {
		cfg.GoogleCalendar.CredentialsPath = googleCreds
	}
	// Both clients usually share one OAuth app.
	if cfg.GoogleCalendar.CredentialsPath == "" {
		cfg.GoogleCalendar.CredentialsPath = cfg.Gmail.CredentialsPath
	}
	if cfg.GoogleCalendar.TokenPath == "" {
		cfg.GoogleCalendar.TokenPath = cfg.Gmail.TokenPath
	}

	// Gemini
	cfg.Gemini.APIKey = viper.GetString("gemini.api_key")
	cfg.Gemini.Model = viper.GetString("gemini.model")
	cfg.Gemini.APIURL = viper.GetString("gemini.api_url")
	cfg.Gemini.RequestsPerMinute = viper.GetInt("gemini.requests_per_minute")
	if geminiKey := viper.GetString("gemini_api_key"); geminiKey != "" {
		cfg.Gemini.APIKey = geminiKey
	}

	// OCR
	cfg.OCR.TesseractPath = viper.GetString("ocr.tesseract_path")
	cfg.OCR.PdftoppmPath = viper.GetString("ocr.pdftoppm_path")
	cfg.OCR.Languages = viper.GetString("ocr.languages")
	cfg.OCR.CacheSize = viper.GetInt("ocr.cache_size")
	cfg.OCR.CacheTTL = viper.GetDuration("ocr.cache_ttl")

	// Ledger
	cfg.Ledger.Path = viper.GetString("ledger.path")

	// Scheduler
	cfg.Scheduler.Interval = viper.GetDuration("scheduler.interval")
	cfg.Scheduler.DayStartHour = viper.GetInt("scheduler.day_start_hour")
	cfg.Scheduler.EveningCutoffHour = viper.GetInt("scheduler.evening_cutoff_hour")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Gmail.Sender == "" {
		return fmt.Errorf("gmail.sender is required")
	}
	if cfg.Gmail.CredentialsPath == "" {
		return fmt.Errorf("gmail.credentials_path is required")
	}
	if cfg.Gemini.APIKey == "" {
		return fmt.Errorf("gemini.api_key is required")
	}
	if cfg.Scheduler.DayStartHour < 0 || cfg.Scheduler.DayStartHour > 23 {
		return fmt.Errorf("scheduler.day_start_hour must be within 0..23")
	}
	if cfg.Scheduler.EveningCutoffHour < 0 || cfg.Scheduler.EveningCutoffHour > 23 {
		return fmt.Errorf("scheduler.evening_cutoff_hour must be within 0..23")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("gmail.subject_keyword", "todo")
	viper.SetDefault("gmail.token_path", "token.json")

	viper.SetDefault("google_calendar.calendar_id", "primary")
	viper.SetDefault("google_calendar.timezone", "UTC")

	viper.SetDefault("gemini.model", "gemini-1.5-flash")
	viper.SetDefault("gemini.requests_per_minute", 15)

	viper.SetDefault("ocr.tesseract_path", "tesseract")
	viper.SetDefault("ocr.pdftoppm_path", "pdftoppm")
	viper.SetDefault("ocr.languages", "eng")
	viper.SetDefault("ocr.cache_size", 128)
	viper.SetDefault("ocr.cache_ttl", "24h")

	viper.SetDefault("ledger.path", "processed_emails.log")

	viper.SetDefault("scheduler.interval", "10m")
	viper.SetDefault("scheduler.day_start_hour", 9)
	viper.SetDefault("scheduler.evening_cutoff_hour", 17)
}
