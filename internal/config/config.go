package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	reporting "duty-reports/internal/reporting/domain"
	schedule "duty-reports/internal/schedule/domain"
)

// ReportProfile controls report content and layout.
type ReportProfile struct {
	Title                 string `yaml:"title"`
	BreakThresholdMinutes *int   `yaml:"break_threshold_minutes"`
	ClockLayout           string `yaml:"clock_layout"`
	PageSize              string `yaml:"page_size"`
	Orientation           string `yaml:"orientation"`
	DefaultFormat         string `yaml:"default_format"`
}

// Config is the service configuration.
type Config struct {
	HTTPAddr           string
	DatabaseURL        string
	JWTSecret          string
	NATSURL            string
	NATSSubject        string
	AlertWebhookURL    string
	AlertTimeout       time.Duration
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
	MaxBodyBytes       int64
	LogLevel           string
	Report             ReportProfile
}

// Load reads .env when present, then the environment, then the yaml profile
// named by REPORT_CONFIG. REPORT_TITLE and BREAK_THRESHOLD_MINUTES override the profile.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:           getenvDefault("HTTP_ADDR", ":8080"),
		DatabaseURL:        getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		JWTSecret:          getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		NATSURL:            getenvDefault("NATS_URL", ""),
		NATSSubject:        getenvDefault("NATS_SUBJECT", "reports.generated"),
		AlertWebhookURL:    getenvDefault("REPORT_ALERT_WEBHOOK_URL", ""),
		AlertTimeout:       getenvDuration("REPORT_ALERT_TIMEOUT", 5*time.Second),
		CORSAllowedOrigins: splitCSV(getenvDefault("CORS_ALLOWED_ORIGINS", "*")),
		RequestTimeout:     getenvDuration("REQUEST_TIMEOUT", 30*time.Second),
		MaxBodyBytes:       int64(getenvIntDefault("MAX_BODY_BYTES", 10<<20)),
		LogLevel:           getenvDefault("LOG_LEVEL", "info"),
	}

	if path := os.Getenv("REPORT_CONFIG"); path != "" {
		profile, err := LoadProfile(path)
		if err != nil {
			return cfg, err
		}
		cfg.Report = profile
	}
	if title := os.Getenv("REPORT_TITLE"); title != "" {
		cfg.Report.Title = title
	}
	if value := os.Getenv("BREAK_THRESHOLD_MINUTES"); value != "" {
		minutes, err := strconv.Atoi(value)
		if err != nil {
			return cfg, fmt.Errorf("config: BREAK_THRESHOLD_MINUTES: %w", err)
		}
		cfg.Report.BreakThresholdMinutes = &minutes
	}
	cfg.Report = cfg.Report.WithDefaults()
	return cfg, cfg.Validate()
}

// LoadProfile reads a yaml report profile.
func LoadProfile(path string) (ReportProfile, error) {
	var profile ReportProfile
	data, err := os.ReadFile(path)
	if err != nil {
		return profile, err
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("config: %s: %w", path, err)
	}
	return profile, nil
}

// WithDefaults fills unset fields.
func (p ReportProfile) WithDefaults() ReportProfile {
	if p.Title == "" {
		p.Title = reporting.DefaultTitle
	}
	if p.ClockLayout == "" {
		p.ClockLayout = schedule.ClockMinutes
	}
	if p.PageSize == "" {
		p.PageSize = "A4"
	}
	if p.Orientation == "" {
		p.Orientation = "P"
	}
	if p.DefaultFormat == "" {
		p.DefaultFormat = string(reporting.FormatPDF)
	}
	return p
}

// BreakPolicy returns the configured break policy.
func (p ReportProfile) BreakPolicy() (schedule.BreakPolicy, error) {
	if p.BreakThresholdMinutes == nil {
		return schedule.DefaultBreakPolicy(), nil
	}
	return schedule.NewBreakPolicy(time.Duration(*p.BreakThresholdMinutes) * time.Minute)
}

// Format returns the default output format.
func (p ReportProfile) Format() reporting.Format {
	format, err := reporting.ParseFormat(p.DefaultFormat, reporting.FormatPDF)
	if err != nil {
		return reporting.FormatPDF
	}
	return format
}

// Validate checks the loaded values.
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("config: HTTP_ADDR required")
	}
	if c.MaxBodyBytes <= 0 {
		return errors.New("config: MAX_BODY_BYTES must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("config: REQUEST_TIMEOUT must be positive")
	}
	return c.Report.Validate()
}

// pageSizes are the standard sizes the PDF renderer knows.
var pageSizes = map[string]struct{}{
	"a1": {}, "a2": {}, "a3": {}, "a4": {}, "a5": {}, "a6": {},
	"letter": {}, "legal": {}, "tabloid": {},
}

// Validate checks a profile after defaults are applied.
func (p ReportProfile) Validate() error {
	if _, err := p.BreakPolicy(); err != nil {
		return fmt.Errorf("config: break threshold: %w", err)
	}
	if _, err := reporting.ParseFormat(p.DefaultFormat, reporting.FormatPDF); err != nil {
		return fmt.Errorf("config: default format %q: %w", p.DefaultFormat, err)
	}
	switch p.ClockLayout {
	case schedule.ClockMinutes, schedule.ClockSeconds:
	default:
		return fmt.Errorf("config: unknown clock layout %q", p.ClockLayout)
	}
	if _, ok := pageSizes[strings.ToLower(p.PageSize)]; !ok {
		return fmt.Errorf("config: unknown page size %q", p.PageSize)
	}
	switch strings.ToUpper(p.Orientation) {
	case "P", "L":
	default:
		return fmt.Errorf("config: unknown orientation %q", p.Orientation)
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
