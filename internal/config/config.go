package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	defaultPort              = "8080"
	defaultDatabaseURL       = "nerdsociety.db"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultJWTTTL            = "24h"
	defaultTokenPepper       = "change-me-token-pepper"
	defaultPasswordResetTTL  = "1h"
	defaultSiteURL           = "http://localhost:3000"
	defaultTimezone          = "Asia/Ho_Chi_Minh"
	defaultUploadDir         = "./uploads"
	defaultUploadURLBase     = "/uploads"
	defaultSMTPPort          = "587"
	defaultVietQRTemplate    = "compact2"
	defaultCancelLeadTime    = "6h"
	defaultRescheduleLead    = "60m"
	defaultPaymentWindow     = "5m"
	defaultOvertimeRate      = "1000"
	defaultVNDPerCoin        = "10000"
	defaultSilverThreshold   = "100"
	defaultGoldThreshold     = "500"
	defaultReminderWindow    = "2h"
	defaultLogLevel          = "info"
	defaultLogFormat         = "text"
	defaultSMTPFromName      = "Nerd Society"
	defaultVietQRAccountName = "NERD SOCIETY"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

type VietQRConfig struct {
	BankID      string
	AccountNo   string
	AccountName string
	Template    string
}

// BookingConfig holds the booking policy defaults. Cancel lead time and
// overtime rate can be overridden at runtime from the settings table.
type BookingConfig struct {
	CancelLeadTime        time.Duration
	RescheduleLeadTime    time.Duration
	PaymentWindow         time.Duration
	OvertimeRatePerMinute int64
	ReminderWindow        time.Duration
}

type NerdCoinConfig struct {
	VNDPerCoin      int64
	SilverThreshold int64
	GoldThreshold   int64
}

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	DBDebug     bool

	JWTSecret        string
	JWTTTL           time.Duration
	TokenPepper      string
	PasswordResetTTL time.Duration

	SiteURL     string
	Location    *time.Location
	CORSOrigins []string

	UploadDir     string
	UploadURLBase string

	LogLevel  string
	LogFormat string

	SMTP     SMTPConfig
	VietQR   VietQRConfig
	Booking  BookingConfig
	NerdCoin NerdCoinConfig
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug(".env not found, using process environment")
	}

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.DBDebug = parseBoolEnv("DB_DEBUG", "false")
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.TokenPepper = strings.TrimSpace(getEnv("TOKEN_PEPPER", defaultTokenPepper))
	cfg.SiteURL = strings.TrimRight(strings.TrimSpace(getEnv("SITE_URL", defaultSiteURL)), "/")
	cfg.UploadDir = strings.TrimSpace(getEnv("UPLOAD_DIR", defaultUploadDir))
	cfg.UploadURLBase = strings.TrimRight(strings.TrimSpace(getEnv("UPLOAD_URL_BASE", defaultUploadURLBase)), "/")
	cfg.LogLevel = strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel))
	cfg.LogFormat = strings.TrimSpace(getEnv("LOG_FORMAT", defaultLogFormat))
	cfg.CORSOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.PasswordResetTTL, err = parseDurationEnv("PASSWORD_RESET_TTL", defaultPasswordResetTTL); err != nil {
		return nil, err
	}

	tz := strings.TrimSpace(getEnv("TIMEZONE", defaultTimezone))
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE value %q: %w", tz, err)
	}

	cfg.SMTP = SMTPConfig{
		Host:     strings.TrimSpace(os.Getenv("SMTP_HOST")),
		Port:     strings.TrimSpace(getEnv("SMTP_PORT", defaultSMTPPort)),
		Username: strings.TrimSpace(os.Getenv("SMTP_USERNAME")),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     strings.TrimSpace(os.Getenv("SMTP_FROM")),
		FromName: strings.TrimSpace(getEnv("SMTP_FROM_NAME", defaultSMTPFromName)),
	}

	cfg.VietQR = VietQRConfig{
		BankID:      strings.TrimSpace(os.Getenv("VIETQR_BANK_ID")),
		AccountNo:   strings.TrimSpace(os.Getenv("VIETQR_ACCOUNT_NO")),
		AccountName: strings.TrimSpace(getEnv("VIETQR_ACCOUNT_NAME", defaultVietQRAccountName)),
		Template:    strings.TrimSpace(getEnv("VIETQR_TEMPLATE", defaultVietQRTemplate)),
	}

	if cfg.Booking.CancelLeadTime, err = parseDurationEnv("BOOKING_CANCEL_LEAD_TIME", defaultCancelLeadTime); err != nil {
		return nil, err
	}
	if cfg.Booking.RescheduleLeadTime, err = parseDurationEnv("BOOKING_RESCHEDULE_LEAD_TIME", defaultRescheduleLead); err != nil {
		return nil, err
	}
	if cfg.Booking.PaymentWindow, err = parseDurationEnv("BOOKING_PAYMENT_WINDOW", defaultPaymentWindow); err != nil {
		return nil, err
	}
	if cfg.Booking.ReminderWindow, err = parseDurationEnv("REMINDER_WINDOW", defaultReminderWindow); err != nil {
		return nil, err
	}
	if cfg.Booking.OvertimeRatePerMinute, err = parseInt64Env("OVERTIME_RATE_PER_MINUTE", defaultOvertimeRate); err != nil {
		return nil, err
	}

	if cfg.NerdCoin.VNDPerCoin, err = parseInt64Env("NERDCOIN_VND_PER_COIN", defaultVNDPerCoin); err != nil {
		return nil, err
	}
	if cfg.NerdCoin.SilverThreshold, err = parseInt64Env("NERDCOIN_SILVER_THRESHOLD", defaultSilverThreshold); err != nil {
		return nil, err
	}
	if cfg.NerdCoin.GoldThreshold, err = parseInt64Env("NERDCOIN_GOLD_THRESHOLD", defaultGoldThreshold); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.PasswordResetTTL <= 0 {
		return fmt.Errorf("PASSWORD_RESET_TTL must be > 0")
	}
	if cfg.Booking.CancelLeadTime < 0 {
		return fmt.Errorf("BOOKING_CANCEL_LEAD_TIME must be >= 0")
	}
	if cfg.Booking.RescheduleLeadTime < 0 {
		return fmt.Errorf("BOOKING_RESCHEDULE_LEAD_TIME must be >= 0")
	}
	if cfg.Booking.PaymentWindow <= 0 {
		return fmt.Errorf("BOOKING_PAYMENT_WINDOW must be > 0")
	}
	if cfg.Booking.ReminderWindow <= 0 {
		return fmt.Errorf("REMINDER_WINDOW must be > 0")
	}
	if cfg.Booking.OvertimeRatePerMinute < 0 {
		return fmt.Errorf("OVERTIME_RATE_PER_MINUTE must be >= 0")
	}
	if cfg.NerdCoin.VNDPerCoin <= 0 {
		return fmt.Errorf("NERDCOIN_VND_PER_COIN must be > 0")
	}
	if cfg.NerdCoin.SilverThreshold <= 0 || cfg.NerdCoin.GoldThreshold <= cfg.NerdCoin.SilverThreshold {
		return fmt.Errorf("NERDCOIN_GOLD_THRESHOLD must be greater than NERDCOIN_SILVER_THRESHOLD > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.TokenPepper, defaultTokenPepper) {
			return fmt.Errorf("in prod/release TOKEN_PEPPER must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseInt64Env(name, fallback string) (int64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
