package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName       = "CivicEye"
	defaultAppEnv        = "development"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultShutdownDelay = 10 * time.Second
	defaultSessionTTL    = 7 * 24 * time.Hour
	defaultOTPTTL        = 5 * time.Minute
	defaultBcryptCost    = 10
	defaultMailTimeout   = 10 * time.Second
	defaultSMTPPort      = 587

	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
	sessionSecondsEnvVar   = "SESSION_TTL_SECONDS"
	sessionDurationEnvVar  = "SESSION_TTL"
	otpSecondsEnvVar       = "OTP_TTL_SECONDS"
	otpDurationEnvVar      = "OTP_TTL"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	JWTSecret      string
	SessionTTL     time.Duration
	OTPTTL         time.Duration
	BcryptCost     int
	ShutdownPeriod time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	MailFromName string
	MailTimeout  time.Duration

	// NotifyEmail receives best-effort new-complaint notifications. Empty
	// disables mail notifications; complaint events are still logged.
	NotifyEmail string
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SessionTTL:     defaultSessionTTL,
		OTPTTL:         defaultOTPTTL,
		BcryptCost:     defaultBcryptCost,
		ShutdownPeriod: defaultShutdownDelay,
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       defaultSMTPPort,
		SMTPUsername:   os.Getenv("SMTP_USERNAME"),
		SMTPPassword:   os.Getenv("SMTP_PASSWORD"),
		MailFrom:       getEnv("MAIL_FROM", "no-reply@civiceye.local"),
		MailFromName:   getEnv("MAIL_FROM_NAME", "CivicEye Support"),
		MailTimeout:    defaultMailTimeout,
		NotifyEmail:    os.Getenv("NOTIFY_EMAIL"),
	}

	var err error
	if cfg.ShutdownPeriod, err = durationEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = durationEnv(sessionSecondsEnvVar, sessionDurationEnvVar, cfg.SessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.OTPTTL, err = durationEnv(otpSecondsEnvVar, otpDurationEnvVar, cfg.OTPTTL); err != nil {
		return Config{}, err
	}
	if cfg.MailTimeout, err = durationEnv("MAIL_TIMEOUT_SECONDS", "MAIL_TIMEOUT", cfg.MailTimeout); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SMTP_PORT: %w", err)
		}
		cfg.SMTPPort = port
	}

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
		if cost < defaultBcryptCost {
			return Config{}, fmt.Errorf("BCRYPT_COST must be at least %d", defaultBcryptCost)
		}
		cfg.BcryptCost = cost
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	if cfg.DatabaseURL == "" && !IsDev(cfg.AppEnv) {
		return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the environment name denotes a local development run.
func IsDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

func durationEnv(secondsVar, durationVar string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsVar, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationVar, err)
		}
		return d, nil
	}
	return fallback, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
