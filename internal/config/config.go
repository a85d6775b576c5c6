// Package config loads service settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all service configuration.
type Config struct {
	Port       string
	MongoURI   string
	MongoDB    string
	LogLevel   string
	LogFormat  string // "text" or "json"
	CORSOrigin string

	Reminders ReminderConfig
	Notify    NotifyConfig
	MQTT      MQTTConfig
	RateLimit RateLimitConfig
}

// ReminderConfig controls the upcoming service thresholds and the reminder agent.
type ReminderConfig struct {
	AgentEnabled       bool
	Interval           time.Duration
	MilesThreshold     int
	DaysThreshold      int
	CalendarWindowDays int
}

// NotifyConfig controls the notification channels.
type NotifyConfig struct {
	EmailEnabled bool
	EmailFrom    string
	SMSEnabled   bool
	SMSFrom      string
	SuccessRate  float64
}

// MQTTConfig configures the odometer ingest. An empty Broker disables it.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Topic    string
}

// RateLimitConfig configures the per-client request limiter.
type RateLimitConfig struct {
	RPS        float64
	Burst      int
	TrustProxy bool // key clients by X-Forwarded-For / X-Real-IP instead of the peer address
}

// Load reads a .env file when present, then environment variables with defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to read .env file")
	}
	return FromEnv()
}

// FromEnv reads configuration from environment variables only.
func FromEnv() Config {
	return Config{
		Port:       getenv("PORT", "8080"),
		MongoURI:   getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    getenv("MONGO_DB", "fleet"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
		LogFormat:  getenv("LOG_FORMAT", "text"),
		CORSOrigin: getenv("CORS_ORIGIN", "http://localhost:3000"),
		Reminders: ReminderConfig{
			AgentEnabled:       getenvBool("REMINDER_AGENT_ENABLED", true),
			Interval:           getenvDuration("REMINDER_INTERVAL", 24*time.Hour),
			MilesThreshold:     getenvInt("UPCOMING_MILEAGE_THRESHOLD", 500),
			DaysThreshold:      getenvInt("UPCOMING_DAYS_THRESHOLD", 30),
			CalendarWindowDays: getenvInt("CALENDAR_WINDOW_DAYS", 14),
		},
		Notify: NotifyConfig{
			EmailEnabled: getenvBool("EMAIL_ENABLED", true),
			EmailFrom:    getenv("EMAIL_FROM", "service@example.com"),
			SMSEnabled:   getenvBool("SMS_ENABLED", true),
			SMSFrom:      getenv("SMS_FROM", "+15555550100"),
			SuccessRate:  getenvRate("NOTIFY_SUCCESS_RATE", 0.9),
		},
		MQTT: MQTTConfig{
			Broker:   os.Getenv("MQTT_BROKER"),
			ClientID: getenv("MQTT_CLIENT_ID", "fleet-reminders"),
			Topic:    getenv("MQTT_TOPIC", "fleet/+/odometer"),
		},
		RateLimit: RateLimitConfig{
			RPS:        getenvFloat("RATE_LIMIT_RPS", 20),
			Burst:      getenvInt("RATE_LIMIT_BURST", 40),
			TrustProxy: getenvBool("RATE_LIMIT_TRUST_PROXY", false),
		},
	}
}

// ConfigureLogging applies the level and format to the global logrus logger.
func (c Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithField("level", c.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(c.LogFormat, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

// getenvRate reads a probability in [0, 1].
func getenvRate(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f > 1 {
		return fallback
	}
	return f
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getenvDuration accepts a Go duration ("6h") or a number of milliseconds.
func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
