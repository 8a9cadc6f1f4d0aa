package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
)

const (
	defaultOrderTopic         = "storefront.orders"
	defaultSessionTTLHours    = 24 * 30
	defaultCheckoutRateLimit  = 5
	defaultCheckoutRateWindow = 60
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port               string
	PostgresDSN        string
	RedisAddr          string
	KafkaBrokers       []string
	KafkaOrderTopic    string
	TemporalAddress    string
	TemporalNamespace  string
	TemporalDisabled   bool
	JWTSecret          string
	SessionTTL         time.Duration
	SecureCookies      bool
	CheckoutRateLimit  int
	CheckoutRateWindow time.Duration
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		KafkaBrokers:      splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic:   envDefault("KAFKA_ORDER_TOPIC", defaultOrderTopic),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),
		SecureCookies:     isTruthy(os.Getenv("SECURE_COOKIES")),
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	hours, err := positiveInt("SESSION_TTL_HOURS", defaultSessionTTLHours)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = time.Duration(hours) * time.Hour
	if cfg.CheckoutRateLimit, err = positiveInt("CHECKOUT_RATE_LIMIT", defaultCheckoutRateLimit); err != nil {
		return Config{}, err
	}
	seconds, err := positiveInt("CHECKOUT_RATE_WINDOW_SEC", defaultCheckoutRateWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.CheckoutRateWindow = time.Duration(seconds) * time.Second
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func positiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
