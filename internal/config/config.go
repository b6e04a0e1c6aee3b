// Package config loads process-wide configuration from the environment,
// once, at startup. There is no runtime mutation surface: pricing and
// credentials change only with a redeploy.
package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Config is everything the checkout service needs to run.
type Config struct {
	HTTPAddr string

	Razorpay RazorpayConfig

	// Currency is the single ISO code for this deployment.
	Currency string

	// OrdersDBPath is the SQLite database file for the order store.
	OrdersDBPath string

	// CatalogPath optionally overrides the built-in catalog with a JSON
	// file. Empty means the compiled-in catalog.
	CatalogPath string

	// RedisAddr enables the order read cache when non-empty.
	RedisAddr string

	// AMQPURL enables event publishing when non-empty.
	AMQPURL      string
	AMQPExchange string

	// AdminEmails always pass the purchase policy. ClosedBeta restricts
	// checkout to those emails only.
	AdminEmails []string
	ClosedBeta  bool
}

// RazorpayConfig is the gateway credential pair. KeyID is public;
// KeySecret must never be logged or serialized.
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	Timeout   time.Duration
}

// Load reads configuration from the environment. It fails when the
// gateway credentials are missing; the service must not start
// half-configured.
func Load() (*Config, error) {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if keyID == "" || keySecret == "" {
		return nil, errors.New("config: RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET must be set")
	}

	return &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Razorpay: RazorpayConfig{
			KeyID:     keyID,
			KeySecret: keySecret,
			Timeout:   10 * time.Second,
		},
		Currency:     getEnv("CURRENCY", "INR"),
		OrdersDBPath: getEnv("ORDERS_DB_PATH", "./data/orders.db"),
		CatalogPath:  os.Getenv("CATALOG_PATH"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "checkout.events"),
		AdminEmails:  splitList(os.Getenv("ADMIN_EMAILS")),
		ClosedBeta:   os.Getenv("CLOSED_BETA") == "true",
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
