package config

import (
	"os"
	"time"
)

// parseEnv overlays Config fields from environment variables. Unset or
// malformed values leave the current value untouched.
func parseEnv(config *Config) {
	setString(&config.Addr, "DEADLINE_ADDR")
	setString(&config.DatabaseDSN, "DEADLINE_DATABASE_DSN")
	setString(&config.Secret, "DEADLINE_SECRET")
	setString(&config.BaseURL, "DEADLINE_BASE_URL")
	setDuration(&config.SessionTTL, "DEADLINE_SESSION_TTL")
	setDuration(&config.SweepInterval, "DEADLINE_SWEEP_INTERVAL")
	setString(&config.PublisherBaseURL, "DEADLINE_PUBLISHER_BASE_URL")
	setString(&config.BrevoAPIKey, "DEADLINE_BREVO_API_KEY")
	setString(&config.StripeAPIKey, "DEADLINE_STRIPE_API_KEY")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return
	}
	*dst = d
}
