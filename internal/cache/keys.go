package cache

import (
	"strings"
	"time"

	"coindeck/internal/config"
)

// Namespace is the Redis key prefix for the coindeck application.
const Namespace = "coindeck"

// TTLClass represents a config-driven TTL bucket.
type TTLClass string

const (
	TTLShort  TTLClass = "short"
	TTLMedium TTLClass = "medium"
	TTLLong   TTLClass = "long"
)

// TTLSet normalises cache TTLs from config into time.Duration values.
type TTLSet struct {
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// NewTTLSet converts config TTLs (in seconds) into durations.
func NewTTLSet(cfg config.CacheTTL) TTLSet {
	return TTLSet{
		Short:  durationOrDefault(cfg.Short, 10*time.Second),
		Medium: durationOrDefault(cfg.Medium, time.Minute),
		Long:   durationOrDefault(cfg.Long, 5*time.Minute),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds < 0 {
		return 0
	}
	if seconds == 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// Duration returns the configured duration for the given TTL class.
func (t TTLSet) Duration(class TTLClass) time.Duration {
	switch class {
	case TTLShort:
		return t.Short
	case TTLMedium:
		return t.Medium
	case TTLLong:
		return t.Long
	default:
		return 0
	}
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}

// --- Price & Market Keys ----------------------------------------------------

// PriceLatestKey holds the latest price of a single instrument.
func PriceLatestKey(instrumentID string) string {
	return formatKey("price", "latest", instrumentID)
}

// SnapshotKey holds the full ranked instrument snapshot payload.
func SnapshotKey() string {
	return formatKey("snapshot")
}

// GlobalStatsKey holds the aggregate market stats payload.
func GlobalStatsKey() string {
	return formatKey("global_stats")
}

// ExchangeRateKey holds the latest reference exchange rate per currency.
func ExchangeRateKey(currency string) string {
	return formatKey("rate", strings.ToLower(currency))
}

// --- TTL Helpers ------------------------------------------------------------

// PriceTTL returns the short-lived TTL for individual price keys.
func PriceTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLShort)
}

// SnapshotTTL returns the TTL for the bundled snapshot payload.
func SnapshotTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLShort)
}

// GlobalStatsTTL returns the TTL for aggregate market stats.
func GlobalStatsTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLMedium)
}

// ExchangeRateTTL returns the TTL for cached exchange rates.
func ExchangeRateTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLLong)
}
