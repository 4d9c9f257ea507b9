// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds configuration knobs for the HTTP server, the product service
// client, persistence and change notification.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// ProductEndpoints is the ordered candidate list for the external
	// product service. Position is priority: the first reachable
	// candidate wins.
	ProductEndpoints []string
	ProductTimeout   time.Duration
	APIKey           string

	// DatabaseURL selects the Postgres store when set; the in-memory
	// store is used otherwise.
	DatabaseURL   string
	MigrationsDir string

	// AMQPURL enables the AMQP change-event sink when set.
	AMQPURL      string
	AMQPExchange string

	EventBuffer int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// productEndpoints builds the candidate list: the configured base URL first,
// then the well-known fallback addresses, skipping duplicates.
func productEndpoints() []string {
	primary := getenv("PRODUCTS_SERVICE_URL", "http://localhost:3000")
	fallbacks := getenv("PRODUCT_FALLBACK_URLS",
		"http://host.docker.internal:3000,http://localhost:3000,http://127.0.0.1:3000,http://product-service:3000")

	seen := map[string]bool{}
	out := make([]string, 0, 5)
	for _, addr := range append([]string{primary}, strings.Split(fallbacks, ",")...) {
		addr = strings.TrimRight(strings.TrimSpace(addr), "/")
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	return out
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:         getenv("HTTP_ADDR", ":3001"),
		ShutdownTimeout:  durenvs("SHUTDOWN_TIMEOUT", 15),
		ProductEndpoints: productEndpoints(),
		ProductTimeout:   durenvms("PRODUCT_TIMEOUT_MS", 5000),
		APIKey:           getenv("API_KEY", "my-secret-api-key"),
		DatabaseURL:      getenv("DATABASE_URL", ""),
		MigrationsDir:    getenv("MIGRATIONS_DIR", "migrations"),
		AMQPURL:          getenv("AMQP_URL", ""),
		AMQPExchange:     getenv("AMQP_EXCHANGE", "inventory.events"),
		EventBuffer:      atoienv("EVENT_BUFFER", 64),
	}
}
