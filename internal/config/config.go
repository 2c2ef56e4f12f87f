package config // loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the core runtime configuration.  Each field maps to
// one environment variable; required ones are enforced by must() and
// abort startup when absent.  Redis, rate limiting and response
// caching have their own loaders in this package.
type Config struct {
	Env            string        // APP_ENV (dev/test/prod)
	Port           string        // APP_PORT, HTTP port to listen on
	DBUser         string        // DB_USER
	DBPass         string        // DB_PASS (empty allowed)
	DBHost         string        // DB_HOST
	DBPort         string        // DB_PORT
	DBName         string        // DB_NAME
	JWTSecret      string        // JWT_SECRET, signs staff access tokens
	AccessTTLMin   int           // ACCESS_TOKEN_TTL_MIN
	RefreshTTLDays int           // REFRESH_TOKEN_TTL_DAYS
	BcryptCost     int           // BCRYPT_COST
	SweepEvery     time.Duration // COMPLETION_SWEEP_EVERY, 0 disables the sweep
}

// Load reads configuration from the environment.  Missing required
// variables are fatal; a server with half a config should not come up.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		SweepEvery:     envDur("COMPLETION_SWEEP_EVERY", 10*time.Minute),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is must() plus integer conversion.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
