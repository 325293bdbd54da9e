// Package config loads application configuration from environment
// variables.  Required variables halt startup when missing; optional
// ones fall back to sensible defaults.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values.  Each field maps to
// one environment variable.
//
// Fields:
//  Env             – application environment (dev/test/prod).
//  Port            – HTTP port to listen on.
//  DBUser          – database username.
//  DBPass          – database password (may be empty).
//  DBHost          – database host address.
//  DBPort          – database port number.
//  DBName          – database name.
//  JWTSecret       – secret used to sign JWTs.
//  AccessTTLMin    – access token time-to-live in minutes.
//  RefreshTTLDays  – refresh token time-to-live in days.
//  BcryptCost      – bcrypt cost for password hashing.
//  AMQPURL         – RabbitMQ connection URL (empty disables events).
//  SupabaseURL     – Supabase project URL for file storage.
//  SupabaseKey     – Supabase service key for file storage.
//  AllowPastBookings – accept bookings whose start is already in the
//                      past; off by default, useful in test setups.
type Config struct {
	Env               string
	Port              string
	DBUser            string
	DBPass            string
	DBHost            string
	DBPort            string
	DBName            string
	JWTSecret         string
	AccessTTLMin      int
	RefreshTTLDays    int
	BcryptCost        int
	AMQPURL           string
	SupabaseURL       string
	SupabaseKey       string
	AllowPastBookings bool
}

// Load reads configuration from the environment.  Missing required
// variables cause a fatal log and exit.
func Load() Config {
	return Config{
		Env:               must("APP_ENV"),
		Port:              must("APP_PORT"),
		DBUser:            must("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"),
		DBHost:            must("DB_HOST"),
		DBPort:            must("DB_PORT"),
		DBName:            must("DB_NAME"),
		JWTSecret:         must("JWT_SECRET"),
		AccessTTLMin:      mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays:    mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:        mustInt("BCRYPT_COST"),
		AMQPURL:           os.Getenv("AMQP_URL"),
		SupabaseURL:       os.Getenv("SUPABASE_URL"),
		SupabaseKey:       os.Getenv("SUPABASE_SERVICE_KEY"),
		AllowPastBookings: envBool("BOOKING_ALLOW_PAST", false),
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

// mustInt is like must but parses the value as an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
