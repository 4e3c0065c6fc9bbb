package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Database settings cover two drivers: MySQL for
// regular deployments and SQLite for embedded or throwaway stores; only the
// variables for the selected driver are required.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBDriver      string // "mysql" or "sqlite3"
	DBUser        string // database username (mysql)
	DBPass        string // database password (mysql, optional)
	DBHost        string // database host address (mysql)
	DBPort        string // database port number (mysql)
	DBName        string // database name (mysql)
	DBPath        string // database file path (sqlite3), ":memory:" allowed
	WipeOnStart   bool   // drop and recreate all tables before seeding
	SeedFile      string // path to the declarative room inventory file
	JWTSecret     string // secret for caller identity tokens (empty disables them)
	SessionTTLMin int    // minutes an in-progress booking draft is retained
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message. Which database
// variables are required depends on DB_DRIVER.
func Load() Config {
	cfg := Config{
		Env:           must("APP_ENV"),  // environment (dev/test/prod)
		Port:          must("APP_PORT"), // port to bind the HTTP server
		DBDriver:      envStr("DB_DRIVER", "mysql"),
		WipeOnStart:   envBool("DB_WIPE_ON_START", false),
		SeedFile:      envStr("SEED_FILE", "room.json"),
		JWTSecret:     os.Getenv("JWT_SECRET"), // optional; empty means anonymous callers
		SessionTTLMin: envInt("SESSION_TTL_MIN", 30),
	}
	switch cfg.DBDriver {
	case "sqlite3":
		cfg.DBPath = must("DB_PATH")
	default:
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
