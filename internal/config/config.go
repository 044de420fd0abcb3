package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Required variables are enforced by must()
// and missing values halt startup with a fatal log message rather than
// letting the service limp along with an unusable store.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	StoreBackend  string // seat store backend: "mysql", "memory" or "off"
	JWTSecret     string // secret verifying the scheduled-reset bearer token
	AdminPassword string // shared admin secret; hashed at startup, compared server-side
	TotalSeats    int    // seat capacity N per gender partition
	ResetHour     int    // local hour of the daily reset (0-23)
	ResetTimezone string // IANA zone of the daily reset boundary
	SchedulerOn   bool   // run the in-process daily reset loop
}

// Load reads configuration from the environment.  The seat layout of the
// original classroom is 9 rows by 4 columns, hence the default of 36
// seats; the daily reset defaults to noon Korean time.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBUser:        os.Getenv("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBName:        os.Getenv("DB_NAME"),
		StoreBackend:  getenv("STORE_BACKEND", "mysql"),
		JWTSecret:     must("JWT_SECRET"),
		AdminPassword: must("ADMIN_PASSWORD"),
		TotalSeats:    intenv("TOTAL_SEATS", 36),
		ResetHour:     intenv("RESET_HOUR", 12),
		ResetTimezone: getenv("RESET_TIMEZONE", "Asia/Seoul"),
		SchedulerOn:   getenv("RESET_SCHEDULER_ENABLED", "true") == "true",
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the variable's value or the given default.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// intenv returns the variable parsed as int or the given default.  An
// unparsable value is fatal: it means the deployment is misconfigured.
func intenv(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
