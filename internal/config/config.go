package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of the HTTP server and the
// maintenance commands.  DatabaseURL has no fallback: the service refuses to
// start without an explicitly supplied connection string.
type Config struct {
	Env          string   // application environment (dev, test, prod)
	Port         string   // HTTP port to listen on
	DBDriver     string   // "postgres" or "mysql"
	DatabaseURL  string   // driver specific connection string
	LogLevel     string   // zerolog level name
	AllowOrigins []string // CORS origins
}

// ErrMissingEnv is returned by Load when a required variable is unset or empty.
var ErrMissingEnv = errors.New("missing required env var")

// LoadDotEnv loads variables from the given files (default ".env") into the
// process environment.  Variables already set are left untouched and a
// missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// Load reads configuration values from environment variables.  Required
// variables are enforced by must(); the first missing one is reported.
func Load() (Config, error) {
	url, err := must("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}
	driver := strings.ToLower(getenv("DB_DRIVER", "postgres"))
	switch driver {
	case "postgres", "mysql":
	default:
		return Config{}, fmt.Errorf("invalid DB_DRIVER %q: want postgres or mysql", driver)
	}
	port := getenv("PORT", "3001")
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %q", port)
	}
	return Config{
		Env:          getenv("APP_ENV", "dev"),
		Port:         port,
		DBDriver:     driver,
		DatabaseURL:  url,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		AllowOrigins: splitList(getenv("CORS_ALLOW_ORIGINS", "*")),
	}, nil
}

// must retrieves the value of a required environment variable.
func must(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, key)
	}
	return v, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
