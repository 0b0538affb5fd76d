package config // package config loads application configuration from environment variables

import (
	"os"      // os provides access to environment variables
	"strings" // strings splits list-valued variables
	"time"    // time converts TTL values

	"github.com/joho/godotenv"   // godotenv loads a local .env file when present
	"github.com/sirupsen/logrus" // logrus reports configuration errors and halts execution
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Database settings default to the values a local
// development MySQL uses; JWT_SECRET has no default and must be set.
type Config struct {
	Env         string        // application environment (e.g. "dev", "prod")
	Port        string        // HTTP port to listen on
	DBUser      string        // database username
	DBPass      string        // database password (optional)
	DBHost      string        // database host address
	DBPort      string        // database port number
	DBName      string        // database name
	JWTSecret   string        // secret used to sign JWTs
	TokenTTL    time.Duration // lifetime of issued access tokens
	BcryptCost  int           // bcrypt cost for password hashing
	LogLevel    string        // logrus level name
	CORSOrigins []string      // allowed CORS origins, "*" for any
	BodyLimit   string        // maximum request body size, echo notation (e.g. "1M")
}

// IsProd reports whether the service runs in production mode.
func (c Config) IsProd() bool { return c.Env == "prod" || c.Env == "production" }

// Load reads a .env file if one exists, then builds Config from the
// environment.  A missing JWT_SECRET is fatal.
func Load() Config {
	_ = godotenv.Load() // a missing .env is normal outside development
	return Config{
		Env:         envStr("APP_ENV", "dev"),
		Port:        envStr("APP_PORT", "3000"),
		DBUser:      envStr("DB_USER", "root"),
		DBPass:      os.Getenv("DB_PASSWORD"),
		DBHost:      envStr("DB_HOST", "localhost"),
		DBPort:      envStr("DB_PORT", "3306"),
		DBName:      envStr("DB_NAME", "donor_darah_db"),
		JWTSecret:   must("JWT_SECRET"),
		TokenTTL:    time.Duration(envInt("TOKEN_TTL_HOURS", 24*7)) * time.Hour,
		BcryptCost:  envInt("BCRYPT_COST", 10),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		CORSOrigins: splitList(envStr("CORS_ORIGINS", "*")),
		BodyLimit:   envStr("BODY_LIMIT", "1M"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logrus.Fatalf("missing required env var: %s", key)
	}
	return v
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
