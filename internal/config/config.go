package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable. Required values are enforced at startup so that a
// misconfigured server never starts serving traffic; optional values fall back
// to development defaults.
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	JWTSecret   string // secret used to sign JWTs
	TokenTTLMin int    // access token time-to-live in minutes
	BcryptCost  int    // bcrypt cost for password hashing

	AWSAccessKeyID     string // credentials for the S3 upload path
	AWSSecretAccessKey string
	S3Region           string // region the bucket lives in
	S3Bucket           string // bucket receiving uploaded files
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values cause
// the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:         getenv("APP_ENV", "dev"),
		Port:        getenv("APP_PORT", "3000"),
		DBUser:      must("PGUSER"),
		DBPass:      os.Getenv("PGPASSWORD"), // empty allowed
		DBHost:      must("PGHOST"),
		DBPort:      getenv("PGPORT", "5432"),
		DBName:      must("PGDATABASE"),
		JWTSecret:   must("JWT_SECRET"),
		TokenTTLMin: getenvInt("TOKEN_TTL_MIN", 60),
		BcryptCost:  getenvInt("BCRYPT_COST", 10),

		AWSAccessKeyID:     must("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: must("AWS_SECRET_ACCESS_KEY"),
		S3Region:           must("S3_BUCKET_REGION"),
		S3Bucket:           must("BUCKET_NAME"),
	}
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

// getenv returns the value of an optional variable or a default.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getenvInt is like getenv but converts the value into an integer. Invalid
// values are treated the same as missing ones.
func getenvInt(key string, def int) int {
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
