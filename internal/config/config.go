// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/museum-desk/internal/database"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env           string        // application environment (dev, test, prod)
	Port          string        // HTTP port to listen on
	DBUser        string        // database username
	DBPass        string        // database password (optional)
	DBHost        string        // database host address
	DBPort        string        // database port number
	DBName        string        // database name
	SessionSecret string        // HMAC secret signing the session cookie
	SessionTTL    time.Duration // lifetime of a login session
	CookieSecure  bool          // mark the session cookie Secure
	BcryptCost    int           // bcrypt cost for password hashing
	AMQPURL       string        // broker URL for domain events; empty disables publishing
	AutoMigrate   bool          // apply embedded migrations at server start
}

// Load reads configuration values from the environment and returns a
// Config. A .env file in the working directory is loaded first when
// present; real environment variables win over it. Missing required
// variables terminate the program.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Env:           envStr("APP_ENV", "dev"),
		Port:          envStr("APP_PORT", "8080"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        must("DB_HOST"),
		DBPort:        envStr("DB_PORT", "3306"),
		DBName:        must("DB_NAME"),
		SessionSecret: must("SESSION_SECRET"),
		SessionTTL:    envDur("SESSION_TTL", 8*time.Hour),
		CookieSecure:  envBool("COOKIE_SECURE", false),
		BcryptCost:    mustInt("BCRYPT_COST"),
		AMQPURL:       amqpURL(),
		AutoMigrate:   envBool("AUTO_MIGRATE", false),
	}
}

// LoadDatabase reads only the DB_* variables. cmd/migrate uses it so
// schema changes do not require the session settings.
func LoadDatabase() database.Settings {
	_ = godotenv.Load()
	return database.Settings{
		User: must("DB_USER"),
		Pass: os.Getenv("DB_PASS"),
		Host: must("DB_HOST"),
		Port: envStr("DB_PORT", "3306"),
		Name: must("DB_NAME"),
	}
}

// WorkerConfig configures cmd/worker.
type WorkerConfig struct {
	Env           string
	AMQPURL       string
	EventsLogPath string
}

// LoadWorker reads the broker URL (required) and the events log path.
func LoadWorker() WorkerConfig {
	_ = godotenv.Load()
	url := amqpURL()
	if url == "" {
		log.Fatal("missing required env var: RABBITMQ_URL")
	}
	return WorkerConfig{
		Env:           envStr("APP_ENV", "dev"),
		AMQPURL:       url,
		EventsLogPath: envStr("EVENTS_LOG_PATH", "logs/events.log"),
	}
}

// IsProd reports whether the service runs with production settings.
func (c Config) IsProd() bool { return c.Env == "prod" || c.Env == "production" }

// Database returns the connection settings for the MySQL pool.
func (c Config) Database() database.Settings {
	return database.Settings{User: c.DBUser, Pass: c.DBPass, Host: c.DBHost, Port: c.DBPort, Name: c.DBName}
}

func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
