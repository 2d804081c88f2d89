package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"studyboard/internal/logger"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	AppPort     string
	StoreDriver string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	CORSOrigins []string // empty: reflect any origin

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limits
	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration
	TaskRateLimit  int // task mutations per user
	TaskRateWindow time.Duration

	LogLevel string
	LogJSON  bool
}

// Load reads the config from env (and .env when present). Missing required
// values terminate the process.
func Load() *Config {
	_ = godotenv.Load()

	cfg, missing := FromEnv()
	if missing != "" {
		logger.Fatal(missing + " is not set")
	}
	return cfg
}

// FromEnv builds the config from the current environment. missing names the
// first required variable that is unset.
func FromEnv() (cfg *Config, missing string) {
	driver := strings.ToLower(os.Getenv("STORE_DRIVER"))
	if driver == "" {
		driver = StoreDriverPostgres
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" && driver == StoreDriverPostgres {
		return nil, "DATABASE_URL"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, "JWT_SECRET"
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	var origins []string
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		AppPort:        port,
		StoreDriver:    driver,
		DatabaseURL:    dbURL,
		JWTSecret:      jwtSecret,
		JWTTTL:         time.Duration(envPositive("JWT_TTL_HOURS", 24)) * time.Hour,
		CORSOrigins:    origins,
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        envInt("REDIS_DB", 0),
		APIRateLimit:   envPositive("API_RATE_LIMIT", 120),
		APIRateWindow:  time.Duration(envPositive("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		AuthRateLimit:  envPositive("AUTH_RATE_LIMIT", 5),
		AuthRateWindow: time.Duration(envPositive("AUTH_RATE_WINDOW_SECONDS", 60)) * time.Second,
		TaskRateLimit:  envPositive("TASK_RATE_LIMIT", 60),
		TaskRateWindow: time.Duration(envPositive("TASK_RATE_WINDOW_SECONDS", 60)) * time.Second,
		LogLevel:       logLevel,
		LogJSON:        os.Getenv("LOG_JSON") == "true",
	}, ""
}

// envInt reads a non-negative integer, falling back to def
func envInt(key string, def int) int {
	return envAtLeast(key, def, 0)
}

// envPositive reads an integer greater than zero, falling back to def. Limits
// and windows of zero would disable rate limiting or expire tokens at once.
func envPositive(key string, def int) int {
	return envAtLeast(key, def, 1)
}

func envAtLeast(key string, def, min int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= min {
			return n
		}
	}
	return def
}
