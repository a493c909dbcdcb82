package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the server and tourctl read from the environment.
type Config struct {
	Port           string
	MongoURI       string
	MongoDB        string
	RedisAddr      string
	JwtSecret      []byte
	WhatsAppNumber string
	CorsOrigins    []string

	// per-IP budget for review and booking submissions
	RateLimitPerMinute int
	RateLimitBurst     int
}

// Load reads .env if present, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := getEnv("PORT", ":8080")
	if port[0] != ':' {
		port = ":" + port
	}

	return Config{
		Port:           port,
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "tourdesk"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		JwtSecret:      []byte(getEnv("JWT_SECRET", "your_secret_key")),
		WhatsAppNumber: getEnv("WHATSAPP_NUMBER", "917003562483"),
		CorsOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 3),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Printf("[config] ignoring %s=%q; using %d", key, v, fallback)
		return fallback
	}
	return n
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
