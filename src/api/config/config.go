package config

import (
	"log"
	"os"
	"strings"
)

type Config struct {
	MySQLDSN      string
	RedisURL      string
	JWTSecret     string
	GeminiKey     string
	GeminiModels  []string // ordered variant list, first is preferred
	Port          string
	UploadDir     string
	PublicBaseURL string
	AdminPhone    string
	AdminPassword string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func Load() Config {
	// The Gemini key is validated here, before any request is made, so a
	// missing key surfaces as a configuration error instead of a network one.
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		log.Fatal("GEMINI_API_KEY is not set; create a key in Google AI Studio and export GEMINI_API_KEY before starting the service")
	}

	var models []string
	if raw := os.Getenv("GEMINI_MODELS"); raw != "" {
		for _, m := range strings.Split(raw, ",") {
			if m = strings.TrimSpace(m); m != "" {
				models = append(models, m)
			}
		}
	}

	return Config{
		MySQLDSN:      getenv("MYSQL_DSN", "janmitra:janmitra@tcp(127.0.0.1:3306)/janmitra?parseTime=true"),
		RedisURL:      getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		JWTSecret:     getenv("JWT_SECRET", ""),
		GeminiKey:     key,
		GeminiModels:  models,
		Port:          getenv("PORT", "8080"),
		UploadDir:     getenv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:8080"),
		AdminPhone:    os.Getenv("ADMIN_PHONE"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}
