package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBDSN         string
	JWTSecret     string
	TokenTTLHours int
	LogFile       string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "craftbazaar.db" // sqlite file in project root
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-only-insecure-secret"
		log.Println("[config] JWT_SECRET not set, using insecure dev default")
	}
	ttl := 168 // one week
	if v := os.Getenv("TOKEN_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = n
		}
	}
	logFile := os.Getenv("LOG_FILE")

	cfg := Config{Port: port, DBDSN: dsn, JWTSecret: secret, TokenTTLHours: ttl, LogFile: logFile}
	log.Printf("[config] PORT=%s DB_DSN=%s TOKEN_TTL_HOURS=%d LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.TokenTTLHours, cfg.LogFile)
	return cfg
}
