package main

import (
	"io"
	"log"
	"os"
	"time"

	"craftbazaar/internal/config"
	"craftbazaar/internal/http/handlers"
	"craftbazaar/internal/repos"
	"craftbazaar/internal/services"
)

func main() {
	cfg := config.Load()

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	authSvc := services.NewAuthService(
		repos.NewUserRepo(db),
		cfg.JWTSecret,
		time.Duration(cfg.TokenTTLHours)*time.Hour,
	)

	app := handlers.NewApp(handlers.NewDeps(db, authSvc))

	log.Printf("listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
