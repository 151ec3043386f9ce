package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodspace/backend/internal/application/verification"
	"github.com/goodspace/backend/internal/config"
	"github.com/goodspace/backend/internal/infrastructure/postgres"
	"github.com/goodspace/backend/internal/infrastructure/smtp"
	"github.com/goodspace/backend/internal/infrastructure/token"
	"github.com/goodspace/backend/internal/pkg/clock"
	transporthttp "github.com/goodspace/backend/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer store.Close()

	if err := store.RunMigrations(ctx); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	if err := store.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("admin bootstrap: %v", err)
	}

	clk := clock.System()
	tokenProvider := token.NewProvider(cfg.TokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, clk)
	mailer := smtp.NewMailer(cfg)

	sweeperSvc := verification.NewService(store, mailer, clk, cfg.VerificationCodeLength, cfg.VerificationTTL)
	verification.StartSweeper(ctx, sweeperSvc, cfg.VerificationSweepEvery)

	deps := &transporthttp.Deps{
		Store:         store,
		Mailer:        mailer,
		TokenProvider: tokenProvider,
	}
	router := transporthttp.NewRouter(cfg, deps, clk)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
