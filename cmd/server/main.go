package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"reqsearch/internal/auth"
	"reqsearch/internal/config"
	"reqsearch/internal/executor"
	"reqsearch/internal/metrics"
	"reqsearch/internal/server"
)

func main() {
	cfg := config.Load()

	if cfg.ITSMUsername == "" || cfg.ITSMPassword == "" {
		log.Println("Warning: ITSM_USERNAME/ITSM_PASSWORD not set; upstream calls will fail unless callers supply a token")
	}

	metrics.Init()

	tokens := auth.NewTokenCache(auth.Config{
		TokenURL:           cfg.OAuthTokenURL(),
		Username:           cfg.ITSMUsername,
		Password:           cfg.ITSMPassword,
		ClientID:           cfg.ITSMClientID,
		ClientSecret:       cfg.ITSMClientSecret,
		Margin:             cfg.TokenRefreshMargin,
		Timeout:            cfg.RequestTimeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})

	exec := executor.New(cfg, tokens)

	srv := server.New(cfg)
	srv.RegisterRoutes(exec)

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s (upstream %s)", cfg.ServerAddr, cfg.ITSMBaseURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
