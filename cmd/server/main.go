package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"eduportal/internal/app"
	"eduportal/internal/config"
	"eduportal/internal/server"
	"eduportal/internal/util"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	sessionTTL, err := config.ParseSessionTTL(cfg.SessionTTL)
	if err != nil {
		log.Fatalf("failed to parse session TTL: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	trustedProxies, err := util.NewTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("failed to parse trusted proxies: %v", err)
	}

	appCore, err := app.New(app.Config{
		MongoURI:         cfg.MongoURI,
		MongoDatabase:    cfg.MongoDatabase,
		RedisAddr:        cfg.RedisAddr,
		RedisPassword:    cfg.RedisPassword,
		SessionStrategy:  cfg.SessionStrategy,
		SessionTTL:       sessionTTL,
		JWTSecret:        cfg.JWTSecret,
		GeminiAPIKey:     cfg.GeminiAPIKey,
		GeminiModel:      cfg.GeminiModel,
		SendgridAPIKey:   cfg.SendgridAPIKey,
		EmailFromName:    cfg.EmailFromName,
		EmailFromAddress: cfg.EmailFromAddress,
		MinioEndpoint:    cfg.MinioEndpoint,
		MinioAccessKey:   cfg.MinioAccessKey,
		MinioSecretKey:   cfg.MinioSecretKey,
		MinioBucket:      cfg.MinioBucket,
		MinioUseSSL:      cfg.MinioUseSSL,
		MaxUploadBytes:   cfg.MaxUploadBytes,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer, err := server.New(server.Config{
		App:                      appCore,
		SessionTTL:               sessionTTL,
		CookieSecure:             cfg.CookieSecure,
		TrustedProxies:           trustedProxies,
		RedisAddr:                cfg.RedisAddr,
		RedisPassword:            cfg.RedisPassword,
		SignupRateLimitPerMinute: cfg.SignupRateLimitPerMinute,
		LoginRateLimitPerMinute:  cfg.LoginRateLimitPerMinute,
		OTPRateLimitPerMinute:    cfg.OTPRateLimitPerMinute,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	handler := util.WithRequestID(
		util.WithRequestLog(
			util.WithSecurityHeaders(
				util.WithCORS(cfg.AllowedOrigins, httpServer.Router()))))

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "err", err)
		}
	}
}
