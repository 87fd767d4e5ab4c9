package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"personahub/internal/app"
	"personahub/internal/config"
	"personahub/internal/ratelimit"
	"personahub/internal/server"
	"personahub/internal/util"
	"personahub/pkg/ai"
	"personahub/pkg/auth"
	"personahub/pkg/notify"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := util.InitLogger(cfg.LogLevel)

	jwtTTL, err := config.ParseJWTTTL(cfg.JWTTTL)
	if err != nil {
		util.Fatal("failed to parse jwt ttl", "err", err)
	}
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, auth.TokenOptions{
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      jwtTTL,
	})
	if err != nil {
		util.Fatal("failed to init token manager", "err", err)
	}

	var notifier notify.Publisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err := notify.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			util.Fatal("failed to connect notification broker", "err", err)
		}
		defer amqpPublisher.Close()
		notifier = amqpPublisher
	}

	appCore, err := app.New(app.Config{
		DatabaseURL:  cfg.DatabaseURL,
		Completer:    ai.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey),
		Notifier:     notifier,
		DefaultModel: cfg.DefaultModel,
	})
	if err != nil {
		util.Fatal("failed to init app", "err", err)
	}

	signupLimiter := mustLimiter(cfg, cfg.SignupRateLimitPerMinute, 5)
	loginLimiter := mustLimiter(cfg, cfg.LoginRateLimitPerMinute, 10)
	generateLimiter := mustLimiter(cfg, cfg.GenerateRateLimitPerMinute, 20)

	httpServer := server.New(server.Config{
		App:             appCore,
		Tokens:          tokens,
		SignupLimiter:   signupLimiter,
		LoginLimiter:    loginLimiter,
		GenerateLimiter: generateLimiter,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}

func mustLimiter(cfg config.FileConfig, perMinute, fallback int) *ratelimit.FixedWindowLimiter {
	if perMinute <= 0 {
		perMinute = fallback
	}
	limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "", perMinute, time.Minute)
	if err != nil {
		util.Fatal("failed to init rate limiter", "err", err)
	}
	return limiter
}
