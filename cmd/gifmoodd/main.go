package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/randomtoy/gifmood-go/internal/adapters/giphy"
	httpadapter "github.com/randomtoy/gifmood-go/internal/adapters/http"
	"github.com/randomtoy/gifmood-go/internal/adapters/llm/openai"
	"github.com/randomtoy/gifmood-go/internal/adapters/payment"
	"github.com/randomtoy/gifmood-go/internal/app"
	"github.com/randomtoy/gifmood-go/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	llmClient := openai.NewClient(
		cfg.OpenAIAPIKey,
		cfg.OpenAIBaseURL,
		cfg.StrategyModel,
		cfg.RankModel,
		cfg.LLMTimeout,
	)

	searchClient := giphy.NewClient(
		&http.Client{Timeout: 15 * time.Second},
		cfg.GiphyAPIKey,
		"",
	)

	facilitator := payment.NewFacilitatorClient(
		&http.Client{Timeout: 30 * time.Second},
		cfg.FacilitatorURL,
	)
	settler := payment.NewSettler(facilitator, cfg.PayToAddress, cfg.PaymentNetwork, cfg.PriceAtomic)

	svc := app.NewGifService(llmClient, llmClient, searchClient, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(logger))

	handler := httpadapter.NewHandler(svc, settler, cfg.ResultMode, logger)
	handler.Register(e)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "mode", cfg.ResultMode)
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
