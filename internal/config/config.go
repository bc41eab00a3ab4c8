package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ResultMode selects between the single-GIF and three-perspective flows.
type ResultMode string

const (
	ModeSingle ResultMode = "single"
	ModeMulti  ResultMode = "multi"
)

type Config struct {
	HTTPAddr string
	LogLevel slog.Level

	OpenAIAPIKey  string
	OpenAIBaseURL string
	StrategyModel string
	RankModel     string
	LLMTimeout    time.Duration

	// GiphyAPIKey may legitimately be empty at startup; the search adapter
	// reports it per request so the endpoint can answer 500 without a
	// network call.
	GiphyAPIKey string

	FacilitatorURL string
	PayToAddress   string
	PaymentNetwork string
	PriceAtomic    string

	ResultMode ResultMode
}

func Load() (Config, error) {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	c := Config{
		HTTPAddr:       envOr("HTTP_ADDR", ":8080"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		StrategyModel:  envOr("STRATEGY_MODEL", "gpt-4o-mini"),
		RankModel:      envOr("RANK_MODEL", "gpt-4o-mini"),
		LLMTimeout:     30 * time.Second,
		GiphyAPIKey:    os.Getenv("GIPHY_API_KEY"),
		FacilitatorURL: envOr("FACILITATOR_URL", "https://x402.org/facilitator"),
		PayToAddress:   os.Getenv("PAY_TO_ADDRESS"),
		PaymentNetwork: envOr("PAYMENT_NETWORK", "base-sepolia"),
		PriceAtomic:    envOr("PRICE_ATOMIC", "1000"),
	}

	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LLM_TIMEOUT %q: %w", v, err)
		}
		c.LLMTimeout = d
	}

	level, err := parseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	mode, err := parseResultMode(envOr("RESULT_MODE", "multi"))
	if err != nil {
		return Config{}, err
	}
	c.ResultMode = mode

	if c.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.PayToAddress == "" {
		return Config{}, fmt.Errorf("PAY_TO_ADDRESS is required")
	}

	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseResultMode(s string) (ResultMode, error) {
	switch strings.ToLower(s) {
	case "single":
		return ModeSingle, nil
	case "multi":
		return ModeMulti, nil
	default:
		return "", fmt.Errorf("invalid RESULT_MODE %q", s)
	}
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
