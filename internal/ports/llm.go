package ports

import (
	"context"

	"github.com/randomtoy/gifmood-go/internal/domain"
)

// StrategyGenerator derives keyword search strategies from free text via an LLM.
type StrategyGenerator interface {
	// DeriveStrategy produces a single strategy with no perspective tag.
	DeriveStrategy(ctx context.Context, text string) (domain.Strategy, error)

	// DeriveStrategies produces exactly one strategy per perspective, each
	// yielding a distinguishable search query.
	DeriveStrategies(ctx context.Context, text string) ([]domain.Strategy, error)
}

// RankCandidate is a candidate reduced to what the ranking prompt needs.
type RankCandidate struct {
	Index   int
	Title   string
	AltText string
}

// RankInput holds everything the LLM needs to pick the best candidate.
type RankInput struct {
	Text       string
	Guidance   string
	Candidates []RankCandidate
}

// GifRanker selects the best candidate for a strategy via an LLM.
// It is never invoked with an empty candidate list.
type GifRanker interface {
	SelectBest(ctx context.Context, in RankInput) (domain.Selection, error)
}
