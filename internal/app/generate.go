package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/randomtoy/gifmood-go/internal/domain"
	"github.com/randomtoy/gifmood-go/internal/ports"
)

const (
	// Candidates requested from the search provider per flow.
	singleSearchLimit = 10
	multiSearchLimit  = 5
)

// GifService orchestrates strategy derivation, GIF search, and ranking.
type GifService struct {
	strategies ports.StrategyGenerator
	ranker     ports.GifRanker
	search     ports.GifSearchProvider
	logger     *slog.Logger
}

func NewGifService(sg ports.StrategyGenerator, ranker ports.GifRanker, search ports.GifSearchProvider, logger *slog.Logger) *GifService {
	return &GifService{
		strategies: sg,
		ranker:     ranker,
		search:     search,
		logger:     logger,
	}
}

// Generate runs the single-strategy flow: one strategy, one search, one rank.
func (s *GifService) Generate(ctx context.Context, text string) (domain.GifResult, error) {
	strategy, err := s.strategies.DeriveStrategy(ctx, text)
	if err != nil {
		return domain.GifResult{}, fmt.Errorf("derive strategy: %w", err)
	}

	candidates, err := s.search.Search(ctx, domain.BuildQuery(strategy), singleSearchLimit)
	if err != nil {
		return domain.GifResult{}, fmt.Errorf("search gifs: %w", err)
	}
	if len(candidates) == 0 {
		return domain.GifResult{}, domain.ErrNoGifFound
	}

	selection, err := s.ranker.SelectBest(ctx, rankInput(text, strategy, candidates))
	if err != nil {
		return domain.GifResult{}, fmt.Errorf("rank candidates: %w", err)
	}

	return toResult(strategy, selection, candidates), nil
}

// GenerateMulti runs the three-perspective flow. Searches are issued
// concurrently and joined before ranking; ranking is likewise a concurrent
// fan-out with a join. A strategy whose search or ranking fails is dropped
// without aborting its siblings. A missing search API key is a deployment
// defect, not a per-strategy failure, and aborts the whole request.
func (s *GifService) GenerateMulti(ctx context.Context, text string) ([]domain.GifResult, error) {
	strategies, err := s.strategies.DeriveStrategies(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("derive strategies: %w", err)
	}

	candidates := make([][]domain.Candidate, len(strategies))
	searchErrs := make([]error, len(strategies))

	var wg sync.WaitGroup
	for i, strategy := range strategies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			candidates[i], searchErrs[i] = s.search.Search(ctx, domain.BuildQuery(strategy), multiSearchLimit)
		}()
	}
	wg.Wait()

	for i, err := range searchErrs {
		if errors.Is(err, domain.ErrSearchNotConfigured) {
			return nil, err
		}
		if err != nil {
			s.logger.WarnContext(ctx, "strategy search failed, dropping",
				"perspective", strategies[i].Perspective, "error", err)
		}
	}

	selections := make([]*domain.Selection, len(strategies))
	rankErrs := make([]error, len(strategies))

	for i, strategy := range strategies {
		if searchErrs[i] != nil || len(candidates[i]) == 0 {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			sel, err := s.ranker.SelectBest(ctx, rankInput(text, strategy, candidates[i]))
			if err != nil {
				rankErrs[i] = err
				return
			}
			selections[i] = &sel
		}()
	}
	wg.Wait()

	results := make([]domain.GifResult, 0, len(strategies))
	for i, strategy := range strategies {
		if rankErrs[i] != nil {
			s.logger.WarnContext(ctx, "strategy ranking failed, dropping",
				"perspective", strategy.Perspective, "error", rankErrs[i])
			continue
		}
		if selections[i] == nil {
			continue
		}
		results = append(results, toResult(strategy, *selections[i], candidates[i]))
	}

	if len(results) == 0 {
		return nil, domain.ErrNoGifsFound
	}
	return results, nil
}

func rankInput(text string, strategy domain.Strategy, candidates []domain.Candidate) ports.RankInput {
	in := ports.RankInput{
		Text:       text,
		Guidance:   strategy.Perspective.Guidance(),
		Candidates: make([]ports.RankCandidate, len(candidates)),
	}
	for i, c := range candidates {
		in.Candidates[i] = ports.RankCandidate{
			Index:   i,
			Title:   c.Title,
			AltText: c.AltText,
		}
	}
	return in
}

func toResult(strategy domain.Strategy, selection domain.Selection, candidates []domain.Candidate) domain.GifResult {
	chosen := selection.Choose(candidates)
	return domain.GifResult{
		URL:         chosen.MediaURL,
		Keywords:    strategy.Keywords,
		Topic:       strategy.Topic,
		Reasoning:   selection.Reasoning,
		Title:       chosen.Title,
		Perspective: strategy.Perspective,
	}
}
