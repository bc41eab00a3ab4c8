package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/randomtoy/gifmood-go/internal/domain"
	"github.com/randomtoy/gifmood-go/internal/ports"
)

// Client implements ports.StrategyGenerator and ports.GifRanker via the
// OpenAI chat completions API.
type Client struct {
	api           openai.Client
	strategyModel string
	rankModel     string
}

func NewClient(apiKey, baseURL, strategyModel, rankModel string, timeout time.Duration) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}

	return &Client{
		api:           openai.NewClient(opts...),
		strategyModel: strategyModel,
		rankModel:     rankModel,
	}
}

const singleStrategyPrompt = `You are a reaction GIF curator. Given a situation described by the user,
derive the best GIF search strategy.

Rules:
- Choose 1 to 3 short keywords that would find a fitting reaction GIF.
- Include a topic only when it would plausibly narrow or improve the search.
- Keep the reasoning to one short sentence.

Respond with ONLY a JSON object (no markdown, no code fences, no extra text)
matching this exact schema:
{
  "keywords": ["<keyword>", ...],
  "topic": "<topic or empty string>",
  "reasoning": "<one sentence>"
}`

const multiStrategyPrompt = `You are a reaction GIF curator. Given a situation described by the user,
derive exactly three GIF search strategies, one per perspective:
- "emotional": the raw feeling behind the situation
- "literal": what is actually happening in the situation
- "sarcastic": an ironic or deadpan take on the situation

Rules:
- Each strategy has 1 to 3 short keywords.
- Include a topic only when it would plausibly narrow or improve the search.
- Each strategy must yield a distinguishable search query.
- Keep each reasoning to one short sentence.

Respond with ONLY a JSON object (no markdown, no code fences, no extra text)
matching this exact schema:
{
  "strategies": [
    {"perspective": "emotional", "keywords": [...], "topic": "...", "reasoning": "..."},
    {"perspective": "literal", "keywords": [...], "topic": "...", "reasoning": "..."},
    {"perspective": "sarcastic", "keywords": [...], "topic": "...", "reasoning": "..."}
  ]
}`

const rankPromptTemplate = `You are picking the single best reaction GIF for a situation.

Guidance: %s

Respond with ONLY a JSON object (no markdown, no code fences, no extra text)
matching this exact schema:
{
  "selected_index": <integer index of the best candidate>,
  "reasoning": "<one sentence>"
}`

// strategyPayload mirrors the strategy JSON the model is instructed to emit.
type strategyPayload struct {
	Perspective string   `json:"perspective"`
	Keywords    []string `json:"keywords"`
	Topic       string   `json:"topic"`
	Reasoning   string   `json:"reasoning"`
}

type multiStrategyPayload struct {
	Strategies []strategyPayload `json:"strategies"`
}

func (c *Client) DeriveStrategy(ctx context.Context, text string) (domain.Strategy, error) {
	content, err := c.complete(ctx, c.strategyModel, singleStrategyPrompt, text)
	if err != nil {
		return domain.Strategy{}, err
	}

	var payload strategyPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return domain.Strategy{}, fmt.Errorf("%w: %w", domain.ErrInvalidLLMJSON, err)
	}

	strategy, err := toStrategy(payload, "")
	if err != nil {
		return domain.Strategy{}, err
	}
	return strategy, nil
}

func (c *Client) DeriveStrategies(ctx context.Context, text string) ([]domain.Strategy, error) {
	content, err := c.complete(ctx, c.strategyModel, multiStrategyPrompt, text)
	if err != nil {
		return nil, err
	}

	var payload multiStrategyPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidLLMJSON, err)
	}

	if len(payload.Strategies) != len(domain.Perspectives) {
		return nil, fmt.Errorf("%w: expected %d strategies, got %d",
			domain.ErrInvalidLLMJSON, len(domain.Perspectives), len(payload.Strategies))
	}

	// Reorder by the fixed perspective enumeration; every perspective must
	// appear exactly once.
	byPerspective := make(map[domain.Perspective]strategyPayload, len(payload.Strategies))
	for _, p := range payload.Strategies {
		perspective := domain.Perspective(p.Perspective)
		if !perspective.Valid() {
			return nil, fmt.Errorf("%w: unknown perspective %q", domain.ErrInvalidLLMJSON, p.Perspective)
		}
		if _, dup := byPerspective[perspective]; dup {
			return nil, fmt.Errorf("%w: duplicate perspective %q", domain.ErrInvalidLLMJSON, p.Perspective)
		}
		byPerspective[perspective] = p
	}

	strategies := make([]domain.Strategy, 0, len(domain.Perspectives))
	for _, perspective := range domain.Perspectives {
		strategy, err := toStrategy(byPerspective[perspective], perspective)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, strategy)
	}

	return strategies, nil
}

func (c *Client) SelectBest(ctx context.Context, in ports.RankInput) (domain.Selection, error) {
	system := fmt.Sprintf(rankPromptTemplate, in.Guidance)
	content, err := c.complete(ctx, c.rankModel, system, buildRankUserPrompt(in))
	if err != nil {
		return domain.Selection{}, err
	}

	var selection domain.Selection
	if err := json.Unmarshal([]byte(content), &selection); err != nil {
		return domain.Selection{}, fmt.Errorf("%w: %w", domain.ErrInvalidLLMJSON, err)
	}

	return selection, nil
}

func (c *Client) complete(ctx context.Context, model, system, user string) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", domain.ErrUpstreamLLM)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func toStrategy(p strategyPayload, perspective domain.Perspective) (domain.Strategy, error) {
	if len(p.Keywords) == 0 {
		return domain.Strategy{}, fmt.Errorf("%w: strategy has no keywords", domain.ErrInvalidLLMJSON)
	}
	keywords := p.Keywords
	if len(keywords) > domain.MaxKeywords {
		keywords = keywords[:domain.MaxKeywords]
	}

	return domain.Strategy{
		Keywords:    keywords,
		Topic:       p.Topic,
		Perspective: perspective,
		Reasoning:   p.Reasoning,
	}, nil
}

func buildRankUserPrompt(in ports.RankInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Situation: %q\n\nCandidates:\n", in.Text)

	for _, c := range in.Candidates {
		fmt.Fprintf(&b, "  %d. %s", c.Index, c.Title)
		if c.AltText != "" {
			fmt.Fprintf(&b, " (%s)", c.AltText)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nPick the best candidate as a single JSON object.")
	return b.String()
}
