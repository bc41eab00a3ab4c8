package giphy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/randomtoy/gifmood-go/internal/domain"
)

const defaultBaseURL = "https://api.giphy.com/v1/gifs"

// Client implements ports.GifSearchProvider via the Giphy v1 search API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

func NewClient(httpClient *http.Client, apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

type searchResponse struct {
	Data []gifRecord `json:"data"`
}

type gifRecord struct {
	Title   string `json:"title"`
	AltText string `json:"alt_text"`
	Images  struct {
		Original struct {
			URL string `json:"url"`
		} `json:"original"`
	} `json:"images"`
}

// Search queries Giphy for up to limit GIFs matching query. A client built
// without an API key reports domain.ErrSearchNotConfigured before touching
// the network.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	if c.apiKey == "" {
		return nil, domain.ErrSearchNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildSearchURL(query, limit), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrSearchFailed, resp.StatusCode, string(body))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", domain.ErrSearchFailed, err)
	}

	candidates := make([]domain.Candidate, 0, len(sr.Data))
	for _, rec := range sr.Data {
		if rec.Images.Original.URL == "" {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Title:    rec.Title,
			AltText:  rec.AltText,
			MediaURL: rec.Images.Original.URL,
		})
	}

	return candidates, nil
}

func (c *Client) buildSearchURL(query string, limit int) string {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("rating", "pg-13")
	params.Set("lang", "en")

	return fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())
}
