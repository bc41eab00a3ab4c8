package http

import "github.com/randomtoy/gifmood-go/internal/domain"

// GifResultResponse is the JSON shape of one curated GIF.
type GifResultResponse struct {
	URL         string             `json:"url"`
	Keywords    []string           `json:"keywords"`
	Topic       string             `json:"topic,omitempty"`
	Reasoning   string             `json:"reasoning"`
	Title       string             `json:"title"`
	Perspective domain.Perspective `json:"perspective,omitempty"`
}

// MultiGifResponse wraps the multi-perspective result set.
type MultiGifResponse struct {
	Gifs []GifResultResponse `json:"gifs"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toGifResponse(r domain.GifResult) GifResultResponse {
	return GifResultResponse{
		URL:         r.URL,
		Keywords:    r.Keywords,
		Topic:       r.Topic,
		Reasoning:   r.Reasoning,
		Title:       r.Title,
		Perspective: r.Perspective,
	}
}

func toMultiResponse(results []domain.GifResult) MultiGifResponse {
	gifs := make([]GifResultResponse, len(results))
	for i, r := range results {
		gifs[i] = toGifResponse(r)
	}
	return MultiGifResponse{Gifs: gifs}
}
