package domain

import "errors"

var (
	ErrTextRequired        = errors.New("text input is required")
	ErrSearchNotConfigured = errors.New("gif search api key not configured")
	ErrSearchFailed        = errors.New("gif search request failed")
	ErrNoGifFound          = errors.New("no gif found")
	ErrNoGifsFound         = errors.New("no gifs found")
	ErrUpstreamLLM         = errors.New("upstream LLM failure")
	ErrInvalidLLMJSON      = errors.New("LLM returned invalid JSON")
	ErrPaymentFacilitator  = errors.New("payment facilitator failure")
)
