package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/randomtoy/gifmood-go/internal/domain"
)

// x402Version is the protocol version carried in every facilitator exchange.
const x402Version = 1

// Requirements describes one acceptable payment for a guarded resource,
// using the x402 "exact" scheme.
type Requirements struct {
	Scheme            string            `json:"scheme"`
	Network           string            `json:"network"`
	MaxAmountRequired string            `json:"maxAmountRequired"`
	Resource          string            `json:"resource"`
	Description       string            `json:"description"`
	MimeType          string            `json:"mimeType"`
	PayTo             string            `json:"payTo"`
	MaxTimeoutSeconds int               `json:"maxTimeoutSeconds"`
	Asset             string            `json:"asset"`
	Extra             map[string]string `json:"extra,omitempty"`
}

type facilitatorRequest struct {
	X402Version         int             `json:"x402Version"`
	PaymentPayload      json.RawMessage `json:"paymentPayload"`
	PaymentRequirements Requirements    `json:"paymentRequirements"`
}

// VerifyResponse is the facilitator's answer to a verification request.
type VerifyResponse struct {
	IsValid       bool   `json:"isValid"`
	InvalidReason string `json:"invalidReason,omitempty"`
	Payer         string `json:"payer,omitempty"`
}

// SettleResponse is the facilitator's answer to a settlement request.
type SettleResponse struct {
	Success     bool   `json:"success"`
	ErrorReason string `json:"errorReason,omitempty"`
	Transaction string `json:"transaction,omitempty"`
	Network     string `json:"network,omitempty"`
	Payer       string `json:"payer,omitempty"`
}

// FacilitatorClient talks to a hosted x402 payment facilitator.
type FacilitatorClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewFacilitatorClient(httpClient *http.Client, baseURL string) *FacilitatorClient {
	return &FacilitatorClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Verify asks the facilitator whether payload satisfies req.
func (c *FacilitatorClient) Verify(ctx context.Context, payload json.RawMessage, req Requirements) (VerifyResponse, error) {
	var out VerifyResponse
	if err := c.post(ctx, "/verify", payload, req, &out); err != nil {
		return VerifyResponse{}, err
	}
	return out, nil
}

// Settle asks the facilitator to finalize the transfer described by payload.
func (c *FacilitatorClient) Settle(ctx context.Context, payload json.RawMessage, req Requirements) (SettleResponse, error) {
	var out SettleResponse
	if err := c.post(ctx, "/settle", payload, req, &out); err != nil {
		return SettleResponse{}, err
	}
	return out, nil
}

func (c *FacilitatorClient) post(ctx context.Context, path string, payload json.RawMessage, fr Requirements, out any) error {
	body, err := json.Marshal(facilitatorRequest{
		X402Version:         x402Version,
		PaymentPayload:      payload,
		PaymentRequirements: fr,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPaymentFacilitator, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", domain.ErrPaymentFacilitator, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", domain.ErrPaymentFacilitator, resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: decode response: %w", domain.ErrPaymentFacilitator, err)
	}

	return nil
}
