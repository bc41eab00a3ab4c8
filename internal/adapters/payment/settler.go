package payment

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/randomtoy/gifmood-go/internal/ports"
)

// usdcAssets maps supported networks to their USDC contract addresses.
var usdcAssets = map[string]string{
	"base":         "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
	"base-sepolia": "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
}

// Settler implements ports.PaymentSettler against a hosted facilitator.
// It builds the exact-scheme payment requirements for the guarded resource,
// verifies the inbound X-PAYMENT proof, and settles on success. A missing or
// invalid proof yields a 402 response for the caller to relay verbatim.
type Settler struct {
	facilitator *FacilitatorClient
	payTo       string
	network     string
	priceAtomic string
}

func NewSettler(facilitator *FacilitatorClient, payTo, network, priceAtomic string) *Settler {
	return &Settler{
		facilitator: facilitator,
		payTo:       payTo,
		network:     network,
		priceAtomic: priceAtomic,
	}
}

func (s *Settler) Settle(ctx context.Context, req ports.SettleRequest) (ports.SettleResult, error) {
	requirements := s.requirements(req.Resource)

	if req.PaymentHeader == "" {
		return required(requirements, "X-PAYMENT header is required"), nil
	}

	payload, err := decodePaymentHeader(req.PaymentHeader)
	if err != nil {
		return required(requirements, "Invalid or malformed payment header"), nil
	}

	verify, err := s.facilitator.Verify(ctx, payload, requirements)
	if err != nil {
		return ports.SettleResult{}, fmt.Errorf("verify payment: %w", err)
	}
	if !verify.IsValid {
		reason := verify.InvalidReason
		if reason == "" {
			reason = "Payment verification failed"
		}
		return required(requirements, reason), nil
	}

	settle, err := s.facilitator.Settle(ctx, payload, requirements)
	if err != nil {
		return ports.SettleResult{}, fmt.Errorf("settle payment: %w", err)
	}
	if !settle.Success {
		reason := settle.ErrorReason
		if reason == "" {
			reason = "Payment settlement failed"
		}
		return required(requirements, reason), nil
	}

	receipt, err := json.Marshal(settle)
	if err != nil {
		return ports.SettleResult{}, fmt.Errorf("marshal settle receipt: %w", err)
	}

	return ports.SettleResult{
		Settled:        true,
		ResponseHeader: base64.StdEncoding.EncodeToString(receipt),
	}, nil
}

func (s *Settler) requirements(resource string) Requirements {
	return Requirements{
		Scheme:            "exact",
		Network:           s.network,
		MaxAmountRequired: s.priceAtomic,
		Resource:          resource,
		Description:       "AI-curated reaction GIF generation",
		MimeType:          "application/json",
		PayTo:             s.payTo,
		MaxTimeoutSeconds: 60,
		Asset:             usdcAssets[s.network],
		Extra: map[string]string{
			"name":    "USDC",
			"version": "2",
		},
	}
}

// decodePaymentHeader unpacks the base64-encoded JSON payment payload from
// the X-PAYMENT header.
func decodePaymentHeader(header string) (json.RawMessage, error) {
	raw, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("payment payload is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

// required builds the 402 response to relay verbatim: status, JSON body with
// the acceptable payment requirements, and headers.
func required(requirements Requirements, reason string) ports.SettleResult {
	body, _ := json.Marshal(map[string]any{
		"x402Version": x402Version,
		"error":       reason,
		"accepts":     []Requirements{requirements},
	})

	return ports.SettleResult{
		Required: &ports.PaymentRequiredResponse{
			Status: http.StatusPaymentRequired,
			Body:   body,
			Headers: map[string]string{
				"Content-Type": "application/json",
			},
		},
	}
}
