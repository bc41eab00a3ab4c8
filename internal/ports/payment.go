package ports

import (
	"context"
	"encoding/json"
)

// SettleRequest describes the guarded resource and the inbound payment proof.
// PaymentHeader is the raw X-PAYMENT header value; empty means absent.
type SettleRequest struct {
	Resource      string
	Method        string
	PaymentHeader string
}

// PaymentRequiredResponse is a 402-style response to relay to the caller
// verbatim: exact status, body, and headers as provided by the protocol.
type PaymentRequiredResponse struct {
	Status  int
	Body    json.RawMessage
	Headers map[string]string
}

// SettleResult is the outcome of a settlement attempt. Exactly one of
// Settled or Required is meaningful: when Settled is true, ResponseHeader
// carries the X-PAYMENT-RESPONSE value to attach to the success response;
// otherwise Required holds the response to forward.
type SettleResult struct {
	Settled        bool
	ResponseHeader string
	Required       *PaymentRequiredResponse
}

// PaymentSettler validates and settles a per-request payment before the
// guarded operation proceeds. A non-nil error means the facilitator itself
// failed; a missing or invalid payment is not an error, it is a Required
// result.
type PaymentSettler interface {
	Settle(ctx context.Context, req SettleRequest) (SettleResult, error)
}
