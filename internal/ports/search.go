package ports

import (
	"context"

	"github.com/randomtoy/gifmood-go/internal/domain"
)

// GifSearchProvider queries an external GIF catalog.
// A provider with no API key configured returns domain.ErrSearchNotConfigured
// without attempting any network call.
type GifSearchProvider interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Candidate, error)
}
