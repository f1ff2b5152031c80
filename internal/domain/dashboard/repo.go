package dashboard

import (
	"context"
	"time"
)

// Repository computes dashboard aggregates. The revenue window is half-open:
// [from, to).
type Repository interface {
	Stats(ctx context.Context, from, to time.Time) (*Stats, error)
}
