package core

import (
	"context"

	"github.com/pawnrank/pawnrank/internal/contract"
)

// Context keys for orchestration options
type contextKey string

const (
	ratingSourceKey contextKey = "ratingSource"
	skipSnapshotKey contextKey = "skipSnapshot"
)

// WithRatingSource overrides the rating source used by the orchestration layer.
func WithRatingSource(ctx context.Context, src contract.RatingSource) context.Context {
	return context.WithValue(ctx, ratingSourceKey, src)
}

// ratingSourceFrom returns the overriding rating source from context, if any.
func ratingSourceFrom(ctx context.Context) (contract.RatingSource, bool) {
	src, ok := ctx.Value(ratingSourceKey).(contract.RatingSource)
	return src, ok && src != nil
}

// WithSkipSnapshot disables snapshot recording for lookups made with ctx.
func WithSkipSnapshot(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipSnapshotKey, true)
}

// shouldSkipSnapshot returns whether snapshot recording is disabled in ctx
func shouldSkipSnapshot(ctx context.Context) bool {
	val := ctx.Value(skipSnapshotKey)
	if val == nil {
		return false // default: record
	}
	skip, ok := val.(bool)
	return ok && skip
}
