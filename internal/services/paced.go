package services

import (
	"context"
	"net/url"

	"golang.org/x/time/rate"
)

// PacedQuerier delays each query so the wrapped [Querier] is called at most rps times per second.
//
// Retries inside the wrapped querier are not paced.
type PacedQuerier struct {
	next    Querier
	limiter *rate.Limiter
}

// NewPacedQuerier wraps next with a limiter of rps requests per second and burst 1.
// A non-positive rps disables pacing.
func NewPacedQuerier(next Querier, rps float64) *PacedQuerier {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &PacedQuerier{next: next, limiter: rate.NewLimiter(limit, 1)}
}

// Query waits for the limiter and forwards the call.
func (p *PacedQuerier) Query(ctx context.Context, kind RequestKind, params url.Values) (*QueryResult, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return p.next.Query(ctx, kind, params)
}
