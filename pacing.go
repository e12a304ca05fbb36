package ibapi

import (
	"context"

	"golang.org/x/time/rate"
)

// DefaultPacingRate and DefaultPacingBurst match spec.md §4.J's default
// token bucket: 50 messages/second, bursts up to 100.
const (
	DefaultPacingRate  = 50
	DefaultPacingBurst = 100
)

// pacer gates outbound frames through a token bucket ahead of the
// writer, grounded on adred-codev-ws_poc's rate-limiter usage of
// golang.org/x/time/rate (DESIGN.md "Pacing"; SPEC_FULL.md DOMAIN STACK).
// Cancel messages bypass the gate entirely so that subscription cleanup
// always makes progress even when the bucket is exhausted, per spec.md
// §4.J.
type pacer struct {
	limiter *rate.Limiter
}

func newPacer(ratePerSec float64, burst int) *pacer {
	if ratePerSec <= 0 {
		ratePerSec = DefaultPacingRate
	}
	if burst <= 0 {
		burst = DefaultPacingBurst
	}
	return &pacer{limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst)}
}

// wait blocks until a token is available or ctx is cancelled.
func (p *pacer) wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
