package pipeline

import (
	"context"
	"sync"

	"github.com/truxtai/webextract"
	"golang.org/x/time/rate"
)

var _ webextract.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter throttles page fetches with one token bucket per domain and
// a burst of 1, so a multi-page run hits each site at most rps times per
// second. Runs against different sites never throttle each other.
type DomainLimiter struct {
	rps float64

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewDomainLimiter creates a limiter allowing rps requests per second to
// each domain.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		rps:      rps,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until the domain's bucket allows another request or the
// context is canceled.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.limiterFor(domain).Wait(ctx)
}

func (d *DomainLimiter) limiterFor(domain string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.limiters[domain]
	if !ok {
		l = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = l
	}
	return l
}
