package rate

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Limiter gates outbound API calls so we respect Gmail rate limits.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Pacer spaces calls a fixed interval apart. The zero value imposes no
// delay.
type Pacer struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

// NewPacer returns a limiter that allows rps calls per second.
func NewPacer(rps int) *Pacer {
	if rps <= 0 {
		rps = 1
	}
	return &Pacer{interval: time.Second / time.Duration(rps)}
}

// Wait blocks until this call's slot arrives or the context is canceled.
// The first call goes through immediately.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.interval <= 0 {
		return nil
	}

	p.mu.Lock()
	now := time.Now()
	at := p.next
	if at.Before(now) {
		at = now
	}
	p.next = at.Add(p.interval)
	p.mu.Unlock()

	delay := at.Sub(now)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate wait canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

var _ Limiter = (*Pacer)(nil)
