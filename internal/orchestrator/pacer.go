package orchestrator

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Pacer enforces a minimum wall-clock interval between successive model
// calls. The interval is charged from the start of the previous file's
// processing, so time already spent rendering and extracting counts
// against the wait.
type Pacer struct {
	interval time.Duration
	now      func() time.Time
	sleep    func(time.Duration)
	next     time.Time
}

func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval, now: time.Now, sleep: time.Sleep}
}

// Now exposes the pacer clock so callers charge from the same source.
func (p *Pacer) Now() time.Time { return p.now() }

// Wait blocks until the next model call is allowed.
func (p *Pacer) Wait() {
	if p.next.IsZero() {
		return
	}
	if d := p.next.Sub(p.now()); d > 0 {
		log.Debug().Dur("delay", d).Msg("pacing before next model call")
		p.sleep(d)
	}
}

// Charge records the outcome of processing that began at start. Failed
// calls are not throttled further: their retries already consumed backoff.
func (p *Pacer) Charge(start time.Time, ok bool) {
	if ok {
		p.next = start.Add(p.interval)
	} else {
		p.next = time.Time{}
	}
}
