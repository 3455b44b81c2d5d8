package orchestrator

import (
	"testing"
	"time"
)

func newTestPacer(interval time.Duration) (*Pacer, *time.Time, *[]time.Duration) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var sleeps []time.Duration

	p := NewPacer(interval)
	p.now = func() time.Time { return now }
	p.sleep = func(d time.Duration) {
		sleeps = append(sleeps, d)
		now = now.Add(d)
	}
	return p, &now, &sleeps
}

func TestPacerFirstCallNotDelayed(t *testing.T) {
	p, _, sleeps := newTestPacer(6 * time.Second)
	p.Wait()
	if len(*sleeps) != 0 {
		t.Errorf("first call slept %v", *sleeps)
	}
}

func TestPacerChargesFromProcessingStart(t *testing.T) {
	p, now, sleeps := newTestPacer(6 * time.Second)

	p.Wait()
	start := p.Now()
	*now = now.Add(2 * time.Second) // processing took 2s
	p.Charge(start, true)

	p.Wait()
	if len(*sleeps) != 1 || (*sleeps)[0] != 4*time.Second {
		t.Errorf("sleeps = %v, want [4s]", *sleeps)
	}
}

func TestPacerSkipsWaitWhenProcessingExceededInterval(t *testing.T) {
	p, now, sleeps := newTestPacer(6 * time.Second)

	start := p.Now()
	*now = now.Add(9 * time.Second)
	p.Charge(start, true)

	p.Wait()
	if len(*sleeps) != 0 {
		t.Errorf("sleeps = %v, want none", *sleeps)
	}
}

func TestPacerFailedCallNotCharged(t *testing.T) {
	p, _, sleeps := newTestPacer(6 * time.Second)

	start := p.Now()
	p.Charge(start, false)

	p.Wait()
	if len(*sleeps) != 0 {
		t.Errorf("sleeps = %v, failed calls must not throttle the next file", *sleeps)
	}
}

func TestPacerZeroIntervalNeverSleeps(t *testing.T) {
	p, _, sleeps := newTestPacer(0)

	for i := 0; i < 3; i++ {
		p.Wait()
		p.Charge(p.Now(), true)
	}
	if len(*sleeps) != 0 {
		t.Errorf("sleeps = %v", *sleeps)
	}
}
