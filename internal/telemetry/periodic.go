package telemetry

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff"
)

// Reporter logs a warning no more than once per backoff interval, widening
// the interval exponentially after each report and collapsing it back to its
// initial value on Reset. Grounded on the reference's AddPeriodic/backoff
// pairing, generalized from "log every N seconds" to "report at most once
// per backoff window" for any subsystem (vptreesync lock contention) instead
// of AIS source reconnects.
type Reporter struct {
	logger  *Logger
	label   string
	backoff backoff.ExponentialBackOff

	mu      sync.Mutex
	nextRun time.Time
}

// NewReporter returns a Reporter that logs through l, labeled label,
// starting at minInterval and widening up to maxInterval between reports.
func NewReporter(l *Logger, label string, minInterval, maxInterval time.Duration) *Reporter {
	b := backoff.ExponentialBackOff{
		InitialInterval:     minInterval,
		MaxInterval:         maxInterval,
		Multiplier:          3.0,
		RandomizationFactor: 0,
		MaxElapsedTime:      0,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return &Reporter{
		logger:  l,
		label:   label,
		backoff: b,
		nextRun: time.Now(),
	}
}

// Note reports format at Warning level if the backoff interval has elapsed
// since the last report, then widens the interval; otherwise it's a no-op.
// Safe for concurrent use.
func (r *Reporter) Note(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if now.Before(r.nextRun) {
		return
	}
	r.logger.Warning("["+r.label+"] "+format, args...)
	r.nextRun = now.Add(r.backoff.NextBackOff())
}

// Reset collapses the backoff interval back to its initial value, so the
// next Note reports immediately regardless of recent history.
func (r *Reporter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backoff.Reset()
	r.nextRun = time.Now()
}
