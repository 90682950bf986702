package jobs

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// SessionCleaner removes idle sessions
type SessionCleaner interface {
	CleanupOldSessions(maxAge time.Duration) int
}

// SessionSweepJob removes idle sessions on roughly one in every oneIn calls.
// It has no goroutine of its own; callers drive it from the request path.
type SessionSweepJob struct {
	cleaner   SessionCleaner
	maxAge    time.Duration
	oneIn     uint64
	calls     atomic.Uint64
	isRunning atomic.Bool
}

// NewSessionSweepJob creates a new sweep job
func NewSessionSweepJob(cleaner SessionCleaner, maxAge time.Duration, oneIn int) *SessionSweepJob {
	if oneIn <= 0 {
		oneIn = 100
	}
	return &SessionSweepJob{
		cleaner: cleaner,
		maxAge:  maxAge,
		oneIn:   uint64(oneIn),
	}
}

// MaybeRun sweeps when this call is the chosen one and no sweep is already
// in progress. It reports whether a sweep ran.
func (j *SessionSweepJob) MaybeRun() bool {
	if j.calls.Add(1)%j.oneIn != 0 {
		return false
	}
	if !j.isRunning.CompareAndSwap(false, true) {
		return false
	}
	defer j.isRunning.Store(false)

	start := time.Now()
	removed := j.cleaner.CleanupOldSessions(j.maxAge)
	slog.Debug("session sweep finished", "removed", removed, "took", time.Since(start))
	return true
}
