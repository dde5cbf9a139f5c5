// Package stats holds the run counters reported at the end of a
// search/merge/filter run, grounded on nsearch's Stats.
package stats

import (
	"sync/atomic"
	"time"
)

// Stats is a handle to a run's atomic counters. Safe for concurrent use by
// every worker; pass the same *Stats into every worker constructor rather
// than relying on a package-level global.
type Stats struct {
	numProcessed           int64
	numMerged              int64
	mergedReadsTotalLength int64

	timerStart time.Time
	timerStop  time.Time
}

// New returns a zeroed Stats handle.
func New() *Stats {
	return &Stats{}
}

// AddProcessed increments the processed-item counter by one.
func (s *Stats) AddProcessed() {
	atomic.AddInt64(&s.numProcessed, 1)
}

// AddMerged records one successful merge of the given merged-read length.
func (s *Stats) AddMerged(mergedLength int) {
	atomic.AddInt64(&s.numMerged, 1)
	atomic.AddInt64(&s.mergedReadsTotalLength, int64(mergedLength))
}

// NumProcessed returns the total number of items processed so far.
func (s *Stats) NumProcessed() int64 {
	return atomic.LoadInt64(&s.numProcessed)
}

// NumMerged returns the total number of successful merges so far.
func (s *Stats) NumMerged() int64 {
	return atomic.LoadInt64(&s.numMerged)
}

// MergedReadsTotalLength returns the sum of every merged read's length.
func (s *Stats) MergedReadsTotalLength() int64 {
	return atomic.LoadInt64(&s.mergedReadsTotalLength)
}

// MeanMergedLength returns the mean merged-read length, or 0 if nothing
// has been merged yet.
func (s *Stats) MeanMergedLength() float64 {
	n := s.NumMerged()
	if n == 0 {
		return 0
	}
	return float64(s.MergedReadsTotalLength()) / float64(n)
}

// StartTimer records the run's start time. Not safe to call concurrently
// with itself or StopTimer (call once, from the orchestrating goroutine).
func (s *Stats) StartTimer() {
	s.timerStart = time.Now()
}

// StopTimer records the run's end time.
func (s *Stats) StopTimer() {
	s.timerStop = time.Now()
}

// Elapsed returns the duration between StartTimer and StopTimer.
func (s *Stats) Elapsed() time.Duration {
	return s.timerStop.Sub(s.timerStart)
}
