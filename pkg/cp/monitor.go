package cp

// monitor.go: statistics for the propagation engine

import (
	"fmt"
	"sync"
	"time"
)

// Stats holds statistics about propagation.
type Stats struct {
	// Propagation statistics
	FixPoints        int           // Number of FixPoint calls
	Propagations     int           // Number of Propagate calls made by the scheduler
	Failures         int           // Number of FixPoint calls that ended in inconsistency
	PropagationTime  time.Duration // Time spent inside FixPoint
	PropagatorsAdded int           // Number of propagators posted

	// Memory statistics
	PeakTrailSize int // Peak size of the undo trail
	PeakQueueSize int // Peak size of the propagation queue
}

// Monitor collects engine statistics. A Monitor may be read from another
// goroutine while its solver runs.
type Monitor struct {
	mu        sync.Mutex
	stats     Stats
	propStart time.Time
}

// NewMonitor creates an empty monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// Stats returns a copy of the current statistics.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// StartFixPoint marks the beginning of a FixPoint call.
func (m *Monitor) StartFixPoint() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.propStart = time.Now()
	m.stats.FixPoints++
}

// EndFixPoint marks the end of a FixPoint call.
func (m *Monitor) EndFixPoint(failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.propStart.IsZero() {
		m.stats.PropagationTime += time.Since(m.propStart)
		m.propStart = time.Time{}
	}
	if failed {
		m.stats.Failures++
	}
}

// RecordPropagation records one Propagate call.
func (m *Monitor) RecordPropagation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Propagations++
}

// RecordPropagator records posting a propagator.
func (m *Monitor) RecordPropagator() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.PropagatorsAdded++
}

// RecordTrailSize records the current trail size.
func (m *Monitor) RecordTrailSize(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if size > m.stats.PeakTrailSize {
		m.stats.PeakTrailSize = size
	}
}

// RecordQueueSize records the current queue size.
func (m *Monitor) RecordQueueSize(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if size > m.stats.PeakQueueSize {
		m.stats.PeakQueueSize = size
	}
}

// String returns a short human-readable summary.
func (s Stats) String() string {
	return fmt.Sprintf("fixpoints=%d propagations=%d failures=%d time=%v peakTrail=%d peakQueue=%d",
		s.FixPoints, s.Propagations, s.Failures, s.PropagationTime, s.PeakTrailSize, s.PeakQueueSize)
}
