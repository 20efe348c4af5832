package fathom

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-tick timing and workload metrics.
// Only populated when Canvas debug mode is on.
type debugStats struct {
	drainTime      time.Duration
	tessellateTime time.Duration
	composeTime    time.Duration
	submitTime     time.Duration

	eventCount      int
	transitionCount int
	commandCount    int
	frameCount      int
	evicted         int
	droppedTotal    int
}

// debugLog prints the tick's stats to stderr.
func (cv *Canvas) debugLog() {
	if !cv.debug {
		return
	}
	s := &cv.stats
	total := s.drainTime + s.tessellateTime + s.composeTime + s.submitTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[fathom] drain: %v | tessellate: %v | compose: %v | submit: %v | total: %v\n",
		s.drainTime, s.tessellateTime, s.composeTime, s.submitTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[fathom] events: %d | transitions: %d | commands: %d | frames: %d | evicted: %d | dropped: %d\n",
		s.eventCount, s.transitionCount, s.commandCount, s.frameCount, s.evicted, s.droppedTotal)
}
