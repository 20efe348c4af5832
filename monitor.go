package fathom

// transitionKind classifies a proposed zoom against the working interval.
type transitionKind uint8

const (
	transitionNone    transitionKind = iota // zoom is applied directly
	transitionDescend                       // zoom would reach ZoomHigh: enter a child frame
	transitionAscend                        // zoom would fall below ZoomLow: enter the parent
)

// thresholdMonitor watches proposed zoom values and decides when the active
// frame must change. It never mutates the graph or the camera itself; the
// canvas delegates the actual step to the anchor resolver and the graph.
type thresholdMonitor struct {
	low  float64
	high float64
}

func newThresholdMonitor(cfg Config) thresholdMonitor {
	return thresholdMonitor{low: cfg.ZoomLow, high: cfg.ZoomHigh}
}

// classify returns the transition a proposed zoom requires. The working
// interval is half-open: reaching ZoomHigh exactly already transitions.
func (m thresholdMonitor) classify(zoom float64) transitionKind {
	if zoom >= m.high {
		return transitionDescend
	}
	if zoom < m.low {
		return transitionAscend
	}
	return transitionNone
}

// inRange reports whether zoom lies inside [low, high).
func (m thresholdMonitor) inRange(zoom float64) bool {
	return m.classify(zoom) == transitionNone
}
