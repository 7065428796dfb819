package scene

import "time"

// EvaluatorStats provides statistics about evaluation runs.
type EvaluatorStats struct {
	Runs          int64
	FullRuns      int64
	PartialRuns   int64
	TracksApplied int64
	Skipped       int64
	Faults        int64
	CycleEdges    int64
	MinDuration   time.Duration
	MaxDuration   time.Duration
	AvgDuration   time.Duration
	LastDuration  time.Duration
	TotalDuration time.Duration
}

type evaluatorStatsInternal struct {
	runs          int64
	fullRuns      int64
	partialRuns   int64
	tracksApplied int64
	skipped       int64
	faults        int64
	cycleEdges    int64
	minDuration   time.Duration
	maxDuration   time.Duration
	totalDuration time.Duration
	lastDuration  time.Duration
}

func newEvaluatorStats() evaluatorStatsInternal {
	return evaluatorStatsInternal{minDuration: time.Duration(1<<63 - 1)}
}

func (s *evaluatorStatsInternal) record(r *RunResult) {
	s.runs++
	if r.Mode == FullRun {
		s.fullRuns++
	} else {
		s.partialRuns++
	}
	s.tracksApplied += int64(r.TracksApplied)
	s.skipped += int64(r.Skipped)
	s.faults += int64(r.Faults)
	s.cycleEdges += int64(r.CycleEdges)

	s.lastDuration = r.Duration
	s.totalDuration += r.Duration
	if r.Duration < s.minDuration {
		s.minDuration = r.Duration
	}
	if r.Duration > s.maxDuration {
		s.maxDuration = r.Duration
	}
}

func (s *evaluatorStatsInternal) export() *EvaluatorStats {
	stats := &EvaluatorStats{
		Runs:          s.runs,
		FullRuns:      s.fullRuns,
		PartialRuns:   s.partialRuns,
		TracksApplied: s.tracksApplied,
		Skipped:       s.skipped,
		Faults:        s.faults,
		CycleEdges:    s.cycleEdges,
		MaxDuration:   s.maxDuration,
		LastDuration:  s.lastDuration,
		TotalDuration: s.totalDuration,
	}
	if s.runs > 0 {
		stats.MinDuration = s.minDuration
		stats.AvgDuration = s.totalDuration / time.Duration(s.runs)
	}
	return stats
}
