package engine

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Stats holds engine counters.
type Stats struct {
	Compiled      atomic.Int64
	CompileErrors atomic.Int64
	Executed      atomic.Int64
	Failed        atomic.Int64
	Slow          atomic.Int64
	TotalDuration atomic.Int64 // nanoseconds
}

func (s *Stats) record(d time.Duration, err error, slow bool) {
	s.Executed.Add(1)
	s.TotalDuration.Add(int64(d))
	if err != nil {
		s.Failed.Add(1)
	}
	if slow {
		s.Slow.Add(1)
	}
}

// Snapshot returns a point-in-time copy of the counters.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Compiled:      s.Compiled.Load(),
		CompileErrors: s.CompileErrors.Load(),
		Executed:      s.Executed.Load(),
		Failed:        s.Failed.Load(),
		Slow:          s.Slow.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
	}
}

type StatsSnapshot struct {
	Compiled      int64
	CompileErrors int64
	Executed      int64
	Failed        int64
	Slow          int64
	TotalDuration time.Duration
}

// AvgDuration is the mean execution time.
func (s StatsSnapshot) AvgDuration() time.Duration {
	if s.Executed == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Executed)
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"compiled=%d compile_errors=%d executed=%d failed=%d slow=%d avg=%s",
		s.Compiled, s.CompileErrors, s.Executed, s.Failed, s.Slow, s.AvgDuration(),
	)
}
