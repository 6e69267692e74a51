package scheduler

import (
	"fmt"
	"time"
)

// IntervalSchedule runs a job at a fixed interval, measured from the end of
// the previous run. Intervals below one second are rounded up to the tick
// resolution of the run loop.
type IntervalSchedule struct {
	Interval time.Duration
}

// NewIntervalSchedule creates a fixed-interval schedule.
func NewIntervalSchedule(interval time.Duration) *IntervalSchedule {
	if interval < time.Second {
		interval = time.Second
	}
	return &IntervalSchedule{Interval: interval}
}

// Next implements Schedule.
func (s *IntervalSchedule) Next(after time.Time) time.Time {
	return after.Add(s.Interval)
}

// String implements Schedule.
func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval)
}
