package timing

import (
	"context"
	"sync"
	"time"
)

type timingKey struct{}

type TimingInfo struct {
	Operation string
	StartTime time.Time
}

// Stage is one completed measurement, kept in completion order.
type Stage struct {
	Operation string
	Duration  time.Duration
}

type Tracker struct {
	stages []Stage
	mu     sync.RWMutex
	now    func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// StartTimingContext attaches the start mark to parent.
func (tt *Tracker) StartTimingContext(parent context.Context, operation string) context.Context {
	return context.WithValue(parent, timingKey{}, TimingInfo{
		Operation: operation,
		StartTime: tt.now(),
	})
}

// EndTiming records the duration since the matching StartTimingContext and
// returns it.
func (tt *Tracker) EndTiming(ctx context.Context) time.Duration {
	timingInfo, ok := ctx.Value(timingKey{}).(TimingInfo)
	if !ok {
		return 0
	}

	duration := tt.now().Sub(timingInfo.StartTime)

	tt.mu.Lock()
	defer tt.mu.Unlock()

	tt.stages = append(tt.stages, Stage{Operation: timingInfo.Operation, Duration: duration})

	return duration
}

func (tt *Tracker) Stages() []Stage {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	result := make([]Stage, len(tt.stages))
	copy(result, tt.stages)
	return result
}

// Total sums every recorded stage.
func (tt *Tracker) Total() time.Duration {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	var total time.Duration
	for _, stage := range tt.stages {
		total += stage.Duration
	}
	return total
}
