package session

import (
	"context"
	"time"
)

// Sleeper pauses between screens.
type Sleeper interface {
	Sleep(executionContext context.Context, duration time.Duration)
}

// TimerSleeper waits on a timer and returns early when the context is cancelled.
type TimerSleeper struct{}

// Sleep blocks for duration or until executionContext is done.
func (TimerSleeper) Sleep(executionContext context.Context, duration time.Duration) {
	if duration <= 0 {
		return
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-executionContext.Done():
	case <-timer.C:
	}
}

// NoopSleeper never waits.
type NoopSleeper struct{}

// Sleep returns immediately.
func (NoopSleeper) Sleep(context.Context, time.Duration) {}
