package app

import (
	"runtime"
	"time"
)

// spinWindow is how close to the deadline Wait stops sleeping and yields
// instead; time.Sleep overshoots by about this much on most platforms.
const spinWindow = 200 * time.Microsecond

// FPSLimiter paces a loop to a frame cap. The cap is read from limit on
// every Wait, so it can change while the loop runs; 0 means uncapped.
type FPSLimiter struct {
	limit    func() int
	deadline time.Time
}

func NewFPSLimiter(limit func() int) *FPSLimiter {
	return &FPSLimiter{limit: limit}
}

// Wait blocks until the current frame's slot has passed. Deadlines advance
// by whole periods so short frames make up for long ones, until a frame is
// more than a period late; then the next slot is one period from now.
func (f *FPSLimiter) Wait() {
	n := f.limit()
	if n <= 0 {
		f.deadline = time.Time{}
		return
	}
	period := time.Second / time.Duration(n)

	if f.deadline.IsZero() {
		f.deadline = time.Now().Add(period)
	} else {
		f.deadline = f.deadline.Add(period)
	}
	sleepUntil(f.deadline)

	if time.Since(f.deadline) > period {
		f.deadline = time.Now()
	}
}

func sleepUntil(t time.Time) {
	if d := time.Until(t) - spinWindow; d > 0 {
		time.Sleep(d)
	}
	for time.Now().Before(t) {
		runtime.Gosched()
	}
}
