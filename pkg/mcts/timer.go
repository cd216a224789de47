package mcts

import (
	"time"
)

type _Timer struct {
	start    time.Time
	duration time.Duration
}

func _NewTimer() *_Timer {
	return &_Timer{time.Now(), -1}
}

// Check if this timer has ended
func (t *_Timer) IsEnd() bool {
	return t.duration >= 0 && time.Since(t.start) > t.duration
}

func (t *_Timer) IsSet() bool {
	return t.duration != -1
}

// Set the 'start' as now
func (t *_Timer) Reset() {
	t.start = time.Now()
}

// Get the start time
func (t *_Timer) Start() time.Time {
	return t.start
}

func (t *_Timer) Deltatime() int {
	return max(int(time.Since(t.start).Milliseconds()), 1)
}

// Elapsed time since the last reset
func (t *_Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Fraction of the duration already used, 0 if the timer is not set
func (t *_Timer) Ratio() float64 {
	if t.duration <= 0 {
		return 0
	}
	return min(1, max(0, float64(time.Since(t.start))/float64(t.duration)))
}

// In milliseconds
func (t *_Timer) Movetime(movetime int) {
	if movetime < 0 {
		t.duration = -1
	} else {
		t.duration = time.Duration(movetime) * time.Millisecond
	}
}
