package mcts

import (
	"sync/atomic"
	"time"
)

type StopReason int

const (
	StopNone      StopReason = iota
	StopInterrupt            = 1  // Stopped by calling .SetStop(true)
	StopMovetime             = 2  // Time limit reached
	StopNodes                = 4  // Node (root plays) limit reached
	StopConfident            = 8  // Best move was stable and confident enough
	StopExhausted            = 16 // Whole reachable tree was explored
)

func (sr StopReason) String() string {
	if sr == StopNone {
		return "None"
	}

	reasons := []struct {
		flag StopReason
		name string
	}{
		{StopInterrupt, "Interrupt"},
		{StopMovetime, "Movetime"},
		{StopNodes, "Nodes"},
		{StopConfident, "Confident"},
		{StopExhausted, "Exhausted"},
	}

	var result string
	for _, r := range reasons {
		if sr&r.flag == r.flag {
			if result != "" {
				result += "|"
			}
			result += r.name
		}
	}

	return result
}

func (sr StopReason) MarshalText() ([]byte, error) {
	return []byte(sr.String()), nil
}

const (
	stopMask  int = StopInterrupt
	timeMask  int = StopMovetime
	nodesMask int = StopNodes
)

type LimiterLike interface {
	// Set the limits
	SetLimits(*Limits)
	// Get the limits
	Limits() *Limits
	// Get elapsed time in ms (from the last 'Reset' call)
	Elapsed() uint32
	// Same as Elapsed, but as a duration
	ElapsedTime() time.Duration
	// Fraction of the time budget already used, 0 without a time limit
	ElapsedRatio() float64
	// Set the stop signal, will cause to exit search if set to true
	SetStop(bool)
	// Get the stop signal
	Stop() bool
	// Reset the limiter's flags, called on search setup
	Reset()
	// Wheter the search can continue, called in the main search loop
	Ok(plays uint32) bool
	// Get the reason why the search was stopped, valid after search ends
	StopReason() StopReason
	// Evaluate stop reason based on current state, and set it internally,
	// 'extra' is or'ed with the reasons found by the limiter itself
	EvaluateStopReason(plays uint32, extra StopReason)
}

type Limiter struct {
	limits *Limits
	Timer  *_Timer
	stop   atomic.Bool
	reason StopReason
}

func NewLimiter() *Limiter {
	return &Limiter{
		limits: DefaultLimits(),
		Timer:  _NewTimer(),
	}
}

func (l *Limiter) Reset() {
	if l.limits.Infinite {
		l.Timer.Movetime(DefaultMovetimeLimit)
	} else {
		l.Timer.Movetime(l.limits.Movetime)
	}
	l.Timer.Reset()
	l.stop.Store(false)
	l.reason = StopNone
}

func (l *Limiter) EvaluateStopReason(plays uint32, extra StopReason) {
	okMask := l.LimitMask(plays)
	reason := extra

	if okMask&stopMask == stopMask {
		reason |= StopInterrupt
	}

	if okMask&timeMask == timeMask {
		reason |= StopMovetime
	}

	if okMask&nodesMask == nodesMask {
		reason |= StopNodes
	}

	l.reason = reason
}

func (l *Limiter) StopReason() StopReason {
	return l.reason
}

func (l *Limiter) SetStop(v bool) {
	l.stop.Store(v)
}

func (l *Limiter) Stop() bool {
	return l.stop.Load()
}

func (l *Limiter) SetLimits(limits *Limits) {
	l.limits = limits
}

func (l *Limiter) Limits() *Limits {
	return l.limits
}

func (l *Limiter) Elapsed() uint32 {
	return uint32(l.Timer.Deltatime())
}

func (l *Limiter) ElapsedTime() time.Duration {
	return l.Timer.Elapsed()
}

func (l *Limiter) ElapsedRatio() float64 {
	return l.Timer.Ratio()
}

func toMask(val bool, offset int) int {
	if val {
		return 1 << offset
	}
	return 0
}

func (l *Limiter) LimitMask(plays uint32) int {
	// If infinite, only the stop signal counts
	if l.limits.Infinite {
		return toMask(l.stop.Load(), 0)
	}

	limitMask := 0
	limitMask |= toMask(l.stop.Load(), 0)
	limitMask |= toMask(l.Timer.IsEnd(), 1)
	limitMask |= toMask(l.limits.Nodes <= plays, 2)
	return limitMask
}

func (l *Limiter) Ok(plays uint32) bool {
	return l.LimitMask(plays) == 0
}
