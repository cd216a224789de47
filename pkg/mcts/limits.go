package mcts

import (
	"encoding/json"
	"math"
	"strings"
)

type Limits struct {
	Nodes         uint32
	Movetime      int
	Infinite      bool
	ForceFullTime bool
	Strategy      Strategy
	MultiPv       int
}

func (l Limits) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(l)
	return builder.String()
}

const (
	DefaultNodeLimit     uint32 = math.MaxInt32*2 + 1
	DefaultMovetimeLimit int    = -1
	// Budget used by the agents when nothing else is given
	DefaultSeconds float64 = 15
)

func DefaultLimits() *Limits {
	return &Limits{
		Nodes:    DefaultNodeLimit,
		Movetime: DefaultMovetimeLimit,
		Infinite: true,
		MultiPv:  1,
	}
}

// Set the maxiumum number of simulated positions (root plays) engine can go through
func (l *Limits) SetNodes(nodes uint32) *Limits {
	l.Nodes = nodes
	l.Infinite = false
	return l
}

// Set the maximum time for engine to think, in milliseconds
func (l *Limits) SetMovetime(movetime int) *Limits {
	l.Movetime = movetime
	l.Infinite = false
	return l
}

// Same as SetMovetime, but in seconds
func (l *Limits) SetSeconds(seconds float64) *Limits {
	return l.SetMovetime(int(seconds * 1000))
}

// Disable the confidence based early stop, the search will use the whole budget
func (l *Limits) SetForceFullTime(force bool) *Limits {
	l.ForceFullTime = force
	return l
}

// Override the opponent simulation strategy of the search parameters
func (l *Limits) SetStrategy(strategy Strategy) *Limits {
	l.Strategy = strategy
	return l
}

// Number of lines reported to the stats listener
func (l *Limits) SetMultiPv(multipv int) *Limits {
	l.MultiPv = max(1, multipv)
	return l
}

func (l *Limits) SetInfinite(infinite bool) {
	l.Infinite = infinite
}

// Time budget in seconds, +Inf if there is none
func (l *Limits) Seconds() float64 {
	if l.Infinite || l.Movetime < 0 {
		return math.Inf(1)
	}
	return float64(l.Movetime) / 1000
}
