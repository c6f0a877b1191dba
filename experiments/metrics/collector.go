package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Goroutines int
	Duration   time.Duration
	Orderings  int // shape orderings explored
	Attempts   int // placements tried
	Placements int // placements that succeeded
	Paths      int // complete paths handed to selection
	TimedOut   bool
}

type MoveMetric struct {
	Step      int
	ShapeID   int
	Placement string
	ScoreGain int
	Lines     int
	Forfeited bool
	SearchMetric
}

type GameMetric struct {
	Strategy  string
	Seed      uint64
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Score     int
	Turns     int
	Forfeits  int
	EndReason string
}

type Collector interface {
	Start(goroutines int)
	AddOrdering()
	AddAttempts(n int)
	AddPlacements(n int)
	AddPaths(n int)
	SetTimedOut()
	Complete() SearchMetric
}

type collector struct {
	goroutines int
	startTime  time.Time
	orderings  atomic.Int64
	attempts   atomic.Int64
	placements atomic.Int64
	paths      atomic.Int64
	timedOut   atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.orderings.Store(0)
	m.attempts.Store(0)
	m.placements.Store(0)
	m.paths.Store(0)
	m.timedOut.Store(false)
}

func (m *collector) AddOrdering() {
	m.orderings.Add(1)
}

func (m *collector) AddAttempts(n int) {
	m.attempts.Add(int64(n))
}

func (m *collector) AddPlacements(n int) {
	m.placements.Add(int64(n))
}

func (m *collector) AddPaths(n int) {
	m.paths.Add(int64(n))
}

func (m *collector) SetTimedOut() {
	m.timedOut.Store(true)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines: m.goroutines,
		Duration:   time.Since(m.startTime),
		Orderings:  int(m.orderings.Load()),
		Attempts:   int(m.attempts.Load()),
		Placements: int(m.placements.Load()),
		Paths:      int(m.paths.Load()),
		TimedOut:   m.timedOut.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines int)   {}
func (m *dummyCollector) AddOrdering()           {}
func (m *dummyCollector) AddAttempts(n int)      {}
func (m *dummyCollector) AddPlacements(n int)    {}
func (m *dummyCollector) AddPaths(n int)         {}
func (m *dummyCollector) SetTimedOut()           {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
