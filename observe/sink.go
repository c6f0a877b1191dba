package observe

import (
	"sync"

	"blockpuzzle/game"

	"github.com/rs/zerolog"
)

type Kind int

const (
	RoundStarted Kind = iota
	MoveApplied
	MoveRejected
	Note
	GameOver
)

func (k Kind) String() string {
	switch k {
	case RoundStarted:
		return "round"
	case MoveApplied:
		return "move"
	case MoveRejected:
		return "rejected"
	case Note:
		return "note"
	case GameOver:
		return "game-over"
	}
	return "unknown"
}

// Event is something a driver or strategy wants observers to see. Board and
// Batch are snapshots; observers must not rely on them changing.
type Event struct {
	Round int
	Kind  Kind
	Board game.Board
	Batch game.Batch
	Move  game.Move
	Note  string
}

// Sink receives events. Implementations must be safe to call from the
// goroutine running the game.
type Sink interface {
	Observe(Event)
}

type nopSink struct{}

func Nop() Sink {
	return nopSink{}
}

func (nopSink) Observe(Event) {}

// LogSink writes one structured line per event and, at debug level, the board.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Observe(ev Event) {
	e := s.logger.Info()
	if ev.Kind == Note || ev.Kind == RoundStarted {
		e = s.logger.Debug()
	}
	if ev.Kind == MoveRejected {
		e = s.logger.Warn()
	}
	e.Int("round", ev.Round).
		Str("event", ev.Kind.String()).
		Int("score", ev.Board.Score())
	if !ev.Move.IsNone() {
		e = e.Stringer("move", ev.Move)
	}
	if ev.Batch != nil {
		e = e.Ints("batch", ev.Batch.IDs())
	}
	e.Msg(ev.Note)

	if s.logger.GetLevel() <= zerolog.DebugLevel && ev.Kind != Note {
		s.logger.Debug().Msg("\n" + ev.Board.String())
	}
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Observe(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Kinds returns the kinds of the recorded events in order.
func (r *Recorder) Kinds() []Kind {
	events := r.Events()
	kinds := make([]Kind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	return kinds
}
