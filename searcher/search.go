package searcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"blockpuzzle/experiments/metrics"
	"blockpuzzle/game"
	"blockpuzzle/utils"

	"github.com/rs/zerolog/log"
)

var (
	ErrNoValidPath      = errors.New("no valid path")
	ErrDeadlineExceeded = errors.New("search deadline exceeded")
)

// StepFn gathers statistics for one placement onto the candidate and the
// path that now ends with it.
type StepFn func(c *Candidate, path *GamePath, before, after game.Board)

// PathFn finalizes the statistics of a complete path.
type PathFn func(path *GamePath, start game.Board)

// SelectFn picks the winning path. It is only called with a non-empty slice
// and must depend on nothing but the paths it is given.
type SelectFn func(paths []*GamePath) *GamePath

// Hooks plug a scoring policy into the search. With more than one goroutine
// the step and path hooks run concurrently for different orderings, so they
// must only touch their arguments.
type Hooks struct {
	Step   StepFn
	Path   PathFn
	Select SelectFn
}

func DefaultHooks() Hooks {
	return Hooks{
		Step:   ScoreDelta,
		Path:   func(*GamePath, game.Board) {},
		Select: MaxEval,
	}
}

// ScoreDelta records each placement's score gain on the candidate and adds it
// to the path.
func ScoreDelta(c *Candidate, path *GamePath, before, after game.Board) {
	gain := float64(after.Score() - before.Score())
	c.Eval = gain
	path.Eval += gain
}

// MaxEval returns the path with the highest Eval. Ties go to the earliest path.
func MaxEval(paths []*GamePath) *GamePath {
	best := paths[0]
	for _, p := range paths[1:] {
		if p.Eval > best.Eval {
			best = p
		}
	}
	return best
}

type Option func(f *FullEvaluation)

func WithGoroutines(goroutines int) Option {
	return func(f *FullEvaluation) {
		if goroutines > 0 {
			f.goroutines = goroutines
		}
	}
}

func WithDuration(duration time.Duration) Option {
	return func(f *FullEvaluation) {
		if duration > 0 {
			f.duration = duration
		}
	}
}

// WithPartialOnTimeout selects among the paths completed before the deadline
// instead of failing with ErrDeadlineExceeded.
func WithPartialOnTimeout(partial bool) Option {
	return func(f *FullEvaluation) {
		f.partial = partial
	}
}

func WithMetrics() Option {
	return func(f *FullEvaluation) {
		f.metrics = metrics.NewCollector()
	}
}

// FullEvaluation enumerates every ordering of the batch and every placement
// of each shape, then lets the hooks pick one complete path. A FullEvaluation
// must not run two searches at once.
type FullEvaluation struct {
	hooks      Hooks
	goroutines int
	duration   time.Duration
	partial    bool
	metrics    metrics.Collector
}

func NewFullEvaluation(hooks Hooks, options ...Option) *FullEvaluation {
	defaults := DefaultHooks()
	if hooks.Step == nil {
		hooks.Step = defaults.Step
	}
	if hooks.Path == nil {
		hooks.Path = defaults.Path
	}
	if hooks.Select == nil {
		hooks.Select = defaults.Select
	}
	f := &FullEvaluation{ // Default values
		hooks:      hooks,
		goroutines: 1,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(f)
	}
	return f
}

type Result struct {
	Move   game.Move
	Path   *GamePath // winning path, advisory beyond its first move
	Paths  int       // complete paths considered
	Metric metrics.SearchMetric
}

// Search returns the first move of the best complete path for the batch on
// board. An empty batch yields NoMove and no error. When no ordering places
// every shape it returns NoMove and ErrNoValidPath.
func (f *FullEvaluation) Search(ctx context.Context, board game.Board, batch game.Batch) (Result, error) {
	if batch.Len() == 0 {
		return Result{Move: game.NoMove}, nil
	}
	if f.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.duration)
		defer cancel()
	}

	orders := utils.Permutations(batch.IDs())
	branches := make([]*branch, len(orders))
	for i, order := range orders {
		branches[i] = &branch{
			ctx:   ctx,
			hooks: f.hooks,
			batch: batch,
			order: order,
			start: board,
		}
	}

	f.metrics.Start(f.goroutines)
	f.run(branches)

	var paths []*GamePath
	stopped := false
	for _, b := range branches {
		paths = append(paths, b.paths...)
		stopped = stopped || b.stopped
		f.metrics.AddAttempts(b.attempts)
		f.metrics.AddPlacements(b.placements)
	}
	f.metrics.AddPaths(len(paths))

	if stopped {
		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{Move: game.NoMove, Metric: f.metrics.Complete()}, ctx.Err()
		}
		f.metrics.SetTimedOut()
		if !f.partial {
			return Result{Move: game.NoMove, Metric: f.metrics.Complete()},
				fmt.Errorf("%w after %d paths", ErrDeadlineExceeded, len(paths))
		}
		log.Warn().Msgf("search deadline exceeded, selecting from %d paths found so far", len(paths))
	}

	metric := f.metrics.Complete()
	if len(paths) == 0 {
		return Result{Move: game.NoMove, Metric: metric}, ErrNoValidPath
	}

	best := f.hooks.Select(paths)
	if best == nil || best.Len() != batch.Len() {
		return Result{Move: game.NoMove, Paths: len(paths), Metric: metric},
			fmt.Errorf("%w: selection returned an incomplete path", ErrNoValidPath)
	}

	log.Debug().Msgf("selected %s from %d paths (eval %.2f)", best.Move(), len(paths), best.Eval)
	return Result{
		Move:   best.Move(),
		Path:   best,
		Paths:  len(paths),
		Metric: metric,
	}, nil
}

func (f *FullEvaluation) run(branches []*branch) {
	if f.goroutines <= 1 {
		for _, b := range branches {
			b.run()
			f.metrics.AddOrdering()
		}
		return
	}

	task := make(chan *branch, len(branches))
	for _, b := range branches {
		task <- b
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < min(f.goroutines, len(branches)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for b := range task {
				b.run()
				f.metrics.AddOrdering()
			}
		}()
	}

	wg.Wait()
}

// branch explores one ordering. It owns everything it writes, so branches
// can run on separate goroutines without locking.
type branch struct {
	ctx   context.Context
	hooks Hooks
	batch game.Batch
	order []int
	start game.Board

	paths      []*GamePath
	attempts   int
	placements int
	stopped    bool
}

// How many placement attempts pass between deadline checks.
const checkEvery = 1024

func (b *branch) run() {
	b.expand(b.start, 0, &GamePath{Order: b.order})
}

func (b *branch) expand(board game.Board, depth int, path *GamePath) {
	if depth == len(b.order) {
		b.hooks.Path(path, b.start)
		b.paths = append(b.paths, path)
		return
	}

	id := b.order[depth]
	shape := b.batch[id]
	for x := 0; x < game.Size; x++ {
		for y := 0; y < game.Size; y++ {
			if b.expired() {
				return
			}
			b.attempts++

			after := board.Copy()
			if !after.TryPlaceAt(shape, x, y) {
				continue
			}
			b.placements++

			c := &Candidate{
				ShapeID:   id,
				Shape:     shape,
				Placement: game.PlacementAt(x, y),
				X:         x,
				Y:         y,
				Before:    board,
				After:     after,
			}
			next := path.extend(c)
			b.hooks.Step(c, next, board, after)
			b.expand(after, depth+1, next)
		}
	}
}

func (b *branch) expired() bool {
	if b.stopped {
		return true
	}
	if b.attempts%checkEvery != 0 || b.ctx.Done() == nil {
		return false
	}
	if b.ctx.Err() != nil {
		b.stopped = true
	}
	return b.stopped
}
