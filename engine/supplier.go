package engine

import (
	"blockpuzzle/game"

	"golang.org/x/exp/rand"
)

type randomSupplier struct {
	rng  *rand.Rand
	pool []*game.Shape
}

func newRandomSupplier(seed uint64, pool []*game.Shape) randomSupplier {
	if len(pool) == 0 {
		pool = game.Catalog()
	}
	return randomSupplier{
		rng:  rand.New(rand.NewSource(seed)),
		pool: pool,
	}
}

func (s randomSupplier) draw() *game.Shape {
	return s.pool[s.rng.Intn(len(s.pool))]
}

// RefillWhenEmpty deals a fresh batch of three only once every shape of the
// previous batch has been placed.
type RefillWhenEmpty struct {
	randomSupplier
}

// NewRefillWhenEmpty draws uniformly from pool, or from the whole catalog when
// pool is empty.
func NewRefillWhenEmpty(seed uint64, pool []*game.Shape) *RefillWhenEmpty {
	return &RefillWhenEmpty{newRandomSupplier(seed, pool)}
}

func (s *RefillWhenEmpty) Refill(batch game.Batch) game.Batch {
	if batch.Len() > 0 {
		return batch
	}
	next := make(game.Batch, game.MaxBatch)
	for id := 1; id <= game.MaxBatch; id++ {
		next[id] = s.draw()
	}
	return next
}

// RefillEachTurn tops the batch back up to three shapes every round, reusing
// the ids that were placed.
type RefillEachTurn struct {
	randomSupplier
}

func NewRefillEachTurn(seed uint64, pool []*game.Shape) *RefillEachTurn {
	return &RefillEachTurn{newRandomSupplier(seed, pool)}
}

func (s *RefillEachTurn) Refill(batch game.Batch) game.Batch {
	next := batch.Clone()
	if next == nil {
		next = make(game.Batch, game.MaxBatch)
	}
	for id := 1; id <= game.MaxBatch; id++ {
		if _, ok := next[id]; !ok {
			next[id] = s.draw()
		}
	}
	return next
}

// FixedSupplier replays scripted batches, moving to the next one when the
// current batch is used up. It returns an empty batch once the script ends.
type FixedSupplier struct {
	Batches []game.Batch
	next    int
}

func (s *FixedSupplier) Refill(batch game.Batch) game.Batch {
	if batch.Len() > 0 {
		return batch
	}
	if s.next >= len(s.Batches) {
		return game.Batch{}
	}
	b := s.Batches[s.next].Clone()
	s.next++
	return b
}
