package game

import (
	"fmt"
	"maps"
	"slices"
)

// MaxBatch is the number of shapes offered per round.
const MaxBatch = 3

// Batch holds the shapes still available this round, keyed by id 1..MaxBatch.
// Ids are stable for the round; a placed shape's id is removed.
type Batch map[int]*Shape

// NewBatch assigns ids 1..n to the shapes.
func NewBatch(shapes ...*Shape) (Batch, error) {
	if len(shapes) > MaxBatch {
		return nil, fmt.Errorf("batch of %d shapes exceeds %d", len(shapes), MaxBatch)
	}
	b := make(Batch, len(shapes))
	for i, s := range shapes {
		if s == nil {
			return nil, fmt.Errorf("batch shape %d is nil", i+1)
		}
		b[i+1] = s
	}
	return b, nil
}

func MustBatch(shapes ...*Shape) Batch {
	b, err := NewBatch(shapes...)
	if err != nil {
		panic(err)
	}
	return b
}

func (b Batch) Len() int {
	return len(b)
}

// IDs returns the ids in ascending order, the batch iteration order.
func (b Batch) IDs() []int {
	return slices.Sorted(maps.Keys(b))
}

// Shapes returns the shapes in id order.
func (b Batch) Shapes() []*Shape {
	ids := b.IDs()
	shapes := make([]*Shape, len(ids))
	for i, id := range ids {
		shapes[i] = b[id]
	}
	return shapes
}

// Without returns a copy of the batch with id removed.
func (b Batch) Without(id int) Batch {
	out := make(Batch, len(b))
	for k, s := range b {
		if k != id {
			out[k] = s
		}
	}
	return out
}

// Clone returns a copy of the batch. Shapes are shared.
func (b Batch) Clone() Batch {
	return maps.Clone(b)
}
