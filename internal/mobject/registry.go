package mobject

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for ids that were never issued or were removed.
var ErrNotFound = errors.New("mobject not found")

// ID is a stable handle into a Registry. The zero ID is never issued.
type ID struct {
	index      uint32
	generation uint32
}

func (id ID) IsZero() bool { return id.generation == 0 }

func (id ID) String() string {
	return fmt.Sprintf("m%d#%d", id.index, id.generation)
}

type slot struct {
	generation uint32
	obj        *Mobject
}

// Registry is an arena of mobjects. Freed slots are recycled with a bumped
// generation, so an id never resolves to a different object.
type Registry struct {
	slots []slot
	free  []uint32
	order []ID
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add stores a copy of m and returns its id.
func (r *Registry) Add(m Mobject) ID {
	obj := m
	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		s := &r.slots[idx]
		s.obj = &obj
		id := ID{index: idx, generation: s.generation}
		r.order = append(r.order, id)
		return id
	}
	r.slots = append(r.slots, slot{generation: 1, obj: &obj})
	id := ID{index: uint32(len(r.slots) - 1), generation: 1}
	r.order = append(r.order, id)
	return id
}

func (r *Registry) lookup(id ID) (*slot, error) {
	if id.IsZero() || int(id.index) >= len(r.slots) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	s := &r.slots[id.index]
	if s.obj == nil || s.generation != id.generation {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return s, nil
}

// Remove drops the mobject. Removing twice returns ErrNotFound.
func (r *Registry) Remove(id ID) error {
	s, err := r.lookup(id)
	if err != nil {
		return err
	}
	s.obj = nil
	s.generation++
	r.free = append(r.free, id.index)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the stored mobject for in-place edits.
func (r *Registry) Get(id ID) (*Mobject, error) {
	s, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return s.obj, nil
}

// State returns a copy of the mobject's current state.
func (r *Registry) State(id ID) (State, error) {
	s, err := r.lookup(id)
	if err != nil {
		return State{}, err
	}
	return s.obj.State, nil
}

func (r *Registry) Contains(id ID) bool {
	_, err := r.lookup(id)
	return err == nil
}

func (r *Registry) Len() int { return len(r.order) }

// IDs lists live ids in insertion order.
func (r *Registry) IDs() []ID {
	out := make([]ID, len(r.order))
	copy(out, r.order)
	return out
}

// Each visits live mobjects in insertion order. Returning false stops.
func (r *Registry) Each(fn func(ID, *Mobject) bool) {
	for _, id := range r.order {
		if !fn(id, r.slots[id.index].obj) {
			return
		}
	}
}
