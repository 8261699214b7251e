// Package timeline schedules animations and resolves them into per-object
// state at any time t.
package timeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/ivlev/maquette/internal/animation"
	"github.com/ivlev/maquette/internal/mobject"
)

var (
	// ErrUnknownTarget is returned by Evaluate when a scheduled animation
	// targets a mobject that no longer exists.
	ErrUnknownTarget = errors.New("animation targets unknown mobject")
	// ErrInvalidWait is returned for negative or NaN waits.
	ErrInvalidWait = errors.New("invalid wait")
)

// StateSource resolves the current state of a mobject. *mobject.Registry
// implements it.
type StateSource interface {
	State(id mobject.ID) (mobject.State, error)
}

// Entry is a scheduled animation. Entries of one Play call share Start and
// Group.
type Entry struct {
	Animation animation.Animation
	Start     float64
	End       float64
	Group     int
}

// Progress returns the linear progress of the entry at t. ok is false while
// t is before Start.
func (e Entry) Progress(t float64) (p float64, ok bool) {
	switch {
	case t < e.Start:
		return 0, false
	case t >= e.End:
		return 1, true
	default:
		return (t - e.Start) / e.Animation.Duration, true
	}
}

// Timeline is an ordered list of entries plus a cursor. It is not safe for
// concurrent mutation; Evaluate only reads and may run concurrently.
type Timeline struct {
	entries []Entry
	groups  int
	cursor  float64
}

func New() *Timeline {
	return &Timeline{}
}

// Play schedules all animations in parallel at the cursor and advances the
// cursor by the longest duration. Durations are checked before anything is
// inserted. Calling Play with no animations does nothing.
func (tl *Timeline) Play(anims ...animation.Animation) error {
	if len(anims) == 0 {
		return nil
	}
	longest := 0.0
	for _, a := range anims {
		if err := a.Validate(); err != nil {
			return err
		}
		longest = math.Max(longest, a.Duration)
	}

	start := tl.cursor
	for _, a := range anims {
		tl.entries = append(tl.entries, Entry{
			Animation: a,
			Start:     start,
			End:       start + a.Duration,
			Group:     tl.groups,
		})
	}
	tl.groups++
	tl.cursor = start + longest
	return nil
}

// Wait advances the cursor without scheduling anything.
func (tl *Timeline) Wait(seconds float64) error {
	if !(seconds >= 0) || math.IsInf(seconds, 0) {
		return fmt.Errorf("%v seconds: %w", seconds, ErrInvalidWait)
	}
	tl.cursor += seconds
	return nil
}

// Cursor is where the next Play starts.
func (tl *Timeline) Cursor() float64 { return tl.cursor }

// Duration is the latest entry end. Trailing waits do not extend it.
func (tl *Timeline) Duration() float64 {
	d := 0.0
	for _, e := range tl.entries {
		d = math.Max(d, e.End)
	}
	return d
}

// Entries returns a copy of the schedule in insertion order.
func (tl *Timeline) Entries() []Entry {
	out := make([]Entry, len(tl.entries))
	copy(out, tl.entries)
	return out
}

func (tl *Timeline) Len() int { return len(tl.entries) }

// Touched lists every animated mobject in order of first appearance.
func (tl *Timeline) Touched() []mobject.ID {
	seen := make(map[mobject.ID]bool)
	var out []mobject.ID
	for _, e := range tl.entries {
		if !seen[e.Animation.Target] {
			seen[e.Animation.Target] = true
			out = append(out, e.Animation.Target)
		}
	}
	return out
}

// Active returns the entries running at t.
func (tl *Timeline) Active(t float64) []Entry {
	var out []Entry
	for _, e := range tl.entries {
		if t >= e.Start && t < e.End {
			out = append(out, e)
		}
	}
	return out
}

// Evaluate resolves the state of every touched mobject at time t. Groups
// are folded in schedule order. Within a group every entry starts from the
// state before the group, and when two entries write the same attribute
// the later one wins. t is clamped at 0; NaN counts as 0.
func (tl *Timeline) Evaluate(t float64, src StateSource) (map[mobject.ID]mobject.State, error) {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}

	states := make(map[mobject.ID]mobject.State)
	for i, e := range tl.entries {
		id := e.Animation.Target
		if _, ok := states[id]; ok {
			continue
		}
		st, err := src.State(id)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w: %w", i, e.Animation.Kind, ErrUnknownTarget, err)
		}
		states[id] = st
	}

	before := make(map[mobject.ID]mobject.State)
	for i := 0; i < len(tl.entries); {
		j := i
		for j < len(tl.entries) && tl.entries[j].Group == tl.entries[i].Group {
			j++
		}
		group := tl.entries[i:j]
		i = j

		// group starts never decrease
		if t < group[0].Start {
			break
		}

		clear(before)
		for _, e := range group {
			id := e.Animation.Target
			if _, ok := before[id]; !ok {
				before[id] = states[id]
			}
		}
		for _, e := range group {
			p, _ := e.Progress(t)
			id := e.Animation.Target
			st := states[id]
			e.Animation.Apply(before[id], p, &st)
			states[id] = st
		}
	}
	return states, nil
}
