// Package backfill repairs historical data in place: pinning exercises to the
// front of workouts and routine days, filling in empty sets, guessing muscle
// links and importing routine documents.
package backfill

import (
	"alcyxob/workout-tracker/internal/sequence"
)

// Entry is the part of a workout or routine entry a plan needs.
type Entry struct {
	ID         int64
	ExerciseID int64
	Sequence   int
}

// Insert asks for a new entry for ExerciseID at Sequence.
type Insert struct {
	ExerciseID int64
	Sequence   int
}

// Plan is the set of writes that puts the pinned exercises first.
type Plan struct {
	Moves   []sequence.Assignment
	Inserts []Insert
}

// Empty reports whether applying the plan would change nothing.
func (p Plan) Empty() bool {
	return len(p.Moves) == 0 && len(p.Inserts) == 0
}

// PrependPinned plans sequences so that pinned[i] sits at i+1 and every other
// entry follows from len(pinned)+1 in its current order. Only the first entry
// of each pinned exercise is pinned; later duplicates count as ordinary
// entries. Pinned exercises with no entry become inserts. Entries must be in
// sequence order.
func PrependPinned(entries []Entry, pinned []int64) Plan {
	var plan Plan
	taken := make(map[int64]bool, len(pinned))
	first := make(map[int64]Entry, len(pinned))
	for _, e := range entries {
		for _, p := range pinned {
			if e.ExerciseID == p && !taken[p] {
				taken[p] = true
				first[p] = e
			}
		}
	}

	for i, p := range pinned {
		e, ok := first[p]
		if !ok {
			plan.Inserts = append(plan.Inserts, Insert{ExerciseID: p, Sequence: i + 1})
			continue
		}
		if e.Sequence != i+1 {
			plan.Moves = append(plan.Moves, sequence.Assignment{ID: e.ID, Sequence: i + 1})
		}
	}

	next := len(pinned) + 1
	for _, e := range entries {
		if f, ok := first[e.ExerciseID]; ok && f.ID == e.ID {
			continue
		}
		if e.Sequence != next {
			plan.Moves = append(plan.Moves, sequence.Assignment{ID: e.ID, Sequence: next})
		}
		next++
	}
	return plan
}
