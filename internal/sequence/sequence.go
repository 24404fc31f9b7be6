// Package sequence holds the ordering rules shared by workout and routine
// entries: superset grouping, reorder plans, append positions and compaction.
package sequence

import (
	"encoding/json"
)

// Block is either a standalone entry (GroupName empty, one member) or a
// superset: a maximal run of adjacent entries sharing a group name.
type Block[T any] struct {
	GroupName string
	Members   []T
}

// IsSuperset reports whether the block folds a tagged run.
func (b Block[T]) IsSuperset() bool {
	return b.GroupName != ""
}

// MarshalJSON renders standalone entries as the entry itself and supersets as
// {"group_name": ..., "superset": [...]}.
func (b Block[T]) MarshalJSON() ([]byte, error) {
	if !b.IsSuperset() {
		if len(b.Members) == 0 {
			return []byte("null"), nil
		}
		return json.Marshal(b.Members[0])
	}
	return json.Marshal(struct {
		GroupName string `json:"group_name"`
		Superset  []T    `json:"superset"`
	}{b.GroupName, b.Members})
}

// GroupName dereferences an optional group tag, treating nil and "" alike.
func GroupName(tag *string) string {
	if tag == nil {
		return ""
	}
	return *tag
}

// Group folds items, already in sequence order, into blocks. Only adjacent
// items with the same non-empty group name share a block; an untagged item or
// a different tag ends the current run.
func Group[T any](items []T, groupOf func(T) string) []Block[T] {
	blocks := make([]Block[T], 0, len(items))
	for _, item := range items {
		name := groupOf(item)
		if name == "" {
			blocks = append(blocks, Block[T]{Members: []T{item}})
			continue
		}
		if n := len(blocks); n > 0 && blocks[n-1].GroupName == name {
			blocks[n-1].Members = append(blocks[n-1].Members, item)
			continue
		}
		blocks = append(blocks, Block[T]{GroupName: name, Members: []T{item}})
	}
	return blocks
}

// Assignment is one sequence write.
type Assignment struct {
	ID       int64
	Sequence int
}

// Reorder maps the caller's ordered ids onto sequence = position+1, dropping
// ids for which belongs is false. Dropped ids keep their slot number so the
// remaining positions match what the caller sent.
func Reorder(ids []int64, belongs func(int64) bool) []Assignment {
	plan := make([]Assignment, 0, len(ids))
	for i, id := range ids {
		if !belongs(id) {
			continue
		}
		plan = append(plan, Assignment{ID: id, Sequence: i + 1})
	}
	return plan
}

// Next returns the append position after the current maximum.
func Next(max int) int {
	if max < 0 {
		return 1
	}
	return max + 1
}

// Compact renumbers ids, given in their current order, to 1..n and returns
// only the assignments that change something.
func Compact(ids []int64, current func(int64) int) []Assignment {
	var plan []Assignment
	for i, id := range ids {
		if current(id) != i+1 {
			plan = append(plan, Assignment{ID: id, Sequence: i + 1})
		}
	}
	return plan
}
