// Package membership computes group membership deltas.
package membership

import "sort"

// Delta describes the membership changes needed to move a user's current
// group set to a desired group set.
type Delta struct {
	Add    []uint64 // Group ids to attach.
	Remove []uint64 // Group ids to detach.
}

// Empty reports whether the delta carries no changes.
func (d Delta) Empty() bool {
	return len(d.Add) == 0 && len(d.Remove) == 0
}

// Reconcile returns the minimal additions and removals that transform the
// current group id set into the desired one. Duplicate ids in either input
// collapse; both outputs are sorted ascending and disjoint. The function is
// pure: applying the delta once yields exactly the desired set, and
// reconciling again after that yields an empty delta.
func Reconcile(current, desired []uint64) Delta {
	currentSet := toSet(current)
	desiredSet := toSet(desired)

	var delta Delta
	for id := range desiredSet {
		if _, ok := currentSet[id]; !ok {
			delta.Add = append(delta.Add, id)
		}
	}
	for id := range currentSet {
		if _, ok := desiredSet[id]; !ok {
			delta.Remove = append(delta.Remove, id)
		}
	}

	sort.Slice(delta.Add, func(i, j int) bool { return delta.Add[i] < delta.Add[j] })
	sort.Slice(delta.Remove, func(i, j int) bool { return delta.Remove[i] < delta.Remove[j] })
	return delta
}

func toSet(ids []uint64) map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
