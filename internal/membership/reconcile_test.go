package membership

import (
	"reflect"
	"testing"
)

func TestReconcileDisjointSets(t *testing.T) {
	t.Parallel()

	delta := Reconcile([]uint64{1, 2}, []uint64{2, 3})
	if !reflect.DeepEqual(delta.Add, []uint64{3}) {
		t.Fatalf("add = %v, want [3]", delta.Add)
	}
	if !reflect.DeepEqual(delta.Remove, []uint64{1}) {
		t.Fatalf("remove = %v, want [1]", delta.Remove)
	}
}

func TestReconcileEmptyDesiredRemovesAll(t *testing.T) {
	t.Parallel()

	delta := Reconcile([]uint64{4, 7, 9}, nil)
	if len(delta.Add) != 0 {
		t.Fatalf("add = %v, want empty", delta.Add)
	}
	if !reflect.DeepEqual(delta.Remove, []uint64{4, 7, 9}) {
		t.Fatalf("remove = %v, want [4 7 9]", delta.Remove)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	t.Parallel()

	delta := Reconcile([]uint64{5, 6}, []uint64{5, 6})
	if !delta.Empty() {
		t.Fatalf("delta = %+v, want empty", delta)
	}
}

func TestReconcileCollapsesDuplicates(t *testing.T) {
	t.Parallel()

	delta := Reconcile([]uint64{1, 1, 2}, []uint64{2, 2, 3, 3})
	if !reflect.DeepEqual(delta.Add, []uint64{3}) {
		t.Fatalf("add = %v, want [3]", delta.Add)
	}
	if !reflect.DeepEqual(delta.Remove, []uint64{1}) {
		t.Fatalf("remove = %v, want [1]", delta.Remove)
	}
}

// Applying the delta to the current set must always yield exactly the
// desired set, for arbitrary overlapping inputs.
func TestReconcileApplyYieldsDesired(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		current []uint64
		desired []uint64
	}{
		{"disjoint", []uint64{1, 2}, []uint64{3, 4}},
		{"overlap", []uint64{1, 2, 3}, []uint64{2, 3, 4}},
		{"subset", []uint64{1, 2, 3}, []uint64{2}},
		{"superset", []uint64{2}, []uint64{1, 2, 3}},
		{"both empty", nil, nil},
		{"current empty", nil, []uint64{10, 20}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			delta := Reconcile(tc.current, tc.desired)

			result := map[uint64]struct{}{}
			for _, id := range tc.current {
				result[id] = struct{}{}
			}
			for _, id := range delta.Add {
				if _, ok := result[id]; ok {
					t.Fatalf("add contains already-present id %d", id)
				}
				result[id] = struct{}{}
			}
			for _, id := range delta.Remove {
				if _, ok := result[id]; !ok {
					t.Fatalf("remove contains absent id %d", id)
				}
				delete(result, id)
			}

			want := map[uint64]struct{}{}
			for _, id := range tc.desired {
				want[id] = struct{}{}
			}
			if !reflect.DeepEqual(result, want) {
				t.Fatalf("applied set = %v, want %v", result, want)
			}
		})
	}
}
