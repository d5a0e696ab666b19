package track

import (
	"slices"
	"sort"
)

// GroupByIndividual splits a dataset into per-individual trajectories ordered
// by individual id. Fixes within a trajectory are sorted by timestamp; fixes
// sharing a timestamp keep their input order. The input slice is not
// reordered.
func GroupByIndividual(fixes []Fix) []Trajectory {
	byID := make(map[string][]Fix)
	for _, f := range fixes {
		byID[f.IndividualID] = append(byID[f.IndividualID], f)
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	trajectories := make([]Trajectory, 0, len(ids))
	for _, id := range ids {
		group := byID[id]
		SortByTime(group)
		trajectories = append(trajectories, Trajectory{IndividualID: id, Fixes: group})
	}
	return trajectories
}

// SortByTime sorts fixes ascending by timestamp in place, keeping the relative
// order of equal timestamps
func SortByTime(fixes []Fix) {
	slices.SortStableFunc(fixes, func(a, b Fix) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}

// Individuals returns the distinct individual ids of a dataset in sorted order
func Individuals(fixes []Fix) []string {
	seen := make(map[string]struct{})
	for _, f := range fixes {
		seen[f.IndividualID] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
