package session

import (
	"slices"

	"github.com/starford/paprika/pkg/paprika"
)

// Changed compares a remote listing with known uid to hash pairs. It returns
// the entries that are unknown or carry a different hash, in listing order,
// and the sorted known uids that are missing from the listing.
func Changed(remote []paprika.RecipeEntry, known map[string]string) ([]paprika.RecipeEntry, []string) {
	listed := make(map[string]struct{}, len(remote))
	changed := []paprika.RecipeEntry{}
	for _, e := range remote {
		listed[e.UID] = struct{}{}
		if h, ok := known[e.UID]; ok && h == e.Hash {
			continue
		}
		changed = append(changed, e)
	}

	removed := []string{}
	for uid := range known {
		if _, ok := listed[uid]; !ok {
			removed = append(removed, uid)
		}
	}
	slices.Sort(removed)
	return changed, removed
}
