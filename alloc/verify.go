package alloc

import (
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/topicmap/model"
)

// VerifyDisjoint checks that no topic ID is produced twice across the named
// entry sets. Sets are visited in name order so the reported conflict is
// deterministic.
func VerifyDisjoint(sets map[string][]Entry) error {
	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	slices.Sort(names)

	seen := roaring.New()
	for i, name := range names {
		for _, e := range sets[name] {
			if !seen.CheckedAdd(uint32(e.ID)) {
				return fmt.Errorf("%w: %d used by %s and %s", ErrAliasedID, e.ID, ownerOf(sets, names[:i+1], e.ID), name)
			}
		}
	}
	return nil
}

func ownerOf(sets map[string][]Entry, names []string, id model.TopicID) string {
	for _, name := range names {
		for _, e := range sets[name] {
			if e.ID == id {
				return name
			}
		}
	}
	return "?"
}
