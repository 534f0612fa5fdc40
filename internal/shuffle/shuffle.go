// Package shuffle orders identifiers pseudo-randomly, reproducibly per seed.
package shuffle

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Key returns the ordering key of id under seed.
func Key(seed, id string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(seed)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(id)
	return d.Sum64()
}

// Sort orders ids in place by descending Key(seed, id); ties break by id.
func Sort(seed string, ids []string) {
	keys := make(map[string]uint64, len(ids))
	for _, id := range ids {
		keys[id] = Key(seed, id)
	}
	sort.SliceStable(ids, func(i, j int) bool {
		ki, kj := keys[ids[i]], keys[ids[j]]
		if ki != kj {
			return ki > kj
		}
		return ids[i] < ids[j]
	})
}

// Window returns ids[skip:skip+take], clamped to the slice bounds.
func Window(ids []string, skip, take int) []string {
	if skip >= len(ids) || take <= 0 {
		return nil
	}
	end := skip + take
	if end > len(ids) {
		end = len(ids)
	}
	return ids[skip:end]
}
