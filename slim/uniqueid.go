package slim

import "sync/atomic"

// idCounter hands out monotonically increasing identifiers for
// mutations and genomes in allocation order, the property the dump/load
// format and the substitution registry both rely on (§6, §9). The
// teacher's fast unique-id path (uniqueid_fast.go) derives an object's
// identity from its address for speed; here identity instead needs to
// be a stable, serializable integer that survives a dump/load
// round-trip, so a simple atomic counter plays the teacher's role
// without the unsafe pointer cast.
var idCounter uint64

// nextID returns the next globally unique, monotonically increasing id.
func nextID() int64 {
	return int64(atomic.AddUint64(&idCounter, 1))
}

// resetIDCounterAfter is used by LoadPopulation to resume id allocation after
// the highest id present in a loaded dump, so freshly created mutations
// in a resumed run never collide with ids already on disk.
func resetIDCounterAfter(maxSeen int64) {
	for {
		cur := atomic.LoadUint64(&idCounter)
		if int64(cur) >= maxSeen {
			return
		}
		if atomic.CompareAndSwapUint64(&idCounter, cur, uint64(maxSeen)) {
			return
		}
	}
}
