// Package engine implements the incremental ordered-index engine behind a
// gallery: an append-only record store, one sorted group index per partition
// (the all-images sentinel plus one per album), and a pagination path that
// answers any page of any partition in O(k) for page size k.
//
// Sorting cost is amortized into insertion. A single insert locates its slot
// by binary search on the ordering key (timestamp, sequence number); a batch
// insert sorts the new keys once per affected partition and merges them into
// the existing run in one linear pass. Queries never sort and never scan the
// full record table.
//
// The whole structure (record store plus every group index) is guarded by one
// RWMutex as a single unit: writers are exclusive, queries shared. A partial
// update would break the per-partition invariant, so there is no finer
// locking.
package engine
