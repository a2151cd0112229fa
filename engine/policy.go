package engine

// MaintenancePolicy controls when per-album group indexes are constructed.
//
// Under both policies the all-images index and the per-album membership
// bitmaps are maintained on every write, and an album index that exists is
// kept current by every subsequent write. The policies differ only in when
// an album index comes into existence.
type MaintenancePolicy int

const (
	// MaintenanceEager creates an album's index at the first write touching
	// that album, so every write pays for all affected partitions up front
	// and every query is a pure read.
	MaintenanceEager MaintenancePolicy = iota

	// MaintenanceLazy defers an album's index to the first query naming that
	// album. The index is then built from the album's membership bitmap and
	// sorted once, after which writes keep it current like any other index.
	// Albums that are written but never queried stay index-free.
	MaintenanceLazy
)

// String returns the policy name.
func (p MaintenancePolicy) String() string {
	switch p {
	case MaintenanceEager:
		return "eager"
	case MaintenanceLazy:
		return "lazy"
	default:
		return "unknown"
	}
}
