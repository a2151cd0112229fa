package engine

// mergeSorted merges two ascending runs into one ascending run containing
// exactly the union of their elements. The merge is stable: on equal keys the
// element from a is taken first, and relative order within each input run is
// preserved. Key uniqueness means equal keys cannot actually occur here, but
// the algorithm does not rely on that.
func mergeSorted(a, b []orderKey) []orderKey {
	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return append([]orderKey(nil), b...)
	}

	merged := make([]orderKey, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if compareKeys(a[i], b[j]) <= 0 {
			merged = append(merged, a[i])
			i++
		} else {
			merged = append(merged, b[j])
			j++
		}
	}
	merged = append(merged, a[i:]...)
	merged = append(merged, b[j:]...)
	return merged
}
