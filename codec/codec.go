// Package codec centralizes snapshot payload encoding.
//
// Codec selection is a compatibility boundary: snapshots record the codec
// name in their header, and an existing snapshot is always decoded with the
// codec it was written with.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Default is the codec used when none is configured.
//
// This affects newly written snapshots only; existing snapshots are
// self-describing and are opened by selecting their codec by name.
var Default Codec = GoJSON{}
