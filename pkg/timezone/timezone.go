package timezone

import (
	"time"
	// Embed the zone database so lookups work on scratch containers
	// without system tzdata.
	_ "time/tzdata"
)

// IsValid reports whether label names a loadable IANA timezone. UTC and
// fixed offsets resolve too, which is acceptable for a display-only label.
func IsValid(label string) bool {
	if label == "" {
		return false
	}
	_, err := time.LoadLocation(label)
	return err == nil
}

// Names returns the zone labels offered by the timezone picker endpoint.
// The slice is a copy; callers may reorder it freely.
func Names() []string {
	out := make([]string, len(zoneNames))
	copy(out, zoneNames)
	return out
}
