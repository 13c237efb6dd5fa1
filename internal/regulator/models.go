// Package regulator provides official beach status (open/advisory/closure)
// from the county health authority, joined to registry beaches by name
// normalization.
package regulator

import (
	"errors"
	"time"

	"github.com/shorecast/shorecast/internal/scoring"
)

// Regulator errors.
var (
	ErrProviderUnavailable = errors.New("regulator provider unavailable")
)

// Entry is one beach status line as published by the regulator. Names are
// free text; the regulator and the registry share no stable identifier.
type Entry struct {
	Name   string
	Status scoring.OfficialStatus

	// Reason is optional free text, e.g. "sewage contamination".
	Reason string

	// SampledAt is the optional timestamp of the last water sample.
	SampledAt *time.Time
}

// Resolution is the outcome of joining the regulator listing to one beach.
type Resolution struct {
	Status scoring.OfficialStatus

	// Matched is the regulator entry name that matched, empty when the
	// beach was absent from the listing (which implies OPEN).
	Matched string

	Reason    string
	SampledAt *time.Time
}
