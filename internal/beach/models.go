// Package beach provides the beach registry: immutable reference data for
// every beach ShoreCast knows about, and resolution by id or coordinate.
package beach

import "errors"

// Registry errors.
var (
	ErrBeachNotFound      = errors.New("beach not found")
	ErrEmptyRegistry      = errors.New("beach registry is empty")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Beach is immutable reference data for a single beach. Loaded once per
// registry fetch and never mutated by the composition engine.
type Beach struct {
	ID     int
	Name   string
	Lat    float64
	Lon    float64
	Agency string

	// GeomID is the short geometry identifier understood by the forecast
	// grid inference service (e.g. "IB", "LJS").
	GeomID string

	// SouthBay marks beaches on the south-bay allow-list for transboundary
	// sewage flagging.
	SouthBay bool
}
