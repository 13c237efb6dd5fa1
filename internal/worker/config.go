// Package worker provides background cache refresh for ShoreCast.
package worker

import (
	"time"

	"github.com/shorecast/shorecast/internal/beach"
)

// RefreshTarget represents a stretch of coastline to refresh.
type RefreshTarget struct {
	// Name is the human-readable name of the target.
	Name string

	// Points are the lat/lon coordinates to refresh, typically the
	// registry coordinates of the beaches on that stretch.
	Points []Point

	// Priority determines refresh order (lower = higher priority).
	Priority int
}

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// RefreshConfig holds configuration for the cache refresh job.
type RefreshConfig struct {
	// Targets are the coastline stretches to refresh.
	// If empty, uses DefaultRefreshTargets.
	Targets []RefreshTarget

	// Concurrency is the number of concurrent refresh operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each refresh operation.
	// Default: 30 seconds
	Timeout time.Duration

	// RefreshMarine enables marine forecast refresh.
	// Default: true
	RefreshMarine bool

	// RefreshTides enables tide station refresh.
	// Default: true
	RefreshTides bool

	// RefreshRegulator enables regulator status refresh.
	// Default: true
	RefreshRegulator bool
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Targets:          DefaultRefreshTargets(),
		Concurrency:      3,
		Timeout:          30 * time.Second,
		RefreshMarine:    true,
		RefreshTides:     true,
		RefreshRegulator: true,
	}
}

// DefaultRefreshTargets returns the default refresh targets derived from
// the beach registry. South-bay beaches refresh first; they sit closest to
// the Tijuana River outflow and their status changes most often.
func DefaultRefreshTargets() []RefreshTarget {
	var southBay, north []Point
	for _, b := range beach.DefaultRegistry() {
		p := Point{Lat: b.Lat, Lon: b.Lon}
		if b.SouthBay {
			southBay = append(southBay, p)
		} else {
			north = append(north, p)
		}
	}

	return []RefreshTarget{
		{Name: "South Bay", Priority: 1, Points: southBay},
		{Name: "San Diego North", Priority: 2, Points: north},
	}
}

// AllPoints returns all points from all targets, ordered by priority.
func (c RefreshConfig) AllPoints() []Point {
	var points []Point
	for _, target := range c.Targets {
		points = append(points, target.Points...)
	}
	return points
}

// TotalPoints returns the total number of points to refresh.
func (c RefreshConfig) TotalPoints() int {
	total := 0
	for _, target := range c.Targets {
		total += len(target.Points)
	}
	return total
}
