// Package report provides community incident reports and the aggregator
// that turns raw reports into a calibrated alert level.
package report

import (
	"errors"
	"time"
)

// Report errors.
var (
	ErrReportNotFound = errors.New("report not found")
	ErrInvalidReport  = errors.New("invalid report")
)

// Type is the category of a community report.
type Type string

const (
	TypeOdor   Type = "ODOR"
	TypeDebris Type = "DEBRIS"
)

// AlertLevel is the calibrated community alert level.
type AlertLevel string

const (
	LevelNone     AlertLevel = "NONE"
	LevelMinor    AlertLevel = "MINOR"
	LevelModerate AlertLevel = "MODERATE"
	LevelStrong   AlertLevel = "STRONG"
)

// Report is a crowd-sourced incident report. Reports are created by public
// submission, mutated once by a moderation action, and only read here.
type Report struct {
	ID      string
	BeachID int
	Type    Type

	// Severity is 1-3, mildest to worst.
	Severity int

	Lat float64
	Lon float64

	Moderated bool
	Approved  bool

	CreatedAt time.Time
}

// Eligible reports whether a report participates in aggregation: only
// moderated and approved reports count.
func (r *Report) Eligible() bool {
	return r.Moderated && r.Approved
}

// WindowCounts holds per-type report counts for one trailing window.
type WindowCounts struct {
	Odor   int
	Debris int
}

// Total returns the combined count across types.
func (c WindowCounts) Total() int {
	return c.Odor + c.Debris
}

// Summary is the derived community signal for one beach. Recomputed on
// every request; never persisted.
type Summary struct {
	Level AlertLevel

	// DominantType is nil when no reports contributed.
	DominantType *Type

	Last2h  WindowCounts
	Last24h WindowCounts

	// Why holds human-readable explanations, one per non-zero window.
	Why []string
}

// Score maps the alert level onto [0,1] for the forecast grid inference
// service's community feature.
func (s *Summary) Score() float64 {
	switch s.Level {
	case LevelStrong:
		return 1.0
	case LevelModerate:
		return 0.66
	case LevelMinor:
		return 0.33
	default:
		return 0
	}
}
