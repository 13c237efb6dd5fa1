// Package tide provides tide predictions and water temperature from coastal
// observation stations.
package tide

import (
	"errors"
	"time"
)

// Tide errors.
var (
	ErrProviderUnavailable = errors.New("tide provider unavailable")
	ErrNoStation           = errors.New("no tide station available")
)

// EventType distinguishes high and low tide events.
type EventType string

const (
	EventHigh EventType = "HIGH"
	EventLow  EventType = "LOW"
)

// State is the tide direction derived from upcoming events.
type State string

const (
	StateFlood   State = "FLOOD" // rising toward the next high
	StateEbb     State = "EBB"   // falling toward the next low
	StateUnknown State = "UNKNOWN"
)

// halfCycle approximates the semidiurnal high-to-low interval, used when no
// preceding event is known.
const halfCycle = 6*time.Hour + 12*time.Minute

// Event is one predicted high or low tide.
type Event struct {
	Type    EventType
	Time    time.Time
	HeightM float64
}

// StationData is the tide bundle for one observation station.
type StationData struct {
	StationID string

	// WaterTempC is the latest observed water temperature; nil when the
	// station does not report one.
	WaterTempC  *float64
	WaterTempAt *time.Time

	// Events is the ordered list of upcoming high/low events, at most ten.
	Events []Event

	FetchedAt time.Time
}

// StateAt derives the tide state at the given instant from the next
// upcoming event: the water is rising before a high and falling before a
// low.
func (d *StationData) StateAt(now time.Time) State {
	for _, e := range d.Events {
		if e.Time.After(now) {
			if e.Type == EventHigh {
				return StateFlood
			}
			return StateEbb
		}
	}
	return StateUnknown
}

// NextEvent returns the first event after now, or nil.
func (d *StationData) NextEvent(now time.Time) *Event {
	for i := range d.Events {
		if d.Events[i].Time.After(now) {
			return &d.Events[i]
		}
	}
	return nil
}

// PhaseAt maps the tide cycle onto [-1, 1] for the forecast grid inference
// service: positive while flooding, negative while ebbing, with magnitude
// equal to the fraction of the half-cycle already elapsed. Returns 0 when
// no upcoming event is known.
func (d *StationData) PhaseAt(now time.Time) float64 {
	next := d.NextEvent(now)
	if next == nil {
		return 0
	}

	// Preceding event bounds the current interval; approximate with the
	// semidiurnal half-cycle when it precedes the prediction window.
	prev := next.Time.Add(-halfCycle)
	for _, e := range d.Events {
		if !e.Time.After(now) {
			prev = e.Time
		}
	}

	interval := next.Time.Sub(prev)
	if interval <= 0 {
		return 0
	}

	frac := float64(now.Sub(prev)) / float64(interval)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	if next.Type == EventHigh {
		return frac
	}
	return -frac
}
