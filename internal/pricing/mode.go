package pricing

import (
	"fmt"
	"strings"
)

// TransportMode identifies how cargo moves on a trade lane.
type TransportMode string

const (
	ModeAir  TransportMode = "AIR"
	ModeRoad TransportMode = "ROAD"
	ModeSea  TransportMode = "SEA"
	ModeRail TransportMode = "RAIL"
)

// Modes lists every supported transport mode.
var Modes = []TransportMode{ModeAir, ModeRoad, ModeSea, ModeRail}

// ParseTransportMode parses a raw mode value, case-insensitively.
func ParseTransportMode(raw string) (TransportMode, error) {
	mode := TransportMode(strings.ToUpper(strings.TrimSpace(raw)))
	switch mode {
	case ModeAir, ModeRoad, ModeSea, ModeRail:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMode, raw)
	}
}

// VolumetricRatio returns the kg-equivalent of one cubic meter for the mode.
// SEA is 1: the figure stays in cubic meters and is compared against tonnes,
// not kilograms (see ResolveTaxableMass).
func (m TransportMode) VolumetricRatio() (float64, error) {
	switch m {
	case ModeAir:
		return 167, nil
	case ModeRoad:
		return 333, nil
	case ModeRail:
		return 250, nil
	case ModeSea:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMode, string(m))
	}
}

// Priority is the service level requested for a shipment.
type Priority string

const (
	PriorityStandard Priority = "STANDARD"
	PriorityNormal   Priority = "NORMAL"
	PriorityUrgent   Priority = "URGENT"
)

// Priorities lists every supported service level.
var Priorities = []Priority{PriorityStandard, PriorityNormal, PriorityUrgent}

// ParsePriority parses a raw priority value. An empty value defaults to
// STANDARD.
func ParsePriority(raw string) (Priority, error) {
	priority := Priority(strings.ToUpper(strings.TrimSpace(raw)))
	switch priority {
	case "":
		return PriorityStandard, nil
	case PriorityStandard, PriorityNormal, PriorityUrgent:
		return priority, nil
	default:
		return "", fmt.Errorf("unknown priority %q", raw)
	}
}

// Coefficient returns the multiplier applied to the base cost. The zero
// value behaves as STANDARD.
func (p Priority) Coefficient() float64 {
	switch p {
	case PriorityNormal:
		return 1.1
	case PriorityUrgent:
		return 1.3
	default:
		return 1.0
	}
}

// NormalizeCountryCode trims and uppercases a 2-letter country code.
func NormalizeCountryCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
