package model

import (
	"time"
)

// Event types accepted on the feed. Position and health carry a payload,
// the rest are flag flips keyed by device.
const (
	EventPosition   = "position"
	EventHealth     = "health"
	EventHeartbeat  = "heartbeat"
	EventTracking   = "tracking"
	EventSos        = "sos"
	EventShiftStart = "shift_start"
	EventShiftEnd   = "shift_end"
)

// Event is one feed message from a tracker device.
type Event struct {
	Type     string    `json:"type"`
	DeviceID string    `json:"device_id"`
	Time     time.Time `json:"ts"`
	Position *Position `json:"position,omitempty"`
	Health   *Health   `json:"health,omitempty"`
	Active   *bool     `json:"active,omitempty"`
}

func (e *Event) GetType() string {
	if e == nil {
		return ""
	}

	return e.Type
}

func (e *Event) GetDeviceID() string {
	if e == nil {
		return ""
	}

	return e.DeviceID
}

// GetTime falls back to now for feeds that do not timestamp flag events.
func (e *Event) GetTime() time.Time {
	if e == nil || e.Time.IsZero() {
		return time.Now()
	}

	return e.Time
}

// IsActive reads the flag payload, defaulting to true.
func (e *Event) IsActive() bool {
	return e == nil || e.Active == nil || *e.Active
}
