package model

import (
	"math"
	"strings"
	"time"
)

// Health is the last reported device health block.
type Health struct {
	BatteryPct *int      `json:"battery_pct,omitempty"`
	IsCharging *bool     `json:"is_charging,omitempty"`
	Net        string    `json:"net,omitempty"`
	GPS        string    `json:"gps,omitempty"`
	QueueSize  *int      `json:"queue_size,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
	TrackingOn *bool     `json:"tracking_on,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (h *Health) GetBattery() (int, bool) {
	if h == nil || h.BatteryPct == nil {
		return 0, false
	}

	return *h.BatteryPct, true
}

func (h *Health) Charging() bool {
	return h != nil && h.IsCharging != nil && *h.IsCharging
}

func (h *Health) GetNet() string {
	if h == nil {
		return ""
	}

	return strings.ToLower(strings.TrimSpace(h.Net))
}

func (h *Health) GetGPS() string {
	if h == nil {
		return ""
	}

	return strings.ToLower(strings.TrimSpace(h.GPS))
}

func (h *Health) GetQueueSize() (int, bool) {
	if h == nil || h.QueueSize == nil {
		return 0, false
	}

	return *h.QueueSize, true
}

func (h *Health) GetLastError() string {
	if h == nil {
		return ""
	}

	return strings.TrimSpace(h.LastError)
}

// TrackingStopped is true only when the device explicitly reported
// tracking_on=false, not when the flag is simply missing.
func (h *Health) TrackingStopped() bool {
	return h != nil && h.TrackingOn != nil && !*h.TrackingOn
}

func (h *Health) Age(now time.Time) time.Duration {
	if h == nil || h.UpdatedAt.IsZero() {
		return time.Duration(math.MaxInt64)
	}

	return now.Sub(h.UpdatedAt)
}
