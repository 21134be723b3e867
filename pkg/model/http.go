package model

import (
	"time"
)

// WebUnit is the wire form of a unit for the map and the list. The
// status block (Status/Color/Rank and alert counters) is filled in by the
// caller from one classifier pass, never recomputed per consumer.
type WebUnit struct {
	UID      string `json:"uid"`
	Callsign string `json:"callsign"`
	Team     string `json:"team,omitempty"`
	DeviceID string `json:"device_id,omitempty"`

	Lat        float64    `json:"lat,omitempty"`
	Lon        float64    `json:"lon,omitempty"`
	Accuracy   *float64   `json:"accuracy_m,omitempty"`
	Source     string     `json:"source,omitempty"`
	Confidence *float64   `json:"confidence,omitempty"`
	PositionAt *time.Time `json:"position_at,omitempty"`

	TrackingActive bool       `json:"tracking_active"`
	Revoked        bool       `json:"revoked"`
	SosActive      bool       `json:"sos_active"`
	Stale          bool       `json:"stale"`
	LastHeartbeat  *time.Time `json:"last_heartbeat,omitempty"`
	StartTime      time.Time  `json:"start_time"`

	Status      string   `json:"status"`
	Color       string   `json:"color"`
	Rank        int      `json:"rank"`
	AlertCount  int      `json:"alert_count"`
	CritCount   int      `json:"crit_count"`
	AlertKinds  []string `json:"alert_kinds,omitempty"`
	HasProblems bool     `json:"has_problems"`
}

func (u *Unit) ToWeb() *WebUnit {
	if u == nil {
		return nil
	}

	u.mx.RLock()
	defer u.mx.RUnlock()

	w := &WebUnit{
		UID:            u.uid,
		Callsign:       u.callsign,
		Team:           u.team,
		DeviceID:       u.deviceID,
		TrackingActive: u.trackingActive,
		Revoked:        u.revoked,
		SosActive:      u.sosActive,
		StartTime:      u.startTime,
	}

	if p := u.position; p != nil {
		w.Lat = p.Lat
		w.Lon = p.Lon
		w.Accuracy = p.Accuracy
		w.Source = p.Source
		w.Confidence = p.Confidence
		t := p.Time
		w.PositionAt = &t
	}

	if !u.lastHeartbeat.IsZero() {
		t := u.lastHeartbeat
		w.LastHeartbeat = &t
	}

	return w
}
