package model

import (
	"time"
)

// Device is one registry entry: a tracker device paired with a unit.
// The registry file is the source of truth for revocation.
type Device struct {
	DeviceID string `yaml:"device_id"`
	UnitUID  string `yaml:"unit_uid,omitempty"`
	Callsign string `yaml:"callsign,omitempty"`
	Team     string `yaml:"team,omitempty"`
	Revoked  bool   `yaml:"revoked,omitempty"`
}

type DeviceDTO struct {
	DeviceID string     `json:"device_id"`
	UnitUID  string     `json:"unit_uid,omitempty"`
	Callsign string     `json:"callsign,omitempty"`
	Team     string     `json:"team,omitempty"`
	Revoked  bool       `json:"revoked"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

func (d *Device) GetDeviceID() string {
	if d == nil {
		return ""
	}

	return d.DeviceID
}

func (d *Device) IsRevoked() bool {
	return d != nil && d.Revoked
}

func (d *Device) DTO() *DeviceDTO {
	if d == nil {
		return nil
	}

	return &DeviceDTO{
		DeviceID: d.DeviceID,
		UnitUID:  d.UnitUID,
		Callsign: d.Callsign,
		Team:     d.Team,
		Revoked:  d.Revoked,
	}
}
