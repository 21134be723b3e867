package model

import (
	"time"
)

const (
	SeverityWarn = "warn"
	SeverityCrit = "crit"
)

// Alert kinds produced by the checker. Alerts are closed, never deleted.
const (
	AlertStalePoints = "stale_points"
	AlertStaleHealth = "stale_health"
	AlertBatteryLow  = "battery_low"
	AlertQueue       = "queue_growing"
	AlertGpsOff      = "gps_off"
	AlertNetOffline  = "net_offline"
	AlertLowAccuracy = "low_accuracy"
	AlertAppError    = "app_error"
	AlertTrackingOff = "tracking_off"
)

type Alert struct {
	ID        uint           `gorm:"primaryKey"`
	PublicID  string         `gorm:"not null;default:'';index"`
	DeviceID  string         `gorm:"not null;default:'';index"`
	UnitUID   string         `gorm:"not null;default:'';index"`
	Kind      string         `gorm:"not null"`
	Severity  string         `gorm:"not null"`
	Message   string         `gorm:"not null;default:''"`
	Payload   map[string]any `gorm:"serializer:json"`
	IsActive  bool           `gorm:"not null;default:true;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
	AckedAt   *time.Time
	AckedBy   string `gorm:"not null;default:''"`
	ClosedAt  *time.Time
	ClosedBy  string `gorm:"not null;default:''"`
}

type AlertDTO struct {
	PublicID  string         `json:"id"`
	DeviceID  string         `json:"device_id,omitempty"`
	UnitUID   string         `json:"unit_uid,omitempty"`
	Kind      string         `json:"kind"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	AckedAt   *time.Time     `json:"acked_at,omitempty"`
	ClosedAt  *time.Time     `json:"closed_at,omitempty"`
}

func (a *Alert) GetSeverity() string {
	if a == nil {
		return ""
	}

	return a.Severity
}

func (a *Alert) GetKind() string {
	if a == nil {
		return ""
	}

	return a.Kind
}

func (a *Alert) Active() bool {
	return a != nil && a.IsActive
}

func (a *Alert) DTO() *AlertDTO {
	if a == nil {
		return nil
	}

	return &AlertDTO{
		PublicID:  a.PublicID,
		DeviceID:  a.DeviceID,
		UnitUID:   a.UnitUID,
		Kind:      a.Kind,
		Severity:  a.Severity,
		Message:   a.Message,
		Payload:   a.Payload,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
		AckedAt:   a.AckedAt,
		ClosedAt:  a.ClosedAt,
	}
}
