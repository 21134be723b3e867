package model

import (
	"time"
)

const (
	SosOpen   = "open"
	SosAcked  = "acked"
	SosClosed = "closed"
)

// SosRecord is an emergency signal from a unit. Open and acked records
// both count as active for status classification.
type SosRecord struct {
	ID        uint   `gorm:"primaryKey"`
	PublicID  string `gorm:"not null;default:'';index"`
	UnitUID   string `gorm:"not null;index"`
	Lat       float64
	Lon       float64
	Status    string `gorm:"not null;default:'open';index"`
	CreatedAt time.Time
	AckedAt   *time.Time
	AckedBy   string `gorm:"not null;default:''"`
	ClosedAt  *time.Time
	ClosedBy  string `gorm:"not null;default:''"`
}

type SosDTO struct {
	PublicID  string     `json:"id"`
	UnitUID   string     `json:"unit_uid"`
	Lat       float64    `json:"lat,omitempty"`
	Lon       float64    `json:"lon,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	AckedAt   *time.Time `json:"acked_at,omitempty"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

func (s *SosRecord) ActiveNow() bool {
	return s != nil && (s.Status == SosOpen || s.Status == SosAcked)
}

func (s *SosRecord) DTO() *SosDTO {
	if s == nil {
		return nil
	}

	return &SosDTO{
		PublicID:  s.PublicID,
		UnitUID:   s.UnitUID,
		Lat:       s.Lat,
		Lon:       s.Lon,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
		AckedAt:   s.AckedAt,
		ClosedAt:  s.ClosedAt,
	}
}
