package model

import (
	"time"
)

type Milestone string

const (
	MilestoneAccepted Milestone = "accepted"
	MilestoneEnroute  Milestone = "enroute"
	MilestoneOnScene  Milestone = "on_scene"
	MilestoneResolved Milestone = "resolved"
	MilestoneClosed   Milestone = "closed"
)

// Milestones in progression order, assigned excluded (it is always set).
var MilestoneOrder = []Milestone{
	MilestoneAccepted, MilestoneEnroute, MilestoneOnScene, MilestoneResolved, MilestoneClosed,
}

type Incident struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"not null;default:''"`
	Status    string `gorm:"not null;default:'open'"`
	Lat       float64
	Lon       float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Assignment pairs a unit with an incident. Milestone timestamps are set
// at most once and never move backward.
type Assignment struct {
	ID         uint      `gorm:"primaryKey"`
	IncidentID uint      `gorm:"not null;index"`
	UnitUID    string    `gorm:"not null;index"`
	AssignedAt time.Time `gorm:"not null"`
	AcceptedAt *time.Time
	EnrouteAt  *time.Time
	OnSceneAt  *time.Time
	ResolvedAt *time.Time
	ClosedAt   *time.Time
}

type AssignmentDTO struct {
	ID         uint       `json:"id"`
	IncidentID uint       `json:"incident_id"`
	UnitUID    string     `json:"unit_uid"`
	AssignedAt time.Time  `json:"assigned_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	EnrouteAt  *time.Time `json:"enroute_at,omitempty"`
	OnSceneAt  *time.Time `json:"on_scene_at,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`

	AcceptBreach  bool `json:"sla_accept_breach"`
	EnrouteBreach bool `json:"sla_enroute_breach"`
	OnSceneBreach bool `json:"sla_onscene_breach"`
}

type IncidentDTO struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Lat       float64   `json:"lat,omitempty"`
	Lon       float64   `json:"lon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Get returns the timestamp for a milestone, nil if not reached.
func (a *Assignment) Get(m Milestone) *time.Time {
	if a == nil {
		return nil
	}

	switch m {
	case MilestoneAccepted:
		return a.AcceptedAt
	case MilestoneEnroute:
		return a.EnrouteAt
	case MilestoneOnScene:
		return a.OnSceneAt
	case MilestoneResolved:
		return a.ResolvedAt
	case MilestoneClosed:
		return a.ClosedAt
	}

	return nil
}

// Set stores a milestone timestamp unconditionally. Invariant checks
// (idempotency, clamping) live in the SLA tracker.
func (a *Assignment) Set(m Milestone, t time.Time) {
	switch m {
	case MilestoneAccepted:
		a.AcceptedAt = &t
	case MilestoneEnroute:
		a.EnrouteAt = &t
	case MilestoneOnScene:
		a.OnSceneAt = &t
	case MilestoneResolved:
		a.ResolvedAt = &t
	case MilestoneClosed:
		a.ClosedAt = &t
	}
}

func (a *Assignment) DTO() *AssignmentDTO {
	if a == nil {
		return nil
	}

	return &AssignmentDTO{
		ID:         a.ID,
		IncidentID: a.IncidentID,
		UnitUID:    a.UnitUID,
		AssignedAt: a.AssignedAt,
		AcceptedAt: a.AcceptedAt,
		EnrouteAt:  a.EnrouteAt,
		OnSceneAt:  a.OnSceneAt,
		ResolvedAt: a.ResolvedAt,
		ClosedAt:   a.ClosedAt,
	}
}

func (i *Incident) DTO() *IncidentDTO {
	if i == nil {
		return nil
	}

	return &IncidentDTO{
		ID:        i.ID,
		Title:     i.Title,
		Status:    i.Status,
		Lat:       i.Lat,
		Lon:       i.Lon,
		CreatedAt: i.CreatedAt,
	}
}
