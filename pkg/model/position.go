package model

import (
	"math"
	"time"
)

const (
	SourceGNSS     = "gnss"
	SourceEstimate = "estimate"
)

// Position is one reported fix. Accuracy and Confidence are nil when the
// device did not report them. Confidence is only meaningful for estimates.
type Position struct {
	Time       time.Time `json:"ts"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	Accuracy   *float64  `json:"accuracy_m,omitempty"`
	Source     string    `json:"source"`
	Confidence *float64  `json:"confidence,omitempty"`
}

func NewGnss(lat, lon, acc float64, t time.Time) *Position {
	return &Position{Time: t, Lat: lat, Lon: lon, Accuracy: &acc, Source: SourceGNSS}
}

func NewEstimate(lat, lon, conf float64, t time.Time) *Position {
	return &Position{Time: t, Lat: lat, Lon: lon, Confidence: &conf, Source: SourceEstimate}
}

func (p *Position) IsEstimate() bool {
	return p != nil && p.Source == SourceEstimate
}

func (p *Position) GetCoord() (float64, float64) {
	if p == nil {
		return 0, 0
	}

	return p.Lat, p.Lon
}

// GetAccuracy returns the reported accuracy and whether it is usable.
func (p *Position) GetAccuracy() (float64, bool) {
	if p == nil || p.Accuracy == nil || math.IsNaN(*p.Accuracy) {
		return 0, false
	}

	return *p.Accuracy, true
}

// GetConfidence returns the estimate confidence and whether it was reported.
func (p *Position) GetConfidence() (float64, bool) {
	if p == nil || p.Confidence == nil || math.IsNaN(*p.Confidence) {
		return 0, false
	}

	return *p.Confidence, true
}

func (p *Position) Age(now time.Time) time.Duration {
	if p == nil || p.Time.IsZero() {
		return time.Duration(math.MaxInt64)
	}

	return now.Sub(p.Time)
}

// Valid rejects fixes with missing or out-of-range coordinates.
func (p *Position) Valid() bool {
	if p == nil {
		return false
	}

	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return false
	}

	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// DistanceTo returns the haversine distance to another fix in meters.
func (p *Position) DistanceTo(other *Position) float64 {
	if p == nil || other == nil {
		return math.MaxFloat64
	}

	return DistanceM(p.Lat, p.Lon, other.Lat, other.Lon)
}
