package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionValid(t *testing.T) {
	now := time.Now()

	assert.True(t, NewGnss(55.7, 37.6, 10, now).Valid())
	assert.True(t, NewEstimate(55.7, 37.6, 0.8, now).Valid())

	assert.False(t, (*Position)(nil).Valid())
	assert.False(t, (&Position{Lat: math.NaN(), Lon: 37.6, Time: now}).Valid())
	assert.False(t, (&Position{Lat: 91, Lon: 37.6, Time: now}).Valid())
	assert.False(t, (&Position{Lat: 55.7, Lon: -181, Time: now}).Valid())
}

func TestPositionAccuracy(t *testing.T) {
	now := time.Now()

	acc, ok := NewGnss(55.7, 37.6, 10, now).GetAccuracy()
	require.True(t, ok)
	assert.Equal(t, 10.0, acc)

	nan := math.NaN()
	_, ok = (&Position{Lat: 1, Lon: 2, Accuracy: &nan, Time: now}).GetAccuracy()
	assert.False(t, ok)

	_, ok = NewEstimate(55.7, 37.6, 0.8, now).GetAccuracy()
	assert.False(t, ok)
}

func TestPositionAge(t *testing.T) {
	now := time.Now()

	assert.Equal(t, time.Minute, NewGnss(1, 2, 10, now.Add(-time.Minute)).Age(now))

	// missing timestamp ages out of every window
	assert.True(t, (&Position{Lat: 1, Lon: 2}).Age(now) > time.Hour*24*365)
	assert.True(t, (*Position)(nil).Age(now) > time.Hour*24*365)
}

func TestDistance(t *testing.T) {
	now := time.Now()

	a := NewGnss(55.7558, 37.6173, 10, now)
	b := NewGnss(55.7558, 37.6273, 10, now)

	// about 625 m along this parallel
	d := a.DistanceTo(b)
	assert.InDelta(t, 625, d, 15)

	assert.Zero(t, a.DistanceTo(a))
	assert.Equal(t, math.MaxFloat64, a.DistanceTo(nil))
}

func TestHealthTrackingStopped(t *testing.T) {
	off := false
	on := true

	assert.False(t, (*Health)(nil).TrackingStopped())
	assert.False(t, (&Health{}).TrackingStopped())
	assert.False(t, (&Health{TrackingOn: &on}).TrackingStopped())
	assert.True(t, (&Health{TrackingOn: &off}).TrackingStopped())
}

func TestUnitHeartbeatOnlyAdvances(t *testing.T) {
	u := NewUnit("u1", "c1")
	now := time.Now()

	u.Heartbeat(now)
	u.Heartbeat(now.Add(-time.Minute))

	assert.Equal(t, now, u.GetLastHeartbeat())
}
