package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmalinin/dutywatch/pkg/model"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestAcceptFirstFix(t *testing.T) {
	a := NewArbiter(DefaultArbiterConfig())

	require.True(t, a.Accept("u1", nil, model.NewGnss(10, 20, 15, t0), t0))
	require.True(t, a.Accept("u2", nil, model.NewEstimate(10, 20, 0.1, t0), t0))
}

func TestRejectMalformed(t *testing.T) {
	a := NewArbiter(DefaultArbiterConfig())

	assert.False(t, a.Accept("u1", nil, nil, t0))
	assert.False(t, a.Accept("u1", nil, model.NewGnss(91, 20, 15, t0), t0))
	assert.False(t, a.Accept("u1", nil, model.NewGnss(10, 190, 15, t0), t0))
}

func TestGnssToGnssAlwaysAccepted(t *testing.T) {
	a := NewArbiter(DefaultArbiterConfig())

	prev := model.NewGnss(10, 20, 15, t0)
	// even a very poor GNSS fix replaces a good one
	cand := model.NewGnss(10.001, 20.001, 500, t0.Add(time.Second))

	require.True(t, a.Accept("u1", prev, cand, t0.Add(time.Second)))
}

func TestEstimateToEstimateAlwaysAccepted(t *testing.T) {
	a := NewArbiter(DefaultArbiterConfig())

	prev := model.NewEstimate(10, 20, 0.9, t0)
	cand := model.NewEstimate(10.001, 20.001, 0.1, t0.Add(time.Second))

	require.True(t, a.Accept("u1", prev, cand, t0.Add(time.Second)))
}

func TestNoFlicker(t *testing.T) {
	// a single estimate never pre-empts a good GNSS fix, whatever its confidence
	a := NewArbiter(DefaultArbiterConfig())
	prev := model.NewGnss(10, 20, 15, t0)

	now := t0.Add(time.Second * 30)

	assert.False(t, a.Accept("u1", prev, model.NewEstimate(10, 20, 0.99, now), now))
	assert.False(t, a.Accept("u1", prev, model.NewEstimate(10, 20, 0.45, now), now))
	assert.False(t, a.Accept("u1", prev, &model.Position{Lat: 10, Lon: 20, Source: model.SourceEstimate, Time: now}, now))
}

func TestEstimateAfterAgedGnss(t *testing.T) {
	// good GNSS at T0, estimate at T0+200s. The GNSS fix is now poor by
	// age, so a confident estimate wins.
	a := NewArbiter(DefaultArbiterConfig())
	prev := model.NewGnss(10, 20, 15, t0)

	now := t0.Add(time.Second * 200)
	cand := model.NewEstimate(10.0005, 20.0005, 0.9, now)

	require.True(t, a.Accept("u1", prev, cand, now))
}

func TestPoorGnssToEstimateConfidenceGate(t *testing.T) {
	a := NewArbiter(DefaultArbiterConfig())
	now := t0.Add(time.Second)
	prev := model.NewGnss(10, 20, 300, t0) // poor accuracy

	assert.True(t, a.Accept("u1", prev, model.NewEstimate(10, 20, 0.5, now), now))
	assert.False(t, a.Accept("u1", prev, model.NewEstimate(10, 20, 0.2, now), now))
	// absent confidence is acceptable against a poor fix
	assert.True(t, a.Accept("u1", prev, &model.Position{Lat: 10, Lon: 20, Source: model.SourceEstimate, Time: now}, now))
}

func TestMediumGnssToEstimateRequiresConfidence(t *testing.T) {
	a := NewArbiter(DefaultArbiterConfig())
	now := t0.Add(time.Second)
	// accuracy 80m: not good (>60), not poor (<=120, fresh)
	prev := model.NewGnss(10, 20, 80, t0)

	assert.True(t, a.Accept("u1", prev, model.NewEstimate(10, 20, 0.5, now), now))
	assert.False(t, a.Accept("u1", prev, model.NewEstimate(10, 20, 0.3, now), now))
	// absent confidence fails here
	assert.False(t, a.Accept("u1", prev, &model.Position{Lat: 10, Lon: 20, Source: model.SourceEstimate, Time: now}, now))
}

func TestFreshEstimateHoldsAgainstSingleGnssBlip(t *testing.T) {
	a := NewArbiter(DefaultArbiterConfig())
	prev := model.NewEstimate(10, 20, 0.8, t0)

	// one good GNSS fix is not enough: no stable pair yet
	now := t0.Add(time.Second * 10)
	assert.False(t, a.Accept("u1", prev, model.NewGnss(10.001, 20.001, 20, now), now))

	// second good fix close in time and space: stable, switch to GNSS
	now = now.Add(time.Second * 10)
	assert.True(t, a.Accept("u1", prev, model.NewGnss(10.0011, 20.0011, 20, now), now))
}

func TestFreshEstimateHoldsAgainstScatteredGnss(t *testing.T) {
	a := NewArbiter(DefaultArbiterConfig())
	prev := model.NewEstimate(10, 20, 0.8, t0)

	// two good fixes but ~1.5km apart: not stable
	now := t0.Add(time.Second * 10)
	assert.False(t, a.Accept("u1", prev, model.NewGnss(10.0, 20.0, 20, now), now))

	now = now.Add(time.Second * 10)
	assert.False(t, a.Accept("u1", prev, model.NewGnss(10.01, 20.01, 20, now), now))
}

func TestStaleEstimateLosesToAnyGnss(t *testing.T) {
	a := NewArbiter(DefaultArbiterConfig())
	prev := model.NewEstimate(10, 20, 0.8, t0)

	now := t0.Add(time.Second * 200)
	// even a lousy GNSS fix beats an estimate older than 180s
	require.True(t, a.Accept("u1", prev, model.NewGnss(10.001, 20.001, 400, now), now))
}

func TestStreakState(t *testing.T) {
	a := NewArbiter(DefaultArbiterConfig())

	for i := 0; i < 10; i++ {
		now := t0.Add(time.Duration(i) * time.Second * 5)
		a.Accept("u1", nil, model.NewGnss(10, 20, 15, now), now)
	}

	s := a.State("u1")
	assert.Equal(t, maxGoodStreak, s.GoodStreak)
	require.NotNil(t, s.LastGoodGnss)
	require.NotNil(t, s.PrevGoodGnss)

	// a bad fix resets the streak but keeps the last good pair
	now := t0.Add(time.Minute)
	a.Accept("u1", nil, model.NewGnss(10, 20, 999, now), now)
	assert.Equal(t, 0, s.GoodStreak)
	assert.NotNil(t, s.LastGoodGnss)

	a.Forget("u1")
	assert.Equal(t, 0, a.State("u1").GoodStreak)
}
