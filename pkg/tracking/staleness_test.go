package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kmalinin/dutywatch/pkg/model"
)

func TestStaleByPoints(t *testing.T) {
	now := time.Now()
	e := NewStalenessEvaluator(DefaultStalenessConfig())

	u := model.NewUnit("u1", "c1")
	u.SetTracking(true)
	u.SetHealth(&model.Health{TrackingOn: boolp(true), UpdatedAt: now})

	u.SetPosition(model.NewGnss(1, 2, 10, now.Add(-time.Minute*4)))
	assert.False(t, e.IsStale(u, now))

	u.SetPosition(model.NewGnss(1, 2, 10, now.Add(-time.Minute*6)))
	assert.True(t, e.IsStale(u, now))
}

func TestStaleByHeartbeat(t *testing.T) {
	now := time.Now()
	e := NewStalenessEvaluator(DefaultStalenessConfig())

	u := model.NewUnit("u1", "c1")
	u.SetTracking(true)
	u.SetPosition(model.NewGnss(1, 2, 10, now))
	u.Heartbeat(now.Add(-time.Minute * 4))

	assert.True(t, e.IsStale(u, now))

	u.Heartbeat(now.Add(-time.Minute))
	assert.False(t, e.IsStale(u, now))
}

func TestEndedIsNotStale(t *testing.T) {
	now := time.Now()
	e := NewStalenessEvaluator(DefaultStalenessConfig())

	u := model.NewUnit("u1", "c1")
	u.SetTracking(false)
	u.SetHealth(&model.Health{TrackingOn: boolp(false), UpdatedAt: now.Add(-time.Hour)})
	u.SetPosition(model.NewGnss(1, 2, 10, now.Add(-time.Hour)))

	assert.True(t, e.IsEnded(u))
	assert.False(t, e.IsStale(u, now))
}

func TestNotEndedWithoutExplicitFlag(t *testing.T) {
	now := time.Now()
	e := NewStalenessEvaluator(DefaultStalenessConfig())

	// tracking flag dropped but the device never confirmed a clean stop
	u := model.NewUnit("u1", "c1")
	u.SetTracking(false)
	u.SetPosition(model.NewGnss(1, 2, 10, now.Add(-time.Hour)))

	assert.False(t, e.IsEnded(u))
	assert.True(t, e.IsStale(u, now))
}

func TestNoDataIsNotStale(t *testing.T) {
	now := time.Now()
	e := NewStalenessEvaluator(DefaultStalenessConfig())

	// a unit that never reported anything cannot age out
	u := model.NewUnit("u1", "c1")
	assert.False(t, e.IsStale(u, now))
	assert.False(t, e.IsStale(nil, now))
}
