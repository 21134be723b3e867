package tracking

import (
	"time"

	"github.com/kmalinin/dutywatch/pkg/model"
)

type StalenessConfig struct {
	// no accepted fix for this long while tracking is supposed to run
	PointsMaxAge time.Duration
	// no device heartbeat for this long
	HeartbeatMaxAge time.Duration
}

func DefaultStalenessConfig() StalenessConfig {
	return StalenessConfig{
		PointsMaxAge:    time.Minute * 5,
		HeartbeatMaxAge: time.Second * 180,
	}
}

type StalenessEvaluator struct {
	cfg StalenessConfig
}

func NewStalenessEvaluator(cfg StalenessConfig) *StalenessEvaluator {
	return &StalenessEvaluator{cfg: cfg}
}

// IsEnded is true when tracking was stopped cleanly: the unit's tracking
// flag is off and the device itself confirmed tracking_on=false. Ended is
// an expected low-urgency state, never reported as stale.
func (e *StalenessEvaluator) IsEnded(u *model.Unit) bool {
	if u == nil {
		return false
	}

	return !u.IsTrackingActive() && u.GetHealth().TrackingStopped()
}

// IsStale is true when the unit went silent: either its last accepted fix
// is too old (and tracking was not cleanly ended) or its heartbeat is.
func (e *StalenessEvaluator) IsStale(u *model.Unit, now time.Time) bool {
	if u == nil {
		return false
	}

	if e.IsEnded(u) {
		return false
	}

	if p := u.GetPosition(); p != nil && p.Age(now) > e.cfg.PointsMaxAge {
		return true
	}

	if hb := u.GetLastHeartbeat(); !hb.IsZero() && now.Sub(hb) > e.cfg.HeartbeatMaxAge {
		return true
	}

	return false
}
