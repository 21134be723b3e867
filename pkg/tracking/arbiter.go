package tracking

import (
	"time"

	"github.com/kmalinin/dutywatch/pkg/model"
)

const maxGoodStreak = 5

type ArbiterConfig struct {
	// a GNSS fix is "good" when accuracy is in (0, GoodAccuracyM] and it is
	// not older than GoodMaxAge
	GoodAccuracyM float64
	GoodMaxAge    time.Duration
	// a GNSS fix is "poor" when accuracy is missing, outside (0, PoorAccuracyM]
	// or the fix is older than PoorMaxAge
	PoorAccuracyM float64
	PoorMaxAge    time.Duration
	// an estimate older than EstimateStaleAge loses to any real fix
	EstimateStaleAge time.Duration
	// two good GNSS fixes within StableWindow of each other and closer than
	// StableDistM make the GNSS signal "stable"
	StableWindow  time.Duration
	StableDistM   float64
	MinConfidence float64
}

func DefaultArbiterConfig() ArbiterConfig {
	return ArbiterConfig{
		GoodAccuracyM:    60,
		GoodMaxAge:       time.Second * 90,
		PoorAccuracyM:    120,
		PoorMaxAge:       time.Second * 120,
		EstimateStaleAge: time.Second * 180,
		StableWindow:     time.Second * 25,
		StableDistM:      50,
		MinConfidence:    0.45,
	}
}

// ArbiterState is the rolling per-unit hysteresis state. One value per
// unit, mutated only by the arbiter on the single processing goroutine.
type ArbiterState struct {
	GoodStreak   int
	LastGoodGnss *model.Position
	PrevGoodGnss *model.Position
}

// Arbiter decides whether an incoming fix replaces the displayed one.
// Indoors GNSS may intermittently produce a newer but wrong point that
// causes marker jumps; a fresh estimate is kept until GNSS becomes stably
// good, and a good GNSS fix is never pre-empted by an estimate.
type Arbiter struct {
	cfg    ArbiterConfig
	states map[string]*ArbiterState
}

func NewArbiter(cfg ArbiterConfig) *Arbiter {
	return &Arbiter{
		cfg:    cfg,
		states: make(map[string]*ArbiterState),
	}
}

func (a *Arbiter) State(uid string) *ArbiterState {
	s, ok := a.states[uid]
	if !ok {
		s = &ArbiterState{}
		a.states[uid] = s
	}

	return s
}

func (a *Arbiter) Forget(uid string) {
	delete(a.states, uid)
}

// Accept observes the candidate fix and decides whether it replaces prev.
// Total over its inputs: malformed values fail conditions, never panic.
func (a *Arbiter) Accept(uid string, prev, cand *model.Position, now time.Time) bool {
	if !cand.Valid() {
		return false
	}

	s := a.State(uid)
	s.observe(cand, a.cfg, now)

	return shouldAccept(s, a.cfg, prev, cand, now)
}

func (s *ArbiterState) observe(cand *model.Position, cfg ArbiterConfig, now time.Time) {
	if cand.IsEstimate() {
		return
	}

	if !isGoodGnss(cand, cfg, now) {
		s.GoodStreak = 0

		return
	}

	if s.GoodStreak < maxGoodStreak {
		s.GoodStreak++
	}

	s.PrevGoodGnss = s.LastGoodGnss
	s.LastGoodGnss = cand
}

// stableGnss reports two recent good fixes close in time and space.
func (s *ArbiterState) stableGnss(cfg ArbiterConfig) bool {
	if s.LastGoodGnss == nil || s.PrevGoodGnss == nil {
		return false
	}

	gap := s.LastGoodGnss.Time.Sub(s.PrevGoodGnss.Time)
	if gap < 0 {
		gap = -gap
	}

	if gap > cfg.StableWindow {
		return false
	}

	return s.LastGoodGnss.DistanceTo(s.PrevGoodGnss) <= cfg.StableDistM
}

func shouldAccept(s *ArbiterState, cfg ArbiterConfig, prev, cand *model.Position, now time.Time) bool {
	// rule 1: nothing to compare with
	if prev == nil {
		return true
	}

	switch {
	case prev.IsEstimate() && cand.IsEstimate():
		// rule 2: newest estimate wins
		return true

	case !prev.IsEstimate() && !cand.IsEstimate():
		// rule 3: newest GNSS wins
		return true

	case prev.IsEstimate():
		// rule 4: estimate -> gnss
		if prev.Age(now) > cfg.EstimateStaleAge {
			return true
		}

		return isGoodGnss(cand, cfg, now) && s.stableGnss(cfg)

	default:
		// rule 5: gnss -> estimate
		if isGoodGnss(prev, cfg, now) {
			return false
		}

		conf, ok := cand.GetConfidence()

		if isPoorGnss(prev, cfg, now) {
			return !ok || conf >= cfg.MinConfidence
		}

		return ok && conf >= cfg.MinConfidence
	}
}

func isGoodGnss(p *model.Position, cfg ArbiterConfig, now time.Time) bool {
	if p.IsEstimate() {
		return false
	}

	acc, ok := p.GetAccuracy()
	if !ok || acc <= 0 || acc > cfg.GoodAccuracyM {
		return false
	}

	return p.Age(now) <= cfg.GoodMaxAge
}

func isPoorGnss(p *model.Position, cfg ArbiterConfig, now time.Time) bool {
	acc, ok := p.GetAccuracy()
	if !ok || acc <= 0 || acc > cfg.PoorAccuracyM {
		return true
	}

	return p.Age(now) > cfg.PoorMaxAge
}
