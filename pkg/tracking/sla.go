package tracking

import (
	"log/slog"
	"time"

	"github.com/kmalinin/dutywatch/pkg/model"
)

type SlaConfig struct {
	AcceptLimit  time.Duration
	EnrouteLimit time.Duration
	OnSceneLimit time.Duration
}

func DefaultSlaConfig() SlaConfig {
	return SlaConfig{
		AcceptLimit:  time.Minute * 5,
		EnrouteLimit: time.Minute * 10,
		OnSceneLimit: time.Minute * 15,
	}
}

type SlaFlags struct {
	AcceptBreach  bool `json:"accept_breach"`
	EnrouteBreach bool `json:"enroute_breach"`
	OnSceneBreach bool `json:"onscene_breach"`
}

// SlaTracker sets assignment milestones idempotently and derives breach
// flags. Breaches are computed, never stored.
type SlaTracker struct {
	cfg    SlaConfig
	logger *slog.Logger
}

func NewSlaTracker(cfg SlaConfig) *SlaTracker {
	return &SlaTracker{
		cfg:    cfg,
		logger: slog.Default().With("logger", "sla"),
	}
}

// SetMilestone stores ts for the milestone only if unset; replays are a
// no-op, not an error. A timestamp that would break the non-decreasing
// milestone sequence is clamped to its neighbor, logged and kept.
// No intermediate milestones are back-filled. Returns true on change.
func (t *SlaTracker) SetMilestone(a *model.Assignment, m model.Milestone, ts time.Time) bool {
	if a == nil || ts.IsZero() {
		return false
	}

	if a.Get(m) != nil {
		return false
	}

	if floor := t.latestBefore(a, m); ts.Before(floor) {
		t.logger.Warn("milestone older than predecessor, clamping",
			slog.String("milestone", string(m)),
			slog.Time("ts", ts),
			slog.Time("floor", floor))

		ts = floor
	}

	if ceil, ok := t.earliestAfter(a, m); ok && ts.After(ceil) {
		t.logger.Warn("milestone newer than successor, clamping",
			slog.String("milestone", string(m)),
			slog.Time("ts", ts),
			slog.Time("ceil", ceil))

		ts = ceil
	}

	a.Set(m, ts)

	return true
}

// latestBefore is the newest timestamp among assigned and the already-set
// milestones preceding m.
func (t *SlaTracker) latestBefore(a *model.Assignment, m model.Milestone) time.Time {
	res := a.AssignedAt

	for _, prev := range model.MilestoneOrder {
		if prev == m {
			break
		}

		if ts := a.Get(prev); ts != nil && ts.After(res) {
			res = *ts
		}
	}

	return res
}

func (t *SlaTracker) earliestAfter(a *model.Assignment, m model.Milestone) (time.Time, bool) {
	var (
		res   time.Time
		found bool
		after bool
	)

	for _, next := range model.MilestoneOrder {
		if next == m {
			after = true

			continue
		}

		if !after {
			continue
		}

		if ts := a.Get(next); ts != nil && (!found || ts.Before(res)) {
			res = *ts
			found = true
		}
	}

	return res, found
}

// laterExists reports whether any milestone after m is already set. Once a
// later milestone exists, a skipped earlier one cannot breach: the unit
// clearly got there in time.
func laterExists(a *model.Assignment, m model.Milestone) bool {
	after := false

	for _, next := range model.MilestoneOrder {
		if next == m {
			after = true

			continue
		}

		if after && a.Get(next) != nil {
			return true
		}
	}

	return false
}

// Flags computes the breach booleans. Each stage is measured from the best
// available earlier milestone, so a skipped stage never stalls the clock.
func (t *SlaTracker) Flags(a *model.Assignment, now time.Time) SlaFlags {
	if a == nil || a.AssignedAt.IsZero() {
		return SlaFlags{}
	}

	return SlaFlags{
		AcceptBreach:  t.breach(a, model.MilestoneAccepted, &a.AssignedAt, t.cfg.AcceptLimit, now),
		EnrouteBreach: t.breach(a, model.MilestoneEnroute, firstOf(a.AcceptedAt, &a.AssignedAt), t.cfg.EnrouteLimit, now),
		OnSceneBreach: t.breach(a, model.MilestoneOnScene, firstOf(a.EnrouteAt, a.AcceptedAt, &a.AssignedAt), t.cfg.OnSceneLimit, now),
	}
}

func (t *SlaTracker) breach(a *model.Assignment, m model.Milestone, from *time.Time, limit time.Duration, now time.Time) bool {
	if from == nil || limit <= 0 {
		return false
	}

	if ts := a.Get(m); ts != nil {
		return ts.Sub(*from) > limit
	}

	if laterExists(a, m) {
		return false
	}

	return now.Sub(*from) > limit
}

func firstOf(ts ...*time.Time) *time.Time {
	for _, t := range ts {
		if t != nil {
			return t
		}
	}

	return nil
}
