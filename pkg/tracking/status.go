package tracking

import (
	"time"

	"github.com/kmalinin/dutywatch/pkg/model"
)

type Status string

// Labels in strict priority order: life-safety beats credential risk beats
// data risk beats silence beats noise beats normal. Exactly one label per
// unit, so sorting by rank yields a triage-ordered list.
const (
	StatusRevoked Status = "revoked"
	StatusSos     Status = "sos"
	StatusCrit    Status = "crit"
	StatusStale   Status = "stale"
	StatusEnded   Status = "ended"
	StatusWarn    Status = "warn"
	StatusLive    Status = "live"
	StatusIdle    Status = "idle"
)

var statusOrder = []Status{
	StatusRevoked, StatusSos, StatusCrit, StatusStale,
	StatusEnded, StatusWarn, StatusLive, StatusIdle,
}

var statusColors = map[Status]string{
	StatusRevoked: "#6f42c1",
	StatusSos:     "#dc3545",
	StatusCrit:    "#fd7e14",
	StatusStale:   "#ffc107",
	StatusEnded:   "#6c757d",
	StatusWarn:    "#ffd43b",
	StatusLive:    "#28a745",
	StatusIdle:    "#adb5bd",
}

func (s Status) Color() string {
	if c, ok := statusColors[s]; ok {
		return c
	}

	return statusColors[StatusIdle]
}

// Rank is the position in the priority order, lower is more urgent.
func (s Status) Rank() int {
	for i, st := range statusOrder {
		if st == s {
			return i
		}
	}

	return len(statusOrder)
}

// Classifier combines SOS flags, alert severities, staleness, revocation
// and tracking flags into one status label. Every consumer (marker style,
// list badge, filter counts) calls it once per unit per refresh cycle.
type Classifier struct {
	staleness *StalenessEvaluator
	alerts    *AlertAggregator
}

func NewClassifier(staleness *StalenessEvaluator, alerts *AlertAggregator) *Classifier {
	return &Classifier{staleness: staleness, alerts: alerts}
}

func (c *Classifier) Classify(u *model.Unit, now time.Time) Status {
	switch {
	case u == nil:
		return StatusIdle
	case u.IsRevoked():
		return StatusRevoked
	case u.IsSosActive():
		return StatusSos
	case c.alerts.HasSeverity(u, model.SeverityCrit):
		return StatusCrit
	case c.staleness.IsStale(u, now):
		return StatusStale
	case c.staleness.IsEnded(u):
		return StatusEnded
	case c.alerts.HasSeverity(u, model.SeverityWarn), c.alerts.HasKind(u, model.AlertLowAccuracy):
		return StatusWarn
	case u.IsTrackingActive():
		return StatusLive
	default:
		return StatusIdle
	}
}

// Decorate fills the status block of a DTO from a single classifier pass.
func (c *Classifier) Decorate(w *model.WebUnit, u *model.Unit, now time.Time) *model.WebUnit {
	if w == nil || u == nil {
		return w
	}

	st := c.Classify(u, now)
	sum := c.alerts.Summarize(u)

	w.Status = string(st)
	w.Color = st.Color()
	w.Rank = st.Rank()
	w.Stale = c.staleness.IsStale(u, now)
	w.AlertCount = sum.Count
	w.CritCount = sum.CritCount
	w.AlertKinds = sum.Kinds
	w.HasProblems = c.alerts.HasProblems(u, now)

	return w
}

// Filter is a quick-filter predicate over classified status and raw flags.
type Filter func(u *model.Unit, now time.Time) bool

func (c *Classifier) Filters() map[string]Filter {
	return map[string]Filter{
		"all":  func(*model.Unit, time.Time) bool { return true },
		"live": func(u *model.Unit, _ time.Time) bool { return u.IsTrackingActive() },
		"sos":  func(u *model.Unit, _ time.Time) bool { return u.IsSosActive() },
		"stale": func(u *model.Unit, now time.Time) bool {
			return c.staleness.IsStale(u, now)
		},
		"revoked": func(u *model.Unit, _ time.Time) bool { return u.IsRevoked() },
		"problems": func(u *model.Unit, now time.Time) bool {
			return c.alerts.HasProblems(u, now)
		},
	}
}

// GetFilter returns the named quick filter, falling back to "all".
func (c *Classifier) GetFilter(name string) Filter {
	if f, ok := c.Filters()[name]; ok {
		return f
	}

	return c.Filters()["all"]
}
