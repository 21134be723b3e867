package tracking

import (
	"sort"
	"sync"
	"time"

	"github.com/kmalinin/dutywatch/pkg/model"
	"github.com/kmalinin/dutywatch/pkg/util"
)

type ProblemsConfig struct {
	BatteryLowPct int
	QueueMax      int
	HealthMaxAge  time.Duration
}

func DefaultProblemsConfig() ProblemsConfig {
	return ProblemsConfig{
		BatteryLowPct: 15,
		QueueMax:      300,
		HealthMaxAge:  time.Second * 180,
	}
}

type AlertSummary struct {
	Count     int      `json:"count"`
	CritCount int      `json:"crit_count"`
	Kinds     []string `json:"kinds,omitempty"`
}

// AlertAggregator indexes the currently active alerts by device. Alerts
// are produced elsewhere (checker, snapshot feed); this only consumes them.
type AlertAggregator struct {
	cfg    ProblemsConfig
	mx     sync.RWMutex
	active map[string]map[string]*model.Alert
}

func NewAlertAggregator(cfg ProblemsConfig) *AlertAggregator {
	return &AlertAggregator{
		cfg:    cfg,
		active: make(map[string]map[string]*model.Alert),
	}
}

// Put records an alert. Inactive alerts remove the kind from the index.
func (g *AlertAggregator) Put(a *model.Alert) {
	if a == nil || a.DeviceID == "" {
		return
	}

	g.mx.Lock()
	defer g.mx.Unlock()

	if !a.IsActive {
		if kinds, ok := g.active[a.DeviceID]; ok {
			delete(kinds, a.Kind)

			if len(kinds) == 0 {
				delete(g.active, a.DeviceID)
			}
		}

		return
	}

	kinds, ok := g.active[a.DeviceID]
	if !ok {
		kinds = make(map[string]*model.Alert)
		g.active[a.DeviceID] = kinds
	}

	kinds[a.Kind] = a
}

// Replace swaps the whole active set for a device, poll path.
func (g *AlertAggregator) Replace(deviceID string, alerts []*model.Alert) {
	if deviceID == "" {
		return
	}

	g.mx.Lock()
	defer g.mx.Unlock()

	delete(g.active, deviceID)

	for _, a := range alerts {
		if a == nil || !a.IsActive {
			continue
		}

		kinds, ok := g.active[deviceID]
		if !ok {
			kinds = make(map[string]*model.Alert)
			g.active[deviceID] = kinds
		}

		kinds[a.Kind] = a
	}
}

func (g *AlertAggregator) Forget(deviceID string) {
	g.mx.Lock()
	defer g.mx.Unlock()

	delete(g.active, deviceID)
}

func (g *AlertAggregator) HasSeverity(u *model.Unit, severity string) bool {
	if u == nil {
		return false
	}

	g.mx.RLock()
	defer g.mx.RUnlock()

	for _, a := range g.active[u.GetDeviceID()] {
		if a.GetSeverity() == severity {
			return true
		}
	}

	return false
}

func (g *AlertAggregator) HasKind(u *model.Unit, kind string) bool {
	if u == nil {
		return false
	}

	g.mx.RLock()
	defer g.mx.RUnlock()

	_, ok := g.active[u.GetDeviceID()][kind]

	return ok
}

func (g *AlertAggregator) Summarize(u *model.Unit) *AlertSummary {
	s := &AlertSummary{}

	if u == nil {
		return s
	}

	g.mx.RLock()
	defer g.mx.RUnlock()

	kinds := util.NewStringSet()

	for kind, a := range g.active[u.GetDeviceID()] {
		s.Count++

		if a.GetSeverity() == model.SeverityCrit {
			s.CritCount++
		}

		kinds.Add(kind)
	}

	s.Kinds = kinds.List()
	sort.Strings(s.Kinds)

	return s
}

// HasProblems flags an obviously degraded device from raw health even
// before a formal alert exists; alert creation is asynchronous and the UI
// must not wait a full cycle.
func (g *AlertAggregator) HasProblems(u *model.Unit, now time.Time) bool {
	if u == nil {
		return false
	}

	g.mx.RLock()
	n := len(g.active[u.GetDeviceID()])
	g.mx.RUnlock()

	if n > 0 {
		return true
	}

	h := u.GetHealth()
	if h == nil {
		return false
	}

	if h.GetLastError() != "" {
		return true
	}

	switch h.GetNet() {
	case "none", "offline":
		return true
	}

	switch h.GetGPS() {
	case "off", "denied":
		return true
	}

	if pct, ok := h.GetBattery(); ok && pct <= g.cfg.BatteryLowPct && !h.Charging() {
		return true
	}

	if q, ok := h.GetQueueSize(); ok && q >= g.cfg.QueueMax {
		return true
	}

	return h.Age(now) >= g.cfg.HealthMaxAge
}
