package main

import (
	"fmt"
	"time"

	"github.com/kmalinin/dutywatch/pkg/model"
)

type alertCheck struct {
	kind     string
	severity string
	msg      string
	firing   bool
	payload  map[string]any
}

func (app *App) checker() {
	for range time.Tick(app.config.CheckerInterval()) {
		app.checkUnits(time.Now())
		app.sendSnapshots()
	}
}

func (app *App) checkUnits(now time.Time) {
	app.units.ForEach(func(u *model.Unit) bool {
		app.checkUnit(u, now)

		return true
	})

	alertsGauge.Set(float64(app.dbm.AlertQuery().Active().Count()))
}

// checkUnit derives alerts from the current health and fix age, opening
// and auto-closing them so the stored set always matches the condition.
// Closed alerts stay in the database.
func (app *App) checkUnit(u *model.Unit, now time.Time) {
	deviceID := u.GetDeviceID()

	// registry edits (revocation, re-pairing) apply between events too
	if d := app.devices.Get(deviceID); d != nil {
		u.SetRevoked(d.Revoked)
	}

	for _, c := range app.unitChecks(u, now) {
		if c.firing {
			if _, err := app.dbm.OpenAlert(deviceID, u.GetUID(), c.kind, c.severity, c.msg, c.payload); err != nil {
				continue
			}
		} else {
			app.dbm.CloseAlertsByKind(deviceID, c.kind, now)
		}
	}

	app.alerts.Replace(deviceID, app.dbm.AlertQuery().Device(deviceID).Active().Get())
}

func (app *App) unitChecks(u *model.Unit, now time.Time) []alertCheck {
	cfg := app.config.Problems()
	h := u.GetHealth()
	p := u.GetPosition()
	ended := app.staleness.IsEnded(u)

	checks := make([]alertCheck, 0, 9)

	checks = append(checks, alertCheck{
		kind:     model.AlertStalePoints,
		severity: model.SeverityWarn,
		msg:      "no location fix accepted recently",
		firing:   u.IsTrackingActive() && p.Age(now) > app.config.Staleness().PointsMaxAge,
	})

	checks = append(checks, alertCheck{
		kind:     model.AlertStaleHealth,
		severity: model.SeverityWarn,
		msg:      "no health report recently",
		firing:   u.IsTrackingActive() && h.Age(now) > cfg.HealthMaxAge,
	})

	if pct, ok := h.GetBattery(); ok {
		sev := model.SeverityWarn
		if pct <= 5 {
			sev = model.SeverityCrit
		}

		checks = append(checks, alertCheck{
			kind:     model.AlertBatteryLow,
			severity: sev,
			msg:      fmt.Sprintf("battery at %d%%", pct),
			firing:   pct <= cfg.BatteryLowPct && !h.Charging(),
			payload:  map[string]any{"battery_pct": pct},
		})
	}

	if q, ok := h.GetQueueSize(); ok {
		checks = append(checks, alertCheck{
			kind:     model.AlertQueue,
			severity: model.SeverityWarn,
			msg:      fmt.Sprintf("%d points queued on device", q),
			firing:   q >= cfg.QueueMax,
			payload:  map[string]any{"queue_size": q},
		})
	}

	gps := h.GetGPS()
	checks = append(checks, alertCheck{
		kind:     model.AlertGpsOff,
		severity: model.SeverityCrit,
		msg:      "gps is " + gps,
		firing:   gps == "off" || gps == "denied",
	})

	net := h.GetNet()
	checks = append(checks, alertCheck{
		kind:     model.AlertNetOffline,
		severity: model.SeverityCrit,
		msg:      "network is " + net,
		firing:   net == "none" || net == "offline",
	})

	if acc, ok := p.GetAccuracy(); ok && !p.IsEstimate() {
		checks = append(checks, alertCheck{
			kind:     model.AlertLowAccuracy,
			severity: model.SeverityWarn,
			msg:      fmt.Sprintf("accuracy %.0f m", acc),
			firing:   acc > app.config.Arbiter().PoorAccuracyM,
			payload:  map[string]any{"accuracy_m": acc},
		})
	}

	checks = append(checks, alertCheck{
		kind:     model.AlertAppError,
		severity: model.SeverityWarn,
		msg:      h.GetLastError(),
		firing:   h.GetLastError() != "",
	})

	checks = append(checks, alertCheck{
		kind:     model.AlertTrackingOff,
		severity: model.SeverityWarn,
		msg:      "tracking stopped without confirmation",
		firing:   h != nil && !u.IsTrackingActive() && !ended,
	})

	return checks
}
