package main

import (
	"log/slog"
	"time"

	"github.com/kmalinin/dutywatch/pkg/model"
)

func (app *App) InitMessageProcessors() {
	app.eventProcessors[model.EventPosition] = app.positionProcessor
	app.eventProcessors[model.EventHealth] = app.healthProcessor
	app.eventProcessors[model.EventHeartbeat] = app.heartbeatProcessor
	app.eventProcessors[model.EventTracking] = app.trackingProcessor
	app.eventProcessors[model.EventSos] = app.sosProcessor
	app.eventProcessors[model.EventShiftStart] = app.shiftStartProcessor
	app.eventProcessors[model.EventShiftEnd] = app.shiftEndProcessor
}

func (app *App) MessageProcessor() {
	for msg := range app.ch {
		app.ProcessEvent(msg)
	}
}

// ProcessEvent is the single entry point for feed data: both the poll
// snapshot and the push channel end up here. Malformed or unregistered
// input is dropped with a metric, never an error to the sender.
func (app *App) ProcessEvent(msg *model.Event) {
	p, ok := app.eventProcessors[msg.GetType()]
	if !ok {
		app.logger.Debug("unknown event type " + msg.GetType())
		eventsDropped.WithLabelValues("unknown_type").Inc()

		return
	}

	d := app.devices.Get(msg.GetDeviceID())
	if d == nil {
		app.logger.Debug("event from unregistered device " + msg.GetDeviceID())
		eventsDropped.WithLabelValues("unknown_device").Inc()

		return
	}

	eventsProcessed.WithLabelValues(msg.GetType()).Inc()
	p(msg)
}

// unitFor resolves the registry pairing, creating the shift record on
// first contact. The registry is the source of truth for callsign, team
// and revocation.
func (app *App) unitFor(deviceID string) *model.Unit {
	d := app.devices.Get(deviceID)
	if d == nil || d.UnitUID == "" {
		return nil
	}

	u := app.units.Get(d.UnitUID)
	if u == nil {
		u = model.NewUnit(d.UnitUID, d.Callsign)
		u.SetPairing(d.DeviceID, d.Team)
		app.units.Store(u)
		unitsGauge.Set(float64(unitsCount(app.units)))
	}

	u.SetRevoked(d.Revoked)

	return u
}

func (app *App) positionProcessor(msg *model.Event) {
	u := app.unitFor(msg.GetDeviceID())
	if u == nil {
		eventsDropped.WithLabelValues("no_pairing").Inc()

		return
	}

	if u.IsRevoked() {
		eventsDropped.WithLabelValues("revoked").Inc()

		return
	}

	p := msg.Position
	if p == nil {
		eventsDropped.WithLabelValues("no_payload").Inc()

		return
	}

	if p.Source == "" {
		p.Source = model.SourceGNSS
	}

	if p.Time.IsZero() {
		p.Time = msg.GetTime()
	}

	if !app.arbiter.Accept(u.GetUID(), u.GetPosition(), p, time.Now()) {
		eventsDropped.WithLabelValues("arbiter").Inc()

		return
	}

	u.SetPosition(p)
	app.push.Trigger(u.GetUID())
}

func (app *App) healthProcessor(msg *model.Event) {
	u := app.unitFor(msg.GetDeviceID())
	if u == nil {
		eventsDropped.WithLabelValues("no_pairing").Inc()

		return
	}

	if u.IsRevoked() {
		eventsDropped.WithLabelValues("revoked").Inc()

		return
	}

	h := msg.Health
	if h == nil {
		eventsDropped.WithLabelValues("no_payload").Inc()

		return
	}

	if h.UpdatedAt.IsZero() {
		h.UpdatedAt = msg.GetTime()
	}

	u.SetHealth(h)

	if h.TrackingOn != nil {
		u.SetTracking(*h.TrackingOn)
	}

	app.push.Trigger(u.GetUID())
}

func (app *App) heartbeatProcessor(msg *model.Event) {
	u := app.unitFor(msg.GetDeviceID())
	if u == nil {
		eventsDropped.WithLabelValues("no_pairing").Inc()

		return
	}

	u.Heartbeat(msg.GetTime())
	app.push.Trigger(u.GetUID())
}

func (app *App) trackingProcessor(msg *model.Event) {
	u := app.unitFor(msg.GetDeviceID())
	if u == nil {
		eventsDropped.WithLabelValues("no_pairing").Inc()

		return
	}

	u.SetTracking(msg.IsActive())
	app.push.Trigger(u.GetUID())
}

func (app *App) sosProcessor(msg *model.Event) {
	u := app.unitFor(msg.GetDeviceID())
	if u == nil {
		eventsDropped.WithLabelValues("no_pairing").Inc()

		return
	}

	if msg.IsActive() {
		lat, lon := u.GetPosition().GetCoord()

		if _, err := app.dbm.OpenSos(u.GetUID(), lat, lon); err != nil {
			app.logger.Error("error opening sos", slog.Any("error", err))
		}

		u.SetSos(true)
	} else {
		// device-side cancel closes the record without an operator
		if s := app.dbm.SosQuery().Unit(u.GetUID()).Active().One(); s != nil {
			if err := app.dbm.CloseSos(s.PublicID, "device", msg.GetTime()); err != nil {
				app.logger.Error("error closing sos", slog.Any("error", err))
			}
		}

		u.SetSos(false)
	}

	app.push.Trigger(u.GetUID())
}

func (app *App) shiftStartProcessor(msg *model.Event) {
	u := app.unitFor(msg.GetDeviceID())
	if u == nil {
		eventsDropped.WithLabelValues("no_pairing").Inc()

		return
	}

	u.SetTracking(true)
	u.Heartbeat(msg.GetTime())
	app.push.Trigger(u.GetUID())
}

func (app *App) shiftEndProcessor(msg *model.Event) {
	u := app.unitFor(msg.GetDeviceID())
	if u == nil {
		eventsDropped.WithLabelValues("no_pairing").Inc()

		return
	}

	app.logger.Info("shift end for " + u.GetUID())
	app.removeUnit(u.GetUID())
}
