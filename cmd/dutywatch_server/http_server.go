package main

import (
	"encoding/json"
	"log/slog"
	"runtime/pprof"
	"sort"
	"strconv"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kmalinin/dutywatch/internal/wshandler"
	"github.com/kmalinin/dutywatch/pkg/log"
	"github.com/kmalinin/dutywatch/pkg/model"
	"github.com/kmalinin/dutywatch/pkg/tracking"
)

var milestoneNames = map[string]model.Milestone{
	"accept":   model.MilestoneAccepted,
	"enroute":  model.MilestoneEnroute,
	"on_scene": model.MilestoneOnScene,
	"resolve":  model.MilestoneResolved,
	"close":    model.MilestoneClosed,
}

type HttpServer struct {
	f    *fiber.App
	addr string
	log  *slog.Logger
}

func NewHttp(app *App) *HttpServer {
	srv := &HttpServer{addr: app.config.ApiAddr(), log: slog.With("logger", "http")}

	srv.f = fiber.New(fiber.Config{EnablePrintRoutes: false, DisableStartupMessage: true})

	srv.f.Use(log.NewFiberLogger(&log.LoggerConfig{Name: "api", DoMetrics: true, LogErrorsOnly: true, SlowWarn: time.Second}))

	srv.f.Get("/unit", getUnitsHandler(app))
	srv.f.Get("/unit/:uid", getUnitHandler(app))
	srv.f.Delete("/unit/:uid", deleteUnitHandler(app))
	srv.f.Post("/event", getEventPostHandler(app))

	srv.f.Get("/ws", getWsHandler(app))

	srv.f.Get("/device", getDevicesHandler(app))

	srv.f.Get("/alert", getAlertsHandler(app))
	srv.f.Post("/alert/:id/ack", getAlertAckHandler(app))
	srv.f.Post("/alert/:id/close", getAlertCloseHandler(app))

	srv.f.Get("/sos", getSosHandler(app))
	srv.f.Post("/sos/:id/ack", getSosAckHandler(app))
	srv.f.Post("/sos/:id/close", getSosCloseHandler(app))

	srv.f.Get("/incident", getIncidentsHandler(app))
	srv.f.Post("/incident", getIncidentPostHandler(app))
	srv.f.Get("/incident/:id/assignment", getAssignmentsHandler(app))
	srv.f.Post("/incident/:id/assign", getAssignPostHandler(app))
	srv.f.Post("/assignment/:id/:milestone", getMilestoneHandler(app))

	srv.f.Get("/stack", getStackHandler())
	srv.f.Get("/metrics", getMetricsHandler())

	return srv
}

func (srv *HttpServer) Start() {
	go func() {
		srv.log.Info("listening " + srv.addr)

		if err := srv.f.Listen(srv.addr); err != nil {
			srv.log.Error("listen error", slog.Any("error", err))
		}
	}()
}

func getUnitsHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		units := app.snapshot(ctx.Query("filter", "all"))

		// triage order: most urgent first, stable by callsign
		sort.Slice(units, func(i, j int) bool {
			if units[i].Rank != units[j].Rank {
				return units[i].Rank < units[j].Rank
			}

			return units[i].Callsign < units[j].Callsign
		})

		return ctx.JSON(units)
	}
}

func getUnitHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		u := app.units.Get(ctx.Params("uid"))
		if u == nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		return ctx.JSON(app.decorate(u))
	}
}

func deleteUnitHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		app.removeUnit(ctx.Params("uid"))

		return ctx.JSON(fiber.Map{"units": app.snapshot("all")})
	}
}

func getEventPostHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		msg := new(model.Event)

		if err := json.Unmarshal(ctx.Body(), msg); err != nil {
			eventsDropped.WithLabelValues("bad_json").Inc()

			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		app.NewEvent(msg)

		return ctx.SendStatus(fiber.StatusAccepted)
	}
}

func getWsHandler(app *App) fiber.Handler {
	return websocket.New(func(ws *websocket.Conn) {
		name := uuid.NewString()

		h := wshandler.NewHandler(app.logger, name, ws)

		app.logger.Debug("ws listener connected")
		app.handlers.Store(name, h)
		app.units.ChangeCallback().SubscribeNamed(name, func(u *model.Unit) bool {
			return h.SendUnit(app.decorate(u))
		})
		app.units.DeleteCallback().SubscribeNamed(name, h.DeleteUnit)
		h.Reconcile(app.snapshot("all"))
		h.Listen()
		app.handlers.Delete(name)
		app.logger.Debug("ws listener disconnected")
	})
}

func getDevicesHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		res := make([]*model.DeviceDTO, 0)

		app.devices.ForEach(func(d *model.Device) bool {
			res = append(res, d.DTO())

			return true
		})

		sort.Slice(res, func(i, j int) bool { return res[i].DeviceID < res[j].DeviceID })

		return ctx.JSON(res)
	}
}

func getAlertsHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		q := app.dbm.AlertQuery()

		if ctx.QueryBool("active", true) {
			q = q.Active()
		}

		if uid := ctx.Query("unit"); uid != "" {
			q = q.Unit(uid)
		}

		res := make([]*model.AlertDTO, 0)
		for _, a := range q.Get() {
			res = append(res, a.DTO())
		}

		return ctx.JSON(res)
	}
}

func getAlertAckHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if err := app.dbm.AckAlert(ctx.Params("id"), ctx.Query("user"), time.Now()); err != nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		return ctx.JSON(app.dbm.AlertQuery().Id(ctx.Params("id")).One().DTO())
	}
}

func getAlertCloseHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if err := app.dbm.CloseAlert(ctx.Params("id"), ctx.Query("user"), time.Now()); err != nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		a := app.dbm.AlertQuery().Id(ctx.Params("id")).One()
		if a != nil {
			app.alerts.Put(a)
			app.push.Trigger(a.UnitUID)
		}

		return ctx.JSON(a.DTO())
	}
}

func getSosHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		q := app.dbm.SosQuery()

		if ctx.QueryBool("active", true) {
			q = q.Active()
		}

		res := make([]*model.SosDTO, 0)
		for _, s := range q.Get() {
			res = append(res, s.DTO())
		}

		return ctx.JSON(res)
	}
}

func getSosAckHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if err := app.dbm.AckSos(ctx.Params("id"), ctx.Query("user"), time.Now()); err != nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		return ctx.JSON(app.dbm.SosQuery().Id(ctx.Params("id")).One().DTO())
	}
}

func getSosCloseHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id := ctx.Params("id")

		s := app.dbm.SosQuery().Id(id).One()
		if s == nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		if err := app.dbm.CloseSos(id, ctx.Query("user"), time.Now()); err != nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		// only a close releases the unit from the SOS state, ack does not
		if u := app.units.Get(s.UnitUID); u != nil {
			u.SetSos(false)
			app.push.Trigger(u.GetUID())
		}

		return ctx.JSON(app.dbm.SosQuery().Id(id).One().DTO())
	}
}

func getIncidentsHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		q := app.dbm.IncidentQuery()

		if s := ctx.Query("status"); s != "" {
			q = q.Status(s)
		}

		res := make([]*model.IncidentDTO, 0)
		for _, i := range q.Get() {
			res = append(res, i.DTO())
		}

		return ctx.JSON(res)
	}
}

func getIncidentPostHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		inc := new(model.Incident)

		if err := json.Unmarshal(ctx.Body(), inc); err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		if inc.Status == "" {
			inc.Status = "open"
		}

		if err := app.dbm.Create(inc); err != nil {
			return err
		}

		return ctx.JSON(inc.DTO())
	}
}

func getAssignmentsHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := strconv.Atoi(ctx.Params("id"))
		if err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		res := make([]*model.AssignmentDTO, 0)
		for _, a := range app.dbm.AssignmentQuery().Incident(uint(id)).Get() {
			res = append(res, decorateAssignment(app.sla, a, time.Now()))
		}

		return ctx.JSON(res)
	}
}

func getAssignPostHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := strconv.Atoi(ctx.Params("id"))
		if err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		if app.dbm.IncidentQuery().Id(uint(id)).One() == nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		req := struct {
			UnitUID string `json:"unit_uid"`
		}{}

		if err := json.Unmarshal(ctx.Body(), &req); err != nil || req.UnitUID == "" {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		// one open assignment per unit per incident
		if a := app.dbm.AssignmentQuery().Incident(uint(id)).Unit(req.UnitUID).Open().One(); a != nil {
			return ctx.JSON(decorateAssignment(app.sla, a, time.Now()))
		}

		a := &model.Assignment{IncidentID: uint(id), UnitUID: req.UnitUID, AssignedAt: time.Now()}

		if err := app.dbm.Create(a); err != nil {
			return err
		}

		return ctx.JSON(decorateAssignment(app.sla, a, time.Now()))
	}
}

func getMilestoneHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := strconv.Atoi(ctx.Params("id"))
		if err != nil {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		m, ok := milestoneNames[ctx.Params("milestone")]
		if !ok {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		a := app.dbm.AssignmentQuery().Id(uint(id)).One()
		if a == nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		if app.sla.SetMilestone(a, m, time.Now()) {
			if err := app.dbm.Save(a); err != nil {
				return err
			}
		}

		return ctx.JSON(decorateAssignment(app.sla, a, time.Now()))
	}
}

func decorateAssignment(sla *tracking.SlaTracker, a *model.Assignment, now time.Time) *model.AssignmentDTO {
	dto := a.DTO()
	if dto == nil {
		return nil
	}

	flags := sla.Flags(a, now)
	dto.AcceptBreach = flags.AcceptBreach
	dto.EnrouteBreach = flags.EnrouteBreach
	dto.OnSceneBreach = flags.OnSceneBreach

	return dto
}

func getStackHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return pprof.Lookup("goroutine").WriteTo(ctx.Response().BodyWriter(), 1)
	}
}

func getMetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(
		prometheus.DefaultGatherer,
		promhttp.HandlerOpts{DisableCompression: true},
	))
}
