package log

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dutywatch",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "The latency of the HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"api"})

	httpRequestsCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dutywatch",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of the HTTP requests.",
	}, []string{"api", "path", "method", "code"})
)

type LoggerConfig struct {
	Name          string
	DoMetrics     bool
	LogErrorsOnly bool
	// SlowWarn escalates requests slower than this to warn level. The
	// feed path must stay fast even when the checker holds the unit set.
	SlowWarn time.Duration
}

func NewFiberLogger(conf *LoggerConfig) fiber.Handler {
	if conf == nil {
		conf = &LoggerConfig{Name: "http"}
	}

	logger := slog.Default().With(slog.String("logger", conf.Name))

	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		wt := time.Since(start)

		if conf.DoMetrics {
			metrics(conf.Name, c, wt)
		}

		status := c.Response().StatusCode()
		msg := fmt.Sprintf("%d %s %s", status, c.Method(), c.Path())

		if q := c.Request().URI().QueryArgs().String(); q != "" {
			msg += " " + q
		}

		l := logger

		if chainErr != nil {
			l = l.With(slog.Any("error", chainErr))
		}

		attrs := []any{
			slog.String("client", c.IP()+":"+c.Port()),
			slog.Int("status", status),
			slog.Int64("ms", wt.Milliseconds()),
		}

		switch {
		case conf.SlowWarn > 0 && wt > conf.SlowWarn:
			l.Warn(msg, attrs...)
		case !conf.LogErrorsOnly:
			l.Info(msg, attrs...)
		case status < 300:
			l.Debug(msg, attrs...)
		case status < 400:
			l.Info(msg, attrs...)
		default:
			l.Warn(msg, attrs...)
		}

		return chainErr
	}
}

// metrics labels requests by the route template, not the raw path, so
// /unit/:uid stays a single series no matter how many units exist.
func metrics(api string, ctx *fiber.Ctx, t time.Duration) {
	path := ctx.Path()
	if r := ctx.Route(); r != nil {
		path = r.Path
	}

	httpRequestsDuration.With(prometheus.Labels{"api": api}).Observe(t.Seconds())

	httpRequestsCount.With(prometheus.Labels{
		"api":    api,
		"path":   path,
		"method": ctx.Method(),
		"code":   strconv.Itoa(ctx.Response().StatusCode()),
	}).Inc()
}
