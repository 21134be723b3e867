package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kmalinin/dutywatch/pkg/tracking"
)

type AppConfig struct {
	k *koanf.Koanf
}

func NewAppConfig() *AppConfig {
	c := &AppConfig{k: koanf.New(".")}

	setDefaults(c.k)

	return c
}

func (c *AppConfig) Load(filename ...string) bool {
	loaded := false

	for _, name := range filename {
		if err := c.k.Load(file.Provider(name), yaml.Parser()); err != nil {
			slog.Info(fmt.Sprintf("error loading config: %s", err.Error()))
		} else {
			loaded = true
		}
	}

	return loaded
}

func (c *AppConfig) LoadEnv(prefix string) error {
	return c.k.Load(env.Provider(prefix, ".", func(s string) string {
		s1 := strings.ToLower(strings.TrimPrefix(s, prefix))
		for _, pr := range []string{"arbiter_", "staleness_", "problems_", "sla_", "push_"} {
			if strings.HasPrefix(s1, pr) {
				slog.Info("ENV param: " + strings.Replace(s1, "_", ".", 1))
				return strings.Replace(s1, "_", ".", 1)
			}
		}
		slog.Info("ENV param: " + s1)

		return s1
	}), nil)
}

func (c *AppConfig) Bool(key string) bool {
	return c.k.Bool(key)
}

func (c *AppConfig) String(key string) string {
	return c.k.String(key)
}

func (c *AppConfig) Float64(key string) float64 {
	return c.k.Float64(key)
}

func (c *AppConfig) Int(key string) int {
	return c.k.Int(key)
}

func (c *AppConfig) Duration(key string) time.Duration {
	return c.k.Duration(key)
}

func (c *AppConfig) Set(key string, v any) error {
	return c.k.Set(key, v)
}

func (c *AppConfig) ApiAddr() string {
	return c.k.String("api_addr")
}

func (c *AppConfig) DataDir() string {
	return c.k.String("data_dir")
}

func (c *AppConfig) DbPath() string {
	return c.k.String("db")
}

func (c *AppConfig) DevicesFile() string {
	return c.k.String("devices_file")
}

func (c *AppConfig) PushDebounce() time.Duration {
	return c.k.Duration("push.debounce")
}

func (c *AppConfig) CheckerInterval() time.Duration {
	return c.k.Duration("checker_interval")
}

func (c *AppConfig) Arbiter() tracking.ArbiterConfig {
	return tracking.ArbiterConfig{
		GoodAccuracyM:    c.k.Float64("arbiter.good_accuracy_m"),
		GoodMaxAge:       c.k.Duration("arbiter.good_max_age"),
		PoorAccuracyM:    c.k.Float64("arbiter.poor_accuracy_m"),
		PoorMaxAge:       c.k.Duration("arbiter.poor_max_age"),
		EstimateStaleAge: c.k.Duration("arbiter.estimate_stale_age"),
		StableWindow:     c.k.Duration("arbiter.stable_window"),
		StableDistM:      c.k.Float64("arbiter.stable_dist_m"),
		MinConfidence:    c.k.Float64("arbiter.min_confidence"),
	}
}

func (c *AppConfig) Staleness() tracking.StalenessConfig {
	return tracking.StalenessConfig{
		PointsMaxAge:    c.k.Duration("staleness.points_max_age"),
		HeartbeatMaxAge: c.k.Duration("staleness.heartbeat_max_age"),
	}
}

func (c *AppConfig) Problems() tracking.ProblemsConfig {
	return tracking.ProblemsConfig{
		BatteryLowPct: c.k.Int("problems.battery_low_pct"),
		QueueMax:      c.k.Int("problems.queue_max"),
		HealthMaxAge:  c.k.Duration("problems.health_max_age"),
	}
}

func (c *AppConfig) Sla() tracking.SlaConfig {
	return tracking.SlaConfig{
		AcceptLimit:  c.k.Duration("sla.accept_limit"),
		EnrouteLimit: c.k.Duration("sla.enroute_limit"),
		OnSceneLimit: c.k.Duration("sla.onscene_limit"),
	}
}

func setDefaults(k *koanf.Koanf) {
	k.Set("api_addr", ":8080")
	k.Set("data_dir", "data")

	k.Set("db", "db.sqlite")
	k.Set("devices_file", "devices.yml")

	k.Set("push.debounce", "800ms")
	k.Set("checker_interval", "15s")

	k.Set("arbiter.good_accuracy_m", 60.0)
	k.Set("arbiter.good_max_age", "90s")
	k.Set("arbiter.poor_accuracy_m", 120.0)
	k.Set("arbiter.poor_max_age", "120s")
	k.Set("arbiter.estimate_stale_age", "180s")
	k.Set("arbiter.stable_window", "25s")
	k.Set("arbiter.stable_dist_m", 50.0)
	k.Set("arbiter.min_confidence", 0.45)

	k.Set("staleness.points_max_age", "5m")
	k.Set("staleness.heartbeat_max_age", "180s")

	k.Set("problems.battery_low_pct", 15)
	k.Set("problems.queue_max", 300)
	k.Set("problems.health_max_age", "180s")

	k.Set("sla.accept_limit", "5m")
	k.Set("sla.enroute_limit", "10m")
	k.Set("sla.onscene_limit", "15m")
}
