package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmalinin/dutywatch/pkg/model"
)

func pairedUnit() *model.Unit {
	u := model.NewUnit("u1", "c1")
	u.SetPairing("dev1", "alpha")

	return u
}

func TestAggregatorPutAndSummarize(t *testing.T) {
	agg := NewAlertAggregator(DefaultProblemsConfig())
	u := pairedUnit()

	agg.Put(&model.Alert{DeviceID: "dev1", Kind: model.AlertBatteryLow, Severity: model.SeverityWarn, IsActive: true})
	agg.Put(&model.Alert{DeviceID: "dev1", Kind: model.AlertQueue, Severity: model.SeverityCrit, IsActive: true})

	assert.True(t, agg.HasSeverity(u, model.SeverityWarn))
	assert.True(t, agg.HasSeverity(u, model.SeverityCrit))
	assert.True(t, agg.HasKind(u, model.AlertQueue))
	assert.False(t, agg.HasKind(u, model.AlertGpsOff))

	s := agg.Summarize(u)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 1, s.CritCount)
	assert.Equal(t, []string{model.AlertBatteryLow, model.AlertQueue}, s.Kinds)

	// closing removes the kind from the index
	agg.Put(&model.Alert{DeviceID: "dev1", Kind: model.AlertQueue, IsActive: false})
	assert.False(t, agg.HasSeverity(u, model.SeverityCrit))

	// repeated put of the same kind does not double count
	agg.Put(&model.Alert{DeviceID: "dev1", Kind: model.AlertBatteryLow, Severity: model.SeverityCrit, IsActive: true})
	s = agg.Summarize(u)
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 1, s.CritCount)
}

func TestAggregatorReplace(t *testing.T) {
	agg := NewAlertAggregator(DefaultProblemsConfig())
	u := pairedUnit()

	agg.Put(&model.Alert{DeviceID: "dev1", Kind: model.AlertGpsOff, Severity: model.SeverityWarn, IsActive: true})

	agg.Replace("dev1", []*model.Alert{
		{DeviceID: "dev1", Kind: model.AlertNetOffline, Severity: model.SeverityCrit, IsActive: true},
		{DeviceID: "dev1", Kind: model.AlertAppError, Severity: model.SeverityWarn, IsActive: false},
	})

	assert.False(t, agg.HasKind(u, model.AlertGpsOff))
	assert.True(t, agg.HasKind(u, model.AlertNetOffline))
	assert.False(t, agg.HasKind(u, model.AlertAppError))

	agg.Forget("dev1")
	assert.Equal(t, 0, agg.Summarize(u).Count)
}

func TestHasProblemsFromAlerts(t *testing.T) {
	now := time.Now()
	agg := NewAlertAggregator(DefaultProblemsConfig())
	u := pairedUnit()
	u.SetHealth(&model.Health{UpdatedAt: now})

	require.False(t, agg.HasProblems(u, now))

	agg.Put(&model.Alert{DeviceID: "dev1", Kind: model.AlertGpsOff, Severity: model.SeverityWarn, IsActive: true})
	require.True(t, agg.HasProblems(u, now))
}

func TestHasProblemsHeuristics(t *testing.T) {
	now := time.Now()
	agg := NewAlertAggregator(DefaultProblemsConfig())

	cases := []struct {
		name   string
		health *model.Health
		want   bool
	}{
		{"healthy", &model.Health{Net: "wifi", GPS: "on", UpdatedAt: now}, false},
		{"last error", &model.Health{LastError: "http 500", UpdatedAt: now}, true},
		{"net none", &model.Health{Net: "none", UpdatedAt: now}, true},
		{"gps off", &model.Health{GPS: "off", UpdatedAt: now}, true},
		{"gps denied", &model.Health{GPS: "denied", UpdatedAt: now}, true},
		{"battery low", &model.Health{BatteryPct: intp(10), UpdatedAt: now}, true},
		{"battery low but charging", &model.Health{BatteryPct: intp(10), IsCharging: boolp(true), UpdatedAt: now}, false},
		{"queue backlog", &model.Health{QueueSize: intp(500), UpdatedAt: now}, true},
		{"health aged out", &model.Health{UpdatedAt: now.Add(-time.Minute * 5)}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := pairedUnit()
			u.SetHealth(tc.health)

			assert.Equal(t, tc.want, agg.HasProblems(u, now))
		})
	}
}

func TestHasProblemsNoHealth(t *testing.T) {
	agg := NewAlertAggregator(DefaultProblemsConfig())

	assert.False(t, agg.HasProblems(pairedUnit(), time.Now()))
	assert.False(t, agg.HasProblems(nil, time.Now()))
}
