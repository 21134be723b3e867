package config

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := NewAppConfig()

	require.Equal(t, ":8080", c.ApiAddr())
	require.Equal(t, "db.sqlite", c.DbPath())
	require.Equal(t, "devices.yml", c.DevicesFile())
	require.Equal(t, time.Millisecond*800, c.PushDebounce())

	a := c.Arbiter()
	require.Equal(t, 60.0, a.GoodAccuracyM)
	require.Equal(t, time.Second*25, a.StableWindow)
	require.Equal(t, 0.45, a.MinConfidence)

	require.Equal(t, time.Minute*5, c.Staleness().PointsMaxAge)
	require.Equal(t, 15, c.Problems().BatteryLowPct)
	require.Equal(t, time.Minute*5, c.Sla().AcceptLimit)
	require.Equal(t, time.Minute*10, c.Sla().EnrouteLimit)
}

func TestLoadFile(t *testing.T) {
	f, err := os.CreateTemp("", "dutywatch_test")
	require.NoError(t, err)

	fmt.Fprint(f, "---\napi_addr: \":9000\"\narbiter:\n    good_accuracy_m: 40\nsla:\n    accept_limit: 2m\n")
	f.Close()

	c := NewAppConfig()
	require.True(t, c.Load(f.Name()))

	require.Equal(t, ":9000", c.ApiAddr())
	require.Equal(t, 40.0, c.Arbiter().GoodAccuracyM)
	require.Equal(t, time.Minute*2, c.Sla().AcceptLimit)

	// untouched keys keep their defaults
	require.Equal(t, 120.0, c.Arbiter().PoorAccuracyM)
}

func TestLoadMissingFile(t *testing.T) {
	c := NewAppConfig()

	require.False(t, c.Load("no_such_file.yml"))
	require.Equal(t, ":8080", c.ApiAddr())
}
