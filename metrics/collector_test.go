package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/fixtick/engine"
	"github.com/lixenwraith/fixtick/status"
)

func TestMetricName(t *testing.T) {
	assert.Equal(t, "timer_logic_fires", MetricName("timer.logic.fires"))
	assert.Equal(t, "clock_speed_x", MetricName("clock.speed-x"))
}

func TestCollectorExportsRegistry(t *testing.T) {
	reg := status.NewRegistry()
	reg.Counters.Get("timer.beat.fires", "Beats fired").Add(7)
	reg.Gauges.Get("clock.speed", "Game speed factor").Set(0.25)
	reg.Flags.Get("timer.beat.running", "Beat running").Store(true)

	c := NewCollector(reg, "fixtick")
	assert.Equal(t, 3, testutil.CollectAndCount(c))

	expected := `
# HELP fixtick_clock_speed Game speed factor
# TYPE fixtick_clock_speed gauge
fixtick_clock_speed 0.25
# HELP fixtick_timer_beat_fires Beats fired
# TYPE fixtick_timer_beat_fires counter
fixtick_timer_beat_fires 7
# HELP fixtick_timer_beat_running Beat running
# TYPE fixtick_timer_beat_running gauge
fixtick_timer_beat_running 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))
}

func TestCollectorWithTimer(t *testing.T) {
	reg := status.NewRegistry()
	host := engine.NewMockTicks(0)
	timer := engine.NewIntervalTimer[struct{}, struct{}](10, true,
		engine.WithClock(host),
		engine.WithStatus(reg, "logic"),
	)
	timer.Start()
	host.Set(35)
	timer.Poll(nil, nil)

	promReg := prometheus.NewPedanticRegistry()
	require.NoError(t, promReg.Register(NewCollector(reg, "fixtick")))

	expected := `
# HELP fixtick_timer_logic_fires Interval boundaries fired
# TYPE fixtick_timer_logic_fires counter
fixtick_timer_logic_fires 3
# HELP fixtick_timer_logic_running Whether the timer is running
# TYPE fixtick_timer_logic_running gauge
fixtick_timer_logic_running 1
`
	require.NoError(t, testutil.GatherAndCompare(promReg, strings.NewReader(expected),
		"fixtick_timer_logic_fires", "fixtick_timer_logic_running"))
}
