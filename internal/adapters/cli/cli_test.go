package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/farmsim-go/internal/application/farm"
	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/application/simulation"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
	"github.com/andrescamacho/farmsim-go/internal/infrastructure/config"
	"github.com/andrescamacho/farmsim-go/test/helpers"
)

func newSession(t *testing.T) (*session, *simulation.Engine, *bytes.Buffer) {
	t.Helper()
	engine, _ := helpers.NewTestEngine(t, helpers.TestEngineConfig())
	m := mediator.NewMediator()
	require.NoError(t, farm.RegisterHandlers(m, farm.Dependencies{Engine: engine}))

	out := &bytes.Buffer{}
	return &session{
		mediator: m,
		drain:    engine.DrainEvents,
		week:     helpers.TestWeek,
		out:      out,
	}, engine, out
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		verb    string
		args    []string
		action  string
		crop    string
		area    float64
		amount  float64
		wantErr string
	}{
		{name: "plant", verb: "plant", args: []string{"wheat", "12.5"}, action: "plant", crop: "wheat", area: 12.5},
		{name: "plant missing area", verb: "plant", args: []string{"wheat"}, wantErr: "usage: plant"},
		{name: "plant bad area", verb: "plant", args: []string{"wheat", "lots"}, wantErr: `"lots" is not a number`},
		{name: "plant NaN area", verb: "plant", args: []string{"wheat", "NaN"}, wantErr: `"NaN" is not a number`},
		{name: "sell infinite amount", verb: "sell", args: []string{"wheat", "+Inf"}, wantErr: `"+Inf" is not a number`},
		{name: "irrigate all", verb: "irrigate", args: []string{"heavy"}, action: "irrigate"},
		{name: "irrigate one crop", verb: "irrigate", args: []string{"light", "corn"}, action: "irrigate", crop: "corn"},
		{name: "fertilize", verb: "fertilize", args: []string{"npk"}, action: "fertilize"},
		{name: "harvest", verb: "harvest", args: []string{"rice"}, action: "harvest", crop: "rice"},
		{name: "sell", verb: "sell", args: []string{"wheat", "300"}, action: "sell", crop: "wheat", amount: 300},
		{name: "farm type", verb: "farm-type", args: []string{"organic"}, action: "change_farm_type"},
		{name: "unknown", verb: "dance", wantErr: "unknown action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := parseAction(tt.verb, tt.args)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.action, cmd.Action)
			assert.Equal(t, tt.crop, cmd.CropType)
			assert.Equal(t, tt.area, cmd.Area)
			assert.Equal(t, tt.amount, cmd.Amount)
		})
	}
}

func TestOptionalCount(t *testing.T) {
	assert.Equal(t, 4, optionalCount(nil, 4))
	assert.Equal(t, 7, optionalCount([]string{"7"}, 4))
	assert.Equal(t, 4, optionalCount([]string{"-2"}, 4))
	assert.Equal(t, 4, optionalCount([]string{"x"}, 4))
}

func TestSession_ScriptedGame(t *testing.T) {
	// Arrange
	s, engine, out := newSession(t)
	script := strings.Join([]string{
		"# comments and blank lines are skipped",
		"",
		"plant wheat 10",
		"plant wheat 1000",
		"wait 2",
		"fly",
		"status",
		"quit",
		"plant corn 5",
	}, "\n")

	// Act
	err := s.loop(context.Background(), strings.NewReader(script))

	// Assert
	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "plant: ")
	assert.Contains(t, text, "[insufficient_land]")
	assert.Contains(t, text, "week 3 (")
	assert.Contains(t, text, "week 2 settled")
	assert.Contains(t, text, `unknown command "fly"`)

	state := engine.Snapshot()
	require.Len(t, state.Crops, 1, "lines after quit are not read")
	assert.Equal(t, uint32(3), state.Clock.Week)
}

func TestSession_WaitRejectsBadCount(t *testing.T) {
	s, engine, out := newSession(t)

	require.NoError(t, s.loop(context.Background(), strings.NewReader("wait 0\nwait soon\n")))

	assert.Equal(t, 2, strings.Count(out.String(), "wait takes a positive number of weeks"))
	assert.Equal(t, uint32(1), engine.Snapshot().Clock.Week)
}

func TestSession_AutopilotAndViews(t *testing.T) {
	s, engine, out := newSession(t)

	require.NoError(t, s.loop(context.Background(), strings.NewReader("autopilot\nprices\nforecast\ndecisions\nreports\n")))

	assert.Contains(t, out.String(), "autopilot: PLANT APPLIED")
	assert.Len(t, engine.Snapshot().Crops, 1)
}

func TestEngineConfig_FromDefaults(t *testing.T) {
	cfg := config.LoadConfigOrDefault("")
	cfg.Simulation.FarmType = "industrial"
	cfg.Economy.PriceMode = "weekly"
	cfg.Simulation.FarmSize = 250

	sc, err := EngineConfig(cfg)

	require.NoError(t, err)
	assert.Equal(t, economy.Industrial, sc.FarmType)
	assert.Equal(t, economy.PriceModeWeekly, sc.PriceMode)
	assert.Equal(t, 250.0, sc.FarmSize)
	assert.Equal(t, 7*time.Minute, WeekDuration(cfg))
}

func TestEngineConfig_RejectsUnknownFarmType(t *testing.T) {
	cfg := config.LoadConfigOrDefault("")
	cfg.Simulation.FarmType = "hydroponic"

	_, err := EngineConfig(cfg)

	assert.Error(t, err)
}

func TestMaskPassword(t *testing.T) {
	masked := maskPassword("postgresql://farmer:secret@db:5432/farm")
	assert.NotContains(t, masked, "secret")
	assert.Contains(t, masked, "farmer:")
	assert.Contains(t, masked, "@db:5432/farm")
	assert.Equal(t, "file:farm.db", maskPassword("file:farm.db"))
}
