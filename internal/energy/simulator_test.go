package energy

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angristan/camp-tui/internal/lighting"
	"github.com/angristan/camp-tui/internal/models"
	"github.com/angristan/camp-tui/internal/schedule"
)

type fakeLighting struct {
	state   models.LightingState
	applied int
}

func (f *fakeLighting) Snapshot() *models.LightingState { return f.state.Clone() }

func (f *fakeLighting) Apply(s *models.LightingState) error {
	f.applied++
	f.state = *s.Clone()
	return nil
}

func at(hour int) time.Time {
	return time.Date(2026, time.June, 21, hour, 0, 0, 0, time.UTC)
}

func newSimulator(t *testing.T, clock *schedule.Manual, l Lighting, mutate func(*Options)) *Simulator {
	t.Helper()
	opts := DefaultOptions()
	opts.Rand = rand.New(rand.NewPCG(7, 11))
	if mutate != nil {
		mutate(&opts)
	}
	s := New(context.Background(), clock, l, opts)
	t.Cleanup(s.Stop)
	return s
}

func TestInitialState(t *testing.T) {
	s := newSimulator(t, schedule.NewManual(at(12)), nil, nil)
	st := s.Snapshot()
	assert.Equal(t, 78, st.BatteryPercent)
	assert.True(t, st.AutoSave)
	assert.Equal(t, 24, st.ACSetpointC)
	assert.Nil(t, st.LastAction)
	assert.Len(t, st.Devices, 3)
	assert.InDelta(t, 624, s.ReserveWh(), 1e-9)
	assert.Equal(t, 800.0, s.CapacityWh())
}

func TestInvariantsHoldEveryTick(t *testing.T) {
	clock := schedule.NewManual(at(4))
	s := newSimulator(t, clock, nil, func(o *Options) {
		o.CapacityWh = 50
	})
	s.SetAC(true, models.ACHeat, 22)

	ticks := 0
	s.Subscribe(func(st *models.EnergyState) {
		ticks++
		assert.Equal(t, st.PVPowerW-st.LoadPowerW, st.NetPowerW)
		assert.GreaterOrEqual(t, st.BatteryPercent, 0)
		assert.LessOrEqual(t, st.BatteryPercent, 100)
		assert.GreaterOrEqual(t, st.PVPowerW, 0)
		assert.LessOrEqual(t, st.PVPowerW, 220)
		assert.GreaterOrEqual(t, st.LoadPowerW, 0)
		if st.NetPowerW < 0 {
			assert.False(t, math.IsInf(st.EstHoursRemaining, 0))
			assert.GreaterOrEqual(t, st.EstHoursRemaining, 0.0)
		} else {
			assert.True(t, math.IsInf(st.EstHoursRemaining, 1))
		}
		assert.GreaterOrEqual(t, s.ReserveWh(), 0.0)
		assert.LessOrEqual(t, s.ReserveWh(), s.CapacityWh())
	})

	clock.Advance(16 * time.Hour)
	assert.Equal(t, 16*3600, ticks)
}

func TestNightDischarge(t *testing.T) {
	clock := schedule.NewManual(at(23))
	s := newSimulator(t, clock, nil, func(o *Options) {
		o.Devices = []models.EnergyDevice{{Name: "Fridge", PowerW: 60, On: true}}
	})

	prevPct, prevHours := 100, math.Inf(1)
	s.Subscribe(func(st *models.EnergyState) {
		assert.Zero(t, st.PVPowerW)
		assert.Equal(t, -60, st.NetPowerW)
		assert.LessOrEqual(t, st.BatteryPercent, prevPct)
		require.False(t, math.IsInf(st.EstHoursRemaining, 1))
		assert.LessOrEqual(t, st.EstHoursRemaining, prevHours)
		prevPct, prevHours = st.BatteryPercent, st.EstHoursRemaining
	})

	clock.Advance(time.Hour)

	// 624 Wh - 60 Wh
	assert.InDelta(t, 564, s.ReserveWh(), 1e-6)
	assert.InDelta(t, 70.5, s.Snapshot().BatteryPercent, 0.5)
	assert.Equal(t, 9.4, s.Snapshot().EstHoursRemaining)
}

func TestAutoSaveOnLowBattery(t *testing.T) {
	clock := schedule.NewManual(at(22))
	light := lighting.New(context.Background(), clock, lighting.Options{})
	t.Cleanup(light.Stop)

	off := light.Snapshot()
	off.On = false
	off.Brightness = 80
	off.Effect = models.EffectPulse
	require.NoError(t, light.Apply(off))

	s := newSimulator(t, clock, light, func(o *Options) {
		o.StartPercent = 15
	})
	s.SetAC(true, models.ACCool, 21)
	s.ToggleDevice("Charger", true)

	st := s.Snapshot()
	assert.False(t, st.ACOn)
	assert.Equal(t, models.ACOff, st.ACMode)
	assert.False(t, st.Device("Charger").On)
	require.NotNil(t, st.LastAction)

	ls := light.Snapshot()
	assert.True(t, ls.On)
	assert.Equal(t, models.EffectNightLight, ls.Effect)
	assert.LessOrEqual(t, ls.Brightness, 35)
	assert.Equal(t, models.ColorNightWarm, ls.Color)

	clock.Advance(DefaultInterval)
	st = s.Snapshot()
	assert.False(t, st.ACOn)
	assert.True(t, light.Snapshot().IsLowPower())
}

func TestAutoSaveIsIdempotent(t *testing.T) {
	clock := schedule.NewManual(at(22))
	light := &fakeLighting{state: models.DefaultLightingState()}
	s := newSimulator(t, clock, light, func(o *Options) {
		o.StartPercent = 10
	})

	clock.Advance(DefaultInterval)
	require.Equal(t, 1, light.applied)
	first := s.Snapshot().LastAction
	require.NotNil(t, first)

	clock.Advance(10 * DefaultInterval)
	assert.Equal(t, 1, light.applied, "lighting already in low power")
	assert.Equal(t, *first, *s.Snapshot().LastAction)
}

func TestAutoSaveDisabled(t *testing.T) {
	clock := schedule.NewManual(at(22))
	light := &fakeLighting{state: models.DefaultLightingState()}
	s := newSimulator(t, clock, light, func(o *Options) {
		o.StartPercent = 10
		o.AutoSave = false
	})
	s.SetAC(true, models.ACFan, 24)

	clock.Advance(5 * DefaultInterval)
	assert.True(t, s.Snapshot().ACOn)
	assert.Zero(t, light.applied)
	assert.Nil(t, s.Snapshot().LastAction)
}

func TestApplySavingNow(t *testing.T) {
	clock := schedule.NewManual(at(12))
	light := &fakeLighting{state: models.DefaultLightingState()}
	s := newSimulator(t, clock, light, nil)
	s.SetAC(true, models.ACHeat, 26)

	var got []*models.EnergyState
	s.Subscribe(func(st *models.EnergyState) { got = append(got, st) })
	s.ApplySavingNow()

	require.Len(t, got, 1)
	assert.False(t, got[0].ACOn)
	assert.Equal(t, 78, got[0].BatteryPercent)
	require.NotNil(t, got[0].LastAction)
	assert.Contains(t, *got[0].LastAction, "A/C")
	assert.True(t, light.state.IsLowPower())
}

func TestToggleDevice(t *testing.T) {
	clock := schedule.NewManual(at(2))
	s := newSimulator(t, clock, nil, nil)

	var got []*models.EnergyState
	s.Subscribe(func(st *models.EnergyState) { got = append(got, st) })

	s.ToggleDevice("Water Pump", true)
	require.Len(t, got, 1)
	assert.Equal(t, 100, got[0].LoadPowerW)
	assert.Equal(t, -100, got[0].NetPowerW)
	assert.Equal(t, 6.2, got[0].EstHoursRemaining)

	s.ToggleDevice("Jacuzzi", true)
	assert.Len(t, got, 1, "unknown device must not publish")
}

func TestSetAC(t *testing.T) {
	clock := schedule.NewManual(at(2))
	s := newSimulator(t, clock, nil, nil)

	tests := []struct {
		on       bool
		mode     models.ACMode
		setpoint int
		wantMode models.ACMode
		wantSet  int
		wantLoad int
	}{
		{true, models.ACCool, 22, models.ACCool, 22, 60 + 128},
		{true, models.ACHeat, 40, models.ACHeat, 30, 60 + 140},
		{true, models.ACFan, 5, models.ACFan, 16, 60 + 60},
		{false, models.ACCool, 24, models.ACOff, 24, 60},
	}
	for _, tt := range tests {
		s.SetAC(tt.on, tt.mode, tt.setpoint)
		st := s.Snapshot()
		assert.Equal(t, tt.on, st.ACOn)
		assert.Equal(t, tt.wantMode, st.ACMode)
		assert.Equal(t, tt.wantSet, st.ACSetpointC)
		assert.Equal(t, tt.wantLoad, st.LoadPowerW)
	}
}

func TestBatteryClampsAtEmpty(t *testing.T) {
	clock := schedule.NewManual(at(1))
	s := newSimulator(t, clock, nil, func(o *Options) {
		o.CapacityWh = 1
		o.StartPercent = 50
		o.AutoSave = false
	})
	clock.Advance(time.Minute)

	st := s.Snapshot()
	assert.Zero(t, st.BatteryPercent)
	assert.Zero(t, s.ReserveWh())
	assert.Zero(t, st.EstHoursRemaining)
}

func TestSolarChargesAtMidday(t *testing.T) {
	clock := schedule.NewManual(at(13))
	s := newSimulator(t, clock, nil, func(o *Options) {
		o.Devices = []models.EnergyDevice{}
	})
	clock.Advance(time.Minute)

	st := s.Snapshot()
	assert.GreaterOrEqual(t, st.PVPowerW, 132)
	assert.Positive(t, st.NetPowerW)
	assert.True(t, math.IsInf(st.EstHoursRemaining, 1))
	assert.Greater(t, s.ReserveWh(), 624.0)
}

func TestStop(t *testing.T) {
	clock := schedule.NewManual(at(12))
	s := newSimulator(t, clock, nil, nil)
	calls := 0
	s.Subscribe(func(*models.EnergyState) { calls++ })

	s.Stop()
	s.Stop()
	clock.Advance(time.Minute)
	assert.Zero(t, calls)
}

func TestDayFactor(t *testing.T) {
	assert.Zero(t, DayFactor(at(3)))
	assert.Zero(t, DayFactor(at(6)))
	assert.InDelta(t, 1, DayFactor(at(13)), 1e-9)
	assert.Zero(t, DayFactor(at(20)))
	assert.Zero(t, DayFactor(at(23)))
	assert.InDelta(t, math.Sin(3.0/14*math.Pi), DayFactor(at(9)), 1e-9)
}
