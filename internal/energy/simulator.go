package energy

import (
	"context"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/angristan/camp-tui/internal/logging"
	"github.com/angristan/camp-tui/internal/models"
	"github.com/angristan/camp-tui/internal/publish"
	"github.com/angristan/camp-tui/internal/schedule"
)

// DefaultInterval is the energy tick period
const DefaultInterval = time.Second

const (
	DefaultCapacityWh   = 800.0
	DefaultStartPercent = 78
	DefaultChargerName  = "Charger"
	DefaultSetpointC    = 24

	// Autosave runs while the battery is at or below this percentage
	AutoSaveThreshold = 20

	MinSetpointC = 16
	MaxSetpointC = 30

	pvPeakW           = 220
	minWeatherFactor  = 0.6
	maxWeatherFactor  = 1.0
	weatherJitter     = 0.1
	weatherSmoothing  = 0.1
	coolW             = 320
	heatW             = 350
	fanW              = 60
	compressorDuty    = 0.4
	secondsPerHour    = 3600.0
	estimateRoundingH = 10.0 // one decimal
)

// Lighting is the part of the lighting controller the autosave loop drives
type Lighting interface {
	Snapshot() *models.LightingState
	Apply(*models.LightingState) error
}

// DefaultDevices returns the stock campsite consumers
func DefaultDevices() []models.EnergyDevice {
	return []models.EnergyDevice{
		{Name: "Fridge", PowerW: 60, On: true},
		{Name: "Water Pump", PowerW: 40},
		{Name: DefaultChargerName, PowerW: 20},
	}
}

// Options configures a Simulator. Zero fields fall back to defaults,
// except StartPercent and AutoSave which are taken as given; use
// DefaultOptions as a starting point.
type Options struct {
	Interval     time.Duration
	CapacityWh   float64
	StartPercent int
	AutoSave     bool
	// nil uses DefaultDevices
	Devices []models.EnergyDevice
	// Device switched off by autosave; matched as a substring of the name
	ChargerName string
	Rand        *rand.Rand
	Logger      logging.Logger
}

// DefaultOptions returns the stock configuration
func DefaultOptions() Options {
	return Options{
		Interval:     DefaultInterval,
		CapacityWh:   DefaultCapacityWh,
		StartPercent: DefaultStartPercent,
		AutoSave:     true,
		ChargerName:  DefaultChargerName,
	}
}

// Simulator models the campsite battery: solar input, device and A/C
// load, remaining autonomy and the autosave control loop that throttles
// lighting and switches off non-essential consumers when charge is low.
type Simulator struct {
	ctx      context.Context
	log      logging.Logger
	rng      *rand.Rand
	now      func() time.Time
	task     schedule.Task
	hub      *publish.Hub[*models.EnergyState]
	lighting Lighting

	interval    time.Duration
	capacityWh  float64
	chargerName string

	state     models.EnergyState
	reserveWh float64

	weatherFactor float64
	weatherTarget float64
}

// New creates a simulator and registers its tick with sched. lighting may
// be nil, in which case autosave leaves lighting alone.
func New(ctx context.Context, sched schedule.Scheduler, lighting Lighting, opts Options) *Simulator {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.CapacityWh <= 0 {
		opts.CapacityWh = DefaultCapacityWh
	}
	if opts.Devices == nil {
		opts.Devices = DefaultDevices()
	}
	if opts.ChargerName == "" {
		opts.ChargerName = DefaultChargerName
	}
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}
	if opts.Rand == nil {
		seed := uint64(sched.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	start := models.ClampPct(opts.StartPercent)

	s := &Simulator{
		ctx:         ctx,
		log:         opts.Logger.With(logging.String("component", "energy")),
		rng:         opts.Rand,
		now:         sched.Now,
		hub:         publish.NewHub((*models.EnergyState).Clone),
		lighting:    lighting,
		interval:    opts.Interval,
		capacityWh:  opts.CapacityWh,
		chargerName: opts.ChargerName,
		state: models.EnergyState{
			BatteryPercent:    start,
			EstHoursRemaining: math.Inf(1),
			AutoSave:          opts.AutoSave,
			ACMode:            models.ACOff,
			ACSetpointC:       DefaultSetpointC,
			Devices:           append([]models.EnergyDevice(nil), opts.Devices...),
		},
		reserveWh:     opts.CapacityWh * float64(start) / 100,
		weatherFactor: 0.85,
		weatherTarget: 0.85,
	}
	s.task = sched.Every(opts.Interval, func(time.Time) {
		s.step(s.interval.Seconds())
	})
	return s
}

// Snapshot returns a copy of the current state
func (s *Simulator) Snapshot() *models.EnergyState {
	return s.state.Clone()
}

// CapacityWh is the battery capacity
func (s *Simulator) CapacityWh() float64 {
	return s.capacityWh
}

// ReserveWh is the energy currently stored
func (s *Simulator) ReserveWh() float64 {
	return s.reserveWh
}

// Subscribe registers fn to receive a copy of the state after every tick
// and command
func (s *Simulator) Subscribe(fn func(*models.EnergyState)) *publish.Subscription {
	return s.hub.Subscribe(fn)
}

// Stop cancels the tick. It is safe to call more than once.
func (s *Simulator) Stop() {
	s.task.Stop()
}

// ToggleDevice switches the named device. Unknown names are ignored.
func (s *Simulator) ToggleDevice(name string, on bool) {
	d := s.state.Device(name)
	if d == nil {
		return
	}
	d.On = on
	s.log.Debug(s.ctx, "device toggled", logging.String("device", name), logging.Bool("on", on))
	s.step(0)
}

// SetAutoSave enables or disables the autosave control loop
func (s *Simulator) SetAutoSave(enabled bool) {
	s.state.AutoSave = enabled
	s.step(0)
}

// SetAC updates the air conditioner. Switching off forces the mode to
// Off; the setpoint is clamped to 16-30 °C.
func (s *Simulator) SetAC(on bool, mode models.ACMode, setpointC int) {
	if !on {
		mode = models.ACOff
	}
	s.state.ACOn = on
	s.state.ACMode = mode
	s.state.ACSetpointC = min(MaxSetpointC, max(MinSetpointC, setpointC))
	s.log.Info(s.ctx, "ac updated",
		logging.Bool("on", on),
		logging.String("mode", mode.String()),
		logging.Int("setpoint_c", s.state.ACSetpointC))
	s.step(0)
}

// ApplySavingNow runs the autosave actions regardless of battery level
func (s *Simulator) ApplySavingNow() {
	s.applySaving()
	s.step(0)
}

func (s *Simulator) step(seconds float64) {
	pv := s.solarW()

	load := 0
	for _, d := range s.state.Devices {
		if d.On {
			load += d.PowerW
		}
	}
	if s.state.ACOn {
		load += acLoadW(s.state.ACMode)
	}

	net := pv - load
	s.reserveWh += float64(net) * seconds / secondsPerHour
	s.reserveWh = math.Min(s.capacityWh, math.Max(0, s.reserveWh))
	s.state.BatteryPercent = models.ClampPct(int(math.Round(s.reserveWh / s.capacityWh * 100)))

	if net < 0 {
		s.state.EstHoursRemaining = math.Round(s.reserveWh/float64(-net)*estimateRoundingH) / estimateRoundingH
	} else {
		s.state.EstHoursRemaining = math.Inf(1)
	}

	s.state.PVPowerW = pv
	s.state.LoadPowerW = load
	s.state.NetPowerW = net

	if s.state.AutoSave && s.state.BatteryPercent <= AutoSaveThreshold {
		s.applySaving()
	}

	s.hub.Publish(&s.state)
}

// solarW advances the cloud-cover walk and returns the panel output for
// the current time of day.
func (s *Simulator) solarW() int {
	s.weatherTarget += (s.rng.Float64() - 0.5) * weatherJitter
	s.weatherTarget = math.Min(maxWeatherFactor, math.Max(minWeatherFactor, s.weatherTarget))
	s.weatherFactor += (s.weatherTarget - s.weatherFactor) * weatherSmoothing

	return int(math.Round(pvPeakW * DayFactor(s.now()) * s.weatherFactor))
}

// DayFactor is the relative solar yield for the local time of t: zero
// before 06:00 and after 20:00, peaking at 13:00.
func DayFactor(t time.Time) float64 {
	h := float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
	return math.Min(1, math.Max(0, math.Sin((h-6)/14*math.Pi)))
}

func acLoadW(mode models.ACMode) int {
	switch mode {
	case models.ACCool:
		return int(coolW * compressorDuty)
	case models.ACHeat:
		return int(heatW * compressorDuty)
	case models.ACFan:
		return fanW
	}
	return 0
}

func (s *Simulator) applySaving() {
	var actions []string

	if s.state.ACOn {
		s.state.ACOn = false
		s.state.ACMode = models.ACOff
		actions = append(actions, "A/C switched off to save power.")
	}

	if s.lighting != nil {
		if cur := s.lighting.Snapshot(); !cur.IsLowPower() {
			if err := s.lighting.Apply(cur.LowPower()); err != nil {
				s.log.Warn(s.ctx, "autosave lighting command failed", logging.Err(err))
			} else {
				actions = append(actions, "Lighting set to NightLight 35%.")
			}
		}
	}

	for i := range s.state.Devices {
		d := &s.state.Devices[i]
		if d.On && strings.Contains(d.Name, s.chargerName) {
			d.On = false
			actions = append(actions, d.Name+" switched off.")
			break
		}
	}

	if len(actions) == 0 {
		return
	}
	action := strings.Join(actions, " ")
	s.state.LastAction = &action
	s.log.Info(s.ctx, "autosave applied",
		logging.Int("battery_pct", s.state.BatteryPercent),
		logging.String("actions", action))
}
