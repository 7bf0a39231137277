package weather

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/angristan/camp-tui/internal/logging"
	"github.com/angristan/camp-tui/internal/models"
	"github.com/angristan/camp-tui/internal/publish"
	"github.com/angristan/camp-tui/internal/schedule"
)

// DefaultInterval is the weather tick period
const DefaultInterval = 1200 * time.Millisecond

const (
	targetChance = 0.08
	stormChance  = 0.06

	minTempC, maxTempC = 12.0, 34.0
	minHum, maxHum     = 30, 95
	maxWindKmh         = 40.0

	stormWindKmh = 28.0
	stormHum     = 80

	tempSmoothing = 0.08
	humSmoothing  = 0.10
	windSmoothing = 0.10
	dirSmoothing  = 0.10
)

// Options configures a Simulator
type Options struct {
	Interval time.Duration
	// Random source; seeded from the clock when nil
	Rand   *rand.Rand
	Logger logging.Logger
}

// Simulator drifts temperature, humidity and wind toward occasionally
// re-rolled targets and keeps a bounded history of observations.
type Simulator struct {
	ctx  context.Context
	log  logging.Logger
	rng  *rand.Rand
	task schedule.Task
	now  func() time.Time
	hub  *publish.Hub[*models.WeatherState]

	state models.WeatherState

	targetTemp float64
	targetHum  int
	targetWind float64
	targetDir  float64
}

// New creates a simulator and registers its tick with sched
func New(ctx context.Context, sched schedule.Scheduler, opts Options) *Simulator {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}
	if opts.Rand == nil {
		seed := uint64(sched.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}

	s := &Simulator{
		ctx: ctx,
		log: opts.Logger.With(logging.String("component", "weather")),
		rng: opts.Rand,
		now: sched.Now,
		hub: publish.NewHub((*models.WeatherState).Clone),
		state: models.WeatherState{
			Now: models.WeatherSnapshot{
				Time:        sched.Now(),
				TempC:       21.5,
				HumidityPct: 65,
				WindKmh:     7.5,
				WindDirDeg:  220,
				Condition:   models.ConditionClear,
			},
		},
		targetTemp: 22,
		targetHum:  60,
		targetWind: 8,
		targetDir:  220,
	}
	s.task = sched.Every(opts.Interval, s.tick)
	return s
}

// Snapshot returns a copy of the current state including history
func (s *Simulator) Snapshot() *models.WeatherState {
	return s.state.Clone()
}

// Subscribe registers fn to receive a copy of the state after every tick
func (s *Simulator) Subscribe(fn func(*models.WeatherState)) *publish.Subscription {
	return s.hub.Subscribe(fn)
}

// Stop cancels the tick. It is safe to call more than once.
func (s *Simulator) Stop() {
	s.task.Stop()
}

// WindStrength01 is the current wind normalized against 40 km/h
func (s *Simulator) WindStrength01() float64 {
	return clamp(s.state.Now.WindKmh/maxWindKmh, 0, 1)
}

// WindDirDeg is the current wind direction in degrees
func (s *Simulator) WindDirDeg() float64 {
	return s.state.Now.WindDirDeg
}

// Advisory is the shelter recommendation for the current conditions
func (s *Simulator) Advisory() Advisory {
	return AdviseFor(s.state.Now)
}

func (s *Simulator) tick(now time.Time) {
	cur := &s.state.Now

	if s.rng.Float64() < targetChance {
		s.targetTemp = clamp(s.targetTemp+s.rng.Float64()*2-1, minTempC, maxTempC)
		s.targetHum = min(maxHum, max(minHum, s.targetHum+s.rng.IntN(17)-8))
		s.targetWind = clamp(s.targetWind+s.rng.Float64()*4-2, 0, maxWindKmh)
		s.targetDir = math.Mod(s.targetDir+float64(s.rng.IntN(41)-20)+360, 360)

		prev := cur.Condition
		if s.rng.Float64() < stormChance {
			s.targetWind = math.Max(s.targetWind, stormWindKmh)
			s.targetHum = max(s.targetHum, stormHum)
			cur.Condition = models.ConditionStorm
		} else {
			cur.Condition = classify(s.targetWind, s.targetHum)
		}
		if cur.Condition != prev {
			s.log.Info(s.ctx, "condition changed",
				logging.String("from", prev.String()),
				logging.String("to", cur.Condition.String()))
		}
	}

	cur.TempC = lerp(cur.TempC, s.targetTemp, tempSmoothing)
	cur.HumidityPct = int(math.Round(lerp(float64(cur.HumidityPct), float64(s.targetHum), humSmoothing)))
	cur.WindKmh = lerp(cur.WindKmh, s.targetWind, windSmoothing)
	cur.WindDirDeg = turnToward(cur.WindDirDeg, s.targetDir, dirSmoothing)
	cur.Time = now

	s.state.Push(*cur)
	s.hub.Publish(&s.state)
}

func classify(wind float64, hum int) models.Condition {
	switch {
	case wind > 18:
		return models.ConditionWindy
	case hum > 75:
		return models.ConditionRain
	case hum > 60:
		return models.ConditionCloudy
	}
	return models.ConditionClear
}

// turnToward moves from by t of the shortest arc toward to; result in [0,360)
func turnToward(from, to, t float64) float64 {
	diff := math.Mod(to-from+540, 360) - 180
	next := math.Mod(from+diff*t+360, 360)
	if next >= 360 {
		next = 0
	}
	return next
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
