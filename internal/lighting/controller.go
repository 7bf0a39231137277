package lighting

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/angristan/camp-tui/internal/logging"
	"github.com/angristan/camp-tui/internal/models"
	"github.com/angristan/camp-tui/internal/publish"
	"github.com/angristan/camp-tui/internal/schedule"
)

// DefaultInterval is the animation tick period
const DefaultInterval = 60 * time.Millisecond

const (
	pulseStep          = 0.12 // radians per tick
	pulseMinBrightness = 5
	pulseMinAmplitude  = 5
	pulseAmplitude     = 0.35
	cycleSaturation    = 0.55
	nightStartHour     = 21
	nightEndHour       = 6
)

// ErrNilState is returned by Apply when no state is supplied.
var ErrNilState = errors.New("lighting: nil state")

// Options configures a Controller
type Options struct {
	// Tick period; DefaultInterval when zero
	Interval time.Duration
	// Starting state; models.DefaultLightingState when nil
	Initial *models.LightingState
	Logger  logging.Logger
}

// Controller owns the campsite lighting state and animates the Pulse and
// ColorCycle effects. State is only mutated on the scheduler's execution
// context: by the tick, Apply or Toggle.
type Controller struct {
	ctx   context.Context
	log   logging.Logger
	sched schedule.Scheduler
	task  schedule.Task
	hub   *publish.Hub[*models.LightingState]

	state models.LightingState
	// Brightness last set by Apply; Pulse oscillates around it
	base  int
	phase float64
	hue   float64
}

// New creates a controller and registers its tick with sched
func New(ctx context.Context, sched schedule.Scheduler, opts Options) *Controller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}
	initial := models.DefaultLightingState()
	if opts.Initial != nil {
		initial = *opts.Initial.Clone()
	}
	initial.Brightness = models.ClampPct(initial.Brightness)

	c := &Controller{
		ctx:   ctx,
		log:   opts.Logger.With(logging.String("component", "lighting")),
		sched: sched,
		hub:   publish.NewHub((*models.LightingState).Clone),
		state: initial,
		base:  initial.Brightness,
	}
	c.hue, _, _ = initial.Color.HSV()
	c.task = sched.Every(opts.Interval, c.tick)
	return c
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() *models.LightingState {
	return c.state.Clone()
}

// Base returns the brightness last set by Apply. It differs from the
// published brightness while Pulse is animating.
func (c *Controller) Base() int {
	return c.base
}

// Subscribe registers fn to receive a copy of the state on every change
func (c *Controller) Subscribe(fn func(*models.LightingState)) *publish.Subscription {
	return c.hub.Subscribe(fn)
}

// Apply replaces the whole state. Brightness is clamped to 0-100. With
// AutoNight set, a Static or Reading request at night is turned into the
// warm NightLight preset.
func (c *Controller) Apply(s *models.LightingState) error {
	if s == nil {
		return ErrNilState
	}
	prev := c.state.Effect

	next := *s.Clone()
	next.Brightness = models.ClampPct(next.Brightness)
	if !next.Effect.Valid() {
		next.Effect = models.EffectStatic
	}
	if next.AutoNight && IsNight(c.sched.Now()) &&
		(next.Effect == models.EffectStatic || next.Effect == models.EffectReading) {
		c.log.Debug(c.ctx, "auto night override",
			logging.String("requested", next.Effect.String()))
		next = *next.LowPower()
	}

	if next.Effect == models.EffectReading && prev != models.EffectReading {
		next.Color = models.ColorReading
	}
	if next.Effect == models.EffectColorCycle && prev != models.EffectColorCycle {
		// Continue the cycle from the colour currently shown.
		c.hue, _, _ = next.Color.HSV()
	}

	c.state = next
	c.base = next.Brightness
	if prev != next.Effect {
		c.log.Info(c.ctx, "effect changed",
			logging.String("from", prev.String()),
			logging.String("to", next.Effect.String()))
	}
	c.publish()
	return nil
}

// Toggle switches the lights on or off. It does nothing when the state
// already matches.
func (c *Controller) Toggle(on bool) {
	if c.state.On == on {
		return
	}
	c.state.On = on
	c.publish()
}

// Stop cancels the animation tick. It is safe to call more than once.
func (c *Controller) Stop() {
	c.task.Stop()
}

func (c *Controller) tick(time.Time) {
	if !c.state.On || !c.state.Effect.Animated() {
		return
	}

	changed := false
	switch c.state.Effect {
	case models.EffectPulse:
		c.phase += pulseStep
		if c.phase > 2*math.Pi {
			c.phase -= 2 * math.Pi
		}
		amp := max(pulseMinAmplitude, int(float64(c.base)*pulseAmplitude))
		pulsed := c.base + int(math.Sin(c.phase)*float64(amp))
		pulsed = min(100, max(pulseMinBrightness, pulsed))
		if pulsed != c.state.Brightness {
			c.state.Brightness = pulsed
			changed = true
		}

	case models.EffectColorCycle:
		c.hue += 1
		if c.hue >= 360 {
			c.hue -= 360
		}
		color := models.FromHSV(c.hue, cycleSaturation, 1)
		if color != c.state.Color {
			c.state.Color = color
			changed = true
		}
	}

	if changed {
		c.publish()
	}
}

func (c *Controller) publish() {
	c.hub.Publish(&c.state)
}

// IsNight reports whether t falls in the 21:00-06:00 night window
func IsNight(t time.Time) bool {
	h := t.Hour()
	return h >= nightStartHour || h < nightEndHour
}
