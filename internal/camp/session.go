// Package camp wires the campsite simulators into a single session that is
// passed explicitly to the presentation layer.
package camp

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/angristan/camp-tui/internal/config"
	"github.com/angristan/camp-tui/internal/energy"
	"github.com/angristan/camp-tui/internal/lighting"
	"github.com/angristan/camp-tui/internal/logging"
	"github.com/angristan/camp-tui/internal/models"
	"github.com/angristan/camp-tui/internal/navigation"
	"github.com/angristan/camp-tui/internal/publish"
	"github.com/angristan/camp-tui/internal/schedule"
	"github.com/angristan/camp-tui/internal/weather"
)

// Session owns one instance of every simulator plus the selected tent
// site. All methods except Close, Status readers and Subscribe calls must
// run on the scheduler's execution context.
type Session struct {
	ID string

	Energy     *energy.Simulator
	Lighting   *lighting.Controller
	Weather    *weather.Simulator
	Navigation *navigation.Planner

	ctx     context.Context
	log     logging.Logger
	site    models.SiteSelection
	siteHub *publish.Hub[*models.SiteSelection]

	closeOnce sync.Once
}

// Status bundles one snapshot of every simulator
type Status struct {
	Energy     *models.EnergyState
	Lighting   *models.LightingState
	Weather    *models.WeatherState
	Navigation *models.NavigationState
	Site       *models.SiteSelection
	Advisory   weather.Advisory
}

// NewSession validates cfg and starts all simulators on sched
func NewSession(ctx context.Context, sched schedule.Scheduler, cfg *config.Config, logger logging.Logger) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	ctx, log := logging.WithSessionLogger(ctx, logger)
	id := logging.SessionIDFromContext(ctx)

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(sched.Now().UnixNano())
	}

	initial := models.DefaultLightingState()
	initial.Brightness = cfg.Lighting.Brightness
	initial.AutoNight = cfg.Lighting.AutoNight
	light := lighting.New(ctx, sched, lighting.Options{
		Interval: cfg.Lighting.Interval(),
		Initial:  &initial,
		Logger:   log,
	})

	devices := make([]models.EnergyDevice, 0, len(cfg.Energy.Devices))
	for _, d := range cfg.Energy.Devices {
		devices = append(devices, models.EnergyDevice{Name: d.Name, PowerW: d.PowerW, On: d.On})
	}
	power := energy.New(ctx, sched, light, energy.Options{
		Interval:     cfg.Energy.Interval(),
		CapacityWh:   cfg.Energy.CapacityWh,
		StartPercent: cfg.Energy.StartPercent,
		AutoSave:     cfg.Energy.AutoSave,
		Devices:      devices,
		ChargerName:  cfg.Energy.ChargerName,
		Rand:         newRand(seed, 1),
		Logger:       log,
	})

	wx := weather.New(ctx, sched, weather.Options{
		Interval: cfg.Weather.Interval(),
		Rand:     newRand(seed, 2),
		Logger:   log,
	})

	nav := navigation.New(ctx, log)
	nav.Rescale(models.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height})

	log.Info(ctx, "session started",
		logging.Float("capacity_wh", cfg.Energy.CapacityWh),
		logging.Int("devices", len(devices)),
		logging.Any("seed", cfg.Seed))

	return &Session{
		ID:         id,
		Energy:     power,
		Lighting:   light,
		Weather:    wx,
		Navigation: nav,
		ctx:        ctx,
		log:        log,
		siteHub:    publish.NewHub((*models.SiteSelection).Clone),
	}, nil
}

func newRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// Context carries the session ID and logger
func (s *Session) Context() context.Context {
	return s.ctx
}

// Status collects a snapshot of every simulator
func (s *Session) Status() Status {
	return Status{
		Energy:     s.Energy.Snapshot(),
		Lighting:   s.Lighting.Snapshot(),
		Weather:    s.Weather.Snapshot(),
		Navigation: s.Navigation.Snapshot(),
		Site:       s.site.Clone(),
		Advisory:   s.Weather.Advisory(),
	}
}

// SelectSite records the chosen tent site and its ground scores. Scores
// are clamped to 0-1.
func (s *Session) SelectSite(at models.Point, stability, humidity, sun float64) {
	s.site = models.SiteSelection{
		Site:            &at,
		GroundStability: stability,
		Humidity:        humidity,
		SunExposure:     sun,
	}
	s.site.Clamp()
	s.log.Info(s.ctx, "site selected",
		logging.Float("x", at.X),
		logging.Float("y", at.Y),
		logging.Float("stability", s.site.GroundStability))
	s.siteHub.Publish(&s.site)
}

// ClearSite drops the current selection
func (s *Session) ClearSite() {
	if s.site.Site == nil {
		return
	}
	s.site = models.SiteSelection{}
	s.siteHub.Publish(&s.site)
}

// Site returns a copy of the current selection
func (s *Session) Site() *models.SiteSelection {
	return s.site.Clone()
}

// SubscribeSite registers fn for site selection changes
func (s *Session) SubscribeSite(fn func(*models.SiteSelection)) *publish.Subscription {
	return s.siteHub.Subscribe(fn)
}

// Close stops every simulator. Further calls do nothing.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.Energy.Stop()
		s.Lighting.Stop()
		s.Weather.Stop()
		s.log.Info(s.ctx, "session closed")
	})
}
