package navigation

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/angristan/camp-tui/internal/logging"
	"github.com/angristan/camp-tui/internal/models"
	"github.com/angristan/camp-tui/internal/publish"
)

const (
	// Map scale: two viewport pixels per metre
	PixelsPerMeter = 2.0
	// Walking speed used for time estimates, m/s
	WalkingSpeed = 1.2

	turnThreshold = 0.35 // radians
)

// DefaultViewport is the map size assumed until the first Rescale
var DefaultViewport = models.Size{Width: 1600, Height: 1067}

// Guidance messages
const (
	MsgStart    = "Head for the campsite exit."
	MsgLeft     = "Turn left onto the next trail."
	MsgRight    = "Turn right onto the next trail."
	MsgStraight = "Continue straight ahead."
	MsgArrived  = "You have arrived at the shelter!"
)

// OverlayToggle changes the map overlays; nil fields are left alone
type OverlayToggle struct {
	Routes  *bool
	Pins    *bool
	Hazards *bool
}

// Planner selects one of the precomputed routes from Basecamp and derives
// its pixel path, distance, walking time and turn-by-turn guidance.
type Planner struct {
	ctx context.Context
	log logging.Logger
	hub *publish.Hub[*models.NavigationState]

	state models.NavigationState
}

// New creates a planner heading to Forest Ridge on the recommended route
func New(ctx context.Context, logger logging.Logger) *Planner {
	if logger == nil {
		logger = logging.Noop()
	}
	p := &Planner{
		ctx: ctx,
		log: logger.With(logging.String("component", "navigation")),
		hub: publish.NewHub((*models.NavigationState).Clone),
		state: models.NavigationState{
			Start:       Basecamp,
			Destination: ForestRidge,
			Preference:  models.PreferenceRecommended,
			ShowRoutes:  true,
			ShowPins:    true,
			ShowHazards: true,
			Viewport:    DefaultViewport,
		},
	}
	p.recompute()
	return p
}

// Destinations lists the selectable destinations
func Destinations() []models.MapPoint {
	return append([]models.MapPoint(nil), destinations...)
}

// Snapshot returns a copy of the current state
func (p *Planner) Snapshot() *models.NavigationState {
	return p.state.Clone()
}

// Subscribe registers fn to receive a copy of the state after every change
func (p *Planner) Subscribe(fn func(*models.NavigationState)) *publish.Subscription {
	return p.hub.Subscribe(fn)
}

// SetDestination selects a destination by ID, case-insensitively.
// Unknown IDs are ignored.
func (p *Planner) SetDestination(id string) {
	for _, d := range destinations {
		if strings.EqualFold(d.ID, strings.TrimSpace(id)) {
			p.state.Destination = d
			p.log.Info(p.ctx, "destination changed",
				logging.String("id", d.ID),
				logging.String("name", d.Name))
			p.RecomputePath(p.state.Viewport)
			return
		}
	}
}

// SetPreference selects the route variant. Unknown values are ignored.
func (p *Planner) SetPreference(pref models.Preference) {
	if !pref.Valid() {
		return
	}
	p.state.Preference = pref
	p.RecomputePath(p.state.Viewport)
}

// SetPreferenceByName is SetPreference with a case-insensitive name
func (p *Planner) SetPreferenceByName(name string) {
	if pref, ok := models.ParsePreference(name); ok {
		p.SetPreference(pref)
	}
}

// ToggleOverlays updates the overlay flags that are set in t
func (p *Planner) ToggleOverlays(t OverlayToggle) {
	if t.Routes != nil {
		p.state.ShowRoutes = *t.Routes
	}
	if t.Pins != nil {
		p.state.ShowPins = *t.Pins
	}
	if t.Hazards != nil {
		p.state.ShowHazards = *t.Hazards
	}
	p.RecomputePath(p.state.Viewport)
}

// Rescale re-projects the active route into a new viewport
func (p *Planner) Rescale(size models.Size) {
	p.RecomputePath(size)
}

// RecomputePath rebuilds the pixel path, estimates and guidance for the
// current destination and preference in the given viewport, then
// publishes. An empty size keeps the current viewport.
func (p *Planner) RecomputePath(size models.Size) {
	if !size.Empty() {
		p.state.Viewport = size
	}
	p.recompute()
	p.hub.Publish(&p.state)
}

func (p *Planner) recompute() {
	norm, ok := routes[routeKey{p.state.Destination.ID, p.state.Preference}]
	if !ok {
		return
	}
	w, h := float64(p.state.Viewport.Width), float64(p.state.Viewport.Height)

	path := make([]models.Point, len(norm))
	lengthPx := 0.0
	for i, n := range norm {
		path[i] = n.Scale(w, h)
		if i > 0 {
			lengthPx += path[i].Distance(path[i-1])
		}
	}

	meters := lengthPx / PixelsPerMeter
	p.state.ActivePath = path
	p.state.EstimatedDistanceM = meters
	p.state.EstimatedTime = time.Duration(meters / WalkingSpeed * float64(time.Second))
	p.state.Guidance = Guidance(norm)
}

// Guidance builds one instruction per vertex of path, from MsgStart to
// MsgArrived.
// A heading change above the threshold is a left turn, below its negative
// a right turn.
func Guidance(path []models.Point) []string {
	if len(path) < 2 {
		return nil
	}
	out := make([]string, 0, len(path))
	out = append(out, MsgStart)
	for i := 1; i < len(path)-1; i++ {
		in := path[i].Sub(path[i-1]).Angle()
		next := path[i+1].Sub(path[i]).Angle()
		out = append(out, turnMessage(normalizeAngle(next-in)))
	}
	return append(out, MsgArrived)
}

func turnMessage(d float64) string {
	switch {
	case d > turnThreshold:
		return MsgLeft
	case d < -turnThreshold:
		return MsgRight
	}
	return MsgStraight
}

// normalizeAngle maps a into (-pi, pi]
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
