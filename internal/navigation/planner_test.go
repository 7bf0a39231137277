package navigation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angristan/camp-tui/internal/models"
)

func newPlanner(t *testing.T) (*Planner, *[]*models.NavigationState) {
	t.Helper()
	p := New(context.Background(), nil)
	var got []*models.NavigationState
	p.Subscribe(func(s *models.NavigationState) { got = append(got, s) })
	return p, &got
}

func boolPtr(b bool) *bool { return &b }

func TestInitialState(t *testing.T) {
	p, _ := newPlanner(t)
	s := p.Snapshot()
	assert.Equal(t, Basecamp, s.Start)
	assert.Equal(t, ForestRidge, s.Destination)
	assert.Equal(t, models.PreferenceRecommended, s.Preference)
	assert.True(t, s.ShowRoutes && s.ShowPins && s.ShowHazards)
	assert.Equal(t, DefaultViewport, s.Viewport)
	assert.Len(t, s.ActivePath, 9)
	assert.True(t, s.HasRoute())
}

func TestEveryRouteHasOneInstructionPerPoint(t *testing.T) {
	p, _ := newPlanner(t)
	for _, dest := range Destinations() {
		for _, pref := range models.Preferences() {
			t.Run(dest.ID+"/"+pref.String(), func(t *testing.T) {
				p.SetDestination(dest.ID)
				p.SetPreference(pref)
				s := p.Snapshot()

				n := len(routes[routeKey{dest.ID, pref}])
				require.GreaterOrEqual(t, n, 2)
				assert.Len(t, s.ActivePath, n)
				require.Len(t, s.Guidance, n)
				assert.Equal(t, MsgStart, s.Guidance[0])
				assert.Equal(t, MsgArrived, s.Guidance[n-1])

				assert.Equal(t, Basecamp.ToPixel(s.Viewport), s.ActivePath[0])
				last := s.ActivePath[n-1]
				want := dest.ToPixel(s.Viewport)
				assert.InDelta(t, want.X, last.X, 1e-9)
				assert.InDelta(t, want.Y, last.Y, 1e-9)
			})
		}
	}
}

func TestNorthGateFastestEstimates(t *testing.T) {
	p, _ := newPlanner(t)
	p.SetDestination("S2")
	p.SetPreference(models.PreferenceFastest)
	p.RecomputePath(models.Size{Width: 1600, Height: 1067})
	first := p.Snapshot()

	require.Positive(t, first.EstimatedDistanceM)
	require.Positive(t, first.EstimatedTime)
	wantTime := time.Duration(first.EstimatedDistanceM / WalkingSpeed * float64(time.Second))
	assert.Equal(t, wantTime, first.EstimatedTime)

	var px float64
	for i := 1; i < len(first.ActivePath); i++ {
		px += first.ActivePath[i].Distance(first.ActivePath[i-1])
	}
	assert.InDelta(t, px/2, first.EstimatedDistanceM, 1e-9)

	p.RecomputePath(models.Size{Width: 1600, Height: 1067})
	assert.Equal(t, first, p.Snapshot())
}

func TestSetDestination(t *testing.T) {
	p, got := newPlanner(t)

	p.SetDestination("s3")
	require.Len(t, *got, 1)
	assert.Equal(t, EastDunes, (*got)[0].Destination)

	p.SetDestination("Z9")
	p.SetDestination("")
	assert.Len(t, *got, 1, "unknown destination must not publish")
	assert.Equal(t, EastDunes, p.Snapshot().Destination)
}

func TestSetPreference(t *testing.T) {
	p, got := newPlanner(t)

	p.SetPreferenceByName(" fastest ")
	require.Len(t, *got, 1)
	assert.Equal(t, models.PreferenceFastest, (*got)[0].Preference)
	assert.Len(t, (*got)[0].ActivePath, 10)

	p.SetPreferenceByName("scenic")
	p.SetPreference(models.Preference(42))
	assert.Len(t, *got, 1)
}

func TestRescaleKeepsRoute(t *testing.T) {
	p, got := newPlanner(t)
	before := p.Snapshot()

	p.Rescale(models.Size{Width: 3200, Height: 2134})
	require.Len(t, *got, 1)
	after := (*got)[0]

	assert.Equal(t, before.Destination, after.Destination)
	assert.Equal(t, before.Guidance, after.Guidance)
	require.Len(t, after.ActivePath, len(before.ActivePath))
	for i := range after.ActivePath {
		assert.InDelta(t, before.ActivePath[i].X*2, after.ActivePath[i].X, 1e-9)
		assert.InDelta(t, before.ActivePath[i].Y*2, after.ActivePath[i].Y, 1e-9)
	}
	assert.InDelta(t, before.EstimatedDistanceM*2, after.EstimatedDistanceM, 1e-6)

	p.Rescale(models.Size{})
	assert.Equal(t, models.Size{Width: 3200, Height: 2134}, p.Snapshot().Viewport)
}

func TestToggleOverlays(t *testing.T) {
	p, got := newPlanner(t)

	p.ToggleOverlays(OverlayToggle{Pins: boolPtr(false)})
	require.Len(t, *got, 1)
	s := (*got)[0]
	assert.True(t, s.ShowRoutes)
	assert.False(t, s.ShowPins)
	assert.True(t, s.ShowHazards)

	p.ToggleOverlays(OverlayToggle{Routes: boolPtr(false), Hazards: boolPtr(false)})
	s = p.Snapshot()
	assert.False(t, s.ShowRoutes)
	assert.False(t, s.ShowPins)
	assert.False(t, s.ShowHazards)
	assert.True(t, s.HasRoute())
}

func TestGuidanceTurns(t *testing.T) {
	tests := []struct {
		name string
		path []models.Point
		want string
	}{
		// heading change measured as atan2(dy, dx)
		{"east then south", []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, MsgLeft},
		{"east then north", []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: -1}}, MsgRight},
		{"slight bend", []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0.3}}, MsgStraight},
		{"north then west", []models.Point{{X: 0, Y: 0}, {X: 0, Y: -1}, {X: -1, Y: -1}}, MsgRight},
		{"west then north", []models.Point{{X: 0, Y: 0}, {X: -1, Y: 0}, {X: -1, Y: -1}}, MsgLeft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Guidance(tt.path)
			require.Len(t, g, 3)
			assert.Equal(t, tt.want, g[1])
		})
	}
}

func TestGuidanceShortPaths(t *testing.T) {
	assert.Nil(t, Guidance(nil))
	assert.Nil(t, Guidance([]models.Point{{X: 1, Y: 1}}))
	assert.Equal(t, []string{MsgStart, MsgArrived}, Guidance([]models.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}))
}

func TestSubscribersGetCopies(t *testing.T) {
	p, got := newPlanner(t)
	p.Rescale(DefaultViewport)
	require.Len(t, *got, 1)

	(*got)[0].ActivePath[0] = models.Point{X: -1, Y: -1}
	(*got)[0].Guidance[0] = "mutated"

	s := p.Snapshot()
	assert.NotEqual(t, models.Point{X: -1, Y: -1}, s.ActivePath[0])
	assert.Equal(t, MsgStart, s.Guidance[0])
}
