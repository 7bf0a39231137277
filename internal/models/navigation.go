package models

import (
	"math"
	"strings"
	"time"
)

// Preference selects one of the precomputed alternative routes
type Preference int

const (
	PreferenceRecommended Preference = iota
	PreferenceBalanced
	PreferenceFastest
)

func (p Preference) String() string {
	switch p {
	case PreferenceRecommended:
		return "Recommended"
	case PreferenceBalanced:
		return "Balanced"
	case PreferenceFastest:
		return "Fastest"
	}
	return "Unknown"
}

// Valid reports whether p is a known preference
func (p Preference) Valid() bool {
	return p >= PreferenceRecommended && p <= PreferenceFastest
}

// Preferences lists every preference in display order
func Preferences() []Preference {
	return []Preference{PreferenceRecommended, PreferenceBalanced, PreferenceFastest}
}

// ParsePreference matches a preference by name, case-insensitively
func ParsePreference(name string) (Preference, bool) {
	for _, p := range Preferences() {
		if strings.EqualFold(p.String(), strings.TrimSpace(name)) {
			return p, true
		}
	}
	return 0, false
}

// Point is a 2D point; normalized map coordinates or viewport pixels
// depending on context.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p scaled independently along each axis.
func (p Point) Scale(sx, sy float64) Point {
	return Point{p.X * sx, p.Y * sy}
}

// Length returns the Euclidean length of the vector.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns the Euclidean distance from p to q.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Angle returns the angle of the vector from the positive X axis in radians.
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// Size is a viewport size in pixels
type Size struct {
	Width, Height int
}

// Empty reports whether the size has no area
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// MapPoint is a named location in normalized [0,1]x[0,1] map coordinates
type MapPoint struct {
	ID   string
	Name string
	X, Y float64
}

// Point returns the normalized location
func (p MapPoint) Point() Point {
	return Point{X: p.X, Y: p.Y}
}

// ToPixel projects the point into a viewport
func (p MapPoint) ToPixel(size Size) Point {
	return p.Point().Scale(float64(size.Width), float64(size.Height))
}

// NavigationState is the published view of the route planner
type NavigationState struct {
	Start       MapPoint
	Destination MapPoint
	Preference  Preference

	ShowRoutes  bool
	ShowPins    bool
	ShowHazards bool

	Viewport Size
	// Active route in viewport pixels
	ActivePath []Point
	// One instruction per path vertex
	Guidance           []string
	EstimatedDistanceM float64
	EstimatedTime      time.Duration
}

// HasRoute reports whether a route is active
func (s *NavigationState) HasRoute() bool {
	return len(s.ActivePath) >= 2
}

// Clone creates a deep copy of the state
func (s *NavigationState) Clone() *NavigationState {
	if s == nil {
		return nil
	}
	clone := *s
	clone.ActivePath = append([]Point(nil), s.ActivePath...)
	clone.Guidance = append([]string(nil), s.Guidance...)
	return &clone
}
