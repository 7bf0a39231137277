package models

// SiteSelection is the tent site the user picked on the terrain map, with
// the ground scores computed for it. Values are normalized to 0-1.
type SiteSelection struct {
	// Selected site in normalized map coordinates (nil when nothing is selected)
	Site            *Point
	GroundStability float64
	Humidity        float64
	SunExposure     float64
}

// Clone creates a deep copy of the selection
func (s *SiteSelection) Clone() *SiteSelection {
	if s == nil {
		return nil
	}
	clone := *s
	if s.Site != nil {
		p := *s.Site
		clone.Site = &p
	}
	return &clone
}

// Clamp forces all scores into 0-1
func (s *SiteSelection) Clamp() {
	s.GroundStability = clampFloat(s.GroundStability, 0, 1)
	s.Humidity = clampFloat(s.Humidity, 0, 1)
	s.SunExposure = clampFloat(s.SunExposure, 0, 1)
}
