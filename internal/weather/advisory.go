package weather

import (
	"math"

	"github.com/angristan/camp-tui/internal/models"
)

// Advisory is a shelter recommendation derived from the current wind and
// condition. Higher values are more severe.
type Advisory int

const (
	AdvisoryNone Advisory = iota
	AdvisoryCheckLines
	AdvisoryPartialTarps
	AdvisoryLeewardTarp
	AdvisoryDeployTarps
)

func (a Advisory) String() string {
	switch a {
	case AdvisoryCheckLines:
		return "Light wind: check guy lines and pegs."
	case AdvisoryPartialTarps:
		return "Moderate wind: consider partially deploying tarps."
	case AdvisoryLeewardTarp:
		return "Rain or gusting wind: rig a tarp on the leeward side."
	case AdvisoryDeployTarps:
		return "Strong wind or storm: deploy protective tarps."
	}
	return "No action needed right now."
}

// AdviseFor maps a snapshot to its advisory level
func AdviseFor(s models.WeatherSnapshot) Advisory {
	switch {
	case s.Condition == models.ConditionStorm || s.WindKmh >= 35:
		return AdvisoryDeployTarps
	case s.Condition == models.ConditionRain || s.WindKmh >= 22:
		return AdvisoryLeewardTarp
	case s.WindKmh >= 15:
		return AdvisoryPartialTarps
	case s.WindKmh >= 10:
		return AdvisoryCheckLines
	}
	return AdvisoryNone
}

var compassPoints = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Compass names the eight-point compass direction for deg
func Compass(deg float64) string {
	i := int(math.Floor(math.Mod(deg+22.5, 360)/45)) % len(compassPoints)
	if i < 0 {
		i += len(compassPoints)
	}
	return compassPoints[i]
}
