package messages

import (
	"github.com/angristan/camp-tui/internal/camp"
	"github.com/angristan/camp-tui/internal/models"
)

// StatusMsg carries a full set of snapshots, sent once at startup
type StatusMsg struct {
	Status camp.Status
}

// EnergyMsg carries a new energy snapshot
type EnergyMsg struct {
	State *models.EnergyState
}

// LightingMsg carries a new lighting snapshot
type LightingMsg struct {
	State *models.LightingState
}

// WeatherMsg carries a new weather snapshot
type WeatherMsg struct {
	State *models.WeatherState
}

// NavigationMsg carries a new navigation snapshot
type NavigationMsg struct {
	State *models.NavigationState
}

// SiteMsg carries a new tent site selection
type SiteMsg struct {
	Site *models.SiteSelection
}

// ErrorMsg indicates an error occurred
type ErrorMsg struct {
	Err error
}
