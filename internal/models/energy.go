package models

import "math"

// ACMode is the air-conditioning operating mode
type ACMode int

const (
	ACOff ACMode = iota
	ACCool
	ACHeat
	ACFan
)

func (m ACMode) String() string {
	switch m {
	case ACOff:
		return "Off"
	case ACCool:
		return "Cool"
	case ACHeat:
		return "Heat"
	case ACFan:
		return "Fan"
	}
	return "Unknown"
}

// EnergyDevice is a switchable consumer on the campsite battery
type EnergyDevice struct {
	Name string
	// Rated consumption in watts
	PowerW int
	On     bool
}

// EnergyState is the published view of the power system
type EnergyState struct {
	// Battery charge (0-100), derived from reserve / capacity
	BatteryPercent int
	PVPowerW       int
	LoadPowerW     int
	// PVPowerW - LoadPowerW
	NetPowerW int
	// Hours until empty at the current net draw; +Inf when not discharging
	EstHoursRemaining float64
	AutoSave          bool

	ACOn        bool
	ACMode      ACMode
	ACSetpointC int

	Devices []EnergyDevice
	// Description of the last autosave intervention (nil if none yet)
	LastAction *string
}

// Discharging reports whether the battery is currently being drained
func (s *EnergyState) Discharging() bool {
	return !math.IsInf(s.EstHoursRemaining, 1)
}

// Device returns the device with the given name, or nil
func (s *EnergyState) Device(name string) *EnergyDevice {
	for i := range s.Devices {
		if s.Devices[i].Name == name {
			return &s.Devices[i]
		}
	}
	return nil
}

// Clone creates a deep copy of the state
func (s *EnergyState) Clone() *EnergyState {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Devices = append([]EnergyDevice(nil), s.Devices...)
	if s.LastAction != nil {
		action := *s.LastAction
		clone.LastAction = &action
	}
	return &clone
}
