package models

// Effect selects how the lighting controller evolves brightness and colour
// on each tick.
type Effect int

const (
	EffectStatic Effect = iota
	EffectNightLight
	EffectReading
	EffectPulse
	EffectColorCycle
)

var effectNames = map[Effect]string{
	EffectStatic:     "Static",
	EffectNightLight: "NightLight",
	EffectReading:    "Reading",
	EffectPulse:      "Pulse",
	EffectColorCycle: "ColorCycle",
}

func (e Effect) String() string {
	if name, ok := effectNames[e]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether e is one of the known effects
func (e Effect) Valid() bool {
	_, ok := effectNames[e]
	return ok
}

// Animated reports whether the effect changes appearance on every tick
func (e Effect) Animated() bool {
	return e == EffectPulse || e == EffectColorCycle
}

// Effects lists every effect in display order
func Effects() []Effect {
	return []Effect{EffectStatic, EffectNightLight, EffectReading, EffectPulse, EffectColorCycle}
}

// LightingState is the campsite lighting configuration
type LightingState struct {
	// Current on/off state
	On bool
	// Brightness percentage (0-100)
	Brightness int
	Color      RGB
	Effect     Effect
	// Switch Static/Reading to NightLight automatically at night
	AutoNight bool
}

// DefaultLightingState returns the state the controller starts with
func DefaultLightingState() LightingState {
	return LightingState{
		On:         true,
		Brightness: 60,
		Color:      ColorWarmWhite,
		Effect:     EffectStatic,
		AutoNight:  true,
	}
}

// Clone creates a copy of the state
func (s *LightingState) Clone() *LightingState {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

// LowPowerBrightnessCap is the brightness ceiling for NightLight presets
const LowPowerBrightnessCap = 35

// LowPower returns a copy switched on with the warm NightLight preset and
// brightness capped at LowPowerBrightnessCap.
func (s *LightingState) LowPower() *LightingState {
	clone := s.Clone()
	clone.On = true
	clone.Effect = EffectNightLight
	clone.Color = ColorNightWarm
	if clone.Brightness > LowPowerBrightnessCap {
		clone.Brightness = LowPowerBrightnessCap
	}
	return clone
}

// IsLowPower reports whether the state already matches the LowPower preset
func (s *LightingState) IsLowPower() bool {
	return s.On &&
		s.Effect == EffectNightLight &&
		s.Color == ColorNightWarm &&
		s.Brightness <= LowPowerBrightnessCap
}
