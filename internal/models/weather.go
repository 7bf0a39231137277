package models

import "time"

// HistoryCapacity bounds WeatherState.History
const HistoryCapacity = 120

// Condition is the coarse weather classification
type Condition int

const (
	ConditionClear Condition = iota
	ConditionCloudy
	ConditionWindy
	ConditionRain
	ConditionStorm
)

func (c Condition) String() string {
	switch c {
	case ConditionClear:
		return "Clear"
	case ConditionCloudy:
		return "Cloudy"
	case ConditionWindy:
		return "Windy"
	case ConditionRain:
		return "Rain"
	case ConditionStorm:
		return "Storm"
	}
	return "Unknown"
}

// WeatherSnapshot is one observation
type WeatherSnapshot struct {
	Time        time.Time
	TempC       float64
	HumidityPct int
	WindKmh     float64
	// Degrees in [0,360): 0=N, 90=E
	WindDirDeg float64
	Condition  Condition
}

// WeatherState holds the current observation and a bounded history,
// oldest first.
type WeatherState struct {
	Now     WeatherSnapshot
	History []WeatherSnapshot
}

// Push appends a snapshot and evicts the oldest entries beyond HistoryCapacity
func (s *WeatherState) Push(snap WeatherSnapshot) {
	s.History = append(s.History, snap)
	if over := len(s.History) - HistoryCapacity; over > 0 {
		// Copy down so the backing array does not grow without bound.
		n := copy(s.History, s.History[over:])
		s.History = s.History[:n]
	}
}

// Clone creates a deep copy of the state
func (s *WeatherState) Clone() *WeatherState {
	if s == nil {
		return nil
	}
	return &WeatherState{
		Now:     s.Now,
		History: append([]WeatherSnapshot(nil), s.History...),
	}
}
