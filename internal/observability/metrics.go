package observability

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angristan/camp-tui/internal/camp"
	"github.com/angristan/camp-tui/internal/models"
	"github.com/angristan/camp-tui/internal/publish"
)

// CampCollector mirrors simulator snapshots into Prometheus gauges and
// counts publishes and autosave interventions.
type CampCollector struct {
	gatherer prometheus.Gatherer

	BatteryPercent  prometheus.Gauge
	PVPower         prometheus.Gauge
	LoadPower       prometheus.Gauge
	NetPower        prometheus.Gauge
	HoursRemaining  prometheus.Gauge
	AutosaveActions prometheus.Counter

	LightsOn          prometheus.Gauge
	LightsBrightness  prometheus.Gauge
	WeatherTemp       prometheus.Gauge
	WeatherHumidity   prometheus.Gauge
	WeatherWind       prometheus.Gauge
	WeatherCondition  *prometheus.GaugeVec
	RouteDistance     prometheus.Gauge
	SnapshotsReceived *prometheus.CounterVec

	mu         sync.Mutex
	lastAction string
	subs       []*publish.Subscription
}

// NewCampCollector registers the campsite metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewCampCollector(reg prometheus.Registerer) (*CampCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &CampCollector{gatherer: gatherer}
	var err error

	gauges := []struct {
		dst  *prometheus.Gauge
		name string
		help string
	}{
		{&c.BatteryPercent, "camp_battery_percent", "Battery state of charge in percent."},
		{&c.PVPower, "camp_pv_power_watts", "Current solar panel output."},
		{&c.LoadPower, "camp_load_power_watts", "Current consumption of devices and A/C."},
		{&c.NetPower, "camp_net_power_watts", "Solar output minus load; negative while discharging."},
		{&c.HoursRemaining, "camp_battery_hours_remaining", "Estimated hours until the battery is empty; +Inf while charging."},
		{&c.LightsOn, "camp_lights_on", "1 when the campsite lights are on."},
		{&c.LightsBrightness, "camp_lights_brightness_percent", "Current light brightness in percent."},
		{&c.WeatherTemp, "camp_weather_temperature_celsius", "Current air temperature."},
		{&c.WeatherHumidity, "camp_weather_humidity_percent", "Current relative humidity."},
		{&c.WeatherWind, "camp_weather_wind_kmh", "Current wind speed."},
		{&c.RouteDistance, "camp_route_distance_meters", "Estimated walking distance of the active route."},
	}
	for _, g := range gauges {
		*g.dst, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{Name: g.name, Help: g.help}), g.name)
		if err != nil {
			return nil, err
		}
	}

	c.AutosaveActions, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "camp_autosave_actions_total",
		Help: "Number of autosave interventions taken by the energy simulator.",
	}), "camp_autosave_actions_total")
	if err != nil {
		return nil, err
	}

	c.WeatherCondition, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "camp_weather_condition",
		Help: "1 for the current weather condition, 0 otherwise.",
	}, []string{"condition"}), "camp_weather_condition")
	if err != nil {
		return nil, err
	}

	c.SnapshotsReceived, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "camp_snapshots_total",
		Help: "Snapshots published by each simulator.",
	}, []string{"source"}), "camp_snapshots_total")
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *CampCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Handler exposes a ready-to-use /metrics handler.
func (c *CampCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Bind subscribes the collector to every simulator in s and seeds the
// gauges from the current snapshots.
func (c *CampCollector) Bind(s *camp.Session) {
	if c == nil || s == nil {
		return
	}
	st := s.Status()
	c.setEnergy(st.Energy)
	c.setLighting(st.Lighting)
	c.setWeather(st.Weather)
	c.setNavigation(st.Navigation)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs,
		s.Energy.Subscribe(c.ObserveEnergy),
		s.Lighting.Subscribe(c.ObserveLighting),
		s.Weather.Subscribe(c.ObserveWeather),
		s.Navigation.Subscribe(c.ObserveNavigation),
	)
}

// Unbind drops every subscription made by Bind
func (c *CampCollector) Unbind() {
	if c == nil {
		return
	}
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// ObserveEnergy records an energy snapshot and counts new autosave actions
func (c *CampCollector) ObserveEnergy(s *models.EnergyState) {
	if c == nil || s == nil {
		return
	}
	c.SnapshotsReceived.WithLabelValues("energy").Inc()
	c.setEnergy(s)

	if s.LastAction == nil {
		return
	}
	c.mu.Lock()
	changed := *s.LastAction != c.lastAction
	c.lastAction = *s.LastAction
	c.mu.Unlock()
	if changed {
		c.AutosaveActions.Inc()
	}
}

// ObserveLighting records a lighting snapshot
func (c *CampCollector) ObserveLighting(s *models.LightingState) {
	if c == nil || s == nil {
		return
	}
	c.SnapshotsReceived.WithLabelValues("lighting").Inc()
	c.setLighting(s)
}

// ObserveWeather records a weather snapshot
func (c *CampCollector) ObserveWeather(s *models.WeatherState) {
	if c == nil || s == nil {
		return
	}
	c.SnapshotsReceived.WithLabelValues("weather").Inc()
	c.setWeather(s)
}

// ObserveNavigation records a navigation snapshot
func (c *CampCollector) ObserveNavigation(s *models.NavigationState) {
	if c == nil || s == nil {
		return
	}
	c.SnapshotsReceived.WithLabelValues("navigation").Inc()
	c.setNavigation(s)
}

func (c *CampCollector) setEnergy(s *models.EnergyState) {
	c.BatteryPercent.Set(float64(s.BatteryPercent))
	c.PVPower.Set(float64(s.PVPowerW))
	c.LoadPower.Set(float64(s.LoadPowerW))
	c.NetPower.Set(float64(s.NetPowerW))
	c.HoursRemaining.Set(s.EstHoursRemaining)
}

func (c *CampCollector) setLighting(s *models.LightingState) {
	on := 0.0
	if s.On {
		on = 1
	}
	c.LightsOn.Set(on)
	c.LightsBrightness.Set(float64(s.Brightness))
}

func (c *CampCollector) setWeather(s *models.WeatherState) {
	c.WeatherTemp.Set(s.Now.TempC)
	c.WeatherHumidity.Set(float64(s.Now.HumidityPct))
	c.WeatherWind.Set(s.Now.WindKmh)
	for cond := models.ConditionClear; cond <= models.ConditionStorm; cond++ {
		v := 0.0
		if cond == s.Now.Condition {
			v = 1
		}
		c.WeatherCondition.WithLabelValues(cond.String()).Set(v)
	}
}

func (c *CampCollector) setNavigation(s *models.NavigationState) {
	c.RouteDistance.Set(s.EstimatedDistanceM)
}

func register[T prometheus.Collector](reg prometheus.Registerer, collector T, name string) (T, error) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return collector, nil
}
