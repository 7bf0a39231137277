package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/angristan/camp-tui/internal/camp"
	"github.com/angristan/camp-tui/internal/config"
	"github.com/angristan/camp-tui/internal/models"
	"github.com/angristan/camp-tui/internal/schedule"
)

func newCollector(t *testing.T) (*CampCollector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	collector, err := NewCampCollector(reg)
	if err != nil {
		t.Fatalf("NewCampCollector: %v", err)
	}
	return collector, reg
}

func TestObserveEnergy(t *testing.T) {
	collector, _ := newCollector(t)

	action := "A/C switched off to save power."
	collector.ObserveEnergy(&models.EnergyState{BatteryPercent: 18, PVPowerW: 0, LoadPowerW: 60, NetPowerW: -60, EstHoursRemaining: 2.4, LastAction: &action})
	collector.ObserveEnergy(&models.EnergyState{BatteryPercent: 17, LoadPowerW: 60, NetPowerW: -60, EstHoursRemaining: 2.3, LastAction: &action})

	if got := testutil.ToFloat64(collector.BatteryPercent); got != 17 {
		t.Fatalf("camp_battery_percent = %v, want 17", got)
	}
	if got := testutil.ToFloat64(collector.NetPower); got != -60 {
		t.Fatalf("camp_net_power_watts = %v, want -60", got)
	}
	if got := testutil.ToFloat64(collector.AutosaveActions); got != 1 {
		t.Fatalf("camp_autosave_actions_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.SnapshotsReceived.WithLabelValues("energy")); got != 2 {
		t.Fatalf("camp_snapshots_total{source=energy} = %v, want 2", got)
	}
}

func TestObserveWeatherCondition(t *testing.T) {
	collector, _ := newCollector(t)
	collector.ObserveWeather(&models.WeatherState{Now: models.WeatherSnapshot{TempC: 19.5, HumidityPct: 85, WindKmh: 30, Condition: models.ConditionStorm}})

	if got := testutil.ToFloat64(collector.WeatherCondition.WithLabelValues("Storm")); got != 1 {
		t.Fatalf("camp_weather_condition{Storm} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.WeatherCondition.WithLabelValues("Clear")); got != 0 {
		t.Fatalf("camp_weather_condition{Clear} = %v, want 0", got)
	}
	if got := testutil.ToFloat64(collector.WeatherTemp); got != 19.5 {
		t.Fatalf("camp_weather_temperature_celsius = %v, want 19.5", got)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var collector *CampCollector
	collector.ObserveEnergy(&models.EnergyState{})
	collector.ObserveLighting(&models.LightingState{})
	collector.Bind(nil)
	collector.Unbind()
}

func TestRegisterTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCampCollector(reg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewCampCollector(reg)
	if err != nil {
		t.Fatalf("second NewCampCollector: %v", err)
	}
	first.BatteryPercent.Set(42)
	if got := testutil.ToFloat64(second.BatteryPercent); got != 42 {
		t.Fatalf("shared gauge = %v, want 42", got)
	}
}

func TestBindFollowsSession(t *testing.T) {
	collector, _ := newCollector(t)

	cfg := config.Default()
	cfg.Seed = 3
	clock := schedule.NewManual(time.Date(2026, 5, 1, 21, 30, 0, 0, time.UTC))
	s, err := camp.NewSession(context.Background(), clock, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	collector.Bind(s)
	if got := testutil.ToFloat64(collector.BatteryPercent); got != 78 {
		t.Fatalf("seeded camp_battery_percent = %v, want 78", got)
	}

	clock.Advance(3 * time.Second)
	if got := testutil.ToFloat64(collector.SnapshotsReceived.WithLabelValues("energy")); got != 3 {
		t.Fatalf("energy snapshots = %v, want 3", got)
	}
	if got := testutil.ToFloat64(collector.SnapshotsReceived.WithLabelValues("weather")); got != 2 {
		t.Fatalf("weather snapshots = %v, want 2", got)
	}

	s.Navigation.SetDestination("S2")
	want := s.Navigation.Snapshot().EstimatedDistanceM
	if got := testutil.ToFloat64(collector.RouteDistance); got != want {
		t.Fatalf("camp_route_distance_meters = %v, want %v", got, want)
	}

	collector.Unbind()
	clock.Advance(3 * time.Second)
	if got := testutil.ToFloat64(collector.SnapshotsReceived.WithLabelValues("energy")); got != 3 {
		t.Fatalf("energy snapshots after Unbind = %v, want 3", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	collector, _ := newCollector(t)
	collector.ObserveLighting(&models.LightingState{On: true, Brightness: 35})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"camp_lights_brightness_percent 35", "camp_lights_on 1", "camp_battery_percent"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestGatherWeatherConditionLabels(t *testing.T) {
	collector, reg := newCollector(t)
	collector.ObserveWeather(&models.WeatherState{Now: models.WeatherSnapshot{Condition: models.ConditionRain}})

	if got := gaugeValue(t, reg, "camp_weather_condition", map[string]string{"condition": "Rain"}); got != 1 {
		t.Fatalf("camp_weather_condition{condition=Rain} = %v, want 1", got)
	}
	if got := gaugeValue(t, reg, "camp_weather_condition", map[string]string{"condition": "Storm"}); got != 0 {
		t.Fatalf("camp_weather_condition{condition=Storm} = %v, want 0", got)
	}
}

func gaugeValue(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchLabels(m.GetLabel(), labels) && m.GetGauge() != nil {
				return m.GetGauge().GetValue()
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
