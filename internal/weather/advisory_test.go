package weather

import (
	"testing"

	"github.com/angristan/camp-tui/internal/models"
)

func TestAdviseFor(t *testing.T) {
	tests := []struct {
		name string
		snap models.WeatherSnapshot
		want Advisory
	}{
		{"calm", models.WeatherSnapshot{WindKmh: 4}, AdvisoryNone},
		{"breeze", models.WeatherSnapshot{WindKmh: 10}, AdvisoryCheckLines},
		{"moderate", models.WeatherSnapshot{WindKmh: 15}, AdvisoryPartialTarps},
		{"gusting", models.WeatherSnapshot{WindKmh: 22}, AdvisoryLeewardTarp},
		{"rain calm", models.WeatherSnapshot{WindKmh: 2, Condition: models.ConditionRain}, AdvisoryLeewardTarp},
		{"gale", models.WeatherSnapshot{WindKmh: 35}, AdvisoryDeployTarps},
		{"storm calm", models.WeatherSnapshot{WindKmh: 3, Condition: models.ConditionStorm}, AdvisoryDeployTarps},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdviseFor(tt.snap); got != tt.want {
				t.Errorf("AdviseFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdvisoryEscalates(t *testing.T) {
	levels := []Advisory{AdvisoryNone, AdvisoryCheckLines, AdvisoryPartialTarps, AdvisoryLeewardTarp, AdvisoryDeployTarps}
	seen := map[string]bool{}
	for i, a := range levels {
		if i > 0 && a <= levels[i-1] {
			t.Errorf("advisory %d does not escalate", i)
		}
		if seen[a.String()] {
			t.Errorf("duplicate advisory text %q", a.String())
		}
		seen[a.String()] = true
	}
}

func TestCompass(t *testing.T) {
	tests := map[float64]string{
		0: "N", 22.4: "N", 22.5: "NE", 90: "E", 180: "S", 220: "SW", 270: "W", 337.5: "N", 359.9: "N", -45: "NW",
	}
	for deg, want := range tests {
		if got := Compass(deg); got != want {
			t.Errorf("Compass(%v) = %s, want %s", deg, got, want)
		}
	}
}
