package camp

import (
	"fmt"
	"strings"
	"time"

	"github.com/angristan/camp-tui/internal/weather"
)

// Summary renders the status as a single log-friendly line
func (st Status) Summary() string {
	var b strings.Builder

	if e := st.Energy; e != nil {
		fmt.Fprintf(&b, "battery %d%% pv %dW load %dW net %+dW", e.BatteryPercent, e.PVPowerW, e.LoadPowerW, e.NetPowerW)
		if e.Discharging() {
			fmt.Fprintf(&b, " (%.1fh left)", e.EstHoursRemaining)
		}
	}
	if l := st.Lighting; l != nil {
		if l.On {
			fmt.Fprintf(&b, " | lights %d%% %s", l.Brightness, l.Effect)
		} else {
			b.WriteString(" | lights off")
		}
	}
	if w := st.Weather; w != nil {
		n := w.Now
		fmt.Fprintf(&b, " | %.1f°C %d%% wind %.1fkm/h %s %s",
			n.TempC, n.HumidityPct, n.WindKmh, weather.Compass(n.WindDirDeg), n.Condition)
	}
	if n := st.Navigation; n != nil && n.HasRoute() {
		fmt.Fprintf(&b, " | %s via %s %.0fm %s",
			n.Destination.Name, n.Preference, n.EstimatedDistanceM, n.EstimatedTime.Round(time.Second))
	}
	return strings.TrimPrefix(b.String(), " | ")
}
