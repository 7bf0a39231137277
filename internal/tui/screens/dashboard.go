package screens

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/camp-tui/internal/camp"
	"github.com/angristan/camp-tui/internal/energy"
	"github.com/angristan/camp-tui/internal/logging"
	"github.com/angristan/camp-tui/internal/models"
	"github.com/angristan/camp-tui/internal/navigation"
	"github.com/angristan/camp-tui/internal/tui/components"
	"github.com/angristan/camp-tui/internal/tui/messages"
	"github.com/angristan/camp-tui/internal/tui/styles"
	"github.com/angristan/camp-tui/internal/weather"
)

// Poster runs fn on the simulation's execution context. It reports false
// when the simulation has stopped.
type Poster func(fn func()) bool

// ErrLoopStopped is reported when a command is issued after shutdown
var ErrLoopStopped = errors.New("simulation loop stopped")

// Panel identifies one dashboard panel
type Panel int

const (
	PanelEnergy Panel = iota
	PanelLighting
	PanelWeather
	PanelNavigation
	panelCount
)

func (p Panel) String() string {
	switch p {
	case PanelEnergy:
		return "Energy"
	case PanelLighting:
		return "Lighting"
	case PanelWeather:
		return "Weather"
	case PanelNavigation:
		return "Navigation"
	}
	return "Unknown"
}

const (
	wideLayout    = 100 // columns needed for the two-column grid
	guidanceLines = 4
)

// DashboardModel shows every simulator in its own panel and turns key
// presses into session commands
type DashboardModel struct {
	session *camp.Session
	post    Poster

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	energy   *models.EnergyState
	lighting *models.LightingState
	weather  *models.WeatherState
	nav      *models.NavigationState
	site     *models.SiteSelection

	focus Panel
	err   error

	width  int
	height int
}

// NewDashboardModel creates a dashboard that sends commands to session
// through post
func NewDashboardModel(session *camp.Session, post Poster) DashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StyleSpinner

	h := help.New()
	h.Styles.ShortKey = styles.StyleHelpKey
	h.Styles.FullKey = styles.StyleHelpKey

	return DashboardModel{
		session: session,
		post:    post,
		keys:    DefaultKeyMap(),
		help:    h,
		spinner: sp,
	}
}

// Init starts the spinner shown until the first snapshots arrive
func (m DashboardModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetSize updates the screen dimensions
func (m *DashboardModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
}

// Ready reports whether every simulator has reported at least once
func (m DashboardModel) Ready() bool {
	return m.energy != nil && m.lighting != nil && m.weather != nil && m.nav != nil
}

// Focus returns the focused panel
func (m DashboardModel) Focus() Panel {
	return m.focus
}

// Update handles snapshots and key presses
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.StatusMsg:
		st := msg.Status
		m.energy, m.lighting, m.weather, m.nav, m.site = st.Energy, st.Lighting, st.Weather, st.Navigation, st.Site
	case messages.EnergyMsg:
		m.energy = msg.State
	case messages.LightingMsg:
		m.lighting = msg.State
	case messages.WeatherMsg:
		m.weather = msg.State
	case messages.NavigationMsg:
		m.nav = msg.State
	case messages.SiteMsg:
		m.site = msg.Site
	case messages.ErrorMsg:
		m.err = msg.Err

	case spinner.TickMsg:
		if m.Ready() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m DashboardModel) handleKey(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextPanel):
		m.focus = (m.focus + 1) % panelCount
		return m, nil
	case key.Matches(msg, m.keys.PrevPanel):
		m.focus = (m.focus + panelCount - 1) % panelCount
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.focus {
	case PanelEnergy:
		return m, m.energyKey(msg)
	case PanelLighting:
		return m, m.lightingKey(msg)
	case PanelNavigation:
		return m, m.navigationKey(msg)
	}
	return m, nil
}

func (m DashboardModel) energyKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Device):
		idx := int(msg.String()[0] - '1')
		return m.postCmd(func(s *camp.Session) {
			st := s.Energy.Snapshot()
			if idx < len(st.Devices) {
				d := st.Devices[idx]
				s.Energy.ToggleDevice(d.Name, !d.On)
			}
		})
	case key.Matches(msg, k.AutoSave):
		return m.postCmd(func(s *camp.Session) {
			s.Energy.SetAutoSave(!s.Energy.Snapshot().AutoSave)
		})
	case key.Matches(msg, k.ACMode):
		return m.postCmd(func(s *camp.Session) {
			st := s.Energy.Snapshot()
			next := nextACMode(st.ACMode)
			s.Energy.SetAC(next != models.ACOff, next, st.ACSetpointC)
		})
	case key.Matches(msg, k.WarmerAC), key.Matches(msg, k.CoolerAC):
		delta := 1
		if key.Matches(msg, k.CoolerAC) {
			delta = -1
		}
		return m.postCmd(func(s *camp.Session) {
			st := s.Energy.Snapshot()
			s.Energy.SetAC(st.ACOn, st.ACMode, st.ACSetpointC+delta)
		})
	case key.Matches(msg, k.SaveNow):
		return m.postCmd(func(s *camp.Session) { s.Energy.ApplySavingNow() })
	}
	return nil
}

func (m DashboardModel) lightingKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Toggle):
		return m.postCmd(func(s *camp.Session) {
			s.Lighting.Toggle(!s.Lighting.Snapshot().On)
		})
	case key.Matches(msg, k.Brighter), key.Matches(msg, k.Dimmer):
		delta := 10
		if key.Matches(msg, k.Dimmer) {
			delta = -10
		}
		return m.applyLighting(func(st *models.LightingState) {
			st.Brightness += delta
		})
	case key.Matches(msg, k.Preset):
		level := brightnessFromKey(msg.String())
		return m.applyLighting(func(st *models.LightingState) {
			st.On = true
			st.Brightness = level
		})
	case key.Matches(msg, k.Effect):
		return m.applyLighting(func(st *models.LightingState) {
			st.Effect = nextEffect(st.Effect)
		})
	case key.Matches(msg, k.AutoNight):
		return m.applyLighting(func(st *models.LightingState) {
			st.AutoNight = !st.AutoNight
		})
	}
	return nil
}

func (m DashboardModel) navigationKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Destination):
		return m.postCmd(func(s *camp.Session) {
			s.Navigation.SetDestination(nextDestination(s.Navigation.Snapshot().Destination.ID))
		})
	case key.Matches(msg, k.Preference):
		return m.postCmd(func(s *camp.Session) {
			s.Navigation.SetPreference((s.Navigation.Snapshot().Preference + 1) % models.Preference(len(models.Preferences())))
		})
	case key.Matches(msg, k.Routes):
		return m.toggleOverlay(func(st *models.NavigationState) navigation.OverlayToggle {
			return navigation.OverlayToggle{Routes: ptr(!st.ShowRoutes)}
		})
	case key.Matches(msg, k.Pins):
		return m.toggleOverlay(func(st *models.NavigationState) navigation.OverlayToggle {
			return navigation.OverlayToggle{Pins: ptr(!st.ShowPins)}
		})
	case key.Matches(msg, k.Hazards):
		return m.toggleOverlay(func(st *models.NavigationState) navigation.OverlayToggle {
			return navigation.OverlayToggle{Hazards: ptr(!st.ShowHazards)}
		})
	case key.Matches(msg, k.PinSite):
		return m.postCmd(pinSiteAtDestination)
	case key.Matches(msg, k.ClearSite):
		return m.postCmd(func(s *camp.Session) { s.ClearSite() })
	}
	return nil
}

// pinSiteAtDestination marks the route destination as the tent site,
// scoring it from the current weather and time of day
func pinSiteAtDestination(s *camp.Session) {
	dest := s.Navigation.Snapshot().Destination
	wx := s.Weather.Snapshot().Now
	s.SelectSite(dest.Point(),
		1-s.Weather.WindStrength01()/2,
		float64(wx.HumidityPct)/100,
		energy.DayFactor(wx.Time))
}

// postCmd wraps a session command in a tea.Cmd that hands it to the
// simulation loop
func (m DashboardModel) postCmd(fn func(s *camp.Session)) tea.Cmd {
	session, post := m.session, m.post
	return func() tea.Msg {
		if session == nil || post == nil {
			return nil
		}
		if !post(func() { fn(session) }) {
			return messages.ErrorMsg{Err: ErrLoopStopped}
		}
		return nil
	}
}

// applyLighting edits the current lighting state and applies it. Edits
// start from the base brightness so a running Pulse keeps its centre.
func (m DashboardModel) applyLighting(edit func(st *models.LightingState)) tea.Cmd {
	return m.postCmd(func(s *camp.Session) {
		st := s.Lighting.Snapshot()
		st.Brightness = s.Lighting.Base()
		edit(st)
		if err := s.Lighting.Apply(st); err != nil {
			logging.FromContext(s.Context()).Warn(s.Context(), "lighting command rejected", logging.Err(err))
		}
	})
}

func (m DashboardModel) toggleOverlay(toggle func(st *models.NavigationState) navigation.OverlayToggle) tea.Cmd {
	return m.postCmd(func(s *camp.Session) {
		s.Navigation.ToggleOverlays(toggle(s.Navigation.Snapshot()))
	})
}

// View renders the dashboard
func (m DashboardModel) View() string {
	var b strings.Builder

	status := ""
	if m.session != nil {
		if m.Ready() {
			status = "● Live · session " + shortID(m.session.ID)
		} else {
			status = m.spinner.View() + " Starting simulators..."
		}
	}
	b.WriteString(components.RenderHeader(m.width, "Camp", status))
	b.WriteString("\n")

	panels := []struct {
		panel Panel
		body  string
	}{
		{PanelEnergy, m.renderEnergy()},
		{PanelLighting, m.renderLighting()},
		{PanelWeather, m.renderWeather()},
		{PanelNavigation, m.renderNavigation()},
	}

	colWidth := m.width
	if m.width >= wideLayout {
		colWidth = m.width / 2
	}
	rendered := make([]string, len(panels))
	for i, p := range panels {
		rendered[i] = components.RenderPanel(p.panel.String(), p.body, colWidth, p.panel == m.focus)
	}

	if m.width >= wideLayout {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, rendered[0], rendered[1]),
			lipgloss.JoinHorizontal(lipgloss.Top, rendered[2], rendered[3]),
		))
	} else {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rendered...))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.StyleError.Render("Error: " + m.err.Error()))
	}

	b.WriteString("\n")
	b.WriteString(styles.StyleHelp.Render(m.help.View(focusedKeys{keys: m.keys, focus: m.focus})))

	return b.String()
}

func (m DashboardModel) innerWidth() int {
	w := m.width
	if w >= wideLayout {
		w /= 2
	}
	return max(w-4, 20)
}

func (m DashboardModel) renderEnergy() string {
	e := m.energy
	if e == nil {
		return styles.StyleTextMuted.Render("Waiting for battery data...")
	}
	width := m.innerWidth()

	var b strings.Builder
	remaining := "charging"
	if e.Discharging() {
		remaining = fmt.Sprintf("%.1fh left", e.EstHoursRemaining)
	}
	fmt.Fprintf(&b, "%s %s %3d%% %s\n",
		styles.StyleLabel.Render("Battery"),
		components.RenderBatteryBar(e.BatteryPercent, min(20, width/3)),
		e.BatteryPercent,
		styles.StyleTextMuted.Render("("+remaining+")"))
	fmt.Fprintf(&b, "%s %d W  %s %d W  %s %+d W\n",
		styles.StyleLabel.Render("PV"), e.PVPowerW,
		styles.StyleLabel.Render("Load"), e.LoadPowerW,
		styles.StyleLabel.Render("Net"), e.NetPowerW)

	ac := "Off"
	if e.ACOn {
		ac = e.ACMode.String()
	}
	fmt.Fprintf(&b, "%s %s  %s %d°C  %s %s\n",
		styles.StyleLabel.Render("A/C"), ac,
		styles.StyleLabel.Render("Setpoint"), e.ACSetpointC,
		styles.StyleLabel.Render("Autosave"), onOff(e.AutoSave))
	b.WriteString(components.RenderDeviceList(e.Devices, width))

	if e.LastAction != nil {
		b.WriteString("\n")
		b.WriteString(styles.StyleWarning.Render("⚠ " + *e.LastAction))
	}
	return b.String()
}

func (m DashboardModel) renderLighting() string {
	l := m.lighting
	if l == nil {
		return styles.StyleTextMuted.Render("Waiting for lighting data...")
	}

	state := styles.StyleStatusOff.Render("○ Off")
	if l.On {
		state = styles.StyleStatusOn.Render("● On")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s %s  %s %s\n",
		state,
		styles.StyleLabel.Render("Effect"), l.Effect,
		styles.StyleLabel.Render("Auto night"), onOff(l.AutoNight))
	fmt.Fprintf(&b, "%s %s %3d%%\n",
		styles.StyleLabel.Render("Level"),
		components.RenderBrightnessBar(l.Brightness, l.On, min(20, m.innerWidth()/3)),
		l.Brightness)
	fmt.Fprintf(&b, "%s %s", styles.StyleLabel.Render("Colour"), components.RenderSwatch(l.Color))
	return b.String()
}

func (m DashboardModel) renderWeather() string {
	w := m.weather
	if w == nil {
		return styles.StyleTextMuted.Render("Waiting for weather data...")
	}
	n := w.Now
	sparkWidth := max(m.innerWidth()-8, 10)

	temps := make([]float64, len(w.History))
	hums := make([]float64, len(w.History))
	winds := make([]float64, len(w.History))
	for i, h := range w.History {
		temps[i], hums[i], winds[i] = h.TempC, float64(h.HumidityPct), h.WindKmh
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%.1f°C  %d%%  %.1f km/h %s  %s\n",
		n.TempC, n.HumidityPct, n.WindKmh, weather.Compass(n.WindDirDeg), n.Condition)
	fmt.Fprintf(&b, "%s %s\n", styles.StyleLabel.Render("Temp "), components.Sparkline(temps, sparkWidth))
	fmt.Fprintf(&b, "%s %s\n", styles.StyleLabel.Render("Humid"), components.Sparkline(hums, sparkWidth))
	fmt.Fprintf(&b, "%s %s\n", styles.StyleLabel.Render("Wind "), components.Sparkline(winds, sparkWidth))

	adv := weather.AdviseFor(n)
	advStyle := styles.StyleTextMuted
	if adv >= weather.AdvisoryLeewardTarp {
		advStyle = styles.StyleWarning
	}
	b.WriteString(advStyle.Render(adv.String()))
	return b.String()
}

func (m DashboardModel) renderNavigation() string {
	n := m.nav
	if n == nil {
		return styles.StyleTextMuted.Render("Waiting for route data...")
	}

	var b strings.Builder
	dest := n.Destination.ToPixel(n.Viewport)
	fmt.Fprintf(&b, "%s → %s (%s @ %.0f,%.0f px)\n",
		n.Start.Name, styles.StylePrimary.Render(n.Destination.Name), n.Destination.ID, dest.X, dest.Y)
	fmt.Fprintf(&b, "%s %s · %.0f m · %s\n",
		styles.StyleLabel.Render("Route"), n.Preference, n.EstimatedDistanceM, n.EstimatedTime.Round(time.Second))
	fmt.Fprintf(&b, "%s routes %s  pins %s  hazards %s\n",
		styles.StyleLabel.Render("Overlays"), check(n.ShowRoutes), check(n.ShowPins), check(n.ShowHazards))

	site := "none"
	if m.site != nil && m.site.Site != nil {
		site = fmt.Sprintf("%.2f,%.2f  stability %.0f%%  sun %.0f%%",
			m.site.Site.X, m.site.Site.Y, m.site.GroundStability*100, m.site.SunExposure*100)
	}
	fmt.Fprintf(&b, "%s %s", styles.StyleLabel.Render("Tent site"), site)

	for i, g := range n.Guidance {
		if i == guidanceLines {
			fmt.Fprintf(&b, "\n%s", styles.StyleTextMuted.Render(fmt.Sprintf("  … %d more", len(n.Guidance)-i)))
			break
		}
		fmt.Fprintf(&b, "\n%s %s", styles.StyleHelpKey.Render(fmt.Sprintf("%d.", i+1)), g)
	}
	return b.String()
}

func nextACMode(mode models.ACMode) models.ACMode {
	switch mode {
	case models.ACOff:
		return models.ACCool
	case models.ACCool:
		return models.ACHeat
	case models.ACHeat:
		return models.ACFan
	}
	return models.ACOff
}

func nextEffect(e models.Effect) models.Effect {
	effects := models.Effects()
	for i, candidate := range effects {
		if candidate == e {
			return effects[(i+1)%len(effects)]
		}
	}
	return effects[0]
}

func nextDestination(id string) string {
	dests := navigation.Destinations()
	for i, d := range dests {
		if d.ID == id {
			return dests[(i+1)%len(dests)].ID
		}
	}
	return dests[0].ID
}

func brightnessFromKey(key string) int {
	switch key {
	case "0":
		return 100
	case "1":
		return 10
	case "2":
		return 20
	case "3":
		return 30
	case "4":
		return 40
	case "5":
		return 50
	case "6":
		return 60
	case "7":
		return 70
	case "8":
		return 80
	case "9":
		return 90
	default:
		return -1
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func check(b bool) string {
	if b {
		return styles.StyleSuccess.Render("✓")
	}
	return styles.StyleTextMuted.Render("✗")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func ptr[T any](v T) *T { return &v }
