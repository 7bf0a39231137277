package screens

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every dashboard binding. Panel-specific bindings only act
// while their panel has focus.
type KeyMap struct {
	NextPanel key.Binding
	PrevPanel key.Binding
	Help      key.Binding
	Quit      key.Binding

	// Energy
	Device     key.Binding
	AutoSave   key.Binding
	ACMode     key.Binding
	WarmerAC   key.Binding
	CoolerAC   key.Binding
	SaveNow    key.Binding
	// Lighting
	Toggle    key.Binding
	Brighter  key.Binding
	Dimmer    key.Binding
	Preset    key.Binding
	Effect    key.Binding
	AutoNight key.Binding
	// Navigation
	Destination key.Binding
	Preference  key.Binding
	Routes      key.Binding
	Pins        key.Binding
	Hazards     key.Binding
	PinSite     key.Binding
	ClearSite   key.Binding
}

// DefaultKeyMap returns the stock bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextPanel: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
		PrevPanel: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev panel")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Device:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "device")),
		AutoSave: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "autosave")),
		ACMode:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "A/C mode")),
		WarmerAC: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "setpoint")),
		CoolerAC: key.NewBinding(key.WithKeys("-")),
		SaveNow:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save now")),

		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Brighter:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("←→", "brightness")),
		Dimmer:    key.NewBinding(key.WithKeys("left", "h")),
		Preset:    key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("0-9", "level")),
		Effect:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "effect")),
		AutoNight: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "auto night")),

		Destination: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "destination")),
		Preference:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "route")),
		Routes:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "routes")),
		Pins:        key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "pins")),
		Hazards:     key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "hazards")),
		PinSite:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "pin tent site")),
		ClearSite:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear site")),
	}
}

// focusedKeys exposes the bindings relevant to the focused panel to the
// help view
type focusedKeys struct {
	keys  KeyMap
	focus Panel
}

func (f focusedKeys) panelKeys() []key.Binding {
	k := f.keys
	switch f.focus {
	case PanelEnergy:
		return []key.Binding{k.Device, k.AutoSave, k.ACMode, k.WarmerAC, k.SaveNow}
	case PanelLighting:
		return []key.Binding{k.Toggle, k.Brighter, k.Preset, k.Effect, k.AutoNight}
	case PanelNavigation:
		return []key.Binding{k.Destination, k.Preference, k.Routes, k.Pins, k.Hazards, k.PinSite, k.ClearSite}
	}
	return nil
}

func (f focusedKeys) ShortHelp() []key.Binding {
	return append(f.panelKeys(), f.keys.NextPanel, f.keys.Help, f.keys.Quit)
}

func (f focusedKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		f.panelKeys(),
		{f.keys.NextPanel, f.keys.PrevPanel, f.keys.Help, f.keys.Quit},
	}
}
