package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/angristan/camp-tui/internal/camp"
	"github.com/angristan/camp-tui/internal/models"
	"github.com/angristan/camp-tui/internal/publish"
	"github.com/angristan/camp-tui/internal/tui/messages"
)

// Subscribe forwards every snapshot published by the session to send,
// typically (*tea.Program).Send. The returned function removes the
// subscriptions.
func Subscribe(s *camp.Session, send func(tea.Msg)) (unsubscribe func()) {
	subs := []*publish.Subscription{
		s.Energy.Subscribe(func(st *models.EnergyState) { send(messages.EnergyMsg{State: st}) }),
		s.Lighting.Subscribe(func(st *models.LightingState) { send(messages.LightingMsg{State: st}) }),
		s.Weather.Subscribe(func(st *models.WeatherState) { send(messages.WeatherMsg{State: st}) }),
		s.Navigation.Subscribe(func(st *models.NavigationState) { send(messages.NavigationMsg{State: st}) }),
		s.SubscribeSite(func(site *models.SiteSelection) { send(messages.SiteMsg{Site: site}) }),
	}
	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}
}
