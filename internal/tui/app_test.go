package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/angristan/camp-tui/internal/camp"
	"github.com/angristan/camp-tui/internal/config"
	"github.com/angristan/camp-tui/internal/models"
	"github.com/angristan/camp-tui/internal/schedule"
	"github.com/angristan/camp-tui/internal/tui/messages"
	"github.com/angristan/camp-tui/internal/tui/screens"
)

func newTestSession(t *testing.T) (*camp.Session, *schedule.Manual) {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 3
	clock := schedule.NewManual(time.Date(2026, time.July, 14, 12, 0, 0, 0, time.UTC))
	s, err := camp.NewSession(context.Background(), clock, cfg, nil)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	t.Cleanup(s.Close)
	return s, clock
}

// syncExecutor runs functions immediately, standing in for the loop
type syncExecutor struct {
	stopped bool
}

func (e syncExecutor) Post(fn func()) bool {
	if e.stopped {
		return false
	}
	fn()
	return true
}

func (e syncExecutor) Do(fn func()) bool { return e.Post(fn) }

func TestStatusCmdLoadsDashboard(t *testing.T) {
	s, _ := newTestSession(t)
	model := NewModel(s, syncExecutor{})

	newModel, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model = newModel.(Model)

	if view := model.View(); !strings.Contains(view, "Starting simulators") {
		t.Errorf("view before the first status should show the spinner, got:\n%s", view)
	}

	msg := model.statusCmd()()
	statusMsg, ok := msg.(messages.StatusMsg)
	if !ok {
		t.Fatalf("statusCmd returned %T, want StatusMsg", msg)
	}
	if statusMsg.Status.Energy == nil || statusMsg.Status.Site == nil {
		t.Fatal("status should carry every snapshot")
	}

	newModel, _ = model.Update(statusMsg)
	view := newModel.(Model).View()
	if !strings.Contains(view, "Live") {
		t.Error("view should show the live indicator after StatusMsg")
	}
	if !strings.Contains(view, "78%") {
		t.Error("view should show the starting battery level")
	}
}

func TestStatusCmdStoppedLoop(t *testing.T) {
	s, _ := newTestSession(t)
	model := NewModel(s, syncExecutor{stopped: true})

	msg := model.statusCmd()()
	errMsg, ok := msg.(messages.ErrorMsg)
	if !ok || errMsg.Err != screens.ErrLoopStopped {
		t.Fatalf("expected ErrLoopStopped, got %#v", msg)
	}

	newModel, _ := model.Update(errMsg)
	if newModel.(Model).err == nil {
		t.Error("error should be recorded")
	}
}

func TestPublishedSnapshotsReachView(t *testing.T) {
	s, clock := newTestSession(t)
	model := NewModel(s, syncExecutor{})
	newModel, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model = newModel.(Model)
	newModel, _ = model.Update(model.statusCmd()())
	model = newModel.(Model)

	var msgs []tea.Msg
	unsubscribe := Subscribe(s, func(msg tea.Msg) { msgs = append(msgs, msg) })

	s.Navigation.SetDestination("S3")
	clock.Advance(2 * time.Second)
	unsubscribe()

	var sawEnergy, sawWeather, sawNav bool
	for _, msg := range msgs {
		switch msg.(type) {
		case messages.EnergyMsg:
			sawEnergy = true
		case messages.WeatherMsg:
			sawWeather = true
		case messages.NavigationMsg:
			sawNav = true
		}
		newModel, _ = model.Update(msg)
		model = newModel.(Model)
	}
	if !sawEnergy || !sawWeather || !sawNav {
		t.Errorf("missing snapshots: energy=%v weather=%v navigation=%v", sawEnergy, sawWeather, sawNav)
	}
	if !strings.Contains(model.View(), "East Dunes") {
		t.Error("view should show the new destination")
	}

	// No more messages after unsubscribing
	n := len(msgs)
	clock.Advance(5 * time.Second)
	if len(msgs) != n {
		t.Errorf("received %d messages after unsubscribe", len(msgs)-n)
	}
}

func TestSiteMessages(t *testing.T) {
	s, _ := newTestSession(t)

	var sites []*models.SiteSelection
	unsubscribe := Subscribe(s, func(msg tea.Msg) {
		if m, ok := msg.(messages.SiteMsg); ok {
			sites = append(sites, m.Site)
		}
	})
	defer unsubscribe()

	s.SelectSite(models.Point{X: 0.5, Y: 0.5}, 0.9, 0.4, 0.7)
	s.ClearSite()

	if len(sites) != 2 {
		t.Fatalf("expected 2 site messages, got %d", len(sites))
	}
	if sites[0].Site == nil || sites[1].Site != nil {
		t.Errorf("unexpected site sequence: %+v, %+v", sites[0], sites[1])
	}
}

func TestCtrlCQuits(t *testing.T) {
	s, _ := newTestSession(t)
	model := NewModel(s, syncExecutor{})

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestStatusCmdReturnsWhenLoopStops(t *testing.T) {
	s, _ := newTestSession(t)

	for range 20 {
		loop := schedule.NewLoop(0)
		model := NewModel(s, loop)

		release := make(chan struct{})
		loop.Post(func() { <-release })

		done := make(chan tea.Msg, 1)
		go func() { done <- model.statusCmd()() }()

		// Give the command time to queue behind the blocked job.
		time.Sleep(5 * time.Millisecond)
		loop.Stop()
		close(release)

		select {
		case msg := <-done:
			switch msg.(type) {
			case messages.StatusMsg, messages.ErrorMsg:
			default:
				t.Fatalf("statusCmd returned %T", msg)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("statusCmd blocked after the loop stopped")
		}
	}
}
