package viz

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/gravity/internal/gravity"
	"github.com/san-kum/gravity/internal/sim"
)

func pairBuilder() (*sim.Simulator, error) {
	sys := gravity.NewSystem(gravity.DefaultParams())
	sys.AddBody(gravity.BodySpec{ID: "a", Mass: 1, X: -100})
	sys.AddBody(gravity.BodySpec{ID: "b", Mass: 1, X: 100})
	return sim.New(sys, nil), nil
}

func loneBuilder() (*sim.Simulator, error) {
	p := gravity.DefaultParams()
	p.Bound = 100
	sys := gravity.NewSystem(p)
	sys.AddBody(gravity.BodySpec{ID: "lone", Mass: 1, X: 150})
	return sim.New(sys, nil), nil
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelTicks(t *testing.T) {
	m, err := NewModel("pair", pairBuilder, 0)
	if err != nil {
		t.Fatalf("new model failed: %v", err)
	}

	t0 := time.Unix(100, 0)
	m = send(t, m, TickMsg(t0))
	m = send(t, m, TickMsg(t0.Add(40*time.Millisecond)))

	if got := m.sim.System().StepCount(); got != 2 {
		t.Errorf("expected 2 steps, got %d", got)
	}
	if m.previous != 40*time.Millisecond {
		t.Errorf("expected previous interval 40ms, got %v", m.previous)
	}
	if len(m.energy) != 3 || len(m.active) != 3 {
		t.Errorf("expected 3 history samples, got %d and %d", len(m.energy), len(m.active))
	}
}

func TestModelPauseAndReset(t *testing.T) {
	m, err := NewModel("pair", pairBuilder, 0)
	if err != nil {
		t.Fatalf("new model failed: %v", err)
	}

	t0 := time.Unix(100, 0)
	m = send(t, m, TickMsg(t0))
	m = send(t, m, key(" "))
	m = send(t, m, TickMsg(t0.Add(20*time.Millisecond)))
	if got := m.sim.System().StepCount(); got != 1 {
		t.Errorf("paused model stepped: %d steps", got)
	}

	m = send(t, m, key("r"))
	if got := m.sim.System().StepCount(); got != 0 || !m.running {
		t.Errorf("reset failed: %d steps, running=%v", got, m.running)
	}
}

func TestModelFinishes(t *testing.T) {
	m, err := NewModel("lone", loneBuilder, 0)
	if err != nil {
		t.Fatalf("new model failed: %v", err)
	}

	t0 := time.Unix(100, 0)
	m = send(t, m, TickMsg(t0))
	m = send(t, m, TickMsg(t0.Add(20*time.Millisecond)))

	if !m.finished {
		t.Error("expected model to finish once every body escaped")
	}
	if got := m.sim.System().StepCount(); got != 1 {
		t.Errorf("expected 1 step, got %d", got)
	}
	if len(m.events.lines) != 1 || !strings.Contains(m.events.lines[0], "escaped lone") {
		t.Errorf("unexpected feed %v", m.events.lines)
	}
}

func TestModelMaxSteps(t *testing.T) {
	m, err := NewModel("pair", pairBuilder, 2)
	if err != nil {
		t.Fatalf("new model failed: %v", err)
	}

	t0 := time.Unix(100, 0)
	for i := 0; i < 5; i++ {
		m = send(t, m, TickMsg(t0.Add(time.Duration(i)*20*time.Millisecond)))
	}
	if got := m.sim.System().StepCount(); got != 2 || !m.finished {
		t.Errorf("expected to stop after 2 steps, got %d (finished=%v)", got, m.finished)
	}
}

func TestModelView(t *testing.T) {
	m, err := NewModel("pair", pairBuilder, 10)
	if err != nil {
		t.Fatalf("new model failed: %v", err)
	}
	m = send(t, m, TickMsg(time.Unix(100, 0)))

	view := m.View()
	for _, want := range []string{"Calculations completed", "Previous time interval", "Time in-simulation", "Active", "Collided", "Escaped", "Centre of mass", "(0.00, 0.00)", "<a>", "<b>"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelQuit(t *testing.T) {
	m, err := NewModel("pair", pairBuilder, 0)
	if err != nil {
		t.Fatalf("new model failed: %v", err)
	}
	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("expected quit command")
	}
}

func TestFeed(t *testing.T) {
	f := &feed{}
	f.OnEvent(gravity.Event{Kind: gravity.EventCreated, Body: "x"})
	if len(f.lines) != 0 {
		t.Errorf("creation events should be ignored: %v", f.lines)
	}
	for i := 0; i < feedCapacity+3; i++ {
		f.OnEvent(gravity.Event{Kind: gravity.EventOverflow, Body: "x", Message: "removed\ndetails"})
	}
	if len(f.lines) != feedCapacity {
		t.Errorf("expected %d lines, got %d", feedCapacity, len(f.lines))
	}
	if strings.Contains(f.lines[0], "details") {
		t.Errorf("expected first line only, got %q", f.lines[0])
	}
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"empty", nil, 3, "───"},
		{"flat", []float64{2, 2}, 5, "▁▁"},
		{"ramp", []float64{0, 7}, 5, "▁█"},
		{"keeps newest", []float64{9, 0, 1, 2, 3, 4, 5, 6, 7}, 8, "▁▂▃▄▅▆▇█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sparkline(tt.values, tt.width); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestGradientText(t *testing.T) {
	if GradientText("", "#000000", "#ffffff") != "" {
		t.Error("expected empty output")
	}
	if got := GradientText("abc", "nope", "#ffffff"); got != "abc" {
		t.Errorf("expected plain text on bad colour, got %q", got)
	}
	out := GradientText("héllo", "#000000", "#ffffff")
	if utf8.RuneCountInString(out) < 5 || !strings.Contains(out, "é") {
		t.Errorf("unexpected gradient %q", out)
	}
}

func TestThemes(t *testing.T) {
	names := ThemeNames()
	th := GetTheme(names[0])
	for range names {
		th = th.next()
	}
	if th.Name != names[0] {
		t.Errorf("expected cycling back to %s, got %s", names[0], th.Name)
	}
	if GetTheme("missing").Name != names[0] {
		t.Error("unknown theme should fall back to the first")
	}
}
