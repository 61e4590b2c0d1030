package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravity/internal/gravity"
	"github.com/san-kum/gravity/internal/metrics"
	"github.com/san-kum/gravity/internal/sim"
)

const (
	historyCapacity = 600
	feedCapacity    = 6
	maxListed       = 6
	defaultInterval = time.Second / 50
)

// Builder creates a fresh simulator; it is called again on reset.
type Builder func() (*sim.Simulator, error)

type TickMsg time.Time

// feed keeps the most recent event lines. It is shared by copies of Model.
type feed struct {
	lines []string
}

func (f *feed) OnEvent(e gravity.Event) {
	if e.Kind == gravity.EventCreated {
		return
	}
	line := e.String()
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	f.lines = append(f.lines, line)
	if len(f.lines) > feedCapacity {
		f.lines = f.lines[len(f.lines)-feedCapacity:]
	}
}

// Model is the bubbletea model of the watch dashboard.
type Model struct {
	name     string
	build    Builder
	sim      *sim.Simulator
	interval time.Duration
	maxSteps int

	running  bool
	finished bool
	err      error
	clock    *sim.WallClock
	previous time.Duration

	energy []float64
	active []float64
	events *feed

	theme Theme
	st    styles
}

// NewModel builds the first simulator. A positive maxSteps stops stepping
// after that many steps.
func NewModel(name string, build Builder, maxSteps int) (Model, error) {
	m := Model{
		name:     name,
		build:    build,
		maxSteps: maxSteps,
		theme:    Themes[0],
		st:       newStyles(Themes[0]),
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reset() error {
	s, err := m.build()
	if err != nil {
		return err
	}
	m.sim = s
	m.events = &feed{}
	s.AddObserver(m.events)

	m.interval = s.System().Params().CalcInterval()
	if m.interval <= 0 {
		m.interval = defaultInterval
	}
	m.running = true
	m.finished = false
	m.err = nil
	m.clock = sim.NewWallClock(m.interval)
	m.previous = 0
	m.energy = make([]float64, 0, historyCapacity)
	m.active = make([]float64, 0, historyCapacity)
	m.record()
	return nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "t":
			m.theme = m.theme.next()
			m.st = newStyles(m.theme)
		}
	case TickMsg:
		frame := m.clock.Mark(time.Time(msg))
		if m.running && !m.finished && m.err == nil {
			m.step(frame)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step(frame time.Duration) {
	fr, err := m.sim.Advance(frame)
	if err != nil {
		m.err = err
		return
	}
	m.previous = frame
	m.record()
	if fr.Active == 0 || (m.maxSteps > 0 && fr.Step >= m.maxSteps) {
		m.finished = true
	}
}

func (m *Model) record() {
	sys := m.sim.System()
	active, _, _ := sys.Counts()
	m.energy = appendCapped(m.energy, metrics.TotalEnergy(sys))
	m.active = appendCapped(m.active, float64(active))
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return m.st.warn.Render("ERROR: " + m.err.Error())
	case m.finished:
		return m.st.done.Render("FINISHED")
	case !m.running:
		return m.st.paused.Render("PAUSED")
	default:
		return m.st.running.Render("RUNNING")
	}
}

func (m Model) row(label, value string) string {
	return m.st.label.Render(label) + m.st.value.Render(value) + "\n"
}

func (m Model) counters() string {
	sys := m.sim.System()
	active, collided, escaped := sys.Counts()

	var s strings.Builder
	s.WriteString(m.row("Calculations completed", fmt.Sprintf("%d", sys.StepCount())))
	s.WriteString(m.row("Previous time interval", fmt.Sprintf("%.4f s", m.previous.Seconds())))
	s.WriteString(m.row("Time in-simulation", fmt.Sprintf("%.4f", sys.SimulatedTime())))
	s.WriteString(m.row("Active", fmt.Sprintf("%d", active)))
	s.WriteString(m.row("Collided", fmt.Sprintf("%d", collided)))
	s.WriteString(m.row("Escaped", fmt.Sprintf("%d", escaped)))
	s.WriteString(m.row("Trail points", fmt.Sprintf("%d", sys.TrailPoints())))
	com := metrics.CentreOfMass(sys)
	s.WriteString(m.row("Centre of mass", fmt.Sprintf("(%.2f, %.2f)", com.X, com.Y)))
	if m.maxSteps > 0 {
		s.WriteString("\n" + m.st.ProgressBar(float64(sys.StepCount())/float64(m.maxSteps), 30))
	}
	return s.String()
}

func (m Model) bodies() string {
	active := m.sim.System().Active()
	var s strings.Builder
	for i, b := range active {
		if i == maxListed {
			s.WriteString(m.st.muted.Render(fmt.Sprintf("... and %d more", len(active)-maxListed)))
			break
		}
		head, rest, _ := strings.Cut(b.String(), "\n")
		s.WriteString(BodyStyle(b.Colour()).Render(head) + "\n" + rest + "\n\n")
	}
	if len(active) == 0 {
		s.WriteString(m.st.muted.Render("no active bodies"))
	}
	return strings.TrimRight(s.String(), "\n")
}

func (m Model) graphs() string {
	var s strings.Builder
	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(5), asciigraph.Width(40), asciigraph.Caption("Energy"))
		s.WriteString(m.st.graph.Render(chart) + "\n\n")
	}
	s.WriteString(m.st.label.Render("Active bodies") + m.st.graph.Render(Sparkline(m.active, 40)))
	return s.String()
}

func (m Model) eventFeed() string {
	if len(m.events.lines) == 0 {
		return m.st.muted.Render("no events yet")
	}
	return strings.Join(m.events.lines, "\n")
}

func (m Model) View() string {
	header := GradientText("GRAVITY · "+strings.ToUpper(m.name), m.theme.Primary, m.theme.Secondary)

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.st.panel.Render(m.st.title.Render("Details")+"\n"+m.counters()),
		m.st.panel.Render(m.st.title.Render("Events")+"\n"+m.eventFeed()),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.st.panel.Render(m.st.title.Render("Bodies")+"\n"+m.bodies()),
		m.st.panel.Render(m.graphs()),
	)

	help := m.st.muted.Render("space: pause  r: reset  t: theme  q: quit")
	return header + "  " + m.status() + "\n\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n" + help
}

// Run starts the dashboard in the alternate screen and blocks until it is
// closed.
func Run(name string, build Builder, maxSteps int) error {
	m, err := NewModel(name, build, maxSteps)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
