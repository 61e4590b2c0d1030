package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/gravity/internal/vecmath"
)

type styles struct {
	panel   lipgloss.Style
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	muted   lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	done    lipgloss.Style
	warn    lipgloss.Style
	graph   lipgloss.Style
	high    lipgloss.Style
	mid     lipgloss.Style
	low     lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(26),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		muted:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		running: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		done:    lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		warn:    lipgloss.NewStyle().Foreground(t.Error),
		graph:   lipgloss.NewStyle().Foreground(t.Accent),
		high:    lipgloss.NewStyle().Foreground(t.Success),
		mid:     lipgloss.NewStyle().Foreground(t.Warning),
		low:     lipgloss.NewStyle().Foreground(t.Error),
	}
}

// GradientText colours text with a blend from start to end in Lab space.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	c1, err1 := colorful.Hex(string(start))
	c2, err2 := colorful.Hex(string(end))
	if err1 != nil || err2 != nil {
		return text
	}

	var result strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := c1.BlendLab(c2, t).Clamped()
		result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return result.String()
}

// BodyStyle renders text in a body's colour.
func BodyStyle(c vecmath.Colour) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.RGBHex()))
}

// ProgressBar renders a bar filled to percent in [0, 1].
func (s styles) ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if percent > 0.8 {
		return s.high.Render(bar)
	} else if percent > 0.4 {
		return s.mid.Render(bar)
	}
	return s.low.Render(bar)
}

// Sparkline renders the last width values as block characters scaled
// between their minimum and maximum.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var result strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		result.WriteRune(chars[idx])
	}
	return result.String()
}
