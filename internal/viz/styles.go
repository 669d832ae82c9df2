package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are derived from a Theme whenever the theme changes.
type Styles struct {
	Canvas   lipgloss.Style
	Sidebar  lipgloss.Style
	Header   lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Active   lipgloss.Style
	Invalid  lipgloss.Style
	Warning  lipgloss.Style
	Help     lipgloss.Style
	Running  lipgloss.Style
	Paused   lipgloss.Style
	Idle     lipgloss.Style
	Graph    lipgloss.Style
	KeyPoint lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Canvas: lipgloss.NewStyle().Padding(1, 2).Foreground(t.Secondary),
		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(46),
		Header:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Label:    lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:    lipgloss.NewStyle().Foreground(t.Text),
		Active:   lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Invalid:  lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		Warning:  lipgloss.NewStyle().Foreground(t.Warning),
		Help:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Running:  lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		Paused:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		Idle:     lipgloss.NewStyle().Foreground(t.Muted).Bold(true),
		Graph:    lipgloss.NewStyle().Padding(0, 2),
		KeyPoint: lipgloss.NewStyle().Foreground(t.Muted),
	}
}

// RangeBar shows where v sits inside [lo, hi].
func RangeBar(v, lo, hi float64, width int) string {
	ratio := 0.0
	if hi > lo {
		ratio = (v - lo) / (hi - lo)
	}
	if math.IsNaN(ratio) {
		ratio = 0
	}
	if width < 0 {
		width = 0
	}
	if ratio > 1 {
		ratio = 1
	} else if ratio < 0 {
		ratio = 0
	}
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

// Separator is a decorated horizontal rule.
func Separator(width int, s lipgloss.Style) string {
	mid := width / 2
	if mid < 3 {
		return s.Render(strings.Repeat("─", width))
	}
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return s.Render(left + " ◆ " + right)
}
