package viz

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/oscillab/internal/analysis"
	"github.com/san-kum/oscillab/internal/dynamo"
	"github.com/san-kum/oscillab/internal/params"
	"github.com/san-kum/oscillab/internal/physics"
	"github.com/san-kum/oscillab/internal/sim"
)

const (
	canvasWidth  = 60
	canvasHeight = 12
	chartHeight  = 4
	// screen offset of canvas cell (0, 0): one header line plus the
	// canvas style's padding
	canvasTop  = 2
	canvasLeft = 2
)

type Options struct {
	Sim    sim.Options
	Store  *params.Store
	FPS    int
	Theme  string
	Logger *slog.Logger
}

// Model is the Bubble Tea program hosting one driver.
type Model struct {
	driver  *sim.Driver
	sched   *frameScheduler
	painter *CanvasPainter
	charts  *ChartPanel
	log     *slog.Logger

	input    textinput.Model
	editing  bool
	selected int

	theme  Theme
	styles Styles

	showPhase bool
	showHelp  bool
	status    string
	width     int
	height    int
	epoch     time.Time
}

func NewModel(opts Options) Model {
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	opts.Sim.Logger = log

	sched := newFrameScheduler(fps)
	painter := NewCanvasPainter(canvasWidth, canvasHeight)
	charts := NewChartPanel(fps)
	d := sim.New(opts.Sim, opts.Store, sched, painter, charts)
	d.Render()

	ti := textinput.New()
	ti.Prompt = "= "
	ti.CharLimit = 16
	ti.Width = 12

	theme := GetTheme(opts.Theme)
	return Model{
		driver:  d,
		sched:   sched,
		painter: painter,
		charts:  charts,
		log:     log,
		input:   ti,
		theme:   theme,
		styles:  NewStyles(theme),
		epoch:   time.Now(),
	}
}

func (m Model) Driver() *sim.Driver { return m.driver }

// Run starts the full-screen program with mouse tracking for dragging.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("oscillab")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case frameMsg:
		if !m.sched.accept(msg.handle) {
			return m, nil
		}
		m.driver.Tick(msg.at.Sub(m.epoch).Seconds())
	case tea.KeyMsg:
		if m.editing {
			m, cmd = m.editKey(msg)
		} else {
			m, cmd = m.handleKey(msg)
		}
	case tea.MouseMsg:
		m = m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
	}

	if m.driver.State() != sim.Running {
		m.charts.Settle()
	}
	return m, tea.Batch(cmd, m.sched.drain())
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.toggleRunning()
	case "r":
		m.driver.Reset()
		m.status = ""
	case "m":
		m.driver.SetMode(m.driver.Mode().Toggle())
		m.selected = 0
		m.status = ""
	case "tab":
		m.cycleField(1)
	case "shift+tab":
		m.cycleField(-1)
	case "up", "k":
		m.stepField(1)
	case "down", "j":
		m.stepField(-1)
	case "e", "enter":
		return m.beginEdit()
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.styles = NewStyles(m.theme)
	case "p":
		m.showPhase = !m.showPhase
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) toggleRunning() {
	if m.driver.State() == sim.Running {
		m.driver.Pause()
		return
	}
	if err := m.driver.Start(); err != nil {
		m.status = startBlockedReason(err)
		return
	}
	m.status = ""
}

func (m Model) fields() []dynamo.Field {
	return params.FieldsFor(m.driver.Mode())
}

// SelectedField is the parameter the arrows and the editor act on.
func (m Model) SelectedField() dynamo.Field {
	fs := m.fields()
	return fs[m.selected%len(fs)]
}

func (m *Model) cycleField(dir int) {
	n := len(m.fields())
	m.selected = ((m.selected+dir)%n + n) % n
}

func (m *Model) stepField(dir int) {
	if err := m.driver.StepParam(m.SelectedField(), dir); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

func (m Model) beginEdit() (Model, tea.Cmd) {
	f := m.SelectedField()
	v, _ := m.driver.Store().Get(f)
	m.editing = true
	m.input.SetValue(strconv.FormatFloat(v, 'g', -1, 64))
	m.input.CursorEnd()
	focus := m.input.Focus()
	return m, tea.Batch(focus, textinput.Blink)
}

func (m Model) editKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		f := m.SelectedField()
		if err := m.driver.SetParam(f, m.input.Value()); err != nil {
			m.status = err.Error()
		} else {
			m.status = ""
		}
		m.endEdit()
		return m, nil
	case "esc":
		m.endEdit()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) endEdit() {
	m.editing = false
	m.input.Blur()
	m.input.Reset()
}

// handleMouse maps terminal cells onto canvas sub-pixels and forwards
// drags to the driver.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	x := float64((msg.X-canvasLeft)*2 + 1)
	y := float64((msg.Y-canvasTop)*4 + 2)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && m.driver.HitTest(x, y) {
			m.driver.BeginDrag()
			m.driver.DragTo(m.painter.DisplacementAt(m.driver.Mode(), x, y))
		}
	case tea.MouseActionMotion:
		if m.driver.Dragging() {
			m.driver.DragTo(m.painter.DisplacementAt(m.driver.Mode(), x, y))
		}
	case tea.MouseActionRelease:
		m.driver.EndDrag()
	}
	return m
}

func (m *Model) resize() {
	w := m.width - 52
	if w < 30 {
		w = 30
	}
	if w > 100 {
		w = 100
	}
	m.painter.Resize(w, canvasHeight)
	m.driver.Render()
}

// startBlockedReason explains why the start action is unavailable.
func startBlockedReason(err error) string {
	var verr *dynamo.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("cannot start: fix %s (%s)", verr.Field, verr.Reason)
	}
	return err.Error()
}

func (m Model) View() string {
	d := m.driver
	s := m.styles

	o := d.Options()
	header := s.Header.Render("OSCILLAB · "+strings.ToUpper(d.Mode().String())) + "  " + m.stateLabel() +
		s.Help.Render(fmt.Sprintf("  window %gs  speed ×%g", o.Window, o.TimeScale))
	canvasView := s.Canvas.Render(m.painter.Canvas().String())
	left := lipgloss.JoinVertical(lipgloss.Left, canvasView, m.lowerPanel())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, s.Sidebar.Render(m.sidebar()))

	view := header + "\n" + body
	if m.showHelp {
		view += "\n" + helpOverlay
	}
	return view
}

func (m Model) stateLabel() string {
	switch m.driver.State() {
	case sim.Running:
		return m.styles.Running.Render("RUNNING")
	case sim.Paused:
		if m.driver.Dragging() {
			return m.styles.Paused.Render("DRAGGING")
		}
		return m.styles.Paused.Render("PAUSED")
	default:
		return m.styles.Idle.Render("IDLE")
	}
}

func (m Model) lowerPanel() string {
	width := m.painter.Canvas().Width
	if !m.showPhase {
		return m.styles.Graph.Render(m.charts.Render(width, chartHeight, m.theme, m.styles))
	}

	d := m.driver
	buf := d.Buffer()
	xs := buf.Series(dynamo.SignalPosition).Values()
	vs := buf.Series(dynamo.SignalVelocity).Values()
	xSpan := d.Axis(dynamo.SignalPosition).Max
	vSpan := d.Axis(dynamo.SignalVelocity).Max
	portrait := analysis.PhasePortrait(xs, vs, xSpan, vSpan, width, chartHeight*3+1)
	if portrait == "" {
		portrait = "(no samples yet)"
	}
	title := m.styles.Label.Render("phase: position vs velocity")
	return m.styles.Graph.Render(title + "\n" + portrait)
}

func (m Model) sidebar() string {
	d := m.driver
	s := m.styles
	p := d.Params()
	sum := physics.Describe(d.Mode(), p)
	k := physics.Evaluate(d.Mode(), p, d.Clock().Elapsed)

	var sb strings.Builder
	row := func(label, value string) {
		sb.WriteString(s.Label.Render(label) + s.Value.Render(value) + "\n")
	}

	unit := dynamo.SignalPosition.Unit(d.Mode())
	row("Time", fmt.Sprintf("%.2fs", d.Clock().Elapsed))
	row("Position", fmt.Sprintf("%+.4f %s", k.Position, unit))
	row("Velocity", fmt.Sprintf("%+.4f %s", k.Velocity, dynamo.SignalVelocity.Unit(d.Mode())))
	row("Accel", fmt.Sprintf("%+.4f %s", k.Acceleration, dynamo.SignalAcceleration.Unit(d.Mode())))
	sb.WriteString("\n")
	row("ω", fmt.Sprintf("%.4f rad/s", sum.Omega))
	row("Period", fmt.Sprintf("%.4f s", sum.Period))
	row("Frequency", fmt.Sprintf("%.4f Hz", sum.Frequency))
	if d.Mode() == dynamo.ModePendulum {
		row("Energy", fmt.Sprintf("%.4f J/kg", sum.Energy))
		if !sum.SmallAngle {
			sb.WriteString(s.Warning.Render(fmt.Sprintf("small-angle approx. beyond %.0f°", physics.SmallAngleLimitDeg)) + "\n")
		}
	} else {
		row("Energy", fmt.Sprintf("%.4f J", sum.Energy))
	}

	sb.WriteString("\n" + s.Header.Render("PARAMETERS") + "\n")
	store := d.Store()
	invalid := make(map[dynamo.Field]*dynamo.ValidationError)
	for _, verr := range store.Invalid() {
		invalid[verr.Field] = verr
	}
	for i, f := range m.fields() {
		v, _ := store.Get(f)
		r, _ := store.Range(f)
		line := fmt.Sprintf("%-15s %s %g %s", f, RangeBar(v, r.Min, r.Max, 8), v, f.Unit())
		switch {
		case i == m.selected && m.editing:
			sb.WriteString(s.Active.Render("> "+string(f)) + " " + m.input.View() + "\n")
		case i == m.selected:
			sb.WriteString(s.Active.Render("> "+line) + "\n")
		default:
			sb.WriteString("  " + s.Value.Render(line) + "\n")
		}
		if verr, ok := invalid[f]; ok {
			sb.WriteString("    " + s.Invalid.Render(verr.Reason) + "\n")
		}
	}
	// fields of the hidden mode still block starting
	for _, verr := range store.Invalid() {
		if !containsField(m.fields(), verr.Field) {
			sb.WriteString("  " + s.Invalid.Render(fmt.Sprintf("%s: %s", verr.Field, verr.Reason)) + "\n")
		}
	}

	if m.status != "" {
		sb.WriteString("\n" + s.Invalid.Render(m.status) + "\n")
	} else if !store.CanStart() {
		sb.WriteString("\n" + s.Warning.Render("start disabled: invalid parameters") + "\n")
	}

	sb.WriteString("\n" + Separator(40, s.Help) + "\n")
	sb.WriteString(s.Help.Render("space start/pause  r reset  m mode\ntab field  ↑↓ nudge  e edit  p phase\nt theme  ? help  q quit  drag the mass"))
	return sb.String()
}

func containsField(fs []dynamo.Field, f dynamo.Field) bool {
	for _, x := range fs {
		if x == f {
			return true
		}
	}
	return false
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Start / pause            ║
║  R        - Reset to t = 0           ║
║  M        - Switch spring/pendulum   ║
║  Tab      - Next parameter           ║
║  Up/K     - Nudge parameter up       ║
║  Down/J   - Nudge parameter down     ║
║  E/Enter  - Type a value             ║
║  P        - Phase portrait           ║
║  T        - Cycle themes             ║
║  Mouse    - Drag the mass or bob     ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
