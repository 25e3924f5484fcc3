package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/powersim/internal/sim"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	label = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(11)
	graph = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
)

type channel struct {
	name   string
	unit   string
	sample func(sim.Snapshot) float64
}

var channels = []channel{
	{"stack voltage", "V", func(s sim.Snapshot) float64 { return s.FuelCellVoltage }},
	{"stack current", "A", func(s sim.Snapshot) float64 { return s.FuelCellCurrent }},
	{"stack temperature", "°C", func(s sim.Snapshot) float64 { return s.FuelCellTemperature }},
	{"battery soc", "%", func(s sim.Snapshot) float64 { return s.BatterySoC }},
	{"battery current", "A", func(s sim.Snapshot) float64 { return s.BatteryCurrent }},
	{"manifold pressure", "Pa", func(s sim.Snapshot) float64 { return s.ManifoldPressure }},
	{"compressor speed", "rad/s", func(s sim.Snapshot) float64 { return s.CompressorSpeed }},
	{"commanded load", "A", func(s sim.Snapshot) float64 { return s.Load }},
}

type model struct {
	cfg       sim.Config
	orch      *sim.Orchestrator
	observers []sim.Observer
	snap      sim.Snapshot

	paused   bool
	done     bool
	speed    float64
	selected int

	width  int
	height int
}

func newModel(cfg sim.Config, observers []sim.Observer) (model, error) {
	orch, err := sim.New(cfg)
	if err != nil {
		return model{}, err
	}
	for _, obs := range observers {
		orch.AddObserver(obs)
	}
	return model{
		cfg:       cfg,
		orch:      orch,
		observers: observers,
		snap:      orch.Snapshot(),
		speed:     1.0,
		width:     80,
		height:    24,
	}, nil
}

func (m model) Init() tea.Cmd { return m.tickCmd() }

type tickMsg time.Time

// tickCmd schedules the next plant tick. One wall-clock interval of
// dt/speed corresponds to one simulation step, so speed 1 plays the
// run in real time.
func (m model) tickCmd() tea.Cmd {
	interval := time.Duration(float64(time.Second) * m.cfg.Dt / m.speed)
	if interval < 16*time.Millisecond {
		interval = 16 * time.Millisecond
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			m.snap = m.orch.Step()
			if m.orch.Done() {
				m.done = true
				return m, nil
			}
		}
		return m, m.tickCmd()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case " ", "p":
		if !m.done {
			m.paused = !m.paused
		}
	case "r":
		wasDone := m.done
		m.reset()
		if wasDone {
			// The tick chain stops once the run finishes; restart it.
			return m, tea.Batch(tea.ClearScreen, m.tickCmd())
		}
		return m, tea.ClearScreen
	case "tab", "c":
		m.selected = (m.selected + 1) % len(channels)
	case "+", "=":
		m.speed = math.Min(m.speed*2, 16)
	case "-", "_":
		m.speed = math.Max(m.speed/2, 0.25)
	case "0":
		m.speed = 1.0
	}
	return m, nil
}

func (m *model) reset() {
	orch, err := sim.New(m.cfg)
	if err != nil {
		return
	}
	for _, obs := range m.observers {
		orch.AddObserver(obs)
	}
	m.orch = orch
	m.snap = orch.Snapshot()
	m.paused = false
	m.done = false
}

func (m model) series(sample func(sim.Snapshot) float64) []float64 {
	hist := m.orch.History()
	out := make([]float64, len(hist))
	for i, s := range hist {
		out[i] = sample(s)
	}
	return out
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString("\n" + m.header() + "\n")
	b.WriteString(m.progress() + "\n\n")

	left := m.stackPane() + "\n\n" + m.airPane()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "     ", m.batteryPane()) + "\n\n")

	b.WriteString(m.chartPane() + "\n\n")
	b.WriteString(m.sparkRow() + "\n")
	b.WriteString("\n" + dim.Render("   space pause  tab channel  +/- speed  r restart  q quit") + "\n")

	return b.String()
}

func (m model) header() string {
	icon := green.Render("●")
	status := green.Render("running")
	switch {
	case m.done:
		icon = cyan.Render("■")
		status = cyan.Render("done")
	case m.paused:
		icon = yellow.Render("○")
		status = yellow.Render("paused")
	}
	parts := []string{icon, cyan.Render("powersim"), status}
	if m.snap.Charging {
		parts = append(parts, yellow.Render("⚡ charging"))
	}
	if m.snap.Cooling {
		parts = append(parts, cyan.Render("❄ cooling"))
	}
	return "   " + strings.Join(parts, "  ")
}

func (m model) progress() string {
	frac := m.snap.Time / m.cfg.Duration
	if frac > 1 {
		frac = 1
	}
	barWidth := 36
	filled := int(frac * float64(barWidth))
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	timeStr := fmt.Sprintf("%.1fs/%.0fs", m.snap.Time, m.cfg.Duration)
	return fmt.Sprintf("   %s %s  %s", bar, dim.Render(timeStr), dim.Render(fmt.Sprintf("%gx", m.speed)))
}

func (m model) stackPane() string {
	s := m.snap
	tempStyle := white
	if s.Cooling {
		tempStyle = yellow
	}
	var b strings.Builder
	b.WriteString("   " + cyan.Render("stack") + "\n")
	b.WriteString("   " + label.Render("voltage") + white.Render(fmt.Sprintf("%8.2f V", s.FuelCellVoltage)) + "\n")
	b.WriteString("   " + label.Render("current") + white.Render(fmt.Sprintf("%8.2f A", s.FuelCellCurrent)) + "\n")
	b.WriteString("   " + label.Render("temp") + tempStyle.Render(fmt.Sprintf("%8.2f °C", s.FuelCellTemperature)) + "\n")
	b.WriteString("   " + label.Render("hydration") + white.Render(fmt.Sprintf("%8.2f", s.MembraneHydration)) + "\n")
	b.WriteString("   " + label.Render("oxygen") + white.Render(fmt.Sprintf("%8.2f", s.OxygenConcentration)) + "\n")
	b.WriteString("   " + label.Render("h2 flow") + white.Render(fmt.Sprintf("%8.2f", s.HydrogenFlow)))
	return b.String()
}

func (m model) batteryPane() string {
	s := m.snap
	mode := dim.Render("discharging")
	if s.Charging {
		mode = yellow.Render("charging")
	}
	var b strings.Builder
	b.WriteString(cyan.Render("battery") + "  " + mode + "\n")
	b.WriteString(label.Render("soc") + gauge(s.BatterySoC/100, 20) + white.Render(fmt.Sprintf(" %5.1f%%", s.BatterySoC)) + "\n")
	b.WriteString(label.Render("voltage") + white.Render(fmt.Sprintf("%8.2f V", s.BatteryVoltage)) + "\n")
	b.WriteString(label.Render("current") + white.Render(fmt.Sprintf("%8.2f A", s.BatteryCurrent)) + "\n")
	b.WriteString(label.Render("temp") + white.Render(fmt.Sprintf("%8.2f °C", s.BatteryTemperature)))
	return b.String()
}

func (m model) airPane() string {
	s := m.snap
	var b strings.Builder
	b.WriteString("   " + cyan.Render("air supply") + "\n")
	b.WriteString("   " + label.Render("pressure") + white.Render(fmt.Sprintf("%10.0f Pa", s.ManifoldPressure)) + "\n")
	b.WriteString("   " + label.Render("compressor") + white.Render(fmt.Sprintf("%8.2f rad/s", s.CompressorSpeed)) + "\n")
	b.WriteString("   " + label.Render("torque") + white.Render(fmt.Sprintf("%8.3f", s.MotorTorque)))
	return b.String()
}

func (m model) chartPane() string {
	ch := channels[m.selected]
	data := m.series(ch.sample)
	title := "   " + cyan.Render(ch.name) + " " + dim.Render("("+ch.unit+")")
	if len(data) < 2 {
		return title + "\n" + dim.Render("   waiting for samples")
	}
	w := m.width - 16
	if w < 40 {
		w = 40
	}
	if w > 72 {
		w = 72
	}
	plot := asciigraph.Plot(data,
		asciigraph.Height(6),
		asciigraph.Width(w),
	)
	return title + "\n" + graph.Render("   "+strings.ReplaceAll(plot, "\n", "\n   "))
}

func (m model) sparkRow() string {
	rows := []struct {
		name   string
		sample func(sim.Snapshot) float64
	}{
		{"voltage", func(s sim.Snapshot) float64 { return s.FuelCellVoltage }},
		{"soc", func(s sim.Snapshot) float64 { return s.BatterySoC }},
		{"temp", func(s sim.Snapshot) float64 { return s.FuelCellTemperature }},
		{"load", func(s sim.Snapshot) float64 { return s.Load }},
	}
	parts := make([]string, 0, len(rows))
	for _, r := range rows {
		parts = append(parts, dim.Render(r.name+" ")+cyan.Render(sparkline(m.series(r.sample), 14)))
	}
	return "   " + strings.Join(parts, "  ")
}

func gauge(frac float64, width int) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case frac < 0.2:
		return red.Render(bar)
	case frac < 0.5:
		return yellow.Render(bar)
	default:
		return green.Render(bar)
	}
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// Run drives a live dashboard for one simulation built from cfg.
// Observers attached here keep firing on every tick, so telemetry
// sinks work the same in live mode as in batch runs.
func Run(cfg sim.Config, observers ...sim.Observer) error {
	m, err := newModel(cfg, observers)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
