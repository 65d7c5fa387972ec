// Package tui is the interactive chatter explorer: pick a machine preset,
// then move an operating point over its stability lobes.
package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/precsim/internal/chatter"
	"github.com/san-kum/precsim/internal/config"
	"github.com/san-kum/precsim/internal/viz"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

var rpmSteps = []float64{10, 50, 100, 500, 1000}

const depthStep = 0.01 // mm

type state int

const (
	stateMenu state = iota
	stateExplore
)

type model struct {
	state   state
	cursor  int
	presets []string

	cfg     *config.Config
	chatter *chatter.Model
	lobes   chatter.LobeSet
	rpm     float64
	depth   float64
	stepIdx int
	check   chatter.Check
	err     error

	theme  viz.Theme
	width  int
	height int
}

func newModel() model {
	return model{
		state:   stateMenu,
		presets: config.ListPresets(),
		stepIdx: 2,
		theme:   viz.ThemeShop,
		width:   80,
		height:  24,
	}
}

// load switches the explorer to cfg, starting at the middle of its speed
// range at half the absolute stability limit.
func (m model) load(cfg *config.Config) model {
	cm, err := cfg.ChatterModel()
	if err != nil {
		m.err = err
		return m
	}
	m.cfg = cfg
	m.chatter = cm
	m.lobes = chatter.GenerateStabilityLobes(cm, cfg.Chatter.RPM, max(cfg.Chatter.Lobes, 1))
	m.rpm = math.Round((cfg.Chatter.RPM.Min + cfg.Chatter.RPM.Max) / 2)
	m.depth = math.Round(cm.AbsoluteLimit()/2*100) / 100
	m.state = stateExplore
	m.err = nil
	return m.recheck()
}

func (m model) recheck() model {
	m.check, m.err = chatter.CheckStability(m.chatter, m.rpm, m.depth)
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateMenu {
			return m.menuKey(msg)
		}
		return m.exploreKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.presets) > 0 {
			return m.load(config.GetPreset(m.presets[m.cursor])), tea.ClearScreen
		}
	}
	return m, nil
}

func (m model) exploreKey(msg tea.KeyMsg) (model, tea.Cmd) {
	rng := m.cfg.Chatter.RPM
	step := rpmSteps[m.stepIdx]

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = stateMenu
		return m, tea.ClearScreen
	case "left", "h":
		m.rpm = math.Max(rng.Min, m.rpm-step)
	case "right", "l":
		m.rpm = math.Min(rng.Max, m.rpm+step)
	case "up", "k":
		m.depth += depthStep
	case "down", "j":
		m.depth = math.Max(0, m.depth-depthStep)
	case "+", "=":
		m.stepIdx = min(m.stepIdx+1, len(rpmSteps)-1)
		return m, nil
	case "-", "_":
		m.stepIdx = max(m.stepIdx-1, 0)
		return m, nil
	case "b":
		best, err := chatter.BestSpeed(m.chatter, rng, max(m.cfg.Chatter.Lobes, 1), rpmSteps[0])
		if err != nil {
			m.err = err
			return m, nil
		}
		m.rpm = best.RPM
	case "t":
		m.theme = m.theme.Next()
		return m, nil
	default:
		return m, nil
	}
	return m.recheck(), nil
}

func (m model) View() string {
	if m.state == stateMenu {
		return m.viewMenu()
	}
	return m.viewExplore()
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("          " + cyan.Render("p r e c s i m") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.presets {
		desc := presetSummary(config.GetPreset(name))
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString("      " + red.Render(m.err.Error()) + "\n\n")
	}
	b.WriteString(dim.Render("      ↑↓ select   enter explore   q quit") + "\n")
	return b.String()
}

func presetSummary(cfg *config.Config) string {
	p := cfg.Chatter.Params
	return fmt.Sprintf("%d-axis  %d teeth  k=%.0e N/m", cfg.Machine.AxisCount, p.Teeth, p.Stiffness)
}

func (m model) viewExplore() string {
	cw := max(m.width-14, 40)
	ch := max(m.height-14, 8)

	title := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Primary)
	var b strings.Builder
	b.WriteString("\n  " + title.Render(m.cfg.Name) + "  " +
		dim.Render(fmt.Sprintf("fn %.1f Hz  ζ %.4f  b_lim,min %.3f mm",
			m.chatter.NaturalFrequencyHz(), m.chatter.DampingRatio(), m.chatter.AbsoluteLimit())) + "\n\n")

	mark := chatter.LobePoint{RPM: m.rpm, Depth: m.depth}
	for _, line := range strings.Split(strings.TrimRight(viz.LobeChart(m.lobes, cw, ch, &mark), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")

	status := viz.Stable.Render("STABLE")
	if !m.check.Stable {
		status = viz.Unstable.Render("CHATTER")
	}
	limit := "∞"
	if !math.IsInf(m.check.CriticalDepth, 1) {
		limit = fmt.Sprintf("%.4f", m.check.CriticalDepth)
	}
	b.WriteString("  " + viz.Metric("speed", fmt.Sprintf("%.0f", m.rpm), "rpm") +
		"   " + viz.Metric("depth", fmt.Sprintf("%.3f", m.depth), "mm") +
		"   " + viz.Metric("tooth pass", fmt.Sprintf("%.1f", m.check.ToothPassingHz), "Hz") + "\n")
	b.WriteString("  " + viz.Metric("b_lim", limit, "mm") +
		"   " + viz.Metric("envelope", fmt.Sprintf("%.4f", m.lobes.LimitAt(m.rpm)), "mm") +
		"   " + status + "\n")
	b.WriteString("  " + viz.MarginBar(m.check.MarginPercent, 30) + " " +
		magenta.Render(fmt.Sprintf("%.1f%%", m.check.MarginPercent)) + "\n\n")

	if m.err != nil {
		b.WriteString("  " + red.Render(m.err.Error()) + "\n")
	}
	b.WriteString(dim.Render(fmt.Sprintf("  ←→ speed (±%.0f)  ↑↓ depth  +/- step  b best speed  t theme  esc back  q quit",
		rpmSteps[m.stepIdx])) + "\n")
	return b.String()
}

// Run starts the explorer. With a non-nil cfg the preset menu is skipped.
func Run(cfg *config.Config) error {
	m := newModel()
	if cfg != nil {
		m = m.load(cfg)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
