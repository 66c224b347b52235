package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/jheller/magsim/internal/dipole"
	"github.com/jheller/magsim/internal/geom"
	"github.com/jheller/magsim/internal/sim"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Snapshot stores the packed scene state at a point in time for replay.
type Snapshot struct {
	State  sim.State
	Time   float64
	Energy float64
}

// Model is the bubbletea program for the live scene view. It owns the frame
// loop; the simulation core is stepped once per frame tick.
type Model struct {
	mgr        *dipole.Manager
	integrator sim.Integrator
	controller sim.Controller

	sceneW, sceneH float64
	title          string

	state sim.State
	u     sim.Control
	t, dt float64

	canvas  *Canvas
	running bool

	showField bool
	showHelp  bool

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int

	initialState  sim.State
	energyHistory []float64
	history       []Snapshot
	playHead      int
}

// NewModel initializes the live view for an attached scene. sceneW/sceneH
// are the scene coordinate bounds (the Display dimensions).
func NewModel(mgr *dipole.Manager, integ sim.Integrator, ctrl sim.Controller, dt float64, sceneW, sceneH float64, title string) Model {
	params := make(map[string]float64)
	for k, v := range mgr.GetParams() {
		params[k] = v
	}
	keys := make([]string, 0, len(params))
	initialParams := make(map[string]float64)
	for k, v := range params {
		keys = append(keys, k)
		if v == 0 {
			v = 1e-6
		}
		initialParams[k] = v
	}
	sort.Strings(keys)

	state := mgr.PackState()

	return Model{
		mgr:           mgr,
		integrator:    integ,
		controller:    ctrl,
		sceneW:        sceneW,
		sceneH:        sceneH,
		title:         title,
		state:         state,
		u:             make(sim.Control, mgr.ControlDim()),
		dt:            dt,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		running:       true,
		params:        params,
		initialParams: initialParams,
		paramKeys:     keys,
		initialState:  state.Clone(),
		energyHistory: make([]float64, 0, historyCapacity),
		history:       make([]Snapshot, 0, historyCapacity),
		playHead:      -1,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "f":
			m.showField = !m.showField
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	newVal := m.params[key] * factor
	if err := m.mgr.SetParam(key, newVal); err != nil {
		return
	}
	m.params[key] = newVal
}

// step advances the scene one frame.
func (m *Model) step() {
	m.u = m.controller.Compute(m.state, m.t)
	m.state = m.integrator.Step(m.mgr, m.state, m.u, m.t, m.dt)
	m.t += m.dt
	m.mgr.ApplyState(m.state)

	energy := m.mgr.Energy(m.state)
	m.energyHistory = append(m.energyHistory, energy)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}

	snap := Snapshot{State: m.state.Clone(), Time: m.t, Energy: energy}
	m.history = append(m.history, snap)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

// scrub changes the replay position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset restores the initial orientations and parameters.
func (m *Model) reset() {
	m.t = 0
	m.state = m.initialState.Clone()
	m.mgr.ApplyState(m.state)
	m.u = make(sim.Control, m.mgr.ControlDim())
	m.energyHistory = m.energyHistory[:0]
	m.history = m.history[:0]
	m.playHead = -1
	for k, v := range m.initialParams {
		m.params[k] = v
		m.mgr.SetParam(k, v)
	}
}

// project maps scene coordinates to canvas sub-pixels.
func (m *Model) project(p geom.Vec2) (int, int) {
	x := int(p.X / m.sceneW * float64(canvasWidth*2))
	y := int(p.Y / m.sceneH * float64(canvasHeight*4))
	return x, y
}

func (m *Model) draw() {
	m.canvas.Clear()

	replaying := m.playHead >= 0 && m.playHead < len(m.history)
	if replaying {
		m.mgr.ApplyState(m.history[m.playHead].State)
	}

	if m.showField {
		m.drawField()
	}

	for _, e := range m.mgr.Elements() {
		x, y := m.project(e.Position())
		// Screen y grows downward, scene angles are mathematical; flip sign.
		angle := -e.MomentAngle()
		switch e.(type) {
		case *dipole.Ferrite:
			m.canvas.DrawCircle(x, y, 4)
			m.canvas.DrawArrow(x, y, angle, 8)
		default:
			m.canvas.FillCircle(x, y, 3)
			m.canvas.DrawArrow(x, y, angle, 7)
		}
	}

	if replaying {
		m.mgr.ApplyState(m.state)
	}
}

// drawField overlays short direction ticks of the net field on a coarse grid.
func (m *Model) drawField() {
	stepX := m.sceneW / 16
	stepY := m.sceneH / 10
	for gy := stepY / 2; gy < m.sceneH; gy += stepY {
		for gx := stepX / 2; gx < m.sceneW; gx += stepX {
			p := geom.V(gx, gy)
			b := m.mgr.FieldAt(p, dipole.NoHandle)
			if b.Len() < 1e-9 {
				continue
			}
			x, y := m.project(p)
			m.canvas.DrawArrow(x, y, -b.Angle(), 3)
		}
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.playHead != -1 {
		status = fmt.Sprintf("REPLAY (%d/%d)", m.playHead+1, len(m.history))
	}

	headerStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).MarginBottom(1)

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(fmt.Sprintf("%s\n\n", status))

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Elements") + valueStyle.Render(fmt.Sprintf("%d (%d ferrite)", m.mgr.Len(), len(m.mgr.Ferrites()))) + "\n")
	if len(m.u) > 0 {
		s.WriteString(labelStyle.Render("Drive") + valueStyle.Render(fmt.Sprintf("%.3f", m.u[0])) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	if len(m.params) > 0 {
		for i, k := range m.paramKeys {
			val, initial := m.params[k], m.initialParams[k]
			barWidth, ratio := 10, val/(2.0*initial)
			if ratio > 1 {
				ratio = 1
			} else if ratio < 0 {
				ratio = 0
			}
			filled := int(ratio * float64(barWidth))
			bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled) + "]"
			line := fmt.Sprintf("%-10s %s %.3g", k, bar, val)
			if i == m.selected {
				s.WriteString(activeStyle.Render("> "+line) + "\n")
			} else {
				s.WriteString("  " + labelStyle.Render(line) + "\n")
			}
		}
	} else {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nF:Field T:Theme ?:Help\n[ ]:Time-Travel ↑↓:Tune"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset scene              ║
║  Q        - Quit                     ║
║  F        - Toggle field overlay     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  [        - Rewind (time travel)     ║
║  ]        - Forward (time travel)    ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
