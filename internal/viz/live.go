package viz

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ropecoil/internal/coiler"
	"github.com/san-kum/ropecoil/internal/metrics"
	"github.com/san-kum/ropecoil/internal/protocol"
	"github.com/san-kum/ropecoil/internal/sim"
)

const (
	canvasWidth     = 60
	canvasHeight    = 22
	historyCapacity = 600
	speedStep       = 0.2
	swayRate        = 0.8
	frameInterval   = time.Second / 60
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Options configures a live session.
type Options struct {
	Variants coiler.Table
	Variant  string
	Speed    float64
	// Center is the coiler axis position in world space.
	Center mgl64.Vec3
	// Anchor is the resting feed point; with Sway the end anchor traverses
	// Amplitude either side of it along Z.
	Anchor    mgl64.Vec3
	Sway      bool
	Amplitude float64
	Metrics   []metrics.Metric
}

// Model is the bubbletea model of the live winding view. All simulation
// access goes through the protocol client.
type Model struct {
	ctx    context.Context
	client *protocol.Client
	opts   Options

	variant coiler.Variant
	cap     int

	scene  *Canvas
	rope   *Canvas
	camera *Camera

	snap     sim.Snapshot
	history  []sim.Snapshot
	playHead int
	statics  []float64

	speed    float64
	running  bool
	showHelp bool
	notice   string
	err      error
}

// NewModel initializes the simulator behind client, builds the coiler and
// rope and returns a model ready to run.
func NewModel(ctx context.Context, client *protocol.Client, opts Options) (Model, error) {
	v, err := opts.Variants.Resolve(opts.Variant)
	if err != nil {
		return Model{}, err
	}
	if _, err := client.Init(ctx); err != nil {
		return Model{}, err
	}
	id, limit, err := client.CreateCoiler(ctx, opts.Variants, opts.Variant)
	if err != nil {
		return Model{}, err
	}
	snap, _, err := client.CreateRope(ctx)
	if err != nil {
		return Model{}, err
	}
	opts.Variant = id
	return Model{
		ctx:      ctx,
		client:   client,
		opts:     opts,
		variant:  v,
		cap:      limit,
		scene:    NewCanvas(canvasWidth, canvasHeight),
		rope:     NewCanvas(canvasWidth, canvasHeight),
		camera:   NewCamera(opts.Center),
		snap:     snap,
		history:  make([]sim.Snapshot, 0, historyCapacity),
		playHead: -1,
		speed:    opts.Speed,
		running:  true,
	}, nil
}

func (m Model) Init() tea.Cmd { return tick() }

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
			m.restart()
		case "f":
			m.finalize()
		case "a":
			m.addSegment()
		case "+", "=":
			m.speed -= speedStep
		case "-", "_":
			m.speed = math.Min(0, m.speed+speedStep)
		case "0":
			m.speed = 0
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "left", "h":
			m.camera.Orbit(-0.1, 0)
		case "right", "l":
			m.camera.Orbit(0.1, 0)
		case "up", "k":
			m.camera.Orbit(0, 0.1)
		case "down", "j":
			m.camera.Orbit(0, -0.1)
		case "z":
			m.camera.ZoomIn()
		case "Z":
			m.camera.ZoomOut()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.playHead == -1 {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	if m.opts.Sway && !m.snap.Finalized {
		off := m.opts.Amplitude * math.Sin(m.snap.SimTime*swayRate)
		if err := m.client.UpdateAnchor(m.ctx, m.opts.Anchor.Add(mgl64.Vec3{0, 0, off})); err != nil {
			m.err = err
			return
		}
	}
	snap, err := m.client.Step(m.ctx, m.speed, m.snap.RotationAngle)
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.record(snap)
}

func (m *Model) record(snap sim.Snapshot) {
	m.snap = snap
	for _, mt := range m.opts.Metrics {
		mt.Observe(&snap)
	}
	m.history = append(m.history, snap)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	m.statics = append(m.statics, float64(snap.StaticCount))
	if len(m.statics) > historyCapacity {
		m.statics = m.statics[1:]
	}
}

func (m *Model) finalize() {
	snap, err := m.client.Finalize(m.ctx)
	if err != nil {
		m.err = err
		return
	}
	m.record(snap)
	m.notice = "rope finalized"
}

func (m *Model) addSegment() {
	snap, ok, err := m.client.AddSegment(m.ctx, nil)
	switch {
	case err != nil:
		m.err = err
	case !ok:
		m.notice = "segment declined"
	default:
		m.record(snap)
		m.notice = fmt.Sprintf("segment added (%d)", snap.SegmentCount)
	}
}

// restart rebuilds the rope with the rotation angle re-zeroed.
func (m *Model) restart() {
	if err := m.client.Reset(m.ctx, true); err != nil {
		m.err = err
		return
	}
	snap, _, err := m.client.CreateRope(m.ctx)
	if err != nil {
		m.err = err
		return
	}
	for _, mt := range m.opts.Metrics {
		mt.Reset()
	}
	m.history = m.history[:0]
	m.statics = m.statics[:0]
	m.playHead = -1
	m.speed = m.opts.Speed
	m.err = nil
	m.notice = "rope recreated"
	m.snap = snap
}

// scrub changes the playback position in history.
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

func (m Model) shown() sim.Snapshot {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.snap
}

func (m Model) draw(s sim.Snapshot) {
	m.scene.Clear()
	m.rope.Clear()
	DrawScene(m.scene, m.rope, m.camera, m.variant, m.opts.Center, s)
}

// DrawScene renders the coiler onto scene and the rope onto rope. Both may
// be the same canvas.
func DrawScene(scene, rope *Canvas, cam *Camera, v coiler.Variant, center mgl64.Vec3, s sim.Snapshot) {
	Render3D(scene, CoilerWireframe(v, center, s.RotationAngle), cam)
	w := NewWireframe()
	w.AddPolyline(s.Positions)
	Render3D(rope, w, cam)
}

// compose overlays the rope canvas on the scene canvas, styling runs of
// cells by their source layer.
func (m Model) compose(p palette) string {
	var b strings.Builder
	for r := range m.scene.Height {
		var run strings.Builder
		ropeRun := false
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if ropeRun {
				b.WriteString(p.rope.Render(run.String()))
			} else {
				b.WriteString(p.scene.Render(run.String()))
			}
			run.Reset()
		}
		for c := range m.scene.Width {
			cell := m.scene.Grid[r][c]
			isRope := m.rope.Grid[r][c] != brailleBlank
			if isRope {
				cell |= m.rope.Grid[r][c]
			}
			if isRope != ropeRun {
				flush()
				ropeRun = isRope
			}
			run.WriteRune(cell)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) status(p palette, s sim.Snapshot) string {
	switch {
	case m.err != nil:
		return p.fault.Render("ERROR " + m.err.Error())
	case m.playHead >= 0:
		return p.paused.Render(fmt.Sprintf("REPLAY frame %d", s.Frame))
	case s.Finalized:
		return p.done.Render("FINALIZED")
	case !m.running:
		return p.paused.Render("PAUSED")
	case s.DelayActive:
		return p.delay.Render(fmt.Sprintf("SPIN-UP DELAY %d", s.DelayRemaining))
	}
	return p.running.Render("WINDING")
}

// View renders the TUI interface.
func (m Model) View() string {
	t := CurrentTheme()
	p := newPalette(t)
	s := m.shown()
	m.draw(s)

	var out strings.Builder
	out.WriteString(p.title.Render("ROPECOIL "+strings.ToUpper(m.opts.Variant)) + "  " + m.status(p, s) + "\n\n")

	stat := func(label, value string) string {
		return p.label.Render(fmt.Sprintf("%-10s", label)) + p.value.Render(value)
	}
	fill := 0.0
	if m.cap > 0 {
		fill = float64(s.SegmentCount) / float64(m.cap)
	}
	lines := []string{
		stat("frame", fmt.Sprintf("%d", s.Frame)),
		stat("time", fmt.Sprintf("%.2fs", s.SimTime)),
		stat("angle", fmt.Sprintf("%.2f rad", s.RotationAngle)),
		stat("speed", fmt.Sprintf("%.2f rad/s", m.speed)),
		stat("segments", fmt.Sprintf("%d/%d", s.SegmentCount, m.cap)),
		ProgressBar(fill, 20, t.Accent, t.Muted),
		stat("static", fmt.Sprintf("%d", s.StaticCount)),
	}
	if s.Dropped > 0 {
		lines = append(lines, p.fault.Render(fmt.Sprintf("dropped %d", s.Dropped)))
	}
	if len(m.opts.Metrics) > 0 {
		lines = append(lines, "")
		for _, mt := range m.opts.Metrics {
			lines = append(lines, stat(mt.Name(), fmt.Sprintf("%.3f", mt.Value())))
		}
	}
	side := p.panel.Render(strings.Join(lines, "\n"))
	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, p.panel.Render(m.compose(p)), side))
	out.WriteString("\n")

	if len(m.statics) > 1 {
		out.WriteString(asciigraph.Plot(m.statics,
			asciigraph.Height(4),
			asciigraph.Width(canvasWidth),
			asciigraph.Caption("static segments")))
		out.WriteString("\n")
	}
	if m.notice != "" {
		out.WriteString(p.hint.Render(m.notice) + "\n")
	}
	if m.showHelp {
		out.WriteString(p.hint.Render("space pause  r recreate  f finalize  a add segment  +/- speed  0 stop\n" +
			"[ ] scrub  arrows orbit  z/Z zoom  t theme  q quit"))
	} else {
		out.WriteString(p.hint.Render("? help"))
	}
	return out.String()
}

// Run drives the model until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
