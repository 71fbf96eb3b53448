package viz

import (
	"errors"
	"fmt"
	"image"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/forcegraph/internal/chart"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/graphsync"
	"github.com/san-kum/forcegraph/internal/sim"
)

const (
	plotWidth  = 30
	plotPoints = 120
	margin     = 2
)

type TickMsg time.Time

type Options struct {
	Width, Height int
	FPS           int
	Theme         string
	Easing        chart.Easing
	// Frames is the length of the ease-in after a reset or insertion.
	Frames     int
	ShowEnergy bool
	Sync       graphsync.Options
	// Seed drives the random mutations bound to keys.
	Seed    int64
	GIFPath string
}

// Model is the live view: one graph laid out on a braille canvas with a
// stats panel beside it.
type Model struct {
	session *sim.Session
	canvas  *Canvas
	opts    Options
	theme   Theme
	styles  styles
	rng     *rand.Rand

	anim      int
	paused    bool
	showHelp  bool
	recording bool
	frames    []*image.Paletted
	status    string
	added     int
}

// NewModel binds ds to a canvas of opts.Width x opts.Height cells.
func NewModel(ds *graph.Dataset, opts Options) (Model, error) {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Easing == nil {
		opts.Easing = chart.EaseOutQuart
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "layout.gif"
	}
	canvas := NewCanvas(opts.Width, opts.Height)
	area := canvas.Area()
	area.Left += margin
	area.Top += margin
	area.Right -= margin
	area.Bottom -= margin

	s, err := sim.NewSession(canvas, area, ds, opts.Sync)
	if err != nil {
		return Model{}, err
	}
	theme := GetTheme(opts.Theme)
	return Model{
		session: s,
		canvas:  canvas,
		opts:    opts,
		theme:   theme,
		styles:  newStyles(theme),
		rng:     rand.New(rand.NewSource(opts.Seed)),
	}, nil
}

func (m Model) Session() *sim.Session { return m.session }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and advances the layout once per frame.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.session.Reset()
			m.anim = 0
			m.status = "reset"
		case "h":
			m.session.Controller.Adapter().Reheat(1)
			m.status = "reheated"
		case "n":
			m.addNode()
		case "e":
			m.addEdge()
		case "x":
			m.removeNode()
		case "d":
			m.removeEdge()
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = newStyles(m.theme)
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
				m.status = "recording"
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.frame()
		return m, m.tick()
	}
	return m, nil
}

// frame steps the layout unless paused, then renders with the current ease.
func (m *Model) frame() {
	if !m.paused {
		m.session.Step()
	}
	ease := chart.Progress(m.opts.Easing, m.anim, m.opts.Frames)
	if m.anim < m.opts.Frames {
		m.anim++
	}
	m.session.Chart.Render(ease)
	if m.recording {
		m.frames = append(m.frames, captureFrame(m.canvas, m.theme))
	}
}

func (m *Model) stopRecording() {
	if err := saveGIF(m.opts.GIFPath, m.frames); err != nil {
		m.status = "gif: " + err.Error()
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", len(m.frames), m.opts.GIFPath)
	}
	m.recording = false
	m.frames = nil
}

// addNode pushes a node next to a random existing one and links them.
func (m *Model) addNode() {
	ds := m.session.Dataset
	m.added++
	n := &graph.Node{Label: fmt.Sprintf("new%d", m.added), Group: "new"}
	if ds.Nodes.Len() == 0 {
		ds.Nodes.Push(n)
		m.anim = 0
		return
	}
	peer := ds.Nodes.At(m.rng.Intn(ds.Nodes.Len()))
	n.X, n.Y = peer.X+m.rng.Float64()-0.5, peer.Y+m.rng.Float64()-0.5
	ds.Nodes.Push(n)
	ds.Edges.Push(&graph.Edge{Source: peer, Target: n})
	m.anim = 0
	m.status = "added " + n.Label
}

func (m *Model) addEdge() {
	ds := m.session.Dataset
	if ds.Nodes.Len() < 2 {
		return
	}
	s, t := m.rng.Intn(ds.Nodes.Len()), m.rng.Intn(ds.Nodes.Len())
	if s == t {
		return
	}
	ds.Edges.Push(&graph.Edge{Source: ds.Nodes.At(s), Target: ds.Nodes.At(t)})
	m.status = fmt.Sprintf("linked %d-%d", s, t)
}

// removeNode splices out a random node. Its edges dangle until the next
// reconcile prunes or hides them.
func (m *Model) removeNode() {
	ds := m.session.Dataset
	if ds.Nodes.Len() == 0 {
		return
	}
	i := m.rng.Intn(ds.Nodes.Len())
	removed := ds.Nodes.Splice(i, 1)
	if len(removed) == 1 {
		m.status = "removed " + removed[0].Label
	}
}

func (m *Model) removeEdge() {
	ds := m.session.Dataset
	if ds.Edges.Len() == 0 {
		return
	}
	ds.Edges.Splice(m.rng.Intn(ds.Edges.Len()), 1)
	m.status = "unlinked"
}

func (m Model) statusLine() string {
	var status string
	switch {
	case m.paused:
		status = m.styles.settled.Render("PAUSED")
	case m.session.Running():
		status = m.styles.running.Render("RUNNING")
	default:
		status = m.styles.settled.Render("SETTLED")
	}
	if m.recording {
		status += " " + m.styles.warning.Render("● REC")
	}
	return status
}

// View renders the canvas and the stats panel side by side.
func (m Model) View() string {
	canvasView := m.styles.canvas.Render(m.canvas.String())

	var s strings.Builder
	title := "FORCEGRAPH"
	if label := m.session.Dataset.Label; label != "" {
		title = strings.ToUpper(label)
	}
	s.WriteString(m.styles.title.Render(title) + "\n")
	s.WriteString(m.statusLine() + "\n\n")

	if hist := m.session.Energy.History(); m.opts.ShowEnergy && len(hist) > 1 {
		if len(hist) > plotPoints {
			hist = hist[len(hist)-plotPoints:]
		}
		plot := asciigraph.Plot(hist, asciigraph.Height(4), asciigraph.Width(plotWidth), asciigraph.Caption("Kinetic energy"))
		s.WriteString(m.styles.graph.Render(plot) + "\n\n")
	}

	ctrl := m.session.Controller
	alpha := ctrl.Adapter().Alpha()
	values := m.session.Metrics.Values()
	s.WriteString(m.styles.row("Tick", fmt.Sprintf("%d", m.session.Ticks())))
	s.WriteString(m.styles.label.Render("Alpha") + m.styles.progressBar(alpha, 10) + m.styles.value.Render(fmt.Sprintf(" %.3f", alpha)) + "\n")
	s.WriteString(m.styles.row("Energy", fmt.Sprintf("%.3f", m.session.Energy.Value())))
	s.WriteString(m.styles.row("Stability", fmt.Sprintf("%.0f%%", values["stability"]*100)))
	s.WriteString(m.styles.row("Strain", fmt.Sprintf("%.3f", values["edge_strain"])))
	s.WriteString(m.styles.row("Nodes", fmt.Sprintf("%d", m.session.Dataset.Nodes.Len())))
	s.WriteString(m.styles.row("Edges", fmt.Sprintf("%d", m.session.Dataset.Edges.Len())))
	s.WriteString(m.styles.row("Resyncs", fmt.Sprintf("%d", ctrl.Resyncs())))
	s.WriteString(m.styles.row("Theme", m.theme.Name))

	var dangling *graphsync.DanglingEdgeError
	if errors.As(ctrl.Err(), &dangling) {
		s.WriteString("\n" + m.styles.warning.Render(dangling.Error()) + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + m.styles.label.Render(m.status) + "\n")
	}

	s.WriteString(m.styles.hint.Render("SP:Pause R:Reset H:Heat Q:Quit\nN:+Node E:+Edge X:-Node D:-Edge\nT:Theme G:Record ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume layout      ║
║  R        - Reset and reheat         ║
║  H        - Reheat in place          ║
║  N        - Add a linked node        ║
║  E        - Add a random edge        ║
║  X        - Remove a random node     ║
║  D        - Remove a random edge     ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
