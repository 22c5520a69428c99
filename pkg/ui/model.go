// Package ui is the terminal viewer: a character-grid projection of the
// board with cursor-driven selection, drag, and highlight mode.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/corkboard/pkg/activity"
	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/camera"
	"github.com/vanderheijden86/corkboard/pkg/config"
	"github.com/vanderheijden86/corkboard/pkg/debug"
	"github.com/vanderheijden86/corkboard/pkg/geom"
	"github.com/vanderheijden86/corkboard/pkg/interact"
	"github.com/vanderheijden86/corkboard/pkg/metrics"
	boardsync "github.com/vanderheijden86/corkboard/pkg/sync"
	"github.com/vanderheijden86/corkboard/pkg/viewport"
	"github.com/vanderheijden86/corkboard/pkg/watcher"
)

// tickInterval drives camera tweens, highlight rescoring and viewport
// recomputes.
const tickInterval = 500 * time.Millisecond

// grabPointer is the synthetic pointer id used for all cursor gestures.
const grabPointer = 1

type tickMsg time.Time

// FileChangedMsg is sent when the watched config file changes on disk.
type FileChangedMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// WatchConfigCmd waits for the next config file change.
func WatchConfigCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// Options bundles the collaborators the viewer runs over. Syncer and
// ConfigWatcher may be nil; the viewer then runs without persistence or
// hot reload.
type Options struct {
	Config    config.Config
	BoardPath string
	Registry  *board.Registry
	Links     []board.Link
	Camera    *board.CameraState
	Syncer    *boardsync.Syncer
	Watcher   *watcher.Watcher
}

// Model is the bubbletea model for the viewer.
type Model struct {
	cfg  config.Config
	keys KeyMap

	reg      *board.Registry
	links    []board.Link
	grouping *board.Grouping
	visible  map[string]bool
	culler   viewport.LinearCuller

	cam      *camera.Camera
	sel      *interact.Selection
	drag     *interact.Drag
	ctrl     *interact.Controller
	tracker  *activity.Tracker
	syncer   *boardsync.Syncer
	reporter *board.CleanupReporter

	boardPath string
	cfgWatch  *watcher.Watcher

	width, height        int
	cursorCol, cursorRow int
	grabbing             bool
	hovered              string
	showHelp             bool
	statusMsg            string
	statusIsError        bool
	ready                bool
}

// NewModel assembles the viewer over shared engine state.
func NewModel(opts Options) Model {
	cam := camera.New()
	if opts.Camera != nil {
		cam.Offset = geom.Pt(opts.Camera.X, opts.Camera.Y)
		cam.SetZoom(opts.Camera.Zoom)
	}

	sel := interact.NewSelection()
	drag := interact.NewDrag(opts.Registry, cam)
	ctrl := interact.NewController(opts.Registry, cam, sel, drag)

	// Drag commits schedule debounced position writes. The live board is
	// authoritative either way, so a nil syncer just skips persistence.
	reg, syncer := opts.Registry, opts.Syncer
	drag.OnCommit = func(ids []string) {
		if syncer == nil {
			return
		}
		for _, id := range ids {
			if e := reg.Get(id); e != nil {
				syncer.QueuePos(id, e.Pos)
			}
		}
	}

	tracker := activity.NewTracker()
	tracker.SetEnabled(opts.Config.Highlight.Enabled)

	reporter := board.NewCleanupReporter(board.DefaultReportDelay, func(stale []board.Link) {
		debug.Log("pruned %d dangling links", len(stale))
	})

	m := Model{
		cfg:       opts.Config,
		keys:      DefaultKeyMap(),
		reg:       reg,
		links:     opts.Links,
		cam:       cam,
		sel:       sel,
		drag:      drag,
		ctrl:      ctrl,
		tracker:   tracker,
		syncer:    syncer,
		reporter:  reporter,
		boardPath: opts.BoardPath,
		cfgWatch:  opts.Watcher,
	}
	m.rebuildDerived()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if m.cfgWatch != nil {
		cmds = append(cmds, WatchConfigCmd(m.cfgWatch))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.cam.SetScreenSize(float64(m.width)*CellPxW, float64(m.canvasHeight())*CellPxH)
		m.clampCursor()
		m.rebuildDerived()
		m.ready = true
		return m, nil

	case tickMsg:
		if m.cam.Animating() {
			m.cam.Step(time.Time(msg))
		}
		if m.tracker.Enabled() {
			done := metrics.Timer(metrics.ActivityRecomp)
			m.tracker.Recompute()
			done()
		}
		m.rebuildDerived()
		return m, tickCmd()

	case FileChangedMsg:
		m.reloadConfig()
		if m.cfgWatch != nil {
			return m, WatchConfigCmd(m.cfgWatch)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""
	m.statusIsError = false

	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, m.quit()
		default:
			m.showHelp = false
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0)

	case key.Matches(msg, m.keys.PanUp):
		m.pan(0, -2*CellPxH)
	case key.Matches(msg, m.keys.PanDown):
		m.pan(0, 2*CellPxH)
	case key.Matches(msg, m.keys.PanLeft):
		m.pan(-4*CellPxW, 0)
	case key.Matches(msg, m.keys.PanRight):
		m.pan(4*CellPxW, 0)

	case key.Matches(msg, m.keys.ZoomIn):
		m.cam.SetZoom(m.cam.Zoom * 1.25)
		m.rebuildDerived()
	case key.Matches(msg, m.keys.ZoomOut):
		m.cam.SetZoom(m.cam.Zoom / 1.25)
		m.rebuildDerived()
	case key.Matches(msg, m.keys.ZoomReset):
		m.cam.SetZoom(1)
		m.rebuildDerived()

	case key.Matches(msg, m.keys.Press):
		if hit := m.reg.TopmostAt(m.cam.ToBoard(m.cursorPx())); hit != nil {
			m.reg.BringToFront(hit.ID)
			m.sel.Select(hit.ID)
		} else {
			m.sel.Clear()
		}

	case key.Matches(msg, m.keys.Toggle):
		// Background presses with the modifier start a rubber band in the
		// engine; a keyboard toggle only makes sense over an entity.
		if m.reg.TopmostAt(m.cam.ToBoard(m.cursorPx())) != nil {
			m.ctrl.PointerDown(grabPointer, m.cursorPx(), true, false)
			m.ctrl.PointerUp(grabPointer, m.cursorPx())
		}

	case key.Matches(msg, m.keys.Grab):
		if m.grabbing {
			m.grabbing = false
			m.ctrl.PointerUp(grabPointer, m.cursorPx())
			m.rebuildDerived()
		} else {
			m.grabbing = true
			m.ctrl.PointerDown(grabPointer, m.cursorPx(), false, false)
		}

	case key.Matches(msg, m.keys.Cancel):
		if m.grabbing {
			m.grabbing = false
			m.ctrl.PointerCancel(grabPointer)
		} else {
			m.sel.Clear()
		}

	case key.Matches(msg, m.keys.Highlight):
		m.tracker.SetEnabled(!m.tracker.Enabled())
		if m.tracker.Enabled() {
			m.statusMsg = "highlight mode on"
		} else {
			m.statusMsg = "highlight mode off"
		}

	case key.Matches(msg, m.keys.Color):
		m.cycleColors()

	case key.Matches(msg, m.keys.Delete):
		m.deleteUnderCursor()

	case key.Matches(msg, m.keys.Copy):
		m.copySelection()

	case key.Matches(msg, m.keys.Save):
		m.saveBoard()
	}

	return m, nil
}

func (m *Model) quit() tea.Cmd {
	if m.syncer != nil {
		m.syncer.Close(context.Background())
	}
	if m.cfgWatch != nil {
		m.cfgWatch.Stop()
	}
	m.reporter.Stop()
	return tea.Quit
}

func (m *Model) moveCursor(dc, dr int) {
	m.cursorCol += dc
	m.cursorRow += dr
	m.clampCursor()
	if m.grabbing || m.drag.Active() || m.sel.State() == interact.SelectionBoxing {
		m.ctrl.PointerMove(grabPointer, m.cursorPx())
	}
	m.updateHover()
}

func (m *Model) pan(dx, dy float64) {
	m.cam.Pan(dx, dy)
	m.rebuildDerived()
}

func (m *Model) clampCursor() {
	m.cursorCol = int(geom.Clamp(float64(m.cursorCol), 0, float64(max(m.width-1, 0))))
	m.cursorRow = int(geom.Clamp(float64(m.cursorRow), 0, float64(max(m.canvasHeight()-1, 0))))
}

// canvasHeight is the grid height; the bottom row is the status bar.
func (m Model) canvasHeight() int {
	if m.height <= 1 {
		return m.height
	}
	return m.height - 1
}

// cursorPx is the cursor position in screen pixels, at the cell center.
func (m Model) cursorPx() geom.Point {
	return geom.Pt(
		(float64(m.cursorCol)+0.5)*CellPxW,
		(float64(m.cursorRow)+0.5)*CellPxH,
	)
}

func (m *Model) updateHover() {
	hit := m.reg.TopmostAt(m.cam.ToBoard(m.cursorPx()))
	switch {
	case hit == nil && m.hovered != "":
		m.tracker.PointerLeave(m.hovered)
		m.hovered = ""
	case hit != nil && hit.ID != m.hovered:
		m.tracker.PointerEnter(hit.ID)
		m.hovered = hit.ID
	}
}

func (m *Model) rebuildDerived() {
	cullDone := metrics.Timer(metrics.ViewportCull)
	m.visible = viewport.VisibleIDs(m.culler, m.reg.All(), m.cam.ViewportRect())
	cullDone()

	groupDone := metrics.Timer(metrics.GroupingCompute)
	m.grouping = board.BuildGrouping(m.reg, m.links, m.visible, m.reporter.Report)
	groupDone()
}

func (m *Model) reloadConfig() {
	cfg, err := config.Load()
	if err != nil {
		m.statusMsg = fmt.Sprintf("config reload failed: %v", err)
		m.statusIsError = true
		return
	}
	m.cfg = cfg
	m.tracker.SetEnabled(cfg.Highlight.Enabled)
	m.statusMsg = "config reloaded"
}

func (m *Model) cycleColors() {
	ids := m.sel.IDs()
	if len(ids) == 0 {
		if hit := m.reg.TopmostAt(m.cam.ToBoard(m.cursorPx())); hit != nil {
			ids = []string{hit.ID}
		}
	}
	for _, id := range ids {
		e := m.reg.Get(id)
		if e == nil {
			continue
		}
		next := nextEntityColor(e.Color)
		m.reg.SetColor(id, next)
		if m.syncer != nil {
			m.syncer.QueueColor(id, next)
		}
	}
}

func (m *Model) deleteUnderCursor() {
	hit := m.reg.TopmostAt(m.cam.ToBoard(m.cursorPx()))
	if hit == nil {
		return
	}
	id := hit.ID
	m.reg.Delete(id)
	kept := m.links[:0]
	for _, l := range m.links {
		if l.A != id && l.B != id {
			kept = append(kept, l)
		}
	}
	m.links = kept
	if m.hovered == id {
		m.hovered = ""
	}
	// The store cascade mirrors the in-memory prune: the entity row and
	// every touching link go together, so a later pull cannot resurrect
	// them.
	if m.syncer != nil {
		m.syncer.QueueDelete(id)
	}
	m.rebuildDerived()
	m.statusMsg = fmt.Sprintf("deleted %s", id)
}

func (m *Model) copySelection() {
	ids := m.sel.IDs()
	if len(ids) == 0 {
		m.statusMsg = "nothing selected"
		return
	}
	if err := clipboard.WriteAll(strings.Join(ids, "\n")); err != nil {
		m.statusMsg = fmt.Sprintf("clipboard: %v", err)
		m.statusIsError = true
		return
	}
	m.statusMsg = fmt.Sprintf("copied %d ids", len(ids))
}

func (m *Model) saveBoard() {
	if m.boardPath == "" {
		m.statusMsg = "no board file"
		m.statusIsError = true
		return
	}
	cs := &board.CameraState{X: m.cam.Offset.X, Y: m.cam.Offset.Y, Zoom: m.cam.Zoom}
	if err := board.SaveFile(m.boardPath, m.reg, m.links, cs); err != nil {
		m.statusMsg = fmt.Sprintf("save failed: %v", err)
		m.statusIsError = true
		return
	}
	if m.syncer != nil {
		done := metrics.Timer(metrics.SyncFlush)
		m.syncer.Commit(context.Background())
		done()
	}
	m.statusMsg = "saved"
}

func (m Model) View() string {
	if !m.ready {
		return "loading board..."
	}
	if m.showHelp {
		return m.helpView()
	}

	highlight := make(map[string]bool)
	for _, id := range m.tracker.Highlight() {
		highlight[id] = true
	}

	canvas := canvasView{
		reg:         m.reg,
		cam:         m.cam,
		grouping:    m.grouping,
		visible:     m.visible,
		sel:         m.sel,
		highlightOn: m.tracker.Enabled(),
		highlight:   highlight,
		cardScale:   m.cfg.Render.CardScale,
		cursorCol:   m.cursorCol,
		cursorRow:   m.cursorRow,
		width:       m.width,
		height:      m.canvasHeight(),
	}

	lines := strings.Split(canvas.render(), "\n")
	for len(lines) < m.canvasHeight() {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n") + "\n" + m.statusBar()
}

func (m Model) statusBar() string {
	if m.statusMsg != "" {
		if m.statusIsError {
			return statusErrorStyle.Render(m.statusMsg)
		}
		return statusBarStyle.Render(m.statusMsg)
	}

	parts := []string{
		fmt.Sprintf("%d entities", m.reg.Len()),
		fmt.Sprintf("%d links", len(m.links)),
		fmt.Sprintf("zoom %.2fx", m.cam.Zoom),
	}
	if n := m.sel.Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("sel %d", n))
	}
	if m.grabbing {
		parts = append(parts, statusAccentStyle.Render("GRAB"))
	}
	if m.tracker.Enabled() {
		parts = append(parts, statusAccentStyle.Render("HIGHLIGHT"))
	}
	if m.syncer != nil {
		if p := m.syncer.Pending(); p > 0 {
			parts = append(parts, fmt.Sprintf("pending %d", p))
		}
	}
	parts = append(parts, "? help")
	return statusBarStyle.Render(strings.Join(parts, " · "))
}

func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(helpTitleStyle.Render("corkview keys"))
	b.WriteString("\n\n")
	for _, row := range m.keys.helpRows() {
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			helpKeyStyle.Width(12).Render(row[0]),
			helpDescStyle.Render(row[1]),
		)
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\npress any key to close")
	return b.String()
}
