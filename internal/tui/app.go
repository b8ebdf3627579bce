// Package tui is the terminal front end. It turns key presses into
// session intents and renders the session graph as a node list.
package tui

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jask/gatecharter/internal/catalog"
	"github.com/jask/gatecharter/internal/config"
	"github.com/jask/gatecharter/internal/placement"
	"github.com/jask/gatecharter/internal/prefs"
	"github.com/jask/gatecharter/internal/search"
	"github.com/jask/gatecharter/internal/service"
	"github.com/jask/gatecharter/internal/session"
)

// regionMargin widens a marked region so the corner nodes fall inside it.
const regionMargin = 0.5

type mode int

const (
	modeGraph mode = iota
	modeSearch
	modeOpen
	modePrompt
	modeSettings
)

type promptKind int

const (
	promptSave promptKind = iota
	promptExport
	promptImport
)

// Deps are the collaborators the App drives. Library, Presets and
// SaveConfig may be nil, which disables the features that need them.
type Deps struct {
	Session    *session.Session
	Library    *service.SessionLibrary
	Presets    *prefs.Store
	Config     config.Config
	SaveConfig func(config.Config) error
	Log        *zap.Logger
}

type settingsState struct {
	cursor   int
	preset   int
	disabled catalog.TypeSet
	// chosen is the preset new sessions should start from; empty when the
	// settings were not touched.
	chosen   string
}

// App is the bubbletea model.
type App struct {
	ctx     context.Context
	sess    *session.Session
	lib     *service.SessionLibrary
	presets *prefs.Store
	cfg     config.Config
	saveCfg func(config.Config) error
	log     *zap.Logger

	keys     keyMap
	help     help.Model
	mode     mode
	current  string
	mark     *r3.Vec
	picker   *search.Picker
	input    textinput.Model
	prompt   promptKind
	settings settingsState

	sessionName string
	status      string
	statusErr   bool
	width       int
	height      int
}

func New(ctx context.Context, deps Deps) App {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	in := textinput.New()
	in.CharLimit = 256
	return App{
		ctx:         ctx,
		sess:        deps.Session,
		lib:         deps.Library,
		presets:     deps.Presets,
		cfg:         deps.Config,
		saveCfg:     deps.SaveConfig,
		log:         log.Named("tui"),
		keys:        newKeyMap(),
		help:        help.New(),
		input:       in,
		sessionName: "untitled",
		settings:    settingsState{disabled: deps.Session.Graph.DisabledTypes()},
	}
}

func (a App) Init() tea.Cmd { return nil }

// Current returns the node the cursor is on.
func (a App) Current() string { return a.current }

func (a App) Status() string { return a.status }

func (a App) setStatus(msg string) App {
	a.status, a.statusErr = msg, false
	return a
}

func (a App) setError(err error) App {
	a.status, a.statusErr = err.Error(), true
	a.log.Warn("action failed", zap.Error(err))
	return a
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
		return a, nil
	case savedMsg:
		if msg.err != nil {
			return a.setError(msg.err), nil
		}
		a.sessionName = msg.name
		return a.setStatus(msg.status), nil
	case savedListMsg:
		return a.openPicker(msg), nil
	case documentMsg:
		return a.loadDocument(msg), nil
	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}
	switch a.mode {
	case modeSearch:
		return a.updateSearch(msg), nil
	case modeOpen:
		return a.updateOpen(msg)
	case modePrompt:
		return a.updatePrompt(msg)
	case modeSettings:
		return a.updateSettings(msg), nil
	}
	return a.updateGraph(msg)
}

// nodeNames returns the placed node names in display order.
func (a App) nodeNames() []string {
	nodes := a.sess.Graph.Nodes()
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

// syncCursor keeps the cursor on a placed node.
func (a App) syncCursor() App {
	if a.current != "" && a.sess.Graph.HasNode(a.current) {
		return a
	}
	a.current = ""
	if names := a.nodeNames(); len(names) > 0 {
		a.current = names[0]
	}
	return a
}

func (a App) moveCursor(delta int) App {
	names := a.nodeNames()
	if len(names) == 0 {
		a.current = ""
		return a
	}
	i := slices.Index(names, a.current)
	i = min(max(i+delta, 0), len(names)-1)
	a.current = names[i]
	return a
}

// anchor is where a gate picked after the current node is placed.
func (a App) anchor() r3.Vec {
	cur, ok := a.sess.Graph.Position(a.current)
	if !ok {
		return r3.Vec{}
	}
	var prev *r3.Vec
	if neighbors := a.sess.Graph.Neighbors(a.current); len(neighbors) > 0 {
		if p, ok := a.sess.Graph.Position(neighbors[0]); ok {
			prev = &p
		}
	}
	return placement.NextNodePosition(cur, prev, a.sess.Graph.Layout().UnitDistance)
}

func (a App) dispatch(in session.Intent) (App, session.Result) {
	res := a.sess.Dispatch(in)
	return a.syncCursor(), res
}

func (a App) updateGraph(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := a.keys
	if a.sess.Selection.Dragging() {
		if delta, ok := a.dragDelta(msg); ok {
			a, _ = a.dispatch(session.DragIntent{Delta: delta})
			return a, nil
		}
		cancel := key.Matches(msg, k.Clear)
		a, _ = a.dispatch(session.DragEndIntent{Cancel: cancel})
		if cancel {
			return a.setStatus("Drag cancelled"), nil
		}
		a = a.setStatus(a.lastDone("Moved"))
		if key.Matches(msg, k.Select) {
			return a, nil
		}
	}

	switch {
	case key.Matches(msg, k.Quit):
		return a, tea.Quit
	case key.Matches(msg, k.Up):
		return a.moveCursor(-1), nil
	case key.Matches(msg, k.Down):
		return a.moveCursor(1), nil
	case key.Matches(msg, k.Add):
		a.picker = search.NewPicker("Add gate", search.ItemsFrom(a.sess.Searchable()))
		a.mode = modeSearch
		return a, nil
	case key.Matches(msg, k.Select):
		if a.current == "" {
			return a, nil
		}
		a, _ = a.dispatch(session.SelectIntent{Name: a.current, Toggle: true})
		return a, nil
	case key.Matches(msg, k.Clear):
		a, _ = a.dispatch(session.ClearSelectionIntent{})
		a.mark = nil
		return a, nil
	case key.Matches(msg, k.Connect):
		sel := a.sess.Selection.Selected()
		if len(sel) != 2 {
			return a.setStatus("Select exactly two nodes to connect"), nil
		}
		var res session.Result
		a, res = a.dispatch(session.ConnectIntent{A: sel[0], B: sel[1]})
		if !res.Changed {
			return a.setStatus("Already connected"), nil
		}
		return a.setStatus(a.lastDone("Connected")), nil
	case key.Matches(msg, k.Objective):
		var res session.Result
		a, res = a.dispatch(session.CompleteObjectiveIntent{Name: a.current})
		if !res.Changed {
			return a.setStatus("Nothing to complete"), nil
		}
		return a.setStatus("Completed " + a.current), nil
	case key.Matches(msg, k.Mark):
		if pos, ok := a.sess.Graph.Position(a.current); ok {
			a.mark = &pos
			return a.setStatus("Marked " + a.current), nil
		}
		return a, nil
	case key.Matches(msg, k.Region):
		return a.selectRegion(), nil
	case key.Matches(msg, k.dragBindings()...):
		if a.sess.Selection.Len() == 0 {
			return a.setStatus("Nothing selected to drag"), nil
		}
		delta, _ := a.dragDelta(msg)
		a, _ = a.dispatch(session.DragIntent{Delta: delta})
		return a, nil
	case key.Matches(msg, k.Undo):
		label := a.lastUndo("Undo")
		var res session.Result
		a, res = a.dispatch(session.UndoIntent{})
		if !res.Changed {
			return a.setStatus("Nothing to undo"), nil
		}
		return a.setStatus(label), nil
	case key.Matches(msg, k.Redo):
		label := a.nextRedo()
		var res session.Result
		a, res = a.dispatch(session.RedoIntent{})
		if !res.Changed {
			return a.setStatus("Nothing to redo"), nil
		}
		return a.setStatus(label), nil
	case key.Matches(msg, k.New):
		return a.newSession(a.sess.Graph.DisabledTypes()), nil
	case key.Matches(msg, k.Settings):
		a.settings = settingsState{disabled: a.sess.Graph.DisabledTypes()}
		a.mode = modeSettings
		return a, nil
	case key.Matches(msg, k.Save):
		if a.lib == nil {
			return a.setStatus("No session library configured"), nil
		}
		return a.startPrompt(promptSave, "Save as: ", a.sessionName), nil
	case key.Matches(msg, k.Export):
		return a.startPrompt(promptExport, "Export to: ", a.sessionName+session.DefaultExt), nil
	case key.Matches(msg, k.Import):
		return a.startPrompt(promptImport, "Load file: ", ""), nil
	case key.Matches(msg, k.Open):
		if a.lib == nil {
			return a.setStatus("No session library configured"), nil
		}
		return a, listSavedCmd(a.ctx, a.lib)
	case key.Matches(msg, k.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil
	}
	return a, nil
}

func (a App) dragDelta(msg tea.KeyMsg) (r3.Vec, bool) {
	step := a.cfg.UI.DragStep
	if step <= 0 {
		step = 1
	}
	switch {
	case key.Matches(msg, a.keys.DragUp):
		return r3.Vec{Z: step}, true
	case key.Matches(msg, a.keys.DragDown):
		return r3.Vec{Z: -step}, true
	case key.Matches(msg, a.keys.DragLeft):
		return r3.Vec{X: -step}, true
	case key.Matches(msg, a.keys.DragRight):
		return r3.Vec{X: step}, true
	}
	return r3.Vec{}, false
}

func (a App) selectRegion() App {
	cur, ok := a.sess.Graph.Position(a.current)
	if a.mark == nil || !ok {
		return a.setStatus("Mark a corner first")
	}
	lo := r3.Vec{X: min(a.mark.X, cur.X) - regionMargin, Z: min(a.mark.Z, cur.Z) - regionMargin}
	hi := r3.Vec{X: max(a.mark.X, cur.X) + regionMargin, Z: max(a.mark.Z, cur.Z) + regionMargin}
	a, _ = a.dispatch(session.RegionSelectIntent{From: lo, To: hi})
	a.mark = nil
	return a.setStatus(pluralNodes(a.sess.Selection.Len()) + " selected")
}

func (a App) newSession(disabled catalog.TypeSet) App {
	a, _ = a.dispatch(session.NewSessionIntent{DisabledTypes: disabled})
	a.current, a.mark = "", nil
	if a.presets != nil {
		if err := a.presets.SetLast(disabled); err != nil {
			return a.setError(err)
		}
	}
	return a.setStatus("New session")
}

func (a App) lastUndo(prefix string) string {
	peek := a.sess.Stack.PeekUndo()
	if len(peek) == 0 {
		return prefix
	}
	return prefix + ": " + strings.Join(peek, "; ")
}

func (a App) lastDone(prefix string) string {
	done := a.sess.Stack.LastDone()
	switch len(done) {
	case 0:
		return prefix
	case 1:
		return done[0]
	}
	return done[0] + " (+" + strconv.Itoa(len(done)-1) + " more)"
}

func (a App) nextRedo() string {
	peek := a.sess.Stack.PeekRedo()
	if len(peek) == 0 {
		return "Redo"
	}
	return "Redo: " + strings.Join(peek, "; ")
}

func (a App) updateSearch(msg tea.KeyMsg) App {
	res := a.picker.HandleKey(msg.String())
	switch res.Action {
	case search.ActionCancelled:
		a.mode, a.picker = modeGraph, nil
	case search.ActionSelected:
		a.mode, a.picker = modeGraph, nil
		var out session.Result
		a, out = a.dispatch(session.CreateNodeIntent{
			Name:        res.Item.Name,
			Anchor:      a.anchor(),
			Predecessor: a.current,
		})
		if out.Node == nil {
			return a.setStatus("Could not place " + res.Item.Name)
		}
		a.current = out.Node.Name
		return a.setStatus(a.lastDone("Added"))
	}
	return a
}

func (a App) startPrompt(kind promptKind, label, value string) App {
	a.mode, a.prompt = modePrompt, kind
	a.input.Prompt = label
	a.input.SetValue(value)
	a.input.CursorEnd()
	a.input.Focus()
	return a
}

func (a App) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeGraph
		a.input.Blur()
		return a, nil
	case "enter":
		value := strings.TrimSpace(a.input.Value())
		a.mode = modeGraph
		a.input.Blur()
		if value == "" {
			return a.setStatus("Cancelled"), nil
		}
		return a.submitPrompt(value)
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) submitPrompt(value string) (tea.Model, tea.Cmd) {
	switch a.prompt {
	case promptSave:
		return a, saveCmd(a.ctx, a.lib, value, a.sess.Document())
	case promptExport:
		return a, exportCmd(value, a.sess.Document())
	case promptImport:
		if err := a.sess.LoadFile(value); err != nil {
			a = a.syncCursor()
			return a.setError(err), nil
		}
		a.current = ""
		return a.syncCursor().setStatus("Loaded " + value), nil
	}
	return a, nil
}

func (a App) openPicker(msg savedListMsg) App {
	if msg.err != nil {
		return a.setError(msg.err)
	}
	if len(msg.names) == 0 {
		return a.setStatus("No saved sessions")
	}
	items := make([]search.Item, 0, len(msg.names))
	for _, name := range msg.names {
		items = append(items, search.Item{Name: name, Section: "Saved sessions"})
	}
	a.picker = search.NewPicker("Open session", items)
	a.mode = modeOpen
	return a
}

func (a App) updateOpen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res := a.picker.HandleKey(msg.String())
	switch res.Action {
	case search.ActionCancelled:
		a.mode, a.picker = modeGraph, nil
	case search.ActionSelected:
		a.mode, a.picker = modeGraph, nil
		return a, openCmd(a.ctx, a.lib, res.Item.Name)
	}
	return a, nil
}

func (a App) loadDocument(msg documentMsg) App {
	if msg.err != nil {
		return a.setError(msg.err)
	}
	err := a.sess.Load(msg.doc)
	a.current = ""
	a = a.syncCursor()
	a.sessionName = msg.name
	if err != nil {
		return a.setError(err)
	}
	return a.setStatus("Opened " + msg.name)
}

func (a App) presetList() []prefs.Preset {
	if a.presets == nil {
		return nil
	}
	return a.presets.Presets()
}

func (a App) updateSettings(msg tea.KeyMsg) App {
	st := &a.settings
	switch msg.String() {
	case "esc", "q":
		a.mode = modeGraph
	case "up", "k":
		st.cursor = max(st.cursor-1, 0)
	case "down", "j":
		st.cursor = min(st.cursor+1, len(prefs.ToggleTypes)-1)
	case " ", "space", "x":
		t := prefs.ToggleTypes[st.cursor]
		if st.disabled.Has(t) {
			st.disabled.Remove(t)
		} else {
			st.disabled.Add(t)
		}
		st.chosen = prefs.LastPreset
	case "p":
		presets := a.presetList()
		if len(presets) == 0 {
			return a.setStatus("No presets")
		}
		p := presets[st.preset%len(presets)]
		st.preset++
		st.disabled = p.Types()
		st.chosen = p.Name
		return a.setStatus("Preset " + p.Name)
	case "enter":
		a.mode = modeGraph
		a = a.newSession(st.disabled.Clone())
		if a.statusErr {
			return a
		}
		return a.rememberPreset()
	}
	return a
}

// rememberPreset makes the chosen preset the default for future launches.
func (a App) rememberPreset() App {
	chosen := a.settings.chosen
	a.settings.chosen = ""
	if a.saveCfg == nil || chosen == "" || chosen == a.cfg.Session.Preset {
		return a
	}
	cfg := a.cfg
	cfg.Session.Preset = chosen
	if err := a.saveCfg(cfg); err != nil {
		return a.setError(err)
	}
	a.cfg = cfg
	a.log.Debug("default preset saved", zap.String("preset", chosen))
	return a
}

func pluralNodes(n int) string {
	if n == 1 {
		return "1 node"
	}
	return strconv.Itoa(n) + " nodes"
}
