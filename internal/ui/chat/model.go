// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley/internal/model"
	"github.com/jeranaias/parley/internal/storage"
	"github.com/jeranaias/parley/internal/store"
	"github.com/jeranaias/parley/internal/telemetry"
	"github.com/jeranaias/parley/internal/ui/components"
	"github.com/jeranaias/parley/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady   State = iota // Ready for input
	StateLoading              // Completion request in flight
)

const sidebarWidth = 28

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Application state and services
	store  *store.Store
	slot   *storage.SlotStore
	client Completer
	usage  *telemetry.UsageLog
	saver  *slotSaver

	// UI components
	viewport   viewport.Model
	input      textinput.Model
	spinner    spinner.Model
	sidebar    *components.Sidebar
	transcript *components.MessageView
	statusBar  *components.StatusBar

	// Delete confirmation overlay; nil when not confirming.
	confirm         *components.ConfirmDialog
	pendingDeleteID string

	// Key bindings
	keyMap KeyMap

	// Transient status line
	statusMsg string
	statusSeq int
}

// New creates a chat model wired to the given store, slot storage,
// completion client, and usage log. The usage log may be nil.
func New(theme *styles.Theme, st *store.Store, slot *storage.SlotStore, client Completer, usage *telemetry.UsageLog) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	m := Model{
		state:      StateReady,
		theme:      theme,
		store:      st,
		slot:       slot,
		client:     client,
		usage:      usage,
		saver:      &slotSaver{},
		viewport:   vp,
		input:      ti,
		spinner:    sp,
		sidebar:    components.NewSidebar(theme),
		transcript: components.NewMessageView(theme),
		statusBar:  components.NewStatusBar(theme),
		keyMap:     DefaultKeyMap(),
	}
	m.statusBar.Model = client.Model()
	m.statusBar.Shortcuts = shortcutsFor(m.keyMap)
	m.refreshViews()
	return m
}

func shortcutsFor(k KeyMap) []components.Shortcut {
	bindings := k.ShortHelp()
	out := make([]components.Shortcut, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, components.Shortcut{
			Key:  b.Help().Key,
			Desc: b.Help().Desc,
		})
	}
	return out
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case CompletionResultMsg:
		return m.handleCompletionResult(msg)

	case ConfigReloadedMsg:
		return m.handleConfigReload(msg)

	case PersistDoneMsg:
		if msg.Err != nil {
			return m.setStatus("Save failed: " + msg.Err.Error())
		}
		return m, nil

	case StatusExpireMsg:
		if msg.Seq == m.statusSeq {
			m.statusMsg = ""
		}
		return m, nil

	case spinner.TickMsg:
		if m.state == StateLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	default:
		var cmds []tea.Cmd
		var inputCmd tea.Cmd
		m.input, inputCmd = m.input.Update(msg)
		cmds = append(cmds, inputCmd)

		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, vpCmd)

		return m, tea.Batch(cmds...)
	}
}

// View renders the chat view.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.applyLayout()
	m.refreshViews()
	return m, nil
}

// applyLayout recomputes component dimensions from the window size.
// Layout: header (1 line) + body + input (3 lines) + status bar (1 line).
func (m *Model) applyLayout() {
	bodyHeight := m.height - 5
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	vpWidth := m.width
	if m.sidebarVisible() {
		vpWidth -= sidebarWidth
	}
	if vpWidth < 20 {
		vpWidth = 20
	}

	m.viewport.Width = vpWidth
	m.viewport.Height = bodyHeight
	m.sidebar.SetSize(sidebarWidth, bodyHeight)
	m.transcript.SetWidth(vpWidth)
	m.statusBar.SetWidth(m.width)

	inputWidth := m.width - 6
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth
}

func (m *Model) sidebarVisible() bool {
	return !m.store.IsSidebarCollapsed() && m.width >= 60
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Confirmation overlay swallows all keys until resolved.
	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		return m.submitInput()

	case key.Matches(msg, m.keyMap.NewChat):
		m.store.CreateSession(nil)
		m.refreshViews()
		return m, m.persistCmd()

	case key.Matches(msg, m.keyMap.DeleteChat):
		return m.promptDelete()

	case key.Matches(msg, m.keyMap.NextSession):
		return m.moveSelection(1)

	case key.Matches(msg, m.keyMap.PrevSession):
		return m.moveSelection(-1)

	case key.Matches(msg, m.keyMap.ToggleSidebar):
		m.store.ToggleSidebar()
		m.applyLayout()
		m.refreshViews()
		return m, m.persistCmd()

	case key.Matches(msg, m.keyMap.ToggleTheme):
		return m.toggleTheme()

	case key.Matches(msg, m.keyMap.ScrollUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.ScrollDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	// Everything else goes to the text input.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.store.SetInput(m.input.Value())
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.pendingDeleteID
		m.confirm = nil
		m.pendingDeleteID = ""
		m.store.DeleteSession(id)
		m.applyLayout()
		m.refreshViews()
		return m, m.persistCmd()

	case "n", "N", "esc":
		m.confirm = nil
		m.pendingDeleteID = ""
		return m, nil
	}
	return m, nil
}

func (m Model) promptDelete() (tea.Model, tea.Cmd) {
	cur := m.store.Current()
	if cur == nil {
		return m, nil
	}
	m.confirm = components.NewConfirmDialog(m.theme, "Delete chat?", cur.Title)
	m.pendingDeleteID = cur.ID
	return m, nil
}

func (m Model) moveSelection(delta int) (tea.Model, tea.Cmd) {
	sessions := m.store.Sessions()
	if len(sessions) == 0 {
		return m, nil
	}

	idx := 0
	currentID := m.store.CurrentID()
	for i, sess := range sessions {
		if sess.ID == currentID {
			idx = i
			break
		}
	}

	idx += delta
	if idx < 0 {
		idx = len(sessions) - 1
	}
	if idx >= len(sessions) {
		idx = 0
	}

	m.store.SetCurrentID(sessions[idx].ID)
	m.refreshViews()
	m.viewport.GotoBottom()
	return m, m.persistCmd()
}

func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	m.applyTheme(m.theme.Toggle())
	return m, nil
}

// applyTheme swaps the active theme and rebuilds every themed component.
func (m *Model) applyTheme(theme *styles.Theme) {
	m.theme = theme
	m.sidebar = components.NewSidebar(theme)
	m.transcript = components.NewMessageView(theme)
	statusBar := components.NewStatusBar(theme)
	statusBar.Model = m.client.Model()
	statusBar.Shortcuts = shortcutsFor(m.keyMap)
	m.statusBar = statusBar
	m.spinner.Style = theme.Spinner
	m.applyLayout()
	m.refreshViews()
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

// handleConfigReload applies a config file edit made while the TUI is
// running: the completion client is swapped for one built from the new
// settings, and the theme follows the configured mode.
func (m Model) handleConfigReload(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Client != nil && msg.Client.IsConfigured() {
		m.client = msg.Client
	}
	m.applyTheme(styles.NewTheme(msg.Theme))
	return m.setStatus("Config reloaded")
}

// =============================================================================
// INPUT SUBMISSION
// =============================================================================

// submitInput sends the pending input as a new user turn. Submission is
// rejected while a completion is already in flight, and empty input is a
// no-op.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	if m.state == StateLoading {
		return m, nil
	}

	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	cur := m.store.Current()
	if cur == nil {
		cur = m.store.CreateSession(nil)
	}
	if err := m.store.AppendMessage(cur.ID, model.NewUserMessage(text)); err != nil {
		return m.setStatus("Send failed: " + err.Error())
	}

	m.input.Reset()
	m.store.SetInput("")
	m.store.SetLoading(true)
	m.state = StateLoading

	// Capture the transcript and the session id now; the request outlives
	// any store mutation the user makes while it is in flight.
	sess := m.store.Session(cur.ID)
	m.refreshViews()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.spinner.Tick,
		m.completionCmd(cur.ID, sess.Messages),
		m.persistCmd(),
	)
}

// =============================================================================
// COMPLETION RESULT
// =============================================================================

func (m Model) handleCompletionResult(msg CompletionResultMsg) (tea.Model, tea.Cmd) {
	m.store.SetLoading(false)
	m.state = StateReady

	err := m.store.AppendMessage(msg.SessionID, model.NewAssistantMessage(replyContent(msg)))
	if errors.Is(err, store.ErrSessionNotFound) {
		// Session was deleted while the request was in flight.
		return m, nil
	}

	m.refreshViews()
	if m.store.CurrentID() == msg.SessionID {
		m.viewport.GotoBottom()
	}
	return m, tea.Batch(m.persistCmd(), textinput.Blink)
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// slotSaver serializes snapshot writes. Bubble Tea runs every command in its
// own goroutine, so two saves fired by successive mutations can complete out
// of order; the saver drops any snapshot older than the last one it wrote,
// and the store stays dirty unless the written snapshot is still current.
type slotSaver struct {
	mu      sync.Mutex
	lastVer uint64
}

func (p *slotSaver) save(slot *storage.SlotStore, st *store.Store, snap store.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if snap.Version < p.lastVer {
		return nil
	}
	if err := slot.Save(snap); err != nil {
		return err
	}
	p.lastVer = snap.Version
	st.MarkCleanIf(snap.Version)
	return nil
}

// persistCmd writes the current snapshot to the slot file. Returns nil when
// nothing has changed since the last save.
func (m *Model) persistCmd() tea.Cmd {
	if m.slot == nil || !m.store.IsDirty() {
		return nil
	}

	snap := m.store.Snapshot()
	slot, st, saver := m.slot, m.store, m.saver

	return func() tea.Msg {
		return PersistDoneMsg{Err: saver.save(slot, st, snap)}
	}
}

// =============================================================================
// VIEW STATE
// =============================================================================

// refreshViews re-renders the sidebar and transcript from the store.
func (m *Model) refreshViews() {
	m.sidebar.Sessions = m.store.Sessions()
	m.sidebar.CurrentID = m.store.CurrentID()

	cur := m.store.Current()
	if cur == nil {
		m.viewport.SetContent(m.transcript.Render(nil))
		return
	}
	m.viewport.SetContent(m.transcript.Render(cur.Messages))
}

// setStatus shows a transient status message for a few seconds.
func (m Model) setStatus(text string) (tea.Model, tea.Cmd) {
	m.statusMsg = text
	m.statusSeq++
	seq := m.statusSeq
	return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return StatusExpireMsg{Seq: seq}
	})
}

// =============================================================================
// GETTERS
// =============================================================================

// GetState returns the current state.
func (m *Model) GetState() State {
	return m.state
}

// Theme returns the active theme.
func (m *Model) Theme() *styles.Theme {
	return m.theme
}
