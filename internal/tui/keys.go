package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/perseus/internal/keybinds"
	"github.com/studiowebux/perseus/internal/storage"
)

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeConfirm:
		return m.handleConfirmKeys(msg)
	case ModeHelp:
		return m.handleHelpKeys(msg)
	}

	key := msg.String()

	// a field being edited gets every key except a few global ones
	if f := m.editingField(); f != nil {
		if action, ok := m.keybinds.MatchLocal(keybinds.ContextGlobal, key); ok && keybinds.EditingPassthrough(action) {
			if action == keybinds.ActionSend {
				f.StopEdit()
			}
			_, cmd := m.handleGlobalAction(action)
			return cmd
		}
		if _, err := f.HandleKey(msg, m.clipboard); err != nil {
			return m.setError("Clipboard", err)
		}
		return nil
	}

	// esc cancels an in-flight request before anything else
	if m.loading && key == "esc" {
		return m.cancelRequest()
	}

	action, ok, partial := m.keybinds.MatchMultiKey(m.focusContext(), key)
	if partial || !ok {
		return nil
	}

	if handled, cmd := m.handleGlobalAction(action); handled {
		return cmd
	}

	switch m.focusedPanel {
	case FocusSidebar:
		return m.handleSidebarAction(action)
	case FocusRequest:
		return m.handleRequestAction(action)
	default:
		return m.handleResponseAction(action)
	}
}

// focusContext maps the focused panel to its binding context
func (m *Model) focusContext() keybinds.Context {
	switch m.focusedPanel {
	case FocusSidebar:
		return keybinds.ContextSidebar
	case FocusRequest:
		return keybinds.ContextRequest
	default:
		return keybinds.ContextResponse
	}
}

// handleGlobalAction runs actions available from every panel. It reports
// whether action was one of them.
func (m *Model) handleGlobalAction(action keybinds.Action) (bool, tea.Cmd) {
	switch action {
	case keybinds.ActionQuitForce:
		return true, tea.Quit

	case keybinds.ActionQuit:
		if m.isDirty() {
			m.askConfirm("Discard unsaved changes and quit?", func() tea.Cmd {
				return tea.Quit
			})
			return true, nil
		}
		return true, tea.Quit

	case keybinds.ActionSend:
		return true, m.sendRequest()

	case keybinds.ActionCancelRequest:
		return true, m.cancelRequest()

	case keybinds.ActionSaveRequest:
		return true, m.saveRequest()

	case keybinds.ActionSwitchFocus:
		m.cycleFocus(1)
		return true, nil

	case keybinds.ActionSwitchFocusBack:
		m.cycleFocus(-1)
		return true, nil

	case keybinds.ActionCycleEnvironment:
		return true, m.cycleEnvironment()

	case keybinds.ActionToggleSidebar:
		m.sidebarVisible = !m.sidebarVisible
		if !m.sidebarVisible && m.focusedPanel == FocusSidebar {
			m.focusedPanel = FocusRequest
		}
		return true, nil

	case keybinds.ActionOpenHelp:
		m.mode = ModeHelp
		m.helpOffset = 0
		return true, nil
	}
	return false, nil
}

// cycleFocus moves between the visible panels
func (m *Model) cycleFocus(step int) {
	panels := []Focus{FocusRequest, FocusResponse}
	if m.sidebarVisible {
		panels = []Focus{FocusSidebar, FocusRequest, FocusResponse}
	}
	idx := 0
	for i, p := range panels {
		if p == m.focusedPanel {
			idx = i
		}
	}
	idx = (idx + step + len(panels)) % len(panels)
	m.focusedPanel = panels[idx]
}

func (m *Model) handleSidebarAction(action keybinds.Action) tea.Cmd {
	s := m.sidebar
	row := s.Selected()

	switch action {
	case keybinds.ActionNavigateUp:
		s.Move(-1)
	case keybinds.ActionNavigateDown:
		s.Move(1)
	case keybinds.ActionGoToTop:
		s.Top()
	case keybinds.ActionGoToBottom:
		s.Bottom()

	case keybinds.ActionExecute:
		if row == nil {
			return nil
		}
		if row.IsContainer() {
			if s.Filter() != "" {
				s.Select(row.ID)
			} else {
				s.Toggle()
			}
			return nil
		}
		if err := m.openRequest(row.ID); err != nil {
			return m.setError("Failed to open request", err)
		}
		return m.sendRequest()

	case keybinds.ActionOpenRequest:
		if row == nil || row.IsContainer() {
			return nil
		}
		if err := m.openRequest(row.ID); err != nil {
			return m.setError("Failed to open request", err)
		}
		m.focusedPanel = FocusRequest

	case keybinds.ActionExpand:
		if row != nil && !s.Expand() {
			if err := m.openRequest(row.ID); err != nil {
				return m.setError("Failed to open request", err)
			}
			m.focusedPanel = FocusRequest
		}

	case keybinds.ActionCollapse:
		s.Collapse()

	case keybinds.ActionNewRequest:
		m.openPrompt(promptNewRequest, "New request", "", "")
	case keybinds.ActionNewFolder:
		m.openPrompt(promptNewFolder, "New folder", "", "")
	case keybinds.ActionNewProject:
		m.openPrompt(promptNewProject, "New project", "", "")
	case keybinds.ActionSwitchProject:
		return m.cycleProject()

	case keybinds.ActionRename:
		if row != nil {
			m.openPrompt(promptRename, "Rename", row.ID, row.Name)
		}

	case keybinds.ActionDelete:
		if row == nil {
			return nil
		}
		id := row.ID
		question := "Delete " + row.Name + "?"
		if row.IsContainer() {
			question = "Delete " + row.Kind.String() + " " + row.Name + " and everything in it?"
		}
		m.askConfirm(question, func() tea.Cmd {
			return m.deleteItem(id)
		})

	case keybinds.ActionDuplicate:
		if row != nil && row.Kind != storage.NodeProject {
			return m.duplicateItem(row.ID)
		}

	case keybinds.ActionMove:
		if row != nil && row.Kind != storage.NodeProject {
			current := strings.Join(s.Tree().PathFor(row.ParentID)[1:], "/")
			m.openPrompt(promptMove, "Move to folder", row.ID, current)
		}

	case keybinds.ActionFilter:
		m.openPrompt(promptFilter, "Filter", "", s.Filter())

	case keybinds.ActionClearFilter:
		s.SetFilter("")

	case keybinds.ActionWidenSidebar:
		m.resizeSidebar(SidebarStep)
	case keybinds.ActionNarrowSidebar:
		m.resizeSidebar(-SidebarStep)
	}
	return nil
}

func (m *Model) handleRequestAction(action keybinds.Action) tea.Cmd {
	switch action {
	case keybinds.ActionEditField:
		m.fields[m.fieldIndex].StartEdit()
	case keybinds.ActionNextField:
		if m.fieldIndex < fieldCount-1 {
			m.fieldIndex++
		}
	case keybinds.ActionPrevField:
		if m.fieldIndex > 0 {
			m.fieldIndex--
		}
	case keybinds.ActionCycleMethod:
		m.method = m.method.Next()
	case keybinds.ActionCycleMethodBack:
		m.method = m.method.Prev()
	}
	return nil
}

func (m *Model) handleResponseAction(action keybinds.Action) tea.Cmd {
	view := m.bodyView
	if m.responseTab == tabHeaders {
		view = m.headerView
	}

	switch action {
	case keybinds.ActionNavigateUp:
		view.ScrollBy(-1)
	case keybinds.ActionNavigateDown:
		view.ScrollBy(1)
	case keybinds.ActionHalfPageUp:
		view.HalfPage(false)
	case keybinds.ActionHalfPageDown:
		view.HalfPage(true)
	case keybinds.ActionGoToTop:
		view.Top()
	case keybinds.ActionGoToBottom:
		view.Bottom()
	case keybinds.ActionToggleResponseTab:
		if m.responseTab == tabBody {
			m.responseTab = tabHeaders
		} else {
			m.responseTab = tabBody
		}
	case keybinds.ActionFilterResponse:
		if m.currentResponse == nil {
			return m.setErrorMessage("No response to filter")
		}
		m.openPrompt(promptResponseFilter, "JMESPath", "", m.responseFilter)
	case keybinds.ActionClearResponse:
		if m.responseFilter != "" {
			return m.applyResponseFilter("")
		}
	case keybinds.ActionCopyBody:
		return m.copyBody()
	}
	return nil
}

// openPrompt switches to ModePrompt
func (m *Model) openPrompt(kind promptKind, label, targetID, value string) {
	m.prompt = NewPromptState(kind, label, targetID, value)
	m.mode = ModePrompt
}

func (m *Model) closePrompt() {
	m.prompt = nil
	m.mode = ModeNormal
}

func (m *Model) handlePromptKeys(msg tea.KeyMsg) tea.Cmd {
	p := m.prompt
	if p == nil {
		m.mode = ModeNormal
		return nil
	}

	action, ok := m.keybinds.MatchLocal(keybinds.ContextPrompt, msg.String())
	if !ok {
		if a, gok := m.keybinds.MatchLocal(keybinds.ContextGlobal, msg.String()); gok && a == keybinds.ActionQuitForce {
			return tea.Quit
		}
		cmd := p.Update(msg)
		if p.kind == promptFilter {
			m.sidebar.SetFilter(p.Value())
		}
		return cmd
	}

	switch action {
	case keybinds.ActionCancel:
		if p.kind == promptFilter {
			m.sidebar.SetFilter("")
		}
		m.closePrompt()
		return nil

	case keybinds.ActionSubmit:
		m.closePrompt()
		return m.submitPrompt(p)
	}
	return nil
}

func (m *Model) submitPrompt(p *PromptState) tea.Cmd {
	value := p.Value()
	switch p.kind {
	case promptFilter:
		m.sidebar.SetFilter(value)
		return nil
	case promptResponseFilter:
		return m.applyResponseFilter(value)
	case promptMove:
		return m.moveItem(p.targetID, value)
	}

	if strings.TrimSpace(value) == "" {
		return m.setErrorMessage("Name cannot be empty")
	}
	switch p.kind {
	case promptNewRequest, promptNewFolder, promptNewProject:
		return m.createItem(p.kind, value)
	case promptRename:
		return m.renameItem(p.targetID, value)
	case promptSaveAs:
		return m.saveRequestAs(value)
	}
	return nil
}

// askConfirm switches to ModeConfirm; onYes runs on confirmation
func (m *Model) askConfirm(question string, onYes func() tea.Cmd) {
	m.confirm = &ConfirmState{question: question, onYes: onYes}
	m.mode = ModeConfirm
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.MatchLocal(keybinds.ContextConfirm, msg.String())
	if !ok {
		if a, gok := m.keybinds.MatchLocal(keybinds.ContextGlobal, msg.String()); gok && a == keybinds.ActionQuitForce {
			return tea.Quit
		}
		return nil
	}

	c := m.confirm
	m.confirm = nil
	m.mode = ModeNormal

	if action == keybinds.ActionConfirm && c != nil && c.onYes != nil {
		return c.onYes()
	}
	return nil
}

func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.MatchLocal(keybinds.ContextHelp, msg.String()); ok {
		if action == keybinds.ActionCloseModal {
			m.mode = ModeNormal
		}
		return nil
	}

	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "j", "down":
		m.helpOffset++
	case "k", "up":
		if m.helpOffset > 0 {
			m.helpOffset--
		}
	case "g", "home":
		m.helpOffset = 0
	}
	return nil
}
