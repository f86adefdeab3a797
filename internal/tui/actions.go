package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/perseus/internal/config"
	"github.com/studiowebux/perseus/internal/executor"
	"github.com/studiowebux/perseus/internal/filter"
	"github.com/studiowebux/perseus/internal/highlight"
	"github.com/studiowebux/perseus/internal/history"
	"github.com/studiowebux/perseus/internal/logger"
	"github.com/studiowebux/perseus/internal/session"
	"github.com/studiowebux/perseus/internal/storage"
	"github.com/studiowebux/perseus/internal/types"
	"github.com/studiowebux/perseus/internal/wrap"
)

// switchProject shows projectID in the sidebar, falling back to the first
// project. A collection without projects gets one.
func (m *Model) switchProject(projectID string) error {
	projects := m.store.Projects()
	if len(projects) == 0 {
		id, err := m.store.AddProject("Default")
		if err != nil {
			return err
		}
		if err := m.store.Save(); err != nil {
			return err
		}
		projects = m.store.Projects()
		projectID = id
	}

	found := false
	for _, p := range projects {
		if p.ID == projectID {
			found = true
		}
	}
	if !found {
		projectID = projects[0].ID
	}

	tree, err := m.store.Tree(projectID)
	if err != nil {
		return err
	}
	m.projectID = projectID
	m.sidebar.SetFilter("")
	m.sidebar.SetTree(tree)
	return nil
}

// refreshTree rebuilds the sidebar after a store change
func (m *Model) refreshTree() error {
	tree, err := m.store.Tree(m.projectID)
	if err != nil {
		return m.switchProject("")
	}
	m.sidebar.SetTree(tree)
	return nil
}

// commit saves the store and refreshes the tree, selecting selectID
func (m *Model) commit(selectID string) error {
	if err := m.store.Save(); err != nil {
		return err
	}
	if err := m.refreshTree(); err != nil {
		return err
	}
	if selectID != "" {
		m.sidebar.Select(selectID)
	}
	return nil
}

// openRequest loads a saved request into the editor
func (m *Model) openRequest(id string) error {
	req, err := m.store.Request(id)
	if err != nil {
		return err
	}
	if id != m.currentRequestID {
		m.clearResponse()
	}
	m.currentRequestID = id
	m.requestName = req.Name
	if node := m.sidebar.Tree().Node(id); node != nil {
		m.requestName = node.Name
	}
	m.method = req.Method
	m.auth = req.Auth
	m.fields[FieldURL].SetText(req.URL)
	m.fields[FieldHeaders].SetText(req.Headers)
	m.fields[FieldBody].SetText(req.Body)
	m.fieldIndex = FieldURL
	m.markSaved()
	return nil
}

// closeRequest empties the editor
func (m *Model) closeRequest() {
	m.currentRequestID = ""
	m.requestName = ""
	m.method = types.MethodGet
	m.auth = nil
	for _, f := range m.fields {
		f.SetText("")
	}
	m.markSaved()
	m.clearResponse()
}

func (m *Model) clearResponse() {
	m.currentResponse = nil
	m.responseErr = nil
	m.unresolved = nil
	m.responseFilter = ""
	m.bodyView.SetLines(nil)
	m.headerView.SetLines(nil)
}

// sendRequest resolves environment variables and sends the editor request
// in the background. Only the newest request's result is kept.
func (m *Model) sendRequest() tea.Cmd {
	if m.loading {
		return m.setStatusMessage("A request is already in flight")
	}
	req := m.currentRequest()
	if req.URL == "" {
		return m.setErrorMessage("URL is empty")
	}

	resolved, missing := storage.Resolve(req, m.activeEnvironment().Variables())

	ctx, cancel := context.WithCancel(context.Background())
	m.requestSeq++
	seq := m.requestSeq
	m.requestCancelFunc = cancel
	m.loading = true
	m.errorMsg = ""
	m.fullErrorMsg = ""
	m.statusMsg = fmt.Sprintf("Sending %s %s", resolved.Method, resolved.URL)

	client := m.client
	hist := m.historyManager
	logger.Debug("sending request", "method", resolved.Method, "url", resolved.URL, "seq", seq)

	done := make(chan requestExecutedMsg, 1)
	go func() {
		resp, err := executor.Send(ctx, client, resolved)
		if hist != nil && !errors.Is(err, executor.ErrCanceled) {
			if _, herr := hist.Save(history.NewEntry(resolved, resp, err)); herr != nil {
				logger.Warn("failed to save history", "error", herr)
			}
		}
		done <- requestExecutedMsg{seq: seq, response: resp, err: err, warnings: missing}
	}()

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return <-done
	})
}

// cancelRequest abandons the in-flight request; its result is discarded
func (m *Model) cancelRequest() tea.Cmd {
	if !m.loading {
		return nil
	}
	if m.requestCancelFunc != nil {
		m.requestCancelFunc()
		m.requestCancelFunc = nil
	}
	m.requestSeq++
	m.loading = false
	return m.setStatusMessage("Request cancelled")
}

func (m *Model) handleRequestExecuted(msg requestExecutedMsg) tea.Cmd {
	if msg.seq != m.requestSeq {
		logger.Debug("discarding stale response", "seq", msg.seq, "current", m.requestSeq)
		return nil
	}
	m.loading = false
	m.requestCancelFunc = nil
	m.currentResponse = msg.response
	m.responseErr = msg.err
	m.unresolved = msg.warnings
	m.responseFilter = ""
	m.updateResponseView()

	if msg.err != nil {
		logger.Info("request failed", "error", msg.err)
		return m.setErrorMessage(executor.Describe(msg.err))
	}

	m.focusedPanel = FocusResponse
	status := fmt.Sprintf("%d %s in %s", msg.response.Status, msg.response.StatusText,
		executor.FormatDuration(msg.response.Duration))
	if len(msg.warnings) > 0 {
		status += fmt.Sprintf(" (unresolved: %s)", strings.Join(msg.warnings, ", "))
	}
	return m.setStatusMessage(status)
}

// updateResponseView rebuilds the body and header views
func (m *Model) updateResponseView() {
	if m.responseErr != nil {
		lines := []wrap.Line{
			{{Text: executor.Describe(m.responseErr), Style: wrap.Style{Fg: "9", Bold: true}}},
		}
		if hint := requestErrorHint(m.responseErr); hint != "" {
			lines = append(lines, wrap.Line{}, wrap.Line{{Text: hint, Style: wrap.Style{Faint: true}}})
		}
		m.bodyView.SetLines(lines)
		m.headerView.SetLines(nil)
		return
	}
	resp := m.currentResponse
	if resp == nil {
		m.bodyView.SetLines(nil)
		m.headerView.SetLines(nil)
		return
	}

	body, contentType := resp.Body, resp.ContentType()
	if m.responseFilter != "" {
		filtered, err := filter.Apply(resp.Body, m.responseFilter)
		if err != nil {
			m.responseFilter = ""
			m.errorMsg = truncateMessage(err.Error())
			m.fullErrorMsg = err.Error()
		} else {
			body, contentType = filtered, "application/json"
		}
	} else {
		body = filter.Pretty(body)
	}

	if body == "" {
		m.bodyView.SetLines([]wrap.Line{{{Text: "(empty body)", Style: wrap.Style{Faint: true}}}})
	} else {
		m.bodyView.SetLines(highlight.Lines(body, contentType, m.settings.UI.Theme))
	}

	headers := make([]wrap.Line, 0, len(resp.Headers))
	for _, h := range resp.Headers {
		headers = append(headers, wrap.Line{
			{Text: h.Key, Style: wrap.Style{Fg: "6", Bold: true}},
			{Text: ": " + h.Value},
		})
	}
	m.headerView.SetLines(headers)
}

// applyResponseFilter sets a JMESPath filter on the response body
func (m *Model) applyResponseFilter(expr string) tea.Cmd {
	expr = strings.TrimSpace(expr)
	if m.currentResponse == nil {
		return m.setErrorMessage("No response to filter")
	}
	if expr != "" && !filter.IsValidJMESPath(expr) {
		return m.setErrorMessage(fmt.Sprintf("Invalid JMESPath expression: %s", expr))
	}
	if _, err := filter.Apply(m.currentResponse.Body, expr); err != nil {
		return m.setErrorMessage(err.Error())
	}
	m.responseFilter = expr
	m.responseTab = tabBody
	m.updateResponseView()
	if m.responseFilter == "" {
		return nil
	}
	return m.setStatusMessage("Filter: " + expr)
}

// copyBody puts the shown response body on the clipboard
func (m *Model) copyBody() tea.Cmd {
	if m.currentResponse == nil {
		return m.setErrorMessage("No response to copy")
	}
	text := m.currentResponse.Body
	if m.responseTab == tabHeaders {
		text = m.currentResponse.HeaderText()
	} else if m.responseFilter != "" {
		if filtered, err := filter.Apply(text, m.responseFilter); err == nil {
			text = filtered
		}
	}
	if err := m.clipboard.Set(text); err != nil {
		return m.setError("Failed to copy to clipboard", err)
	}
	return m.setStatusMessage(fmt.Sprintf("Copied %s to clipboard", m.responseTab))
}

// saveRequest writes the editor back to the store. An unsaved scratch
// request asks for a name first.
func (m *Model) saveRequest() tea.Cmd {
	if m.currentRequestID == "" {
		m.openPrompt(promptSaveAs, "Save as", "", "")
		return nil
	}
	req := m.currentRequest()
	req.Name = ""
	if err := m.store.UpdateRequest(m.currentRequestID, req); err != nil {
		return m.setError("Failed to save request", err)
	}
	if err := m.commit(""); err != nil {
		return m.setError("Failed to save collection", err)
	}
	m.markSaved()
	return m.setStatusMessage(fmt.Sprintf("Saved %s", m.requestName))
}

// saveRequestAs stores the editor as a new request named name
func (m *Model) saveRequestAs(name string) tea.Cmd {
	parent := m.sidebar.Tree().ParentFolder(m.sidebar.SelectedID())
	id, err := m.store.AddRequest(parent, name, m.currentRequest())
	if err != nil {
		return m.setError("Failed to save request", err)
	}
	if err := m.commit(id); err != nil {
		return m.setError("Failed to save collection", err)
	}
	m.currentRequestID = id
	m.requestName = strings.TrimSpace(name)
	m.markSaved()
	return m.setStatusMessage(fmt.Sprintf("Saved %s", m.requestName))
}

// createItem adds a request, folder or project named name
func (m *Model) createItem(kind promptKind, name string) tea.Cmd {
	var (
		id  string
		err error
	)
	parent := m.sidebar.Tree().ParentFolder(m.sidebar.SelectedID())
	switch kind {
	case promptNewRequest:
		id, err = m.store.AddRequest(parent, name, nil)
	case promptNewFolder:
		id, err = m.store.AddFolder(parent, name)
	case promptNewProject:
		id, err = m.store.AddProject(name)
	}
	if err != nil {
		return m.setError("Failed to create item", err)
	}

	if kind == promptNewProject {
		if err := m.store.Save(); err != nil {
			return m.setError("Failed to save collection", err)
		}
		if err := m.switchProject(id); err != nil {
			return m.setError("Failed to open project", err)
		}
		return m.setStatusMessage(fmt.Sprintf("Created project %s", strings.TrimSpace(name)))
	}

	if err := m.commit(id); err != nil {
		return m.setError("Failed to save collection", err)
	}
	if kind == promptNewRequest {
		if err := m.openRequest(id); err != nil {
			return m.setError("Failed to open request", err)
		}
		m.focusedPanel = FocusRequest
	}
	return m.setStatusMessage(fmt.Sprintf("Created %s", strings.TrimSpace(name)))
}

// renameItem renames id
func (m *Model) renameItem(id, name string) tea.Cmd {
	if err := m.store.Rename(id, name); err != nil {
		return m.setError("Failed to rename", err)
	}
	if err := m.commit(id); err != nil {
		return m.setError("Failed to save collection", err)
	}
	if id == m.currentRequestID {
		m.requestName = strings.TrimSpace(name)
	}
	return m.setStatusMessage(fmt.Sprintf("Renamed to %s", strings.TrimSpace(name)))
}

// deleteItem removes id, closing the editor when the open request goes too
func (m *Model) deleteItem(id string) tea.Cmd {
	tree := m.sidebar.Tree()
	node := tree.Node(id)
	if node == nil {
		return nil
	}
	if node.Kind == storage.NodeProject && len(m.store.Projects()) == 1 {
		return m.setErrorMessage("Cannot delete the only project")
	}
	closes := m.currentRequestID != "" && tree.IsDescendant(id, m.currentRequestID)

	// select a neighbour before the row disappears
	m.sidebar.Move(-1)

	if err := m.store.Delete(id); err != nil {
		return m.setError("Failed to delete", err)
	}
	if err := m.store.Save(); err != nil {
		return m.setError("Failed to save collection", err)
	}
	if node.Kind == storage.NodeProject {
		if err := m.switchProject(""); err != nil {
			return m.setError("Failed to open project", err)
		}
	} else if err := m.refreshTree(); err != nil {
		return m.setError("Failed to refresh tree", err)
	}
	if closes {
		m.closeRequest()
	}
	return m.setStatusMessage(fmt.Sprintf("Deleted %s", node.Name))
}

// duplicateItem copies id next to itself
func (m *Model) duplicateItem(id string) tea.Cmd {
	newID, err := m.store.Duplicate(id)
	if err != nil {
		return m.setError("Failed to duplicate", err)
	}
	if err := m.commit(newID); err != nil {
		return m.setError("Failed to save collection", err)
	}
	return m.setStatusMessage("Duplicated")
}

// moveItem moves id into the folder at path, relative to the project
// unless it names another project
func (m *Model) moveItem(id, path string) tea.Cmd {
	path = strings.Trim(strings.TrimSpace(path), "/")
	tree := m.sidebar.Tree()

	var destID string
	if path == "" {
		destID = tree.RootID
	} else {
		project := tree.Node(tree.RootID).Name
		var err error
		destID, err = m.store.FindByPath(project + "/" + path)
		if err != nil {
			destID, err = m.store.FindByPath(path)
		}
		if err != nil {
			return m.setErrorMessage(fmt.Sprintf("No folder at %s", path))
		}
	}

	if err := m.store.Move(id, destID); err != nil {
		if errors.Is(err, storage.ErrInvalidMove) {
			return m.setErrorMessage("Cannot move an item into itself or a request")
		}
		return m.setError("Failed to move", err)
	}
	if err := m.store.Save(); err != nil {
		return m.setError("Failed to save collection", err)
	}
	if tree.Node(destID) == nil {
		// moved to another project
		if err := m.refreshTree(); err != nil {
			return m.setError("Failed to refresh tree", err)
		}
		if id == m.currentRequestID {
			m.closeRequest()
		}
		return m.setStatusMessage("Moved to " + path)
	}
	if err := m.refreshTree(); err != nil {
		return m.setError("Failed to refresh tree", err)
	}
	m.sidebar.Select(id)
	return m.setStatusMessage("Moved to " + tree.Node(destID).Name)
}

// cycleProject switches to the next project
func (m *Model) cycleProject() tea.Cmd {
	projects := m.store.Projects()
	if len(projects) < 2 {
		return m.setStatusMessage("Only one project")
	}
	next := projects[0]
	for i, p := range projects {
		if p.ID == m.projectID {
			next = projects[(i+1)%len(projects)]
		}
	}
	if err := m.switchProject(next.ID); err != nil {
		return m.setError("Failed to switch project", err)
	}
	return m.setStatusMessage("Switched to " + next.Name)
}

// cycleEnvironment steps through the environments, then none
func (m *Model) cycleEnvironment() tea.Cmd {
	if len(m.environments) == 0 {
		return m.setStatusMessage("No environments defined")
	}
	m.envIndex++
	if m.envIndex >= len(m.environments) {
		m.envIndex = -1
	}
	if env := m.activeEnvironment(); env != nil {
		return m.setStatusMessage("Environment: " + env.Name)
	}
	return m.setStatusMessage("Environment: none")
}

// resizeSidebar grows or shrinks the sidebar by delta columns
func (m *Model) resizeSidebar(delta int) {
	m.sidebarWidth = clampSidebar(m.sidebarWidth + delta)
}

// sessionState captures what is remembered between runs
func (m *Model) sessionState() session.State {
	state := session.State{
		ActiveProjectID:  m.projectID,
		SidebarWidth:     m.sidebarWidth,
		SidebarVisible:   m.sidebarVisible,
		SelectionID:      m.sidebar.SelectedID(),
		CurrentRequestID: m.currentRequestID,
		Expanded:         m.sidebar.Expanded(),
		ResponseTab:      m.responseTab.String(),
	}
	if env := m.activeEnvironment(); env != nil {
		state.Environment = env.Name
	}
	return state
}

func (m *Model) saveSession() error {
	if m.sessionMgr == nil || m.root == "" {
		return nil
	}
	if err := m.sessionMgr.Put(config.ProjectKey(m.root), m.sessionState()); err != nil {
		return err
	}
	return m.sessionMgr.Save()
}
