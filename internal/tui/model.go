package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/perseus/internal/clipboard"
	"github.com/studiowebux/perseus/internal/config"
	"github.com/studiowebux/perseus/internal/history"
	"github.com/studiowebux/perseus/internal/keybinds"
	"github.com/studiowebux/perseus/internal/logger"
	"github.com/studiowebux/perseus/internal/session"
	"github.com/studiowebux/perseus/internal/storage"
	"github.com/studiowebux/perseus/internal/types"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal  Mode = iota // Panels receive keys
	ModePrompt              // Footer text prompt
	ModeConfirm             // Footer yes/no question
	ModeHelp                // Key binding overlay
)

// Focus is the panel receiving keys in ModeNormal
type Focus int

const (
	FocusSidebar Focus = iota
	FocusRequest
	FocusResponse
)

func (f Focus) String() string {
	switch f {
	case FocusSidebar:
		return "sidebar"
	case FocusRequest:
		return "request"
	default:
		return "response"
	}
}

// responseTab selects what the response panel shows
type responseTab int

const (
	tabBody responseTab = iota
	tabHeaders
)

func (t responseTab) String() string {
	if t == tabHeaders {
		return "headers"
	}
	return "body"
}

// Model represents the TUI state
type Model struct {
	root     string
	settings *config.Settings

	store          *storage.Store
	sessionMgr     *session.Manager
	historyManager *history.Manager
	keybinds       *keybinds.Registry
	clipboard      *clipboard.Provider
	client         *http.Client

	mode         Mode
	focusedPanel Focus

	// Sidebar
	projectID      string
	sidebar        *SidebarState
	sidebarVisible bool
	sidebarWidth   int

	// Environments; envIndex is -1 when none is active
	environments []*storage.Environment
	envIndex     int

	// Request editor
	currentRequestID string
	requestName      string
	method           types.Method
	auth             *types.Auth
	fields           [fieldCount]*Field
	fieldIndex       int
	savedMethod      types.Method
	savedVersions    [fieldCount]uint64

	// Response
	currentResponse *types.Response
	responseErr     error
	unresolved      []string
	responseTab     responseTab
	responseFilter  string
	bodyView        *TextView
	headerView      *TextView

	// In-flight request
	loading           bool
	requestSeq        int
	requestCancelFunc context.CancelFunc
	spinner           spinner.Model

	prompt     *PromptState
	confirm    *ConfirmState
	helpOffset int

	width  int
	height int

	statusMsg     string
	fullStatusMsg string
	errorMsg      string
	fullErrorMsg  string
}

// Init initializes the TUI
func (m *Model) Init() tea.Cmd {
	return nil
}

// Cleanup saves the session and closes the history database
func (m *Model) Cleanup() {
	if m.requestCancelFunc != nil {
		m.requestCancelFunc()
		m.requestCancelFunc = nil
	}
	if err := m.saveSession(); err != nil {
		logger.Error("failed to save session", "error", err)
	}
	if m.historyManager != nil {
		if err := m.historyManager.Close(); err != nil {
			logger.Error("failed to close history database", "error", err)
		}
	}
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
		}

	case requestExecutedMsg:
		cmd = m.handleRequestExecuted(msg)

	case clearStatusMsg:
		m.statusMsg = ""
		m.fullStatusMsg = ""

	case clearErrorMsg:
		m.errorMsg = ""
		m.fullErrorMsg = ""

	case errorMsg:
		cmd = m.setErrorMessage(string(msg))
	}

	return m, cmd
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	if m.mode == ModeHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// Custom message types
type requestExecutedMsg struct {
	seq      int
	response *types.Response
	err      error
	// unresolved {{variables}} left in the sent request
	warnings []string
}

type clearStatusMsg struct{}
type clearErrorMsg struct{}

type errorMsg string

func truncateMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\n", " ")
	if len([]rune(msg)) > MaxFooterMessage {
		return string([]rune(msg)[:MaxFooterMessage-3]) + "..."
	}
	return msg
}

// Helper methods for setting messages with a timeout
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	m.fullStatusMsg = msg
	m.statusMsg = truncateMessage(msg)
	m.errorMsg = ""
	m.fullErrorMsg = ""
	return tea.Tick(MessageTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m *Model) setErrorMessage(msg string) tea.Cmd {
	m.fullErrorMsg = msg
	m.errorMsg = truncateMessage(msg)
	return tea.Tick(MessageTimeout, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

func (m *Model) setError(action string, err error) tea.Cmd {
	logger.Warn(action, "error", err)
	return m.setErrorMessage(fmt.Sprintf("%s: %v", action, err))
}

// editingField returns the field being edited, or nil
func (m *Model) editingField() *Field {
	if m.focusedPanel != FocusRequest {
		return nil
	}
	if f := m.fields[m.fieldIndex]; f.IsEditing() {
		return f
	}
	return nil
}

// activeEnvironment returns the selected environment or nil
func (m *Model) activeEnvironment() *storage.Environment {
	if m.envIndex < 0 || m.envIndex >= len(m.environments) {
		return nil
	}
	return m.environments[m.envIndex]
}

// isDirty reports whether the editor differs from the saved request
func (m *Model) isDirty() bool {
	if m.currentRequestID == "" {
		return false
	}
	if m.method != m.savedMethod {
		return true
	}
	for i, f := range m.fields {
		if f.Version() != m.savedVersions[i] {
			return true
		}
	}
	return false
}

func (m *Model) markSaved() {
	m.savedMethod = m.method
	for i, f := range m.fields {
		m.savedVersions[i] = f.Version()
	}
}

// currentRequest builds a request from the editor
func (m *Model) currentRequest() *types.Request {
	return &types.Request{
		ID:      m.currentRequestID,
		Name:    m.requestName,
		Method:  m.method,
		URL:     strings.TrimSpace(m.fields[FieldURL].Text()),
		Headers: m.fields[FieldHeaders].Text(),
		Body:    m.fields[FieldBody].Text(),
		Auth:    m.auth,
	}
}
