package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/perseus/internal/clipboard"
	"github.com/studiowebux/perseus/internal/config"
	"github.com/studiowebux/perseus/internal/executor"
	"github.com/studiowebux/perseus/internal/history"
	"github.com/studiowebux/perseus/internal/keybinds"
	"github.com/studiowebux/perseus/internal/session"
	"github.com/studiowebux/perseus/internal/storage"
	"github.com/studiowebux/perseus/internal/types"
)

// Options carries everything the TUI needs from the caller
type Options struct {
	Root     string
	Settings *config.Settings
	Store    *storage.Store
	Sessions *session.Manager
	// History is nil when history is disabled
	History      *history.Manager
	Keybinds     *keybinds.Registry
	Clipboard    *clipboard.Provider
	Environments []*storage.Environment
	// Environment overrides the one remembered by the session
	Environment string
}

// New creates a new TUI model
func New(opts Options) (Model, error) {
	if opts.Store == nil {
		return Model{}, errors.New("tui: a store is required")
	}
	settings := opts.Settings
	if settings == nil {
		settings = config.Default()
	}
	client, err := executor.NewClient(settings)
	if err != nil {
		return Model{}, err
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewManager(config.SessionFile)
	}
	registry := opts.Keybinds
	if registry == nil {
		registry = keybinds.NewDefaultRegistry()
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = clipboard.New()
	}

	state, ok := sessions.Get(config.ProjectKey(opts.Root))
	if !ok {
		state = session.State{
			SidebarWidth:   settings.UI.SidebarWidth,
			SidebarVisible: true,
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleWarning

	m := Model{
		root:           opts.Root,
		settings:       settings,
		store:          opts.Store,
		sessionMgr:     sessions,
		historyManager: opts.History,
		keybinds:       registry,
		clipboard:      clip,
		client:         client,
		mode:           ModeNormal,
		focusedPanel:   FocusSidebar,
		sidebar:        NewSidebarState(state.ExpandedSet()),
		sidebarVisible: state.SidebarVisible,
		sidebarWidth:   clampSidebar(state.SidebarWidth),
		environments:   opts.Environments,
		envIndex:       -1,
		method:         types.MethodGet,
		bodyView:       &TextView{},
		headerView:     &TextView{},
		spinner:        sp,
	}
	tabSize := settings.Editor.TabSize
	m.fields[FieldURL] = NewField("URL", true, "", tabSize)
	m.fields[FieldHeaders] = NewField("Headers", false, "", tabSize)
	m.fields[FieldBody] = NewField("Body", false, "", tabSize)
	m.markSaved()

	if state.ResponseTab == tabHeaders.String() {
		m.responseTab = tabHeaders
	}

	envName := state.Environment
	if opts.Environment != "" {
		envName = opts.Environment
	}
	if envName != "" {
		m.envIndex = -1
		for i, env := range m.environments {
			if env.Name == envName {
				m.envIndex = i
			}
		}
		if m.envIndex < 0 && opts.Environment != "" {
			return Model{}, fmt.Errorf("environment %q not found", opts.Environment)
		}
	}

	if err := m.switchProject(state.ActiveProjectID); err != nil {
		return Model{}, err
	}
	if state.SelectionID != "" {
		m.sidebar.Select(state.SelectionID)
	}
	if state.CurrentRequestID != "" {
		if err := m.openRequest(state.CurrentRequestID); err != nil {
			m.statusMsg = "Last opened request no longer exists"
		}
	}

	return m, nil
}

// Run starts the TUI
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}

	// pointer: Update uses a pointer receiver
	p := tea.NewProgram(&m, tea.WithAltScreen())
	_, err = p.Run()
	m.Cleanup()
	return err
}

func clampSidebar(width int) int {
	if width < MinSidebarWidth {
		return MinSidebarWidth
	}
	if width > MaxSidebarWidth {
		return MaxSidebarWidth
	}
	return width
}
