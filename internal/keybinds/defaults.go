package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerSidebarBindings(r)
	registerRequestBindings(r)
	registerResponseBindings(r)
	registerPromptBindings(r)
	registerConfirmBindings(r)
	registerHelpBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all panels
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
	r.Register(ContextGlobal, "ctrl+s", ActionSend)
	r.Register(ContextGlobal, "ctrl+x", ActionCancelRequest)
	r.Register(ContextGlobal, "ctrl+w", ActionSaveRequest)
	r.Register(ContextGlobal, "tab", ActionSwitchFocus)
	r.Register(ContextGlobal, "shift+tab", ActionSwitchFocusBack)
	r.Register(ContextGlobal, "ctrl+e", ActionCycleEnvironment)
	r.Register(ContextGlobal, "ctrl+b", ActionToggleSidebar)
}

func registerSidebarBindings(r *Registry) {
	r.Register(ContextSidebar, "q", ActionQuit)
	r.Register(ContextSidebar, "?", ActionOpenHelp)
	r.RegisterMultiple(ContextSidebar, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextSidebar, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextSidebar, "g", ActionGoToTopPrepare)
	r.RegisterMultiple(ContextSidebar, []string{"gg", "home"}, ActionGoToTop)
	r.RegisterMultiple(ContextSidebar, []string{"G", "end"}, ActionGoToBottom)
	r.Register(ContextSidebar, "enter", ActionExecute)
	r.Register(ContextSidebar, "o", ActionOpenRequest)
	r.RegisterMultiple(ContextSidebar, []string{"l", "right", " "}, ActionExpand)
	r.RegisterMultiple(ContextSidebar, []string{"h", "left"}, ActionCollapse)
	r.Register(ContextSidebar, "n", ActionNewRequest)
	r.Register(ContextSidebar, "N", ActionNewFolder)
	r.Register(ContextSidebar, "P", ActionNewProject)
	r.Register(ContextSidebar, "p", ActionSwitchProject)
	r.Register(ContextSidebar, "r", ActionRename)
	r.Register(ContextSidebar, "d", ActionDelete)
	r.Register(ContextSidebar, "c", ActionDuplicate)
	r.Register(ContextSidebar, "m", ActionMove)
	r.Register(ContextSidebar, "/", ActionFilter)
	r.Register(ContextSidebar, "esc", ActionClearFilter)
	r.Register(ContextSidebar, ">", ActionWidenSidebar)
	r.Register(ContextSidebar, "<", ActionNarrowSidebar)
}

func registerRequestBindings(r *Registry) {
	r.Register(ContextRequest, "q", ActionQuit)
	r.Register(ContextRequest, "?", ActionOpenHelp)
	r.RegisterMultiple(ContextRequest, []string{"enter", "i"}, ActionEditField)
	r.RegisterMultiple(ContextRequest, []string{"down", "j"}, ActionNextField)
	r.RegisterMultiple(ContextRequest, []string{"up", "k"}, ActionPrevField)
	r.Register(ContextRequest, "m", ActionCycleMethod)
	r.Register(ContextRequest, "M", ActionCycleMethodBack)
}

func registerResponseBindings(r *Registry) {
	r.Register(ContextResponse, "q", ActionQuit)
	r.Register(ContextResponse, "?", ActionOpenHelp)
	r.RegisterMultiple(ContextResponse, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextResponse, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextResponse, "ctrl+u", ActionHalfPageUp)
	r.Register(ContextResponse, "ctrl+d", ActionHalfPageDown)
	r.Register(ContextResponse, "g", ActionGoToTopPrepare)
	r.RegisterMultiple(ContextResponse, []string{"gg", "home"}, ActionGoToTop)
	r.RegisterMultiple(ContextResponse, []string{"G", "end"}, ActionGoToBottom)
	r.Register(ContextResponse, "t", ActionToggleResponseTab)
	r.Register(ContextResponse, "/", ActionFilterResponse)
	r.Register(ContextResponse, "esc", ActionClearResponse)
	r.Register(ContextResponse, "y", ActionCopyBody)
}

func registerPromptBindings(r *Registry) {
	r.Register(ContextPrompt, "enter", ActionSubmit)
	r.Register(ContextPrompt, "esc", ActionCancel)
}

func registerConfirmBindings(r *Registry) {
	r.RegisterMultiple(ContextConfirm, []string{"y", "Y"}, ActionConfirm)
	r.RegisterMultiple(ContextConfirm, []string{"n", "N", "esc", "q"}, ActionCancel)
}

func registerHelpBindings(r *Registry) {
	r.RegisterMultiple(ContextHelp, []string{"esc", "q", "?"}, ActionCloseModal)
}
