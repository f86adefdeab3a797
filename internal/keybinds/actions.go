package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	// Contexts define where keybindings are active
	ContextGlobal   Context = "global"   // Available everywhere
	ContextSidebar  Context = "sidebar"  // Project tree
	ContextRequest  Context = "request"  // Request panel, not editing
	ContextResponse Context = "response" // Response panel
	ContextPrompt   Context = "prompt"   // Single-line text prompts
	ContextConfirm  Context = "confirm"  // Yes/no confirmation
	ContextHelp     Context = "help"     // Help overlay
)

// Contexts lists every known context
var Contexts = []Context{
	ContextGlobal,
	ContextSidebar,
	ContextRequest,
	ContextResponse,
	ContextPrompt,
	ContextConfirm,
	ContextHelp,
}

const (
	// Global actions
	ActionQuit             Action = "quit"              // Quit application
	ActionQuitForce        Action = "quit_force"        // Force quit (ctrl+c)
	ActionSend             Action = "send"              // Send the current request
	ActionCancelRequest    Action = "cancel_request"    // Cancel the in-flight request
	ActionSaveRequest      Action = "save_request"      // Save the current request
	ActionSwitchFocus      Action = "switch_focus"      // Next panel
	ActionSwitchFocusBack  Action = "switch_focus_back" // Previous panel
	ActionCycleEnvironment Action = "cycle_environment" // Next environment
	ActionToggleSidebar    Action = "toggle_sidebar"    // Show/hide the sidebar
	ActionOpenHelp         Action = "open_help"         // Open help overlay

	// Navigation actions
	ActionNavigateUp     Action = "navigate_up"       // Move up one item
	ActionNavigateDown   Action = "navigate_down"     // Move down one item
	ActionHalfPageUp     Action = "half_page_up"      // Scroll up half a page
	ActionHalfPageDown   Action = "half_page_down"    // Scroll down half a page
	ActionGoToTop        Action = "go_to_top"         // Go to top
	ActionGoToBottom     Action = "go_to_bottom"      // Go to bottom
	ActionGoToTopPrepare Action = "go_to_top_prepare" // First 'g' in 'gg' sequence

	// Sidebar actions
	ActionExecute       Action = "execute"        // Open folder or send request
	ActionOpenRequest   Action = "open_request"   // Load request without sending
	ActionExpand        Action = "expand"         // Expand folder
	ActionCollapse      Action = "collapse"       // Collapse folder or go to parent
	ActionNewRequest    Action = "new_request"    // Create request
	ActionNewFolder     Action = "new_folder"     // Create folder
	ActionNewProject    Action = "new_project"    // Create project
	ActionSwitchProject Action = "switch_project" // Next project
	ActionRename        Action = "rename"         // Rename item
	ActionDelete        Action = "delete"         // Delete item (with confirm)
	ActionDuplicate     Action = "duplicate"      // Duplicate item
	ActionMove          Action = "move"           // Move item into a folder
	ActionFilter        Action = "filter"         // Fuzzy filter the tree
	ActionClearFilter   Action = "clear_filter"   // Clear the tree filter
	ActionWidenSidebar  Action = "widen_sidebar"  // Grow sidebar
	ActionNarrowSidebar Action = "narrow_sidebar" // Shrink sidebar

	// Request panel actions
	ActionEditField       Action = "edit_field"        // Start editing the focused field
	ActionNextField       Action = "next_field"        // Focus next field
	ActionPrevField       Action = "prev_field"        // Focus previous field
	ActionCycleMethod     Action = "cycle_method"      // Next HTTP method
	ActionCycleMethodBack Action = "cycle_method_back" // Previous HTTP method

	// Response panel actions
	ActionToggleResponseTab Action = "toggle_response_tab" // Body/headers
	ActionFilterResponse    Action = "filter_response"     // JMESPath filter
	ActionClearResponse     Action = "clear_response_filter"
	ActionCopyBody          Action = "copy_body" // Copy response to clipboard

	// Prompt and confirm actions
	ActionSubmit  Action = "submit"  // Submit prompt
	ActionCancel  Action = "cancel"  // Cancel prompt or confirm
	ActionConfirm Action = "confirm" // Confirm action (y)

	ActionCloseModal Action = "close_modal" // Close overlay
	ActionNoOp       Action = "noop"        // No operation (ignore key)
)

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

var actionInfos = map[Action]ActionInfo{
	ActionQuit:              {ActionQuit, "Quit", "Global"},
	ActionQuitForce:         {ActionQuitForce, "Force quit", "Global"},
	ActionSend:              {ActionSend, "Send request", "Global"},
	ActionCancelRequest:     {ActionCancelRequest, "Cancel request", "Global"},
	ActionSaveRequest:       {ActionSaveRequest, "Save request", "Global"},
	ActionSwitchFocus:       {ActionSwitchFocus, "Next panel", "Global"},
	ActionSwitchFocusBack:   {ActionSwitchFocusBack, "Previous panel", "Global"},
	ActionCycleEnvironment:  {ActionCycleEnvironment, "Next environment", "Global"},
	ActionToggleSidebar:     {ActionToggleSidebar, "Toggle sidebar", "Global"},
	ActionOpenHelp:          {ActionOpenHelp, "Help", "Global"},
	ActionNavigateUp:        {ActionNavigateUp, "Move up", "Navigation"},
	ActionNavigateDown:      {ActionNavigateDown, "Move down", "Navigation"},
	ActionHalfPageUp:        {ActionHalfPageUp, "Half page up", "Navigation"},
	ActionHalfPageDown:      {ActionHalfPageDown, "Half page down", "Navigation"},
	ActionGoToTop:           {ActionGoToTop, "Go to top", "Navigation"},
	ActionGoToBottom:        {ActionGoToBottom, "Go to bottom", "Navigation"},
	ActionExecute:           {ActionExecute, "Open / send", "Sidebar"},
	ActionOpenRequest:       {ActionOpenRequest, "Open request", "Sidebar"},
	ActionExpand:            {ActionExpand, "Expand folder", "Sidebar"},
	ActionCollapse:          {ActionCollapse, "Collapse folder", "Sidebar"},
	ActionNewRequest:        {ActionNewRequest, "New request", "Sidebar"},
	ActionNewFolder:         {ActionNewFolder, "New folder", "Sidebar"},
	ActionNewProject:        {ActionNewProject, "New project", "Sidebar"},
	ActionSwitchProject:     {ActionSwitchProject, "Next project", "Sidebar"},
	ActionRename:            {ActionRename, "Rename", "Sidebar"},
	ActionDelete:            {ActionDelete, "Delete", "Sidebar"},
	ActionDuplicate:         {ActionDuplicate, "Duplicate", "Sidebar"},
	ActionMove:              {ActionMove, "Move", "Sidebar"},
	ActionFilter:            {ActionFilter, "Filter", "Sidebar"},
	ActionClearFilter:       {ActionClearFilter, "Clear filter", "Sidebar"},
	ActionWidenSidebar:      {ActionWidenSidebar, "Widen sidebar", "Sidebar"},
	ActionNarrowSidebar:     {ActionNarrowSidebar, "Narrow sidebar", "Sidebar"},
	ActionEditField:         {ActionEditField, "Edit field", "Request"},
	ActionNextField:         {ActionNextField, "Next field", "Request"},
	ActionPrevField:         {ActionPrevField, "Previous field", "Request"},
	ActionCycleMethod:       {ActionCycleMethod, "Next method", "Request"},
	ActionCycleMethodBack:   {ActionCycleMethodBack, "Previous method", "Request"},
	ActionToggleResponseTab: {ActionToggleResponseTab, "Body / headers", "Response"},
	ActionFilterResponse:    {ActionFilterResponse, "JMESPath filter", "Response"},
	ActionClearResponse:     {ActionClearResponse, "Clear filter", "Response"},
	ActionCopyBody:          {ActionCopyBody, "Copy body", "Response"},
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	if info, ok := actionInfos[action]; ok {
		return info
	}
	return ActionInfo{action, string(action), "Other"}
}

// IsKnownAction reports whether action is defined
func IsKnownAction(action Action) bool {
	switch action {
	case ActionGoToTopPrepare, ActionSubmit, ActionCancel, ActionConfirm, ActionCloseModal, ActionNoOp:
		return true
	}
	_, ok := actionInfos[action]
	return ok
}

// IsGlobalAction returns true if the action is available in all contexts
func IsGlobalAction(action Action) bool {
	return action == ActionQuitForce
}

// EditingPassthrough reports whether a global action still fires while a
// field is being edited. Every other key goes to the editor.
func EditingPassthrough(action Action) bool {
	switch action {
	case ActionQuitForce, ActionSend, ActionCancelRequest, ActionSaveRequest:
		return true
	}
	return false
}
