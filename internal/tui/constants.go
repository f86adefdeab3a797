package tui

import "time"

// UI layout constants
const (
	// StatusBarHeight is the footer below the panels
	StatusBarHeight = 1
	// PanelBorder is the width or height consumed by a rounded border pair
	PanelBorder = 2

	// MinSidebarWidth and MaxSidebarWidth bound the resizable sidebar
	MinSidebarWidth = 28
	MaxSidebarWidth = 60
	// SidebarStep is how much widen/narrow changes the sidebar
	SidebarStep = 2

	// MinRequestHeight is the smallest outer height of the request panel
	MinRequestHeight = 9
	// RequestHeightRatio is the share of the vertical space given to the
	// request panel, in fifths
	RequestHeightRatio = 2

	// HelpWidthMargin is subtracted from the width for the help overlay
	HelpWidthMargin = 6

	// MaxFooterMessage is the longest message drawn in the status bar
	MaxFooterMessage = 100
)

// MessageTimeout is how long status and error messages stay visible
const MessageTimeout = 5 * time.Second

// Field indexes of the request panel
const (
	FieldURL = iota
	FieldHeaders
	FieldBody
	fieldCount
)
