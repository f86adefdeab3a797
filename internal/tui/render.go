package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/studiowebux/perseus/internal/executor"
	"github.com/studiowebux/perseus/internal/keybinds"
	"github.com/studiowebux/perseus/internal/logger"
	"github.com/studiowebux/perseus/internal/storage"
	"github.com/studiowebux/perseus/internal/types"
	"github.com/studiowebux/perseus/internal/vim"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#5f87ff"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleMatch = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	styleModeNormal = lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Background(colorBlue).Foreground(lipgloss.Color("#ffffff"))
	styleModeInsert = lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Background(colorGreen).Foreground(lipgloss.Color("#000000"))
	styleModeVisual = lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Background(colorYellow).Foreground(lipgloss.Color("#000000"))
)

// methodStyle colours an HTTP method
func methodStyle(method types.Method) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(true)
	switch method {
	case types.MethodGet:
		return st.Foreground(colorGreen)
	case types.MethodPost:
		return st.Foreground(colorYellow)
	case types.MethodPut, types.MethodPatch:
		return st.Foreground(colorBlue)
	case types.MethodDelete:
		return st.Foreground(colorRed)
	}
	return st.Foreground(colorCyan)
}

// statusStyle colours an HTTP status code
func statusStyle(status int) lipgloss.Style {
	switch {
	case executor.IsSuccessStatus(status):
		return styleSuccess
	case executor.IsRedirectStatus(status):
		return styleWarning
	}
	return styleError
}

func borderColor(focused bool) lipgloss.AdaptiveColor {
	if focused {
		return colorGreen
	}
	return colorGray
}

// box wraps content in a rounded border of outer size width x height
func box(content string, width, height int, focused bool) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor(focused)).
		Width(max(width-PanelBorder, 1)).
		Height(max(height-PanelBorder, 1)).
		MaxHeight(height).
		Render(content)
}

// fit pads or cuts lines to exactly height entries
func fit(lines []string, height int) []string {
	if len(lines) > height {
		return lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

// truncate cuts s to width cells
func truncate(s string, width int) string {
	if width < 1 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// renderMain renders the sidebar, request and response panels and the status bar
func (m *Model) renderMain() string {
	bodyHeight := m.height - StatusBarHeight

	var columns []string
	rightWidth := m.width
	if m.sidebarVisible {
		sw := min(m.sidebarWidth, m.width/2)
		columns = append(columns, m.renderSidebar(sw, bodyHeight))
		rightWidth -= sw
	}

	requestHeight := max(bodyHeight*RequestHeightRatio/5, MinRequestHeight)
	if requestHeight > bodyHeight-3 {
		requestHeight = max(bodyHeight-3, 3)
	}
	responseHeight := bodyHeight - requestHeight

	right := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderRequest(rightWidth, requestHeight),
		m.renderResponse(rightWidth, responseHeight),
	)
	columns = append(columns, right)

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		mainView,
		m.renderStatusBar(),
	)
}

// renderSidebar renders the project tree
func (m *Model) renderSidebar(width, height int) string {
	inner := width - PanelBorder
	listHeight := max(height-PanelBorder-2, 1)

	title := "Requests"
	if projects := m.store.Projects(); len(projects) > 1 {
		title = fmt.Sprintf("Requests (%d projects)", len(projects))
	}
	lines := []string{styleTitle.Render(truncate(title, inner))}

	s := m.sidebar
	s.EnsureVisible(listHeight)
	rows := s.Rows()
	end := min(s.Offset()+listHeight, len(rows))
	for i := s.Offset(); i < end; i++ {
		lines = append(lines, m.renderSidebarRow(rows[i], i == s.Cursor(), inner))
	}
	if len(rows) == 0 {
		lines = append(lines, styleSubtle.Render("No matches"))
	}

	lines = fit(lines, listHeight+1)
	footer := fmt.Sprintf("[%d/%d]", min(s.Cursor()+1, len(rows)), len(rows))
	if f := s.Filter(); f != "" {
		footer = truncate("/"+f+" "+footer, inner)
	}
	lines = append(lines, styleSubtle.Render(footer))

	return box(strings.Join(lines, "\n"), width, height, m.focusedPanel == FocusSidebar)
}

func (m *Model) renderSidebarRow(row SidebarRow, selected bool, width int) string {
	var icon string
	switch {
	case row.Kind == storage.NodeRequest:
		icon = ""
	case row.Expanded:
		icon = "▾ "
	default:
		icon = "▸ "
	}

	indent := strings.Repeat("  ", max(row.Depth-1, 0))
	if row.Kind == storage.NodeProject {
		indent = ""
	}

	var method string
	if row.Kind == storage.NodeRequest {
		method = fmt.Sprintf("%-4s ", shortMethod(row.Method))
	}

	prefixWidth := runewidth.StringWidth(indent + icon + method)
	label := truncate(row.Label, width-prefixWidth)

	if selected {
		text := indent + icon + method + label
		pad := max(width-runewidth.StringWidth(text), 0)
		return styleSelected.Render(text + strings.Repeat(" ", pad))
	}

	if method != "" {
		method = methodStyle(row.Method).Render(method)
	}
	return indent + icon + method + highlightMatches(label, row.Matched)
}

// shortMethod abbreviates long method names for the sidebar
func shortMethod(method types.Method) string {
	switch method {
	case types.MethodDelete:
		return "DEL"
	case types.MethodOptions:
		return "OPT"
	case types.MethodPatch:
		return "PTCH"
	}
	return runewidth.Truncate(string(method), 4, "")
}

// highlightMatches styles the runes of label at the fuzzy match offsets
func highlightMatches(label string, matched []int) string {
	if len(matched) == 0 {
		return label
	}
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}
	var b strings.Builder
	for i, r := range []rune(label) {
		if hit[i] {
			b.WriteString(styleMatch.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// renderRequest renders the method line and the three fields
func (m *Model) renderRequest(width, height int) string {
	inner := width - PanelBorder
	innerHeight := height - PanelBorder
	focused := m.focusedPanel == FocusRequest

	name := m.requestName
	if name == "" {
		name = "Untitled"
	}
	if m.isDirty() {
		name += " *"
	}
	header := methodStyle(m.method).Render(string(m.method)) + " " + styleTitle.Render(truncate(name, inner-len(m.method)-1))

	lines := []string{header}

	// URL takes one row, the rest is split between headers and body
	avail := max(innerHeight-1-fieldCount-1, 2)
	headerRows := max(avail/3, 1)
	bodyRows := max(avail-headerRows, 1)
	heights := [fieldCount]int{1, headerRows, bodyRows}

	for i, f := range m.fields {
		label := f.Label
		if i == FieldBody && !m.method.SendsBody() {
			label += styleSubtle.Render(" (not sent with " + string(m.method) + ")")
		}
		labelStyle := styleSubtle
		if focused && i == m.fieldIndex {
			labelStyle = styleTitle
		}
		lines = append(lines, labelStyle.Render(f.Label)+strings.TrimPrefix(label, f.Label))
		lines = append(lines, fit(f.View(inner, heights[i]), heights[i])...)
	}

	return box(strings.Join(fit(lines, innerHeight), "\n"), width, height, focused)
}

// renderResponse renders the status line, tabs and the active view
func (m *Model) renderResponse(width, height int) string {
	inner := width - PanelBorder
	innerHeight := height - PanelBorder
	focused := m.focusedPanel == FocusResponse

	var lines []string
	switch {
	case m.loading:
		lines = append(lines, m.spinner.View()+" Sending...", styleSubtle.Render("esc or ctrl+x to cancel"))
		return box(strings.Join(fit(lines, innerHeight), "\n"), width, height, focused)

	case m.responseErr != nil:
		lines = append(lines, styleError.Render("Request failed"))

	case m.currentResponse == nil:
		lines = append(lines, styleSubtle.Render("No response yet"), "",
			styleSubtle.Render("Press "+m.keybinds.GetBindingString(keybinds.ContextGlobal, keybinds.ActionSend)+" to send the request"))
		return box(strings.Join(fit(lines, innerHeight), "\n"), width, height, focused)

	default:
		resp := m.currentResponse
		status := statusStyle(resp.Status).Render(fmt.Sprintf("%d %s", resp.Status, resp.StatusText))
		timing := styleSubtle.Render(fmt.Sprintf("  %s  %s",
			executor.FormatDuration(resp.Duration),
			humanize.Bytes(uint64(resp.ResponseSize))))
		lines = append(lines, status+timing)
	}

	lines = append(lines, m.renderTabs())

	view := m.bodyView
	if m.responseTab == tabHeaders {
		view = m.headerView
	}
	viewHeight := max(innerHeight-len(lines), 1)
	lines = append(lines, view.View(inner, viewHeight)...)

	return box(strings.Join(fit(lines, innerHeight), "\n"), width, height, focused)
}

func (m *Model) renderTabs() string {
	body, headers := styleSubtle.Render("Body"), styleSubtle.Render("Headers")
	if m.responseTab == tabBody {
		body = styleTitle.Render("Body")
	} else {
		headers = styleTitle.Render("Headers")
	}
	tabs := body + " | " + headers
	if m.currentResponse != nil && m.responseTab == tabHeaders {
		tabs += styleSubtle.Render(fmt.Sprintf(" (%d)", len(m.currentResponse.Headers)))
	}
	if m.responseFilter != "" {
		tabs += "  " + styleWarning.Render("filter: "+m.responseFilter)
	}
	if len(m.unresolved) > 0 {
		tabs += "  " + styleWarning.Render("unresolved: "+strings.Join(m.unresolved, ", "))
	}
	return tabs
}

// modeIndicator names what keys currently do
func (m *Model) modeIndicator() string {
	switch m.mode {
	case ModePrompt:
		return styleModeInsert.Render("PROMPT")
	case ModeConfirm:
		return styleModeVisual.Render("CONFIRM")
	}
	f := m.editingField()
	if f == nil {
		return styleModeNormal.Render(strings.ToUpper(m.focusedPanel.String()))
	}
	mode := f.Mode()
	label := strings.ToUpper(mode.String())
	switch mode.Kind {
	case vim.KindInsert:
		return styleModeInsert.Render(label)
	case vim.KindVisual, vim.KindOperatorPending:
		return styleModeVisual.Render(label)
	}
	return styleModeNormal.Render(label)
}

// renderStatusBar renders the status bar at the bottom
func (m *Model) renderStatusBar() string {
	left := m.modeIndicator()

	env := "no env"
	if e := m.activeEnvironment(); e != nil {
		env = e.Name
	}
	left += " " + styleSubtle.Render("env:") + env

	if warn, errs := logger.Counts(); warn+errs > 0 {
		left += " " + styleWarning.Render(fmt.Sprintf("⚠ %d", warn+errs))
	}

	right := ""
	switch m.mode {
	case ModePrompt:
		if m.prompt != nil {
			right = m.prompt.View()
		}
	case ModeConfirm:
		if m.confirm != nil {
			right = styleWarning.Render(m.confirm.question) + styleSubtle.Render(" [y/n]")
		}
	default:
		switch {
		case m.errorMsg != "":
			right = styleError.Render(m.errorMsg)
		case m.loading:
			right = m.spinner.View() + " " + m.statusMsg
		case m.statusMsg != "":
			right = m.statusMsg
		default:
			right = styleSubtle.Render("? for help | q to quit")
		}
	}

	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}
	return left + strings.Repeat(" ", spacing) + right
}

// renderHelp lists the key bindings of every context
func (m *Model) renderHelp() string {
	var lines []string
	for _, ctx := range keybinds.Contexts {
		bindings := m.keybinds.ListBindings(ctx)
		if len(bindings) == 0 {
			continue
		}
		lines = append(lines, styleTitle.Render(strings.ToUpper(string(ctx)[:1])+string(ctx)[1:]))

		seen := make(map[keybinds.Action]bool)
		for _, b := range bindings {
			if seen[b.Action] || b.Action == keybinds.ActionGoToTopPrepare || b.Action == keybinds.ActionNoOp {
				continue
			}
			seen[b.Action] = true
			keys := m.keybinds.GetBindingString(ctx, b.Action)
			lines = append(lines, fmt.Sprintf("  %-20s %s", keys, keybinds.GetActionInfo(b.Action).Description))
		}
		lines = append(lines, "")
	}

	lines = append(lines, styleTitle.Render("Editing a field"),
		"  esc                  Normal mode, esc again leaves the field",
		"  i a I A o O          Insert mode",
		"  v                    Visual mode",
		"  h j k l w b e 0 $    Motions (gg / G for top and bottom)",
		"  d c y + motion       Operators (dd, cc, yy for whole lines)",
		"  x X D C p u ctrl+r   Delete, change, paste, undo, redo",
		"  ctrl+d ctrl+u        Scroll half a page",
	)

	contentHeight := max(m.height-PanelBorder-4, 1)
	if m.helpOffset > len(lines)-contentHeight {
		m.helpOffset = max(len(lines)-contentHeight, 0)
	}
	visible := lines[m.helpOffset:min(m.helpOffset+contentHeight, len(lines))]

	content := styleTitle.Render("Keyboard Shortcuts") + "\n\n" +
		strings.Join(visible, "\n") + "\n" +
		styleSubtle.Render("j/k: scroll | esc/?: close")

	helpView := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(max(m.width-HelpWidthMargin, 20)).
		Padding(0, 2).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpView)
}
