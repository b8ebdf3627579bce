package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/gatecharter/internal/graph"
	"github.com/jask/gatecharter/internal/prefs"
)

// minListRows is the node list height before the first WindowSizeMsg.
const minListRows = 10

func (a App) View() string {
	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	switch a.mode {
	case modeSearch, modeOpen:
		b.WriteString(a.renderPicker())
	case modePrompt:
		b.WriteString(modalStyle.Render(a.input.View()))
	case modeSettings:
		b.WriteString(a.renderSettings())
	default:
		b.WriteString(a.renderNodes())
	}
	b.WriteString("\n")
	b.WriteString(a.renderStatus())
	b.WriteString("\n")
	b.WriteString(a.help.View(a.keys))
	return b.String()
}

func (a App) renderHeader() string {
	g := a.sess.Graph
	parts := []string{
		"gatecharter",
		a.sessionName,
		fmt.Sprintf("%d nodes", g.NodeCount()),
		fmt.Sprintf("%d connections", g.ConnectionCount()),
	}
	if disabled := g.DisabledTypes().Strings(); len(disabled) > 0 {
		parts = append(parts, "off: "+strings.Join(disabled, ","))
	}
	return headerStyle.Render(strings.Join(parts, " · "))
}

func (a App) listRows() int {
	// header, status and help lines
	if rows := a.height - 4; rows > 0 {
		return rows
	}
	return minListRows
}

func (a App) renderNodes() string {
	nodes := a.sess.Graph.Nodes()
	if len(nodes) == 0 {
		return mutedStyle.Render("No gates placed. Press a to add the first one.")
	}

	cur := 0
	for i, n := range nodes {
		if n.Name == a.current {
			cur = i
			break
		}
	}
	rows := a.listRows()
	start := 0
	if cur >= rows {
		start = cur - rows + 1
	}
	end := min(start+rows, len(nodes))

	lines := make([]string, 0, end-start)
	for _, n := range nodes[start:end] {
		lines = append(lines, a.renderNode(n))
	}
	return strings.Join(lines, "\n")
}

func (a App) renderNode(n *graph.Node) string {
	cursor := "  "
	if n.Name == a.current {
		cursor = cursorStyle.Render("> ")
	}
	mark := " "
	if a.sess.Selection.IsSelected(n.Name) {
		mark = selectedStyle.Render("*")
	}

	name := rowStyle.Render(n.Name)
	kind := string(n.Gate.Type)
	if n.Kind == graph.KindGroup {
		name = groupStyle.Render(n.Name)
		kind = fmt.Sprintf("group of %d", len(n.Group.Members))
	}
	line := fmt.Sprintf("%s%s %-28s %-16s (%6.2f, %6.2f)  %d links",
		cursor, mark, name, mutedStyle.Render(kind), n.Position.X, n.Position.Z, n.ConnectionCount())
	if !n.Expanded {
		line += " " + pendingStyle.Render("[objective pending]")
	}
	return line
}

func (a App) renderPicker() string {
	p := a.picker
	if p == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(sectionStyle.Render(p.Title()))
	b.WriteString("\n> " + p.Query())
	if p.Approximate() {
		b.WriteString(mutedStyle.Render("  (closest matches)"))
	}

	items := p.Items()
	if len(items) == 0 {
		b.WriteString("\n" + mutedStyle.Render("No matches"))
		return modalStyle.Render(b.String())
	}
	rows := a.listRows() - 2
	start := 0
	if p.Cursor() >= rows {
		start = p.Cursor() - rows + 1
	}
	section := ""
	for i := start; i < len(items) && i < start+rows; i++ {
		it := items[i]
		if it.Section != section || i == start {
			section = it.Section
			b.WriteString("\n" + sectionStyle.Render(section))
		}
		line := "  " + it.Name
		if i == p.Cursor() {
			line = cursorStyle.Render("> " + it.Name)
		}
		b.WriteString("\n" + line)
	}
	return modalStyle.Render(b.String())
}

func (a App) renderSettings() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Gate types for the next session"))
	for i, t := range prefs.ToggleTypes {
		box := "[x]"
		if a.settings.disabled.Has(t) {
			box = "[ ]"
		}
		line := fmt.Sprintf("  %s %s", box, t)
		if i == a.settings.cursor {
			line = cursorStyle.Render(fmt.Sprintf("> %s %s", box, t))
		}
		b.WriteString("\n" + line)
	}
	b.WriteString("\n\n" + mutedStyle.Render("space toggle · p next preset · enter start new session · esc back"))
	return modalStyle.Render(b.String())
}

func (a App) renderStatus() string {
	if a.status == "" {
		return ""
	}
	style := statusBarStyle
	if a.statusErr {
		style = statusErrBarStyle
	}
	return style.Width(max(a.width, lipgloss.Width(a.status)+2)).Render(a.status)
}
