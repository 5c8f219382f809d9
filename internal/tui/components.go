package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderHeader returns a consistently styled header with an optional muted subtitle.
// Width is used to guide truncation via helpers.
func renderHeader(title, subtitle string, width int) string {
	title = truncateEnd(title, width-2)
	subtitle = truncateEnd(subtitle, width-2)
	rows := []string{HeaderStyle.Render(title)}
	if subtitle != "" {
		rows = append(rows, renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded bordered container around a rendered input view.
func renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

// renderCentered centers the provided content within the given width/height box.
func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

func renderHelp(text string) string {
	return HelpStyle.Render(text)
}

// renderTabs draws the downloads/media switcher.
func renderTabs(active View, downloads, media int) string {
	tab := func(v View, label string) string {
		if v == active {
			return ActiveTabStyle.Render(label)
		}
		return InactiveTabStyle.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		tab(ViewDownloads, "Downloads ("+itoa(downloads)+")"),
		" ",
		tab(ViewMedia, "Media ("+itoa(media)+")"),
	)
}

// renderCheckbox renders a tri-state box with an optional cursor marker.
func renderCheckbox(state string, label string, cursor bool) string {
	marker := "  "
	if cursor {
		marker = CursorStyle.Render("› ")
		return marker + CursorStyle.Render(state) + " " + ModalTextStyle.Render(label)
	}
	return marker + state + " " + ModalTextStyle.Render(label)
}
