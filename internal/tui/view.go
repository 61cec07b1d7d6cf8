// ABOUTME: Rendering for the TUI: screens, banner line and the header/footer frame
// ABOUTME: The frame shows the signed-in account and per-screen key hints

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/todoctl/internal/tui/icons"
	"github.com/markalston/todoctl/internal/tui/styles"
	"github.com/markalston/todoctl/internal/tui/widgets"
)

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin, ScreenRegister:
		content = a.viewForm()
	case ScreenTodos:
		content = a.viewTodos()
	case ScreenAdmin:
		content = a.viewAdmin()
	case ScreenUserTodos:
		content = a.viewUserTodos()
	default:
		content = a.viewForm()
	}

	return a.wrapWithFrame(a.renderBanner() + content)
}

// viewForm renders the login or register form
func (a *App) viewForm() string {
	if a.form == nil {
		return ""
	}
	body := a.form.View()
	if a.loading {
		body += "\n" + styles.Subtitle.Render("Signing in...")
	}
	return styles.Panel.Render(body)
}

// viewTodos renders the signed-in user's todos
func (a *App) viewTodos() string {
	body := a.todoList.View()
	if a.loading && len(a.todoList.Items()) == 0 {
		body += styles.Subtitle.Render("Loading...")
	}
	return styles.ActivePanel.Width(a.contentWidth()).Render(body)
}

// viewAdmin renders the user list
func (a *App) viewAdmin() string {
	body := a.userList.View()
	if a.loading && len(a.userList.Users()) == 0 {
		body += styles.Subtitle.Render("Loading...")
	}
	return styles.ActivePanel.Width(a.contentWidth()).Render(body)
}

// viewUserTodos renders another user's todos
func (a *App) viewUserTodos() string {
	if a.userTodos == nil {
		return ""
	}
	body := a.userTodos.View()
	if a.loading && len(a.userTodos.Items()) == 0 {
		body += styles.Subtitle.Render("Loading...")
	}
	return styles.Panel.Width(a.contentWidth()).Render(body)
}

// renderBanner renders the pending confirmation or the last message, if any
func (a *App) renderBanner() string {
	if prompt := a.confirmPrompt(); prompt != "" {
		return styles.ConfirmBanner.Render(icons.Delete.String()+" "+prompt) + "\n"
	}

	switch a.bannerLevel {
	case bannerError:
		return widgets.StatusText(a.banner, widgets.StatusCritical) + "\n"
	case bannerNotice:
		return widgets.StatusText(a.banner, widgets.StatusOK) + "\n"
	}
	return ""
}

func (a *App) confirmPrompt() string {
	switch a.screen {
	case ScreenTodos:
		return a.todoList.ConfirmPrompt()
	case ScreenAdmin:
		return a.userList.ConfirmPrompt()
	}
	return ""
}

// frameWidth is the terminal width less one column, so the right border
// never wraps, clamped to a usable minimum
func (a *App) frameWidth() int {
	width := a.width - 1
	if width < minTerminalWidth {
		width = minTerminalWidth
	}
	return width
}

// contentWidth is the width available inside a panel
func (a *App) contentWidth() int {
	return a.frameWidth() - panelPadding
}

// contentHeight calculates the height available for list content
func (a *App) contentHeight() int {
	// Header, banner, panel border and padding, footer
	return a.height - 8
}

// renderHeader creates the header with the app title and signed-in account
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("todoctl"))

	rightText := ""
	if a.guard.IsAuthenticated() {
		if user, ok := a.guard.CurrentUser(); ok {
			rightText = " " + contextStyle.Render(user.Email) + " " + widgets.RoleBadge(user) + " "
		}
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	return borderStyle.Render("╭─") + leftText +
		borderStyle.Render(strings.Repeat("─", fillWidth)) +
		rightText + borderStyle.Render("─╮")
}

// shortcuts lists the key hints for the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenLogin:
		return []string{"Enter Submit", "ctrl+n Register", "Esc Quit"}
	case ScreenRegister:
		return []string{"Enter Submit", "ctrl+n Sign-in", "Esc Back"}
	case ScreenTodos:
		if a.todoList.Capturing() {
			if a.todoList.ConfirmPrompt() != "" {
				return []string{"y Confirm", "n Cancel"}
			}
			if a.todoList.EditingDescription() {
				return []string{"Enter Save", "Tab Title", "Esc Cancel"}
			}
			return []string{"Enter Save", "Tab Description", "Esc Cancel"}
		}
		hints := []string{"a Add", "x Toggle", "d Delete", "r Refresh"}
		if a.guard.IsPrivileged() {
			hints = append(hints, "u Users")
		}
		return append(hints, "o Logout", "q Quit")
	case ScreenAdmin:
		if a.userList.Capturing() {
			return []string{"y Confirm", "n Cancel"}
		}
		return []string{"Enter Todos", "a Role", "d Delete", "r Refresh", "b Back", "q Quit"}
	case ScreenUserTodos:
		return []string{"r Refresh", "b Back", "q Quit"}
	}
	return nil
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ") + " "

	// Right side status (last update time)
	rightText := ""
	if a.loading {
		rightText = " " + statusStyle.Render(icons.Refresh.String()+" Loading") + " "
	} else if !a.lastUpdate.IsZero() && a.screen != ScreenLogin && a.screen != ScreenRegister {
		rightText = " " + statusStyle.Render("Updated "+formatTimeSince(a.lastUpdate)) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	if leftWidth+rightWidth+4 > width {
		// Key hints win over the status on narrow terminals
		rightText = ""
		rightWidth = 0
	}
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	return borderStyle.Render("╰─") + leftText +
		borderStyle.Render(strings.Repeat("─", fillWidth)) +
		rightText + borderStyle.Render("─╯")
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}

	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}
