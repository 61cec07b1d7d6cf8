// ABOUTME: Badge widgets for quick visual status indication
// ABOUTME: Role badges for accounts and colored inline status text

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/todoctl/internal/models"
	"github.com/markalston/todoctl/internal/tui/icons"
	"github.com/markalston/todoctl/internal/tui/styles"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// Badge colors
var (
	BadgeOKBg      = styles.Secondary
	BadgeOKFg      = lipgloss.Color("#FFFFFF")
	BadgeWarnBg    = styles.Warning
	BadgeWarnFg    = lipgloss.Color("#000000")
	BadgeCritBg    = styles.Danger
	BadgeCritFg    = lipgloss.Color("#FFFFFF")
	BadgeInfoBg    = styles.Info
	BadgeInfoFg    = lipgloss.Color("#FFFFFF")
	BadgeNeutralBg = styles.Muted
	BadgeNeutralFg = lipgloss.Color("#FFFFFF")
)

func levelColors(level StatusLevel) (bg, fg lipgloss.Color) {
	switch level {
	case StatusOK:
		return BadgeOKBg, BadgeOKFg
	case StatusWarning:
		return BadgeWarnBg, BadgeWarnFg
	case StatusCritical:
		return BadgeCritBg, BadgeCritFg
	case StatusInfo:
		return BadgeInfoBg, BadgeInfoFg
	default:
		return BadgeNeutralBg, BadgeNeutralFg
	}
}

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	bg, fg := levelColors(level)

	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true)

	return style.Render(text)
}

// RoleBadge renders ADMIN or USER for an account
func RoleBadge(user models.User) string {
	if user.IsAdmin {
		return Badge(icons.Admin.String()+" ADMIN", StatusWarning)
	}
	return Badge(icons.User.String()+" USER", StatusInfo)
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	bg, _ := levelColors(level)
	style := lipgloss.NewStyle().Foreground(bg)

	switch level {
	case StatusOK:
		return style.Render(icons.CheckOK.String())
	case StatusWarning:
		return style.Render(icons.Warning.String())
	case StatusCritical:
		return style.Render(icons.Critical.String())
	case StatusInfo:
		return style.Render(icons.Info.String())
	default:
		return style.Render("•")
	}
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	bg, _ := levelColors(level)
	textStyle := lipgloss.NewStyle().Foreground(bg)
	return fmt.Sprintf("%s %s", StatusIcon(level), textStyle.Render(text))
}
