// ABOUTME: Completion bar for lists of todos
// ABOUTME: Renders done/total as a filled bar with a count label

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBarConfig holds configuration for the completion bar
type ProgressBarConfig struct {
	Width       int
	FilledColor lipgloss.Color
	EmptyColor  lipgloss.Color
	ShowLabel   bool
}

// DefaultProgressBarConfig returns sensible defaults
func DefaultProgressBarConfig() ProgressBarConfig {
	return ProgressBarConfig{
		Width:       20,
		FilledColor: lipgloss.Color("#10B981"), // Green
		EmptyColor:  lipgloss.Color("#374151"), // Dark gray
		ShowLabel:   true,
	}
}

// CompletionBar renders done out of total. An empty list renders an empty bar.
func CompletionBar(done, total int, config ProgressBarConfig) string {
	if config.Width <= 0 {
		config.Width = 20
	}
	if done < 0 {
		done = 0
	}
	if done > total {
		done = total
	}

	filled := 0
	if total > 0 {
		filled = done * config.Width / total
	}

	filledStyle := lipgloss.NewStyle().Foreground(config.FilledColor)
	emptyStyle := lipgloss.NewStyle().Foreground(config.EmptyColor)

	var bar strings.Builder
	bar.WriteString("[")
	bar.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	bar.WriteString(emptyStyle.Render(strings.Repeat("░", config.Width-filled)))
	bar.WriteString("]")

	if config.ShowLabel {
		bar.WriteString(fmt.Sprintf(" %d/%d done", done, total))
	}
	return bar.String()
}
