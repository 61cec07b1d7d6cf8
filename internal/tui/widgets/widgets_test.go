// ABOUTME: Tests for badge and completion bar widgets
// ABOUTME: Checks labels and bar fill against counts

package widgets

import (
	"strings"
	"testing"

	"github.com/markalston/todoctl/internal/models"
	"github.com/markalston/todoctl/internal/tui/icons"
)

func TestRoleBadge(t *testing.T) {
	if got := RoleBadge(models.User{IsAdmin: true}); !strings.Contains(got, icons.Admin.String()+" ADMIN") {
		t.Errorf("expected ADMIN badge with shield, got %q", got)
	}
	if got := RoleBadge(models.User{}); !strings.Contains(got, icons.User.String()+" USER") {
		t.Errorf("expected USER badge with account icon, got %q", got)
	}
}

func TestCompletionBar(t *testing.T) {
	tests := []struct {
		name       string
		done       int
		total      int
		wantFilled int
		wantLabel  string
	}{
		{"empty list", 0, 0, 0, "0/0 done"},
		{"none done", 0, 4, 0, "0/4 done"},
		{"half done", 2, 4, 5, "2/4 done"},
		{"all done", 4, 4, 10, "4/4 done"},
		{"clamped", 7, 4, 10, "4/4 done"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultProgressBarConfig()
			cfg.Width = 10
			bar := CompletionBar(tc.done, tc.total, cfg)

			if got := strings.Count(bar, "█"); got != tc.wantFilled {
				t.Errorf("expected %d filled cells, got %d", tc.wantFilled, got)
			}
			if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != 10 {
				t.Errorf("expected 10 cells, got %d", got)
			}
			if !strings.HasSuffix(bar, tc.wantLabel) {
				t.Errorf("expected label %q, got %q", tc.wantLabel, bar)
			}
		})
	}
}
