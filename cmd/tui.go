// ABOUTME: TUI command for the todoctl CLI
// ABOUTME: Launches the interactive terminal UI with logging sent to a file

package cmd

import (
	"fmt"
	"os"

	"github.com/markalston/todoctl/internal/logger"
	"github.com/markalston/todoctl/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal UI",
	Long: `Open a full-screen terminal UI for signing in, managing your todos and,
for admins, managing users.

Logs are written to debug.log in the config directory while the UI is open.`,
	Run: func(cmd *cobra.Command, args []string) {
		if exitCode := runTUI(); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI() int {
	a, err := newApp()
	if err != nil {
		return fail(os.Stderr, err)
	}

	if err := logger.InitFile(a.cfg.ConfigDir, a.cfg.LogLevel, a.cfg.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logger.Close()

	if err := tui.Run(tui.Deps{Client: a.client, Store: a.store, Recent: a.recent}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}
