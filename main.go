// ABOUTME: Entry point for the todoctl CLI
// ABOUTME: Command-line and terminal UI client for the todo service

package main

import (
	"fmt"
	"os"

	"github.com/markalston/todoctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
