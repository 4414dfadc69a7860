// cmd/support-menu/main.go
//
// Entry point for the support-menu CLI. Running it with no arguments opens
// the terminal menu; subcommands print, resolve, open or serve the menu.

package main

import (
	"os"

	"github.com/kingrea/support-menu/cmd/support-menu/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
