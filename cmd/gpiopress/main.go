// Package main is the entry point for the gpiopress CLI.
//
// gpiopress can be used either as a library (SDK) or as a standalone
// binary with YAML configuration. This CLI provides the standalone
// binary approach.
//
// Usage:
//
//	gpiopress watch -c buttons.yaml    # Run the controller, log events
//	gpiopress validate -c buttons.yaml # Validate configuration
//	gpiopress version                  # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "gpiopress",
	Short: "Button events from Raspberry Pi GPIO pins",
	Long: `gpiopress watches buttons wired to GPIO pins and turns the raw
signal into semantic events: press, release, click, double click and
long press.

Quick start:
  1. Create a config file (buttons.yaml)
  2. Run: gpiopress watch -c buttons.yaml
  3. Press your buttons; events are logged as JSON

Example config:
  driver: gpiocdev
  buttons:
    - pin: 17
      name: red
      input: active_low
      pull: up`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this gpiopress binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gpiopress %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
