package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmaslen/gpiopress/config"
)

// validateCmd validates a config file without touching any hardware.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a gpiopress configuration file without starting the
controller or touching any hardware.

This command parses the YAML and validates all fields. It's useful for
CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  gpiopress validate -c buttons.yaml
  gpiopress validate --config /etc/gpiopress/buttons.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Count total buttons (direct + from groups)
	directButtons := len(cfg.Buttons)
	groupButtons := 0
	for _, g := range cfg.Groups {
		groupButtons += len(g.Pins)
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Driver:        %s\n", cfg.Driver)
	fmt.Printf("  Poll interval: %s\n", cfg.PollInterval.Duration())
	fmt.Printf("  Buttons:       %d direct + %d from groups = %d total\n",
		directButtons, groupButtons, directButtons+groupButtons)

	return nil
}
