package main

import (
	"fmt"
	"os"

	"github.com/aretw0/aerosim/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aerosim",
	Short: "AeroSim is an aircraft state automaton simulator",
	Long: `AeroSim models an aircraft as a deterministic finite automaton with five states
(ON_GROUND, TAKING_OFF, IN_FLIGHT, LANDING, EMERGENCY). Feed it symbols from
the REPL, the HTTP API or an MCP client and watch which transitions are accepted.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default ./"+config.DefaultPath+" if present)")
	rootCmd.PersistentFlags().String("variant", "", "Alphabet variant: named, binary, direct or a custom table")
	rootCmd.PersistentFlags().String("store", "", "Session store: memory or redis")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("debug", false, "Shorthand for --log-level=debug")
}

// loadConfig reads file and environment settings, then applies flags set on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cmd.Context(), path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("variant") {
		cfg.Variant, _ = cmd.Flags().GetString("variant")
	}
	if cmd.Flags().Changed("store") {
		cfg.Store, _ = cmd.Flags().GetString("store")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Log.Level = "debug"
	}
	return cfg, cfg.Validate()
}
