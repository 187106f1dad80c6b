package main

import (
	"context"
	"os"

	"github.com/aretw0/aerosim/internal/cli"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Fly the aircraft interactively",
	Long: `Starts a REPL on a simulator session. Type one symbol per line; commands
start with ':' (:history, :reset, :alphabet, :graph, :help, :quit).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// Keep the terminal for the simulator unless logs were asked for.
		if !cmd.Flags().Changed("log-level") && cfg.Log.Level != "debug" {
			cfg.Log.Level = "warn"
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		rt, err := cli.NewRuntime(sigCtx, cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		sessionID, _ := cmd.Flags().GetString("session")
		markdown, _ := cmd.Flags().GetBool("markdown")
		interactive := cli.IsTerminal(os.Stdin) && cli.IsTerminal(os.Stdout)

		err = cli.RunPlay(sigCtx, rt.Sim, cli.PlayOptions{
			SessionID:   sessionID,
			In:          os.Stdin,
			Out:         cmd.OutOrStdout(),
			Interactive: interactive,
			Markdown:    markdown || interactive,
		})
		return cli.HandleExecutionError(err)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringP("session", "s", "local", "Session ID (resumed when the store already has it)")
	playCmd.Flags().Bool("markdown", false, "Render history and alphabet tables with glamour")
}
