package main

import (
	"context"
	"fmt"

	"github.com/aretw0/aerosim/internal/cli"
	"github.com/aretw0/aerosim/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the automaton as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of the transition table. With --session the diagram highlights the session's path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		rt, err := cli.NewRuntime(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		table := rt.Sim.Table()
		var overlay *graph.GraphOverlay
		if id, _ := cmd.Flags().GetString("session"); id != "" {
			snap, err := rt.Sim.View(cmd.Context(), id)
			if err != nil {
				return err
			}
			if table, err = rt.Sim.LoadTable(snap.Variant); err != nil {
				return err
			}
			overlay = graph.OverlayFromSnapshot(snap)
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(table, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Overlay the path of this session")
}
