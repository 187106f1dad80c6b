package main

import (
	"context"
	"fmt"

	"github.com/aretw0/aerosim/internal/cli"
	"github.com/aretw0/aerosim/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var alphabetCmd = &cobra.Command{
	Use:   "alphabet",
	Short: "Show the alphabet and transition table of a variant",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg.Log.Level = "off"
		rt, err := cli.NewRuntime(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		if list, _ := cmd.Flags().GetBool("list"); list {
			for _, name := range rt.Sim.Variants() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}

		md := tui.AlphabetMarkdown(rt.Sim.Table())
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		out, err := tui.NewRenderer(80)(md)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(alphabetCmd)
	alphabetCmd.Flags().Bool("list", false, "List variant names only")
	alphabetCmd.Flags().Bool("raw", false, "Print markdown without rendering")
}
