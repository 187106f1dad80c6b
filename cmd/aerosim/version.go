package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/aerosim"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of aerosim",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "aerosim version %s\n", strings.TrimSpace(aerosim.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
