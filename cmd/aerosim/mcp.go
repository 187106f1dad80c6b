package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/aerosim"
	"github.com/aretw0/aerosim/internal/cli"
	"github.com/aretw0/aerosim/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the simulator as an MCP Server, so AI agents can fly sessions through tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		rt, err := cli.NewRuntime(sigCtx, cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		srv := mcp.NewServer(rt.Sim, aerosim.Version, mcp.WithLogger(rt.Logger))

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			rt.Logger.Info("Starting AeroSim MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			return srv.ServeSSE(sigCtx, port)
		default:
			return fmt.Errorf("unknown transport %q (want stdio or sse)", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("transport", "t", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().IntP("port", "p", 8080, "Port for the sse transport")
}
