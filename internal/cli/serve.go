package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/yolo-prep/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dataset tools over MCP on stdin/stdout",
		Long: `Serve runs a Model Context Protocol server on stdin/stdout so an MCP client
can call the generate, split, binarize and preview jobs as tools. Tool
arguments override the loaded configuration per call. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			logger.Debug("mcp server starting", "version", version)

			srv := server.New(configFromContext(ctx), logger, version)
			return srv.Run(ctx, os.Stdin, os.Stdout)
		},
	}
}
