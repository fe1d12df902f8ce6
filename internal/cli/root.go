// Package cli implements the yolo-prep command-line interface.
//
// # Commands
//
//   - binarize: grayscale, resize and threshold a directory of images
//   - generate: build a synthetic YOLO dataset from a catalog of sources
//   - split: copy an image/label corpus into train and val subsets
//   - preview: draw a label file's boxes over its image
//   - serve: expose the same jobs as MCP tools on stdin/stdout
//
// # Configuration
//
// Settings come from config.Default(), then the TOML file named by
// --config, then any flag given on the command line.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// and the loaded configuration travel through context.Context.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/yolo-prep/internal/config"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
// The main package calls it with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the CLI until the command finishes or ctx is cancelled.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "yolo-prep",
		Short:        "Prepare YOLO object-detection datasets",
		Long:         `yolo-prep binarizes image folders, generates synthetic layouts with YOLO labels, and splits labeled corpora into train/val sets.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level)

			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
				logger.Debug("config loaded", "path", configPath)
			}

			ctx := withConfig(withLogger(cmd.Context(), logger), cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("yolo-prep %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML config file")

	root.AddCommand(newBinarizeCmd())
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newSplitCmd())
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newServeCmd())

	return root
}
