package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ironsheep/yolo-prep/internal/config"
	"github.com/ironsheep/yolo-prep/internal/dataset"
	"github.com/ironsheep/yolo-prep/internal/imaging"
)

func bindBinarizeFlags(fs *pflag.FlagSet, b *config.Binarize) {
	methods := make([]string, len(imaging.ThresholdMethods))
	for i, m := range imaging.ThresholdMethods {
		methods[i] = string(m)
	}

	fs.StringVarP(&b.InputDir, "input", "i", b.InputDir, "directory of source images")
	fs.StringVarP(&b.OutputDir, "output", "o", b.OutputDir, "directory for binarized images")
	fs.IntVarP(&b.Threshold, "threshold", "t", b.Threshold, "gray level threshold (0-255)")
	fs.StringVarP(&b.Method, "method", "m", b.Method, "threshold method: "+strings.Join(methods, ", "))
	fs.IntVarP(&b.Size, "size", "s", b.Size, "square output size in pixels, 0 keeps the source size")
}

func newBinarizeCmd() *cobra.Command {
	flagged := config.DefaultBinarize()

	cmd := &cobra.Command{
		Use:   "binarize",
		Short: "Convert a folder of images to fixed-size binary images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context()).Binarize
			if err := applyFlags(cmd, bindBinarizeFlags, &cfg); err != nil {
				return err
			}
			return runBinarize(cmd.Context(), cfg)
		},
	}
	bindBinarizeFlags(cmd.Flags(), &flagged)
	return cmd
}

func runBinarize(ctx context.Context, cfg config.Binarize) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Binarizing %s", cfg.InputDir)

	prog := newProgress(logger)
	stats, err := dataset.BinarizeDir(ctx, cfg, logger)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Binarized %d images", stats.Written))

	printSuccess("Binarized %s", StyleNumber.Render(fmt.Sprint(stats.Written))+" images")
	printKeyValue("threshold", fmt.Sprintf("%d (%s)", cfg.Threshold, cfg.Method))
	if cfg.Size > 0 {
		printKeyValue("size", fmt.Sprintf("%dx%d", cfg.Size, cfg.Size))
	}
	if stats.Skipped > 0 {
		printWarning("%d of %d files skipped", stats.Skipped, stats.Found)
	}
	printFile(cfg.OutputDir)
	return nil
}
