package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ironsheep/yolo-prep/internal/config"
	"github.com/ironsheep/yolo-prep/internal/dataset"
)

func bindGenerateFlags(fs *pflag.FlagSet, g *config.Generate) {
	fs.StringVarP(&g.DatasetPath, "dataset", "d", g.DatasetPath, "directory of source images, one class per file")
	fs.StringVarP(&g.OutputPath, "output", "o", g.OutputPath, "output directory")
	fs.IntVar(&g.CanvasWidth, "width", g.CanvasWidth, "canvas width in pixels")
	fs.IntVar(&g.CanvasHeight, "height", g.CanvasHeight, "canvas height in pixels")
	fs.IntVarP(&g.NumSamples, "samples", "n", g.NumSamples, "number of samples to generate")
	fs.IntVar(&g.MinObjects, "min-objects", g.MinObjects, "minimum objects per sample")
	fs.IntVar(&g.MaxObjects, "max-objects", g.MaxObjects, "maximum objects per sample")
	fs.Float64Var(&g.ScaleMin, "scale-min", g.ScaleMin, "minimum scale factor")
	fs.Float64Var(&g.ScaleMax, "scale-max", g.ScaleMax, "maximum scale factor")
	fs.StringArrayVar(&g.BackgroundColors, "background", g.BackgroundColors, "background color, hex or R,G,B (repeatable)")
	fs.Float64Var(&g.MaxIoU, "max-iou", g.MaxIoU, "largest IoU allowed between placed boxes")
	fs.IntVar(&g.MaxAttempts, "max-attempts", g.MaxAttempts, "placement attempts per object")
	fs.StringVar(&g.ClassMapFile, "classes", g.ClassMapFile, "class map file name, written under the output directory")
	fs.StringVar(&g.FilePrefix, "prefix", g.FilePrefix, "sample file name prefix")
	fs.IntVar(&g.JPEGQuality, "quality", g.JPEGQuality, "JPEG quality (1-100)")
	fs.BoolVar(&g.TrimSources, "trim", g.TrimSources, "crop source margins before placement")
	fs.IntVar(&g.TrimTolerance, "trim-tolerance", g.TrimTolerance, "gray levels treated as margin when trimming")
	fs.Uint64Var(&g.Seed, "seed", g.Seed, "random seed, 0 picks one from the clock")
	fs.IntVarP(&g.Workers, "workers", "w", g.Workers, "samples generated in parallel")
	fs.BoolVar(&g.Augment.Enabled, "augment", g.Augment.Enabled, "augment sources before placement")
}

func newGenerateCmd() *cobra.Command {
	flagged := config.DefaultGenerate()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic dataset with YOLO labels",
		Long: `Generate composes random layouts of catalog images on solid backgrounds.
Each source file is one class, named after the file. Objects are scaled,
augmented and placed so that no two boxes overlap beyond --max-iou.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context()).Generate
			if err := applyFlags(cmd, bindGenerateFlags, &cfg); err != nil {
				return err
			}
			return runGenerate(cmd.Context(), cfg)
		},
	}
	bindGenerateFlags(cmd.Flags(), &flagged)
	return cmd
}

func runGenerate(ctx context.Context, cfg config.Generate) error {
	logger := loggerFromContext(ctx)

	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
		logger.Info("no seed given, using clock", "seed", cfg.Seed)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	catalog, err := dataset.LoadCatalog(cfg.DatasetPath)
	if err != nil {
		return err
	}
	gen, err := dataset.NewGenerator(cfg, catalog, dataset.WithLogger(logger))
	if err != nil {
		return err
	}

	logger.Infof("Generating %d samples into %s", cfg.NumSamples, cfg.OutputPath)
	prog := newProgress(logger)
	stats, err := gen.Run(ctx)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d samples", stats.Written))

	printSuccess("Generated %s samples", StyleNumber.Render(fmt.Sprint(stats.Written)))
	printStats(
		fmt.Sprintf("%d objects", stats.Placed),
		fmt.Sprintf("%d dropped", stats.Dropped),
		fmt.Sprintf("%d classes", catalog.Labels.Len()),
	)
	printKeyValue("seed", fmt.Sprint(cfg.Seed))
	if stats.Empty > 0 {
		printWarning("%d samples had no room for any object and were skipped", stats.Empty)
	}
	if stats.Failed > 0 {
		printWarning("%d samples could not be written", stats.Failed)
	}
	printFile(cfg.OutputPath)
	printNextStep("Split into train/val", "yolo-prep split --images "+cfg.OutputPath+"/images --labels "+cfg.OutputPath+"/labels")
	return nil
}
