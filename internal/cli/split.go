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

func bindSplitFlags(fs *pflag.FlagSet, s *config.Split) {
	fs.StringVar(&s.ImageDir, "images", s.ImageDir, "directory of images")
	fs.StringVar(&s.LabelDir, "labels", s.LabelDir, "directory of YOLO label files")
	fs.StringVarP(&s.OutputDir, "output", "o", s.OutputDir, "root of the split dataset")
	fs.Float64VarP(&s.TrainRatio, "ratio", "r", s.TrainRatio, "fraction of pairs used for training")
	fs.Uint64Var(&s.Seed, "seed", s.Seed, "shuffle seed, 0 picks one from the clock")
	fs.StringVar(&s.ClassesFile, "classes", s.ClassesFile, "class map used to write data.yaml")
}

func newSplitCmd() *cobra.Command {
	flagged := config.DefaultSplit()

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split matched images and labels into train and val sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context()).Split
			if err := applyFlags(cmd, bindSplitFlags, &cfg); err != nil {
				return err
			}
			return runSplit(cmd.Context(), cfg)
		},
	}
	bindSplitFlags(cmd.Flags(), &flagged)
	return cmd
}

func runSplit(ctx context.Context, cfg config.Split) error {
	logger := loggerFromContext(ctx)

	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
		logger.Debug("no seed given, using clock", "seed", cfg.Seed)
	}
	s, err := dataset.NewSplitter(cfg, logger)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	stats, err := s.Run(ctx)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Split %d pairs", stats.Pairs))

	printSuccess("Split %s pairs", StyleNumber.Render(fmt.Sprint(stats.Pairs)))
	printStats(
		fmt.Sprintf("%d train", stats.Train),
		fmt.Sprintf("%d val", stats.Val),
	)
	printFile(cfg.OutputDir)
	if stats.DataYAML != "" {
		printFile(stats.DataYAML)
	} else {
		printNextStep("Write data.yaml too", "yolo-prep split --classes classes.txt")
	}
	return nil
}
