package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/yolo-prep/internal/dataset"
	"github.com/ironsheep/yolo-prep/internal/imaging"
)

type previewOpts struct {
	label     string // label file; derived from the image path when empty
	output    string // output image; "<image>_preview.png" when empty
	thickness int
	noLabels  bool
}

func newPreviewCmd() *cobra.Command {
	opts := previewOpts{thickness: 2}

	cmd := &cobra.Command{
		Use:   "preview [image]",
		Short: "Draw a sample's YOLO boxes over its image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.label, "label", "l", "", "label file (default: images/ replaced by labels/, .txt extension)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output image (default: <image>_preview.png)")
	cmd.Flags().IntVar(&opts.thickness, "thickness", opts.thickness, "box outline width in pixels")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit class ids")
	return cmd
}

// previewPath derives the default preview file name for an image.
func previewPath(image string) string {
	return strings.TrimSuffix(image, filepath.Ext(image)) + "_preview.png"
}

func runPreview(ctx context.Context, image string, opts previewOpts) error {
	logger := loggerFromContext(ctx)

	label := opts.label
	if label == "" {
		label = dataset.LabelPathFor(image)
	}
	out := opts.output
	if out == "" {
		out = previewPath(image)
	}
	logger.Debug("preview", "image", image, "label", label)

	n, err := dataset.Preview(image, label, out, imaging.OverlayOptions{
		Thickness:  opts.thickness,
		ShowLabels: !opts.noLabels,
	})
	if err != nil {
		return err
	}

	printSuccess("Drew %s boxes", StyleNumber.Render(fmt.Sprint(n)))
	printFile(out)
	return nil
}
