package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// bindFunc registers a command's setting flags on fs, bound to the fields
// of one config section.
type bindFunc[T any] func(fs *pflag.FlagSet, section *T)

// applyFlags copies every flag the user set on cmd onto base, leaving the
// other fields as loaded from the config file.
//
// The command's own flags are bound to a scratch section, so their defaults
// only document the built-in values. Changed flags are replayed onto a
// second flag set bound to base.
func applyFlags[T any](cmd *cobra.Command, bind bindFunc[T], base *T) error {
	target := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	bind(target, base)

	var err error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		dst := target.Lookup(f.Name)
		if dst == nil {
			return
		}
		if src, ok := f.Value.(pflag.SliceValue); ok {
			if sv, ok := dst.Value.(pflag.SliceValue); ok {
				err = sv.Replace(src.GetSlice())
				return
			}
		}
		if setErr := target.Set(f.Name, f.Value.String()); setErr != nil {
			err = fmt.Errorf("--%s: %w", f.Name, setErr)
		}
	})
	return err
}
