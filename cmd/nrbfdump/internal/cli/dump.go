package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/halvorsen/nrbf"
	"github.com/halvorsen/nrbf/wire/dump"
)

var (
	dumpStyled bool
	dumpMmap   bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Decode a file and print its record graph as indented text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		path := args[0]

		var (
			d   *nrbf.Deserializer
			err error
		)
		if dumpMmap {
			d, err = nrbf.OpenMmap(ctx, path)
		} else {
			d, err = nrbf.OpenFile(ctx, path)
		}
		if err != nil {
			logger.Error("decode failed", zap.String("path", path), zap.Error(err))
			return err
		}

		logger.Debug("decoded streams", zap.Int("count", len(d.Streams)))

		if dumpStyled {
			return nrbf.DumpStyled(os.Stdout, d)
		}
		for _, s := range d.Streams {
			if err := dump.Write(os.Stdout, s); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpStyled, "styled", false, "apply ANSI styling to the dump")
	dumpCmd.Flags().BoolVar(&dumpMmap, "mmap", false, "memory-map the input file instead of streaming it through buffered reads")
	rootCmd.AddCommand(dumpCmd)
}
