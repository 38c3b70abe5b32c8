package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/halvorsen/nrbf"
)

var getCmd = &cobra.Command{
	Use:   "get <file> <path>",
	Short: "Decode a file and print the value at a symbolic path",
	Long: `get navigates "<stream>/<class>/<member>/..." down to a scalar,
string, or array and prints its value. Member segments beginning with a
decimal digit are treated as array indices.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		file, path := args[0], args[1]

		d, err := nrbf.OpenFile(ctx, file)
		if err != nil {
			logger.Error("decode failed", zap.String("path", file), zap.Error(err))
			return err
		}

		acc, err := nrbf.Get(d, path)
		if err != nil {
			return fmt.Errorf("resolve %q: %w", path, err)
		}

		if acc.IsNull() {
			fmt.Println("null")
			return nil
		}

		if s, err := acc.String(); err == nil {
			fmt.Println(s)
			return nil
		}
		if f, err := acc.Double(); err == nil {
			fmt.Println(f)
			return nil
		}
		if i, err := acc.Int64(); err == nil {
			fmt.Println(i)
			return nil
		}
		if b, err := acc.Bool(); err == nil {
			fmt.Println(b)
			return nil
		}
		if t, err := acc.DateTime(); err == nil {
			fmt.Println(t)
			return nil
		}
		if a, err := acc.BoolArray(); err == nil {
			fmt.Println(a)
			return nil
		}
		if a, err := acc.Int32Array(); err == nil {
			fmt.Println(a)
			return nil
		}
		if a, err := acc.DoubleArray(); err == nil {
			fmt.Println(a)
			return nil
		}
		if a, err := acc.StringArray(); err == nil {
			fmt.Println(a)
			return nil
		}
		if a, err := acc.ObjectArray(); err == nil {
			fmt.Printf("<object array, length %d>\n", len(a))
			return nil
		}
		if n, err := acc.Len(); err == nil {
			fmt.Printf("<array or object, length %d>\n", n)
			return nil
		}

		return fmt.Errorf("value at %q has no printable representation", path)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
