// Command nrbfdump decodes a .NET remoting binary stream and either
// dumps its record graph as text or reads a single value by path.
package main

import (
	"fmt"
	"os"

	"github.com/halvorsen/nrbf/cmd/nrbfdump/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
