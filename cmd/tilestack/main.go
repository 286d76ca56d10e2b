// Command tilestack runs the raster tile compositing server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tilestack-labs/tilestack/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
