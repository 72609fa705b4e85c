// Command nova is the Nova compiler front end's CLI entry point.
package main

import (
	"os"

	"github.com/novaforge/nova/cmd/nova/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
