// Woodshop chat CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/bentsww/woodshop/cmd/chat/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
