// Command claimcheck searches published fact checks for a claim or topic.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/claimcheck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// the error response has already been printed
		if !errors.Is(err, cli.ErrQueryFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
