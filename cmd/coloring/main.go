package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		// Interrupted runs have already logged run_interrupted.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "coloring: %v\n", err)
		}
		os.Exit(1)
	}
}
