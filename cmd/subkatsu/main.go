package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"subkatsu/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			printError(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

// printError reports the outermost error followed by each distinct cause.
func printError(w io.Writer, err error) {
	chain := services.Chain(err)
	if len(chain) == 0 {
		return
	}
	fmt.Fprintf(w, "Encountered error: %v\n", chain[0])
	for _, cause := range chain[1:] {
		fmt.Fprintf(w, "  Underlying error: %v\n", cause)
	}
}
