// cibuild - builds composite capability types at runtime and calls
// their synthesized methods.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cibuild/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "cibuild: %v\n", err)
		os.Exit(1)
	}
}
