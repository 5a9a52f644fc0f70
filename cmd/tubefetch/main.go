package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tubefetch/internal/cli/cmd"
)

func main() {
	os.Exit(run())
}

// run executes the CLI and translates its error into a process exit code.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	if err == nil {
		return cmd.ExitOK
	}

	code := cmd.ExitCLIError
	var ee *cmd.ExitError
	if errors.As(err, &ee) {
		code = ee.Code
		err = ee.Err
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "tubefetch: %v\n", err)
	}
	return code
}
