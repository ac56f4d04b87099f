package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"gitlab.com/tozd/go/errors"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)

	executed, err := cmd.ExecuteContextC(ctx)
	if err == nil {
		return exitOK
	}

	var rerr *runtimeError
	if errors.As(err, &rerr) {
		fmt.Fprintln(stderr, describeError(rerr.err))
		return exitFailure
	}

	if executed == nil {
		executed = cmd
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	fmt.Fprint(stderr, executed.UsageString())
	return exitUsage
}
