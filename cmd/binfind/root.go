package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/binfind/pkg/locate"
	"github.com/walteh/binfind/pkg/logging"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var version = "dev"

type rootOptions struct {
	ascii   string
	hex     string
	debug   bool
	logJSON bool
}

// runtimeError is a failure after the command line was accepted. Anything
// else coming out of cobra is a usage problem.
type runtimeError struct {
	err error
}

func (e *runtimeError) Error() string { return e.err.Error() }

func (e *runtimeError) Unwrap() error { return e.err }

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "binfind [flags] file",
		Short:         "Search for a message in a binary file",
		Long:          "Search a binary file for an ASCII string or for the little-endian bytes of a hexadecimal value, and print the offset of the first match.",
		Example:       "  binfind firmware.bin --ascii 'U-Boot'\n  binfind kernel.img --hex 0x644d5241",
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.debug {
				level = slog.LevelDebug
			}
			ctx := logging.SetupSlogToWriter(cmd.Context(), stderr, logging.Options{
				Level:       level,
				JSON:        opts.logJSON,
				Color:       logging.IsTerminal(stderr),
				AddSource:   opts.debug,
				ProcessName: cmd.Name(),
			})
			cmd.SetContext(ctx)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			q := locate.ASCII(opts.ascii)
			if cmd.Flags().Changed("hex") {
				q = locate.Hex(opts.hex)
			}
			return runSearch(cmd, args[0], q)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVar(&opts.ascii, "ascii", "", "search for an ASCII string")
	flags.StringVar(&opts.hex, "hex", "", "search for a hexadecimal value, little-endian (e.g., 0xcafebabe)")
	flags.BoolVar(&opts.debug, "debug", false, "write debug logs to stderr")
	flags.BoolVar(&opts.logJSON, "log-json", false, "write logs as JSON")

	cmd.MarkFlagsMutuallyExclusive("ascii", "hex")
	cmd.MarkFlagsOneRequired("ascii", "hex")

	return cmd
}

func runSearch(cmd *cobra.Command, path string, q locate.Query) error {
	ctx := cmd.Context()

	res, err := locate.Locate(ctx, path, q)
	if err != nil {
		slog.DebugContext(ctx, "search failed", "error", err)
		return &runtimeError{err: err}
	}

	// Locate only succeeds once the query has parsed
	p, err := q.Pattern()
	if err != nil {
		return &runtimeError{err: err}
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Describe(p))
	if err != nil {
		return &runtimeError{err: errors.Errorf("writing result: %w", err)}
	}
	return nil
}

// describeError renders a runtime failure as the single line shown to the user.
func describeError(err error) string {
	var ferr *locate.FileError
	if errors.As(err, &ferr) {
		return ferr.Describe()
	}
	var perr *locate.PatternError
	if errors.As(err, &perr) {
		return perr.Describe()
	}
	return fmt.Sprintf("Error: %v", err)
}
