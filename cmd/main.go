/*
Package main is the entry point for commongames.

It builds the command line, runs one search for a multiplayer game shared by the user
and the selected friends, and turns any failure into a one-line message on stderr and
a non-zero exit status.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"commongames/internal/pkg/errs"
	"commongames/internal/pkg/logx"
)

const (
	releaseVersion = "1.0.0"

	// exitInterrupted follows the shell convention for SIGINT.
	exitInterrupted = 130
)

func main() {
	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newCmd(os.Stdin, os.Stdout).ExecuteContext(ctx)
	stop()

	if err != nil {
		os.Exit(report(os.Stderr, err))
	}
}

// report prints err for the user and returns the exit status for it.
func report(w io.Writer, err error) int {
	var customErr *errs.CustomError

	switch {
	case errors.As(err, &customErr):
		if customErr.Err != nil {
			logx.Logger().Debug().Err(customErr.Err).Int("code", customErr.Code).Msg("Underlying cause")
		}
		fmt.Fprintf(w, "Error: %s\n", customErr.Message)
		return customErr.ExitCode
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(w, "Interrupted.")
		return exitInterrupted
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
		return errs.ExitCode(err)
	}
}
