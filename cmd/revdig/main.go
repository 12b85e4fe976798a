// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Interrupting stops reading further addresses, but still waits for the
	// lookups already submitted and then reports what has been dug so far.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	// This is cobra boilerplate documentation, except for the missing call to
	// fmt.Println(err) which in the original boilerplate is just plain wrong:
	// it renders the error message twice, see also:
	// https://github.com/spf13/cobra/issues/304
	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		osExit(1)
	}
}

// For CLI unit tests...
var osExit = os.Exit
