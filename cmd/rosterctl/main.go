// Command rosterctl previews and imports roster files from the command line.
//
//	rosterctl preview --file roster.csv --reference reference.yaml
//	rosterctl import  --file roster.xlsx
//	rosterctl columns
//	rosterctl schema --table members
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
