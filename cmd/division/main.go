// Command division manages a collective building division project from the
// command line.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/creditcastor/division/internal/cli"
)

func main() {
	log.SetPrefix("[DIVISION] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
