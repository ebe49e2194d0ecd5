package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/metaphox/kaleido/cmd/kaleido/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "kaleido: %v\n", err)
		os.Exit(1)
	}
}
