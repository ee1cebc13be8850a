// Package main is the entry point for the pipec pipeline compiler.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/cmd/pipec/commands"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/app"
	_ "github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/wiring"
	"github.com/grindlemire/graft"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// The logger is not available when initialization fails.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(components.App, components.Logger)
	cli.SetArgs(args)

	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}
