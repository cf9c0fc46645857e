package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ProjectDesk/internal/cli/api"
	"ProjectDesk/internal/cli/commands"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := commands.NewRootCmd(func(server string) api.Client {
		return api.NewHTTPClient(server)
	})
	exitCode := commands.Execute(ctx, root, os.Args[1:])
	if exitCode == 0 {
		return
	}
	os.Exit(exitCode)
}
