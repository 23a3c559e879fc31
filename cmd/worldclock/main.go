package main

import (
	"context"
	_ "time/tzdata"

	"worldclock/cmd/worldclock/cmd"
	"worldclock/pkg/graceful"
)

var version = "dev"

func main() {
	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	cmd.Version = version
	cmd.ExecuteContext(ctx)
}
