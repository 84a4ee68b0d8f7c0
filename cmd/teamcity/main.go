// Command teamcity queries a TeamCity server from the command line.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/adamwoolhether/teamcity/cmd/teamcity/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := app.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	os.Exit(code)
}
