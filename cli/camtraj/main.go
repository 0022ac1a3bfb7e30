// Package main is the camtraj command itself.
package main

import (
	"context"
	"os"

	"github.com/edaniels/golog"
	"go.viam.com/utils"

	"github.com/camtraj/camtraj/cli"
)

var logger = golog.NewDevelopmentLogger("camtraj")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

func mainWithArgs(ctx context.Context, args []string, _ golog.Logger) error {
	return cli.NewApp(os.Stdout, os.Stderr).RunContext(ctx, args)
}
