package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/camtraj/camtraj/fbx"
	"github.com/camtraj/camtraj/trajectory"
)

// BakeAction is the corresponding Action for 'bake'.
func BakeAction(c *cli.Context) error {
	logger := appLogger(c)
	if c.Args().Len() != 2 {
		return errors.New("poses CSV and output FBX paths required. " +
			"make sure to specify flags before the positional arguments")
	}
	posesPath, outFBX := c.Args().Get(0), c.Args().Get(1)

	seq, err := trajectory.ReadPosesFile(posesPath)
	if err != nil {
		return err
	}
	opts := fbx.BakeOptions{
		FPS:               c.Float64(flagFPS),
		KeepMeters:        c.Bool(flagNoScaleToCM),
		KeepIntermediates: c.Bool(flagKeepIntermediates),
	}
	if path := c.String(flagBlender); path != "" {
		opts.Resolver = fbx.ResolvePath(path)
	}
	if err := fbx.Bake(c.Context, seq, outFBX, opts, logger); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "baked %d poses into %s\n", len(seq), outFBX)
	return nil
}
