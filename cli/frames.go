package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/camtraj/camtraj/videoframes"
)

// FramesAction is the corresponding Action for 'frames'.
func FramesAction(c *cli.Context) error {
	logger := appLogger(c)
	videoPath := c.Args().First()
	if videoPath == "" {
		return errors.New("video path required")
	}
	if c.Args().Len() > 1 {
		return errors.New("too many arguments. " +
			"make sure to specify flags before the positional video argument")
	}
	outDir := c.String(flagOutDir)
	n, err := videoframes.Extract(c.Context, videoPath, outDir, c.Float64(flagFPS), logger)
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = videoframes.DefaultOutDir(videoPath)
	}
	fmt.Fprintf(c.App.Writer, "wrote %d frames to %s\n", n, outDir)
	return nil
}
