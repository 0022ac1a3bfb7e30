package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/camtraj/camtraj/colmap"
	"github.com/camtraj/camtraj/trajectory"
)

func transformArgs(c *cli.Context) (string, string, error) {
	if c.Args().Len() != 2 {
		return "", "", errors.New("input and output paths required. " +
			"make sure to specify flags before the positional arguments")
	}
	return c.Args().Get(0), c.Args().Get(1), nil
}

func transformFromFlags(c *cli.Context) (trajectory.Transform, error) {
	tr := trajectory.Transform{
		FlipX:   c.Bool(flagFlipX),
		FlipY:   c.Bool(flagFlipY),
		FlipZ:   c.Bool(flagFlipZ),
		SwapXY:  c.Bool(flagSwapXY),
		SwapYZ:  c.Bool(flagSwapYZ),
		Scale:   c.Float64(flagScale),
		Reverse: c.Bool(flagReverse),
	}
	if path := c.String(flagScaleFromDepth); path != "" {
		rows, err := trajectory.ReadDepthSummaryFile(path)
		if err != nil {
			return trajectory.Transform{}, err
		}
		sug, err := trajectory.SuggestScale(rows, c.Float64(flagTargetUECM))
		if err != nil {
			return trajectory.Transform{}, err
		}
		tr.Scale = sug.Scale
		fmt.Fprintf(c.App.Writer, "suggested scale %.6f (mean depth %.6f, median %.6f, target %.0f UE cm)\n",
			sug.Scale, sug.MeanDepth, sug.MedianDepth, sug.TargetUECM)
	}
	return tr, nil
}

// TransformAction is the corresponding Action for 'transform'.
func TransformAction(c *cli.Context) error {
	inPath, outPath, err := transformArgs(c)
	if err != nil {
		return err
	}
	tr, err := transformFromFlags(c)
	if err != nil {
		return err
	}
	seq, err := trajectory.ReadPosesFile(inPath)
	if err != nil {
		return err
	}
	if err := trajectory.WritePosesFile(outPath, tr.Apply(seq)); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %d poses to %s\n", len(seq), outPath)
	return nil
}

// TransformColmapAction is the corresponding Action for 'transform colmap'.
func TransformColmapAction(c *cli.Context) error {
	inPath, outPath, err := transformArgs(c)
	if err != nil {
		return err
	}
	tr, err := transformFromFlags(c)
	if err != nil {
		return err
	}
	images, err := colmap.ReadImagesFile(inPath)
	if err != nil {
		return err
	}
	if err := colmap.WriteImagesFile(outPath, colmap.TransformImages(images, tr)); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %d images to %s\n", len(images), outPath)
	return nil
}
