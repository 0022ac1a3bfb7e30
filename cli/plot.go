package cli

import (
	"fmt"
	"image/color"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/camtraj/camtraj/spatialmath"
	"github.com/camtraj/camtraj/trajectory"
)

// PlotAction is the corresponding Action for 'plot'.
func PlotAction(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return errors.New("poses CSV and output PNG paths required")
	}
	posesPath, outPNG := c.Args().Get(0), c.Args().Get(1)

	seq, err := trajectory.ReadPosesFile(posesPath)
	if err != nil {
		return err
	}
	if len(seq) == 0 {
		return errors.Errorf("no poses in %s", posesPath)
	}
	if err := plotTrajectory(seq, posesPath, outPNG); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "plotted %d camera centers to %s\n", len(seq), outPNG)
	return nil
}

// plotTrajectory draws the camera centers from above, X right and Y up, with
// the first pose marked so direction of travel is readable.
func plotTrajectory(seq trajectory.Sequence, title, outPNG string) error {
	pts := make(plotter.XYs, 0, len(seq))
	for _, p := range seq {
		center := spatialmath.CameraCenter(spatialmath.RotationMatrixFromQuat(p.Quat), p.Trans)
		pts = append(pts, plotter.XY{X: center.X, Y: center.Y})
	}

	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "X"
	pl.Y.Label.Text = "Y"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	pl.Add(line)

	start, err := plotter.NewScatter(pts[:1])
	if err != nil {
		return err
	}
	start.Color = color.RGBA{R: 255, A: 255}
	pl.Add(start)
	pl.Legend.Add("start", start)

	return pl.Save(6*vg.Inch, 6*vg.Inch, outPNG)
}
