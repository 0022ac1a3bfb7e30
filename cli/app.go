// Package cli implements the camtraj command line interface.
package cli

import (
	"io"

	"github.com/edaniels/golog"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/camtraj/camtraj/fbx"
	"github.com/camtraj/camtraj/trajectory"
	"github.com/camtraj/camtraj/videoframes"
)

const (
	flagDebug             = "debug"
	flagOutput            = "output"
	flagFormat            = "format"
	flagFlattenDepth      = "flatten-depth"
	flagSkipDepthSummary  = "skip-depth-summary"
	flagSkipImages        = "skip-images"
	flagImageFormat       = "image-format"
	flagNoScaleToCM       = "no-scale-to-cm"
	flagFlipX             = "flip-x"
	flagFlipY             = "flip-y"
	flagFlipZ             = "flip-z"
	flagSwapXY            = "swap-xy"
	flagSwapYZ            = "swap-yz"
	flagScale             = "scale"
	flagReverse           = "reverse"
	flagScaleFromDepth    = "scale-from-depth"
	flagTargetUECM        = "target-ue-cm"
	flagFPS               = "fps"
	flagKeepIntermediates = "keep-intermediates"
	flagBlender           = "blender"
	flagOutDir            = "out-dir"
)

var transformFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:  flagFlipX,
		Usage: "negate the world X axis",
	},
	&cli.BoolFlag{
		Name:  flagFlipY,
		Usage: "negate the world Y axis",
	},
	&cli.BoolFlag{
		Name:  flagFlipZ,
		Usage: "negate the world Z axis",
	},
	&cli.BoolFlag{
		Name:  flagSwapXY,
		Usage: "swap the world X and Y axes",
	},
	&cli.BoolFlag{
		Name:  flagSwapYZ,
		Usage: "swap the world Y and Z axes",
	},
	&cli.Float64Flag{
		Name:  flagScale,
		Value: 1,
		Usage: "scale camera centers by this factor",
	},
	&cli.BoolFlag{
		Name:  flagReverse,
		Usage: "reverse playback order, re-enumerating frame ids",
	},
	&cli.StringFlag{
		Name:  flagScaleFromDepth,
		Usage: "derive the scale from a depth_summary.csv, overriding --scale",
	},
	&cli.Float64Flag{
		Name:  flagTargetUECM,
		Value: trajectory.DefaultTargetUECM,
		Usage: "target mean scene depth in UE centimeters for --scale-from-depth",
	},
}

var app = &cli.App{
	Name:            "camtraj",
	Usage:           "convert camera trajectories between COLMAP, Unreal Engine and Blender conventions",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    flagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:            "export",
			Usage:           "export scene archives to datasets",
			HideHelpCommand: true,
			Subcommands: []*cli.Command{
				{
					Name:      "csv",
					Usage:     "export poses, intrinsics and depth statistics as CSV",
					ArgsUsage: "<scene.npz|dir>",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:    flagOutput,
							Aliases: []string{"o"},
							Usage:   "output directory",
						},
						&cli.StringFlag{
							Name:  flagFormat,
							Value: "auto",
							Usage: "archive format: auto, tracking or depthframe",
						},
						&cli.BoolFlag{
							Name:  flagFlattenDepth,
							Usage: "also write per-pixel depth value tables",
						},
						&cli.BoolFlag{
							Name:  flagSkipDepthSummary,
							Usage: "skip writing depth_summary.csv",
						},
					},
					Action: ExportCSVAction,
				},
				{
					Name:      "colmap",
					Usage:     "export a COLMAP text model (cameras, images, points3D)",
					ArgsUsage: "<scene.npz|dir>",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:    flagOutput,
							Aliases: []string{"o"},
							Usage:   "output directory",
						},
						&cli.BoolFlag{
							Name:  flagSkipImages,
							Usage: "skip dumping RGB frames into images/",
						},
						&cli.StringFlag{
							Name:  flagImageFormat,
							Value: "jpg",
							Usage: "frame image format: jpg or png",
						},
					},
					Action: ExportColmapAction,
				},
				{
					Name:      "ue",
					Usage:     "convert a poses CSV to Unreal Engine positions and rotations",
					ArgsUsage: "<poses.csv>",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:        flagOutput,
							Aliases:     []string{"o"},
							Usage:       "output CSV path",
							DefaultText: "<poses>_ue.csv",
						},
						&cli.BoolFlag{
							Name:  flagNoScaleToCM,
							Usage: "keep source units instead of scaling meters to centimeters",
						},
					},
					Action: ExportUEAction,
				},
			},
		},
		{
			Name:            "transform",
			Usage:           "apply axis flips, swaps, scale and reversal to a poses CSV",
			ArgsUsage:       "<in.csv> <out.csv>",
			HideHelpCommand: true,
			Flags:           transformFlags,
			Action:          TransformAction,
			Subcommands: []*cli.Command{
				{
					Name:      "colmap",
					Usage:     "apply the same transform to a COLMAP images.txt",
					ArgsUsage: "<in_images.txt> <out_images.txt>",
					Flags:     transformFlags,
					Action:    TransformColmapAction,
				},
			},
		},
		{
			Name:      "bake",
			Usage:     "bake a poses CSV into an FBX camera animation via Blender",
			ArgsUsage: "<poses.csv> <out.fbx>",
			Flags: []cli.Flag{
				&cli.Float64Flag{
					Name:  flagFPS,
					Value: fbx.DefaultFPS,
					Usage: "animation frames per second",
				},
				&cli.BoolFlag{
					Name:  flagNoScaleToCM,
					Usage: "keep source units instead of scaling meters to centimeters",
				},
				&cli.BoolFlag{
					Name:  flagKeepIntermediates,
					Usage: "keep the temp keyframes CSV and loader script",
				},
				&cli.StringFlag{
					Name:        flagBlender,
					Usage:       "path to the blender executable",
					DefaultText: "auto-discover",
				},
			},
			Action: BakeAction,
		},
		{
			Name:      "frames",
			Usage:     "extract frames from a video with ffmpeg",
			ArgsUsage: "<video>",
			Flags: []cli.Flag{
				&cli.Float64Flag{
					Name:  flagFPS,
					Value: videoframes.DefaultFPS,
					Usage: "frame sampling rate",
				},
				&cli.StringFlag{
					Name:        flagOutDir,
					Usage:       "output directory",
					DefaultText: "<video>_frames",
				},
			},
			Action: FramesAction,
		},
		{
			Name:      "plot",
			Usage:     "plot a top-down view of the camera path",
			ArgsUsage: "<poses.csv> <out.png>",
			Action:    PlotAction,
		},
	},
}

func appLogger(c *cli.Context) golog.Logger {
	if c.Bool(flagDebug) {
		return golog.NewDebugLogger("camtraj")
	}
	return zap.NewNop().Sugar()
}

// NewApp returns a new app with the camtraj commands, Writer set to out, and
// ErrWriter set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
