package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/camtraj/camtraj/export"
	"github.com/camtraj/camtraj/scene"
	"github.com/camtraj/camtraj/trajectory"
)

func sceneArg(c *cli.Context) (string, os.FileInfo, error) {
	path := c.Args().First()
	if path == "" {
		return "", nil, errors.New("scene archive or directory required")
	}
	if c.Args().Len() > 1 {
		return "", nil, errors.New("too many arguments. " +
			"make sure to specify flags before the positional archive argument")
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, err
	}
	return path, info, nil
}

// ExportCSVAction is the corresponding Action for 'export csv'.
func ExportCSVAction(c *cli.Context) error {
	logger := appLogger(c)
	path, info, err := sceneArg(c)
	if err != nil {
		return err
	}
	opts := export.CSVOptions{
		FlattenDepth:     c.Bool(flagFlattenDepth),
		SkipDepthSummary: c.Bool(flagSkipDepthSummary),
	}
	format, err := scene.ParseFormat(c.String(flagFormat))
	if err != nil {
		return err
	}
	outDir := c.String(flagOutput)

	if info.IsDir() {
		if outDir == "" {
			return errors.New("--output is required when exporting a directory")
		}
		if format == scene.FormatUnknown {
			// A directory with tracking archives batches per scene,
			// anything else is treated as a per-frame depth directory.
			archives, err := export.TrackingArchives(path)
			if err == nil && len(archives) > 0 {
				format = scene.FormatTracking
			} else {
				format = scene.FormatDepthFrame
			}
		}
		if format == scene.FormatTracking {
			err = export.BatchCSV(path, outDir, opts, logger)
		} else {
			err = export.DepthFrameDirCSV(path, outDir, opts, logger)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "exported %s to %s\n", path, outDir)
		return nil
	}

	if format == scene.FormatUnknown {
		if format, err = scene.DetectFormat(path); err != nil {
			return err
		}
	}
	if outDir == "" {
		outDir = export.SceneName(path) + "_csv"
	}
	switch format {
	case scene.FormatTracking:
		sc, err := scene.ReadTracking(path)
		if err != nil {
			return err
		}
		if err := export.WriteCSVBundle(sc, outDir, opts, logger); err != nil {
			return err
		}
	case scene.FormatDepthFrame:
		if err := export.DepthFrameCSV(path, outDir, opts, logger); err != nil {
			return err
		}
	default:
		return errors.Errorf("%s is neither a tracking nor a depth-frame archive", path)
	}
	fmt.Fprintf(c.App.Writer, "exported %s to %s\n", path, outDir)
	return nil
}

// ExportColmapAction is the corresponding Action for 'export colmap'.
func ExportColmapAction(c *cli.Context) error {
	logger := appLogger(c)
	path, info, err := sceneArg(c)
	if err != nil {
		return err
	}
	opts := export.ColmapOptions{
		SkipImages:  c.Bool(flagSkipImages),
		ImageFormat: c.String(flagImageFormat),
	}
	outDir := c.String(flagOutput)

	if info.IsDir() {
		if outDir == "" {
			return errors.New("--output is required when exporting a directory")
		}
		if err := export.BatchColmap(path, outDir, opts, logger); err != nil {
			return err
		}
	} else {
		if outDir == "" {
			outDir = export.SceneName(path) + "_colmap"
		}
		sc, err := scene.ReadTracking(path)
		if err != nil {
			return err
		}
		if err := export.WriteColmapModel(sc, outDir, opts, logger); err != nil {
			return err
		}
	}
	fmt.Fprintf(c.App.Writer, "exported %s to %s\n", path, outDir)
	return nil
}

// ExportUEAction is the corresponding Action for 'export ue'.
func ExportUEAction(c *cli.Context) error {
	posesPath := c.Args().First()
	if posesPath == "" {
		return errors.New("poses CSV required")
	}
	if c.Args().Len() > 1 {
		return errors.New("too many arguments. " +
			"make sure to specify flags before the positional poses argument")
	}
	seq, err := trajectory.ReadPosesFile(posesPath)
	if err != nil {
		return err
	}
	outPath := c.String(flagOutput)
	if outPath == "" {
		outPath = strings.TrimSuffix(posesPath, filepath.Ext(posesPath)) + "_ue.csv"
	}
	if err := export.WriteUEPosesCSVFile(outPath, seq, !c.Bool(flagNoScaleToCM)); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %d UE poses to %s\n", len(seq), outPath)
	return nil
}
