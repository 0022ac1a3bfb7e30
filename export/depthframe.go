package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/camtraj/camtraj/scene"
)

// DepthFrameSummary is one row of the wide depth summary written for
// per-frame archives: the raster geometry and field of view next to the
// usual depth statistics.
type DepthFrameSummary struct {
	FrameID    string
	FOVDegrees float64
	Height     int
	Width      int
	Min        float64
	Max        float64
	Mean       float64
	Median     float64
}

// SummarizeDepthFrame reduces one decoded archive to its summary row.
func SummarizeDepthFrame(df *scene.DepthFrame) DepthFrameSummary {
	minV, maxV, mean, median := scene.DepthStats(df.Depth.Frame(0))
	return DepthFrameSummary{
		FrameID:    df.Name,
		FOVDegrees: df.FOVDegrees,
		Height:     df.Depth.H,
		Width:      df.Depth.W,
		Min:        minV,
		Max:        maxV,
		Mean:       mean,
		Median:     median,
	}
}

// WriteDepthFrameSummaries writes the wide depth summary table. The column
// names are a superset of the tracking depth_summary.csv so the same readers
// work on both.
func WriteDepthFrameSummaries(w io.Writer, rows []DepthFrameSummary) error {
	cw := csv.NewWriter(w)
	header := []string{"frame_id", "fov", "height", "width", "depth_min", "depth_max", "depth_mean", "depth_median"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.FrameID,
			f6(r.FOVDegrees),
			strconv.Itoa(r.Height),
			strconv.Itoa(r.Width),
			f6(r.Min),
			f6(r.Max),
			f6(r.Mean),
			f6(r.Median),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DepthFrameCSV summarizes a single depth-frame archive into
// outDir/depth_summary.csv, optionally flattening the raster to
// depth_<stem>.csv.
func DepthFrameCSV(path, outDir string, opts CSVOptions, logger golog.Logger) error {
	df, err := scene.ReadDepthFrame(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", outDir)
	}

	if opts.FlattenDepth {
		outPath := filepath.Join(outDir, "depth_"+df.Name+".csv")
		if err := writeFile(outPath, func(w io.Writer) error {
			fl := NewDepthFlattener(w)
			if err := fl.WriteFrame(df.Name, df.Depth.Frame(0), df.Depth.W); err != nil {
				return err
			}
			return fl.Flush()
		}); err != nil {
			return errors.Wrapf(err, "flattening %s", path)
		}
		logger.Debugf("wrote %s", outPath)
	}

	if opts.SkipDepthSummary {
		return nil
	}
	sumPath := filepath.Join(outDir, "depth_summary.csv")
	if err := writeFile(sumPath, func(w io.Writer) error {
		return WriteDepthFrameSummaries(w, []DepthFrameSummary{SummarizeDepthFrame(df)})
	}); err != nil {
		return err
	}
	logger.Infof("summarized %s into %s", path, sumPath)
	return nil
}

// DepthFrameDirCSV summarizes every depth-frame archive under inDir into one
// depth_summary.csv in outDir, optionally flattening each raster to
// depth_<stem>.csv. A bad archive is logged and skipped; the aggregate error
// reports every failure.
func DepthFrameDirCSV(inDir, outDir string, opts CSVOptions, logger golog.Logger) error {
	paths, err := filepath.Glob(filepath.Join(inDir, "*.npz"))
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.Errorf("no .npz archives in %s", inDir)
	}
	sort.Strings(paths)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", outDir)
	}

	var errs error
	rows := make([]DepthFrameSummary, 0, len(paths))
	for _, path := range paths {
		df, err := scene.ReadDepthFrame(path)
		if err != nil {
			logger.Errorw("skipping archive", "path", path, "error", err)
			errs = multierr.Append(errs, err)
			continue
		}
		rows = append(rows, SummarizeDepthFrame(df))

		if !opts.FlattenDepth {
			continue
		}
		outPath := filepath.Join(outDir, "depth_"+df.Name+".csv")
		if err := writeFile(outPath, func(w io.Writer) error {
			fl := NewDepthFlattener(w)
			if err := fl.WriteFrame(df.Name, df.Depth.Frame(0), df.Depth.W); err != nil {
				return err
			}
			return fl.Flush()
		}); err != nil {
			logger.Errorw("flatten failed", "path", path, "error", err)
			errs = multierr.Append(errs, errors.Wrapf(err, "flattening %s", path))
			continue
		}
		logger.Debugf("wrote %s", outPath)
	}

	if len(rows) > 0 && !opts.SkipDepthSummary {
		sumPath := filepath.Join(outDir, "depth_summary.csv")
		if err := writeFile(sumPath, func(w io.Writer) error {
			return WriteDepthFrameSummaries(w, rows)
		}); err != nil {
			return multierr.Append(errs, err)
		}
		logger.Infof("summarized %d frames into %s", len(rows), sumPath)
	}
	return errs
}
