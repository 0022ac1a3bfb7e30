package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/camtraj/camtraj/scene"
	"github.com/camtraj/camtraj/trajectory"
)

// WriteIntrinsicsCSV writes the one-row pinhole intrinsics table.
func WriteIntrinsicsCSV(w io.Writer, in scene.PinholeIntrinsics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"camera_id", "fx", "fy", "cx", "cy"}); err != nil {
		return err
	}
	if err := cw.Write([]string{"1", f6(in.Fx), f6(in.Fy), f6(in.Cx), f6(in.Cy)}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVBundle exports a tracking scene to dir: poses.csv, intrinsics.csv
// and (per options) depth_summary.csv and depth_values.csv.
func WriteCSVBundle(sc *scene.Tracking, dir string, opts CSVOptions, logger golog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	seq, err := sc.Poses()
	if err != nil {
		return err
	}
	posesPath := filepath.Join(dir, "poses.csv")
	if err := trajectory.WritePosesFile(posesPath, seq); err != nil {
		return err
	}
	logger.Debugf("wrote %s", posesPath)

	in, err := sc.Intrinsics()
	if err != nil {
		return err
	}
	intrPath := filepath.Join(dir, "intrinsics.csv")
	if err := writeFile(intrPath, func(w io.Writer) error {
		return WriteIntrinsicsCSV(w, in)
	}); err != nil {
		return err
	}
	logger.Debugf("wrote %s", intrPath)

	if !opts.SkipDepthSummary {
		rows := make([]trajectory.DepthSummaryRow, 0, sc.Depths.N)
		for i := 0; i < sc.Depths.N; i++ {
			minV, maxV, mean, median := scene.DepthStats(sc.Depths.Frame(i))
			rows = append(rows, trajectory.DepthSummaryRow{
				FrameID: strconv.Itoa(i),
				Min:     minV,
				Max:     maxV,
				Mean:    mean,
				Median:  median,
			})
		}
		sumPath := filepath.Join(dir, "depth_summary.csv")
		if err := trajectory.WriteDepthSummaryFile(sumPath, rows); err != nil {
			return err
		}
		logger.Debugf("wrote %s", sumPath)
	}

	if opts.FlattenDepth {
		valsPath := filepath.Join(dir, "depth_values.csv")
		if err := writeFile(valsPath, func(w io.Writer) error {
			fl := NewDepthFlattener(w)
			for i := 0; i < sc.Depths.N; i++ {
				if err := fl.WriteFrame(strconv.Itoa(i), sc.Depths.Frame(i), sc.Depths.W); err != nil {
					return err
				}
			}
			return fl.Flush()
		}); err != nil {
			return err
		}
		logger.Debugf("wrote %s", valsPath)
	}
	return nil
}

// DepthFlattener streams depth rasters as frame_id,row,col,depth rows,
// keeping only finite positive pixels. Rasters never sit in memory as rows;
// a full frame is written pixel by pixel through the buffer.
type DepthFlattener struct {
	bw      *bufio.Writer
	started bool
}

// NewDepthFlattener wraps w.
func NewDepthFlattener(w io.Writer) *DepthFlattener {
	return &DepthFlattener{bw: bufio.NewWriter(w)}
}

// WriteFrame streams one raster. The header goes out before the first frame.
func (fl *DepthFlattener) WriteFrame(frameID string, frame []float32, width int) error {
	if width <= 0 {
		return errors.Errorf("invalid raster width %d", width)
	}
	if !fl.started {
		if _, err := fl.bw.WriteString("frame_id,row,col,depth\n"); err != nil {
			return err
		}
		fl.started = true
	}
	for i, v := range frame {
		f := float64(v)
		if f <= 0 || math.IsNaN(f) || math.IsInf(f, 1) {
			continue
		}
		if _, err := fmt.Fprintf(fl.bw, "%s,%d,%d,%.6f\n", frameID, i/width, i%width, f); err != nil {
			return err
		}
	}
	return nil
}

// Flush finishes the stream.
func (fl *DepthFlattener) Flush() error {
	return fl.bw.Flush()
}
