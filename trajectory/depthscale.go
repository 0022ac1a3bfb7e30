package trajectory

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// DefaultTargetUECM is the default "scene depth" in UE centimeters that a
// suggested path scale aims for.
const DefaultTargetUECM = 200.0

// DepthSummaryRow is one frame's depth statistics. FrameID stays a string
// because per-frame depth archives identify frames by filename stem.
type DepthSummaryRow struct {
	FrameID string
	Min     float64
	Max     float64
	Mean    float64
	Median  float64
}

var depthSummaryHeader = []string{"frame_id", "depth_min", "depth_max", "depth_mean", "depth_median"}

// ReadDepthSummary decodes a depth_summary.csv. Columns are matched by
// header name so the wider per-frame variant with fov/height/width columns
// parses with the same reader.
func ReadDepthSummary(r io.Reader) ([]DepthSummaryRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read depth summary header")
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range depthSummaryHeader {
		if _, ok := cols[name]; !ok {
			return nil, errors.Errorf("depth summary is missing column %q", name)
		}
	}

	var rows []DepthSummaryRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read depth summary line %d", line)
		}
		idx := cols["frame_id"]
		if idx >= len(rec) {
			return nil, errors.Errorf("line %d is missing column \"frame_id\"", line)
		}
		row := DepthSummaryRow{FrameID: rec[idx]}
		for _, f := range []struct {
			name string
			dst  *float64
		}{
			{"depth_min", &row.Min},
			{"depth_max", &row.Max},
			{"depth_mean", &row.Mean},
			{"depth_median", &row.Median},
		} {
			idx := cols[f.name]
			if idx >= len(rec) {
				return nil, errors.Errorf("line %d is missing column %q", line, f.name)
			}
			v, err := strconv.ParseFloat(rec[idx], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d column %q", line, f.name)
			}
			*f.dst = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteDepthSummary encodes rows in the five-column form with six decimal
// places.
func WriteDepthSummary(w io.Writer, rows []DepthSummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(depthSummaryHeader); err != nil {
		return err
	}
	for _, row := range rows {
		rec := []string{
			row.FrameID,
			strconv.FormatFloat(row.Min, 'f', 6, 64),
			strconv.FormatFloat(row.Max, 'f', 6, 64),
			strconv.FormatFloat(row.Mean, 'f', 6, 64),
			strconv.FormatFloat(row.Median, 'f', 6, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadDepthSummaryFile reads a depth_summary.csv from disk.
func ReadDepthSummaryFile(path string) ([]DepthSummaryRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)
	rows, err := ReadDepthSummary(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return rows, nil
}

// WriteDepthSummaryFile writes a depth_summary.csv to disk.
func WriteDepthSummaryFile(path string, rows []DepthSummaryRow) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close()
		err = multierr.Combine(err, cerr)
	}()
	return WriteDepthSummary(f, rows)
}

// ScaleSuggestion is a path scale derived from scene depth, along with the
// depth statistics it was derived from.
type ScaleSuggestion struct {
	Scale       float64
	MeanDepth   float64
	MedianDepth float64
	TargetUECM  float64
}

// SuggestScale proposes a path scale so that the mean scene depth lands on
// targetUECM centimeters once positions are scaled to UE units (x100):
// scale = targetUECM / (100 * meanDepth). The mean is taken over per-frame
// means, the reported median over per-frame medians. Depth units must match
// the pose translation units.
func SuggestScale(rows []DepthSummaryRow, targetUECM float64) (ScaleSuggestion, error) {
	if len(rows) == 0 {
		return ScaleSuggestion{}, errors.New("no rows in depth summary")
	}
	means := make([]float64, 0, len(rows))
	medians := make([]float64, 0, len(rows))
	for _, row := range rows {
		means = append(means, row.Mean)
		medians = append(medians, row.Median)
	}
	meanDepth, err := stats.Mean(means)
	if err != nil {
		return ScaleSuggestion{}, err
	}
	medianDepth, err := stats.Median(medians)
	if err != nil {
		return ScaleSuggestion{}, err
	}
	if meanDepth <= 0 {
		return ScaleSuggestion{}, errors.Errorf("mean depth must be positive, got %v", meanDepth)
	}
	return ScaleSuggestion{
		Scale:       targetUECM / (100.0 * meanDepth),
		MeanDepth:   meanDepth,
		MedianDepth: medianDepth,
		TargetUECM:  targetUECM,
	}, nil
}
