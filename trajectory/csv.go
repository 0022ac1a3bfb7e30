package trajectory

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/num/quat"
)

var posesHeader = []string{"frame_id", "qw", "qx", "qy", "qz", "tx", "ty", "tz"}

// ReadPoses decodes a poses CSV. Columns are matched by header name, so
// extra columns and reordered columns are tolerated; all eight pose columns
// must be present.
func ReadPoses(r io.Reader) (Sequence, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read poses CSV header")
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range posesHeader {
		if _, ok := cols[name]; !ok {
			return nil, errors.Errorf("poses CSV is missing column %q", name)
		}
	}

	var seq Sequence
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read poses CSV line %d", line)
		}
		field := func(name string) (float64, error) {
			idx := cols[name]
			if idx >= len(rec) {
				return 0, errors.Errorf("line %d is missing column %q", line, name)
			}
			v, err := strconv.ParseFloat(rec[idx], 64)
			if err != nil {
				return 0, errors.Wrapf(err, "line %d column %q", line, name)
			}
			return v, nil
		}
		idx := cols["frame_id"]
		if idx >= len(rec) {
			return nil, errors.Errorf("line %d is missing column \"frame_id\"", line)
		}
		frameID, err := strconv.Atoi(rec[idx])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d column \"frame_id\"", line)
		}
		var vals [7]float64
		for i, name := range posesHeader[1:] {
			if vals[i], err = field(name); err != nil {
				return nil, err
			}
		}
		seq = append(seq, Pose{
			FrameID: frameID,
			Quat:    quat.Number{Real: vals[0], Imag: vals[1], Jmag: vals[2], Kmag: vals[3]},
			Trans:   r3.Vector{X: vals[4], Y: vals[5], Z: vals[6]},
		})
	}
	return seq, nil
}

// WritePoses encodes a sequence as a poses CSV with eight decimal places.
// Output is byte-stable for a given sequence.
func WritePoses(w io.Writer, seq Sequence) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(posesHeader); err != nil {
		return err
	}
	for _, p := range seq {
		rec := []string{
			strconv.Itoa(p.FrameID),
			formatPose(p.Quat.Real),
			formatPose(p.Quat.Imag),
			formatPose(p.Quat.Jmag),
			formatPose(p.Quat.Kmag),
			formatPose(p.Trans.X),
			formatPose(p.Trans.Y),
			formatPose(p.Trans.Z),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatPose(v float64) string {
	if v == 0 {
		// fold negative zero; conjugated rotations produce them
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 8, 64)
}

// ReadPosesFile reads a poses CSV from disk.
func ReadPosesFile(path string) (Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)
	seq, err := ReadPoses(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return seq, nil
}

// WritePosesFile writes a poses CSV to disk.
func WritePosesFile(path string, seq Sequence) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close()
		err = multierr.Combine(err, cerr)
	}()
	return WritePoses(f, seq)
}
