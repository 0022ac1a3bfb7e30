package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/camtraj/camtraj/spatialmath"
	"github.com/camtraj/camtraj/trajectory"
)

// WriteUEPosesCSV converts each pose through the Unreal chain and writes one
// row per frame: position (centimeters when scaleToCM) and roll/pitch/yaw in
// degrees.
func WriteUEPosesCSV(w io.Writer, seq trajectory.Sequence, scaleToCM bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"frame_id", "px", "py", "pz", "roll_deg", "pitch_deg", "yaw_deg"}); err != nil {
		return err
	}
	for _, p := range seq {
		pos, rot := spatialmath.UEPoseFromColmap(p.Quat, p.Trans, scaleToCM)
		e := spatialmath.UEEulerDegrees(rot)
		rec := []string{
			strconv.Itoa(p.FrameID),
			f6(pos.X), f6(pos.Y), f6(pos.Z),
			f6(e.X), f6(e.Y), f6(e.Z),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteUEPosesCSVFile writes the Unreal pose table to disk.
func WriteUEPosesCSVFile(path string, seq trajectory.Sequence, scaleToCM bool) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteUEPosesCSV(w, seq, scaleToCM)
	})
}
