package fbx

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/golang/geo/r3"

	"github.com/camtraj/camtraj/spatialmath"
	"github.com/camtraj/camtraj/trajectory"
)

// Keyframe is one baked camera sample: a 1-based Blender timeline frame, a
// location in Blender world coordinates and an XYZ Euler rotation in
// radians.
type Keyframe struct {
	Frame int
	Loc   r3.Vector
	Euler r3.Vector
}

// Keyframes converts world-to-camera poses through the Unreal chain into
// Blender camera keyframes. Timeline frames are source frame ids shifted up
// by one; Blender timelines start at 1.
func Keyframes(seq trajectory.Sequence, scaleToCM bool) []Keyframe {
	out := make([]Keyframe, 0, len(seq))
	for _, p := range seq {
		posUE, rotUE := spatialmath.UEPoseFromColmap(p.Quat, p.Trans, scaleToCM)
		cam := spatialmath.BlenderCameraFromUE(rotUE)
		out = append(out, Keyframe{
			Frame: p.FrameID + 1,
			Loc:   spatialmath.BlenderWorldFromUE(posUE),
			Euler: spatialmath.EulerXYZFromRotationMatrix(cam),
		})
	}
	return out
}

// WriteKeyframesCSV writes the table the bake script replays: frame,
// loc_x,loc_y,loc_z in Blender world units, eul_x,eul_y,eul_z in radians.
func WriteKeyframesCSV(w io.Writer, frames []Keyframe) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"frame", "loc_x", "loc_y", "loc_z", "eul_x", "eul_y", "eul_z"}); err != nil {
		return err
	}
	for _, kf := range frames {
		rec := []string{
			strconv.Itoa(kf.Frame),
			formatKeyframe(kf.Loc.X),
			formatKeyframe(kf.Loc.Y),
			formatKeyframe(kf.Loc.Z),
			formatKeyframe(kf.Euler.X),
			formatKeyframe(kf.Euler.Y),
			formatKeyframe(kf.Euler.Z),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatKeyframe(v float64) string {
	if v == 0 {
		// fold negative zero
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 8, 64)
}
