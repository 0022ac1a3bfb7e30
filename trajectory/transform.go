package trajectory

import (
	"github.com/camtraj/camtraj/spatialmath"
)

// Transform describes the world-space edits applied to a trajectory before
// export. Flips and swaps act on the COLMAP world axes and are applied per
// pose in a fixed order: flip X, flip Y, flip Z, swap XY, swap YZ, then
// scale. Reverse applies to the whole sequence afterwards. The zero value is
// a no-op (Scale 0 is treated as 1).
type Transform struct {
	FlipX   bool
	FlipY   bool
	FlipZ   bool
	SwapXY  bool
	SwapYZ  bool
	Scale   float64
	Reverse bool
}

func (tr Transform) axisMaps() []spatialmath.AxisMap {
	var maps []spatialmath.AxisMap
	if tr.FlipX {
		maps = append(maps, spatialmath.FlipX)
	}
	if tr.FlipY {
		maps = append(maps, spatialmath.FlipY)
	}
	if tr.FlipZ {
		maps = append(maps, spatialmath.FlipZ)
	}
	if tr.SwapXY {
		maps = append(maps, spatialmath.SwapXY)
	}
	if tr.SwapYZ {
		maps = append(maps, spatialmath.SwapYZ)
	}
	return maps
}

// Apply returns the transformed sequence. The input is not mutated. When
// Reverse is set, frame ids are re-enumerated 0..n-1 in the new order;
// otherwise ids are preserved. Quaternions are re-canonicalized (qw >= 0) on
// the way out.
func (tr Transform) Apply(seq Sequence) Sequence {
	out := make(Sequence, 0, len(seq))
	for _, p := range seq {
		out = append(out, tr.ApplyPose(p))
	}
	if tr.Reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
		for i := range out {
			out[i].FrameID = i
		}
	}
	return out
}

// ApplyPose applies the per-pose portion of the transform (flips, swaps,
// scale) to a single pose; Reverse is sequence-level and only honored by
// Apply. The work happens on the camera center rather than the stored
// translation: a world basis change M moves the center to M*C and conjugates
// the world-to-camera rotation, after which the translation is recomposed.
func (tr Transform) ApplyPose(p Pose) Pose {
	r := spatialmath.RotationMatrixFromQuat(p.Quat)
	center := spatialmath.CameraCenter(r, p.Trans)

	for _, m := range tr.axisMaps() {
		center = m.Vector(center)
		r = m.Conjugate(r)
	}

	scale := tr.Scale
	if scale == 0 {
		scale = 1
	}
	center = center.Mul(scale)

	return Pose{
		FrameID: p.FrameID,
		Quat:    spatialmath.QuatFromRotationMatrix(r),
		Trans:   spatialmath.WorldToCamTranslation(r, center),
	}
}
