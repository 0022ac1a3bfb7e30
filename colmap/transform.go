package colmap

import (
	"github.com/camtraj/camtraj/trajectory"
)

// TransformImages applies a trajectory transform to COLMAP image records.
// Flips, swaps and scale act on each pose; Reverse reverses the record order
// and renumbers image ids 1..n, since COLMAP ids are 1-based. Camera
// references, names and point observations ride along untouched.
func TransformImages(images []Image, tr trajectory.Transform) []Image {
	out := make([]Image, 0, len(images))
	for _, img := range images {
		p := tr.ApplyPose(trajectory.Pose{Quat: img.Quat, Trans: img.Trans})
		img.Quat = p.Quat
		img.Trans = p.Trans
		out = append(out, img)
	}
	if tr.Reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
		for i := range out {
			out[i].ID = i + 1
		}
	}
	return out
}

// PoseSequence flattens image records into a pose sequence, numbering frames
// 0..n-1 by position. Image ids are not carried over: they may be sparse or
// reordered, and downstream consumers key on contiguous frames.
func PoseSequence(images []Image) trajectory.Sequence {
	seq := make(trajectory.Sequence, 0, len(images))
	for i, img := range images {
		seq = append(seq, trajectory.Pose{
			FrameID: i,
			Quat:    img.Quat,
			Trans:   img.Trans,
		})
	}
	return seq
}
