// Package trajectory models camera pose sequences in the COLMAP
// world-to-camera convention and the operations applied to them before
// export: axis flips and swaps, path scaling, reversal, and scale suggestion
// from scene depth.
package trajectory

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose is one camera pose in world-to-camera form: x_cam = R*x_world + t,
// with R given as a unit quaternion in (qw, qx, qy, qz) order.
type Pose struct {
	FrameID int
	Quat    quat.Number
	Trans   r3.Vector
}

// Sequence is an ordered camera trajectory.
type Sequence []Pose
