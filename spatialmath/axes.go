package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// AxisMap is a named signed-permutation matrix describing how one coordinate
// convention's axes are built from another's. Values are immutable; Matrix
// returns a fresh copy each call.
type AxisMap struct {
	name string
	rows [9]float64
}

// Named axis conventions. ColmapToUE takes the COLMAP world frame
// (right-handed, X right, Y down, Z forward) to the UE5 world frame
// (left-handed, X forward, Y right, Z up). UEToBlenderWorld swaps X and Y
// between the UE5 and Blender world frames (both Z up). The flips and swaps
// act within a single world frame and are their own inverses.
var (
	ColmapToUE = AxisMap{"colmap_to_ue", [9]float64{
		0, 0, 1,
		1, 0, 0,
		0, -1, 0,
	}}
	UEToBlenderWorld = AxisMap{"ue_to_blender_world", [9]float64{
		0, 1, 0,
		1, 0, 0,
		0, 0, 1,
	}}
	FlipX = AxisMap{"flip_x", [9]float64{
		-1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}}
	FlipY = AxisMap{"flip_y", [9]float64{
		1, 0, 0,
		0, -1, 0,
		0, 0, 1,
	}}
	FlipZ = AxisMap{"flip_z", [9]float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, -1,
	}}
	SwapXY = AxisMap{"swap_xy", [9]float64{
		0, 1, 0,
		1, 0, 0,
		0, 0, 1,
	}}
	SwapYZ = AxisMap{"swap_yz", [9]float64{
		1, 0, 0,
		0, 0, 1,
		0, 1, 0,
	}}
)

func (a AxisMap) Name() string {
	return a.name
}

// Matrix returns the 3x3 mapping matrix M with rows expressing the target
// frame's axes in source frame components.
func (a AxisMap) Matrix() *mat.Dense {
	rows := a.rows
	return mat.NewDense(3, 3, rows[:])
}

// Vector applies the map to a vector: M * v.
func (a AxisMap) Vector(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: a.rows[0]*v.X + a.rows[1]*v.Y + a.rows[2]*v.Z,
		Y: a.rows[3]*v.X + a.rows[4]*v.Y + a.rows[5]*v.Z,
		Z: a.rows[6]*v.X + a.rows[7]*v.Y + a.rows[8]*v.Z,
	}
}

// Conjugate re-expresses a rotation under the basis change: M * R * M^T.
// This is the rule for world-to-camera rotations when only the world basis
// changes, as in trajectory flips and swaps.
func (a AxisMap) Conjugate(r *mat.Dense) *mat.Dense {
	m := a.Matrix()
	var tmp, out mat.Dense
	tmp.Mul(m, r)
	out.Mul(&tmp, m.T())
	return &out
}

// RotateWorld left-multiplies a rotation by the map: M * R. This is the rule
// for reinterpreting a camera-to-world rotation's column vectors (the camera
// axes in world components) in the target world frame; note it is not the
// same composition as Conjugate.
func (a AxisMap) RotateWorld(r *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Mul(a.Matrix(), r)
	return &out
}
