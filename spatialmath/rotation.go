// Package spatialmath implements the rotation algebra and coordinate frame
// conventions used when moving camera poses between structure-from-motion
// output (COLMAP convention), Unreal Engine 5 and Blender.
//
// Quaternions follow the COLMAP component order (qw, qx, qy, qz) and map onto
// quat.Number as Real, Imag, Jmag, Kmag. Rotation matrices are 3x3 *mat.Dense.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrixFromQuat converts a unit quaternion to a 3x3 rotation matrix.
// The input is assumed normalized; no normalization is performed, so a
// non-unit quaternion yields a scaled matrix.
func RotationMatrixFromQuat(q quat.Number) *mat.Dense {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return mat.NewDense(3, 3, []float64{
		1 - 2*y*y - 2*z*z, 2*x*y - 2*w*z, 2*z*x + 2*w*y,
		2*x*y + 2*w*z, 1 - 2*x*x - 2*z*z, 2*y*z - 2*w*x,
		2*z*x - 2*w*y, 2*y*z + 2*w*x, 1 - 2*x*x - 2*y*y,
	})
}

// QuatFromRotationMatrix converts a 3x3 rotation matrix to a quaternion via
// the eigendecomposition of the associated symmetric 4x4 matrix. The result
// is canonicalized so the scalar part is non-negative, which makes
// round-trips through RotationMatrixFromQuat exact.
func QuatFromRotationMatrix(r *mat.Dense) quat.Number {
	rxx, ryx, rzx := r.At(0, 0), r.At(0, 1), r.At(0, 2)
	rxy, ryy, rzy := r.At(1, 0), r.At(1, 1), r.At(1, 2)
	rxz, ryz, rzz := r.At(2, 0), r.At(2, 1), r.At(2, 2)
	k := mat.NewSymDense(4, []float64{
		rxx - ryy - rzz, ryx + rxy, rzx + rxz, ryz - rzy,
		ryx + rxy, ryy - rxx - rzz, rzy + ryz, rzx - rxz,
		rzx + rxz, rzy + ryz, rzz - rxx - ryy, rxy - ryx,
		ryz - rzy, rzx - rxz, rxy - ryx, rxx + ryy + rzz,
	})
	k.ScaleSym(1.0/3.0, k)

	var eig mat.EigenSym
	if !eig.Factorize(k, true) {
		panic("spatialmath: eigendecomposition of rotation matrix failed")
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	best := 0
	for i, v := range vals {
		if v > vals[best] {
			best = i
		}
	}
	q := quat.Number{
		Real: vecs.At(3, best),
		Imag: vecs.At(0, best),
		Jmag: vecs.At(1, best),
		Kmag: vecs.At(2, best),
	}
	if q.Real < 0 {
		q = quat.Number{Real: -q.Real, Imag: -q.Imag, Jmag: -q.Jmag, Kmag: -q.Kmag}
	}
	return q
}

// EulerXYZFromRotationMatrix converts a 3x3 rotation matrix to Euler angles
// in radians, XYZ application order. The returned vector holds the rotations
// about X, Y and Z. Near gimbal lock (cos(y) ~ 0) the Z angle is fixed to 0
// and X absorbs the remaining rotation.
func EulerXYZFromRotationMatrix(r *mat.Dense) r3.Vector {
	sy := math.Sqrt(r.At(0, 0)*r.At(0, 0) + r.At(1, 0)*r.At(1, 0))
	if sy <= 1e-6 {
		return r3.Vector{
			X: math.Atan2(-r.At(1, 2), r.At(1, 1)),
			Y: math.Atan2(-r.At(2, 0), sy),
			Z: 0,
		}
	}
	return r3.Vector{
		X: math.Atan2(r.At(2, 1), r.At(2, 2)),
		Y: math.Atan2(-r.At(2, 0), sy),
		Z: math.Atan2(r.At(1, 0), r.At(0, 0)),
	}
}
