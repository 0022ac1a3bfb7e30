package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"github.com/camtraj/camtraj/utils"
)

// MetersToCM is the position scale applied when converting to UE5, whose
// default world unit is the centimeter.
const MetersToCM = 100.0

func mulVec(m mat.Matrix, v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m.At(0, 0)*v.X + m.At(0, 1)*v.Y + m.At(0, 2)*v.Z,
		Y: m.At(1, 0)*v.X + m.At(1, 1)*v.Y + m.At(1, 2)*v.Z,
		Z: m.At(2, 0)*v.X + m.At(2, 1)*v.Y + m.At(2, 2)*v.Z,
	}
}

// CameraCenter returns the camera position in world coordinates given a
// world-to-camera rotation and translation: C = -R^T * t.
func CameraCenter(r *mat.Dense, t r3.Vector) r3.Vector {
	c := mulVec(r.T(), t)
	return r3.Vector{X: -c.X, Y: -c.Y, Z: -c.Z}
}

// CamToWorldRotation inverts a world-to-camera rotation by transposition.
func CamToWorldRotation(r *mat.Dense) *mat.Dense {
	return mat.DenseCopyOf(r.T())
}

// WorldToCamTranslation recomposes the world-to-camera translation from a
// world-to-camera rotation and a camera center: t = -R * C.
func WorldToCamTranslation(r *mat.Dense, center r3.Vector) r3.Vector {
	t := mulVec(r, center)
	return r3.Vector{X: -t.X, Y: -t.Y, Z: -t.Z}
}

// UEPoseFromColmap converts one COLMAP world-to-camera pose (quaternion +
// translation) to a UE5 camera-to-world pose: the camera position in the UE
// world and the camera-to-world rotation re-expressed in UE axes. With
// scaleToCM the position is multiplied by 100, matching UE's centimeter
// units for metric input.
func UEPoseFromColmap(q quat.Number, t r3.Vector, scaleToCM bool) (r3.Vector, *mat.Dense) {
	rW2C := RotationMatrixFromQuat(q)
	center := CameraCenter(rW2C, t)
	rC2W := CamToWorldRotation(rW2C)

	pos := ColmapToUE.Vector(center)
	rot := ColmapToUE.RotateWorld(rC2W)
	if scaleToCM {
		pos = pos.Mul(MetersToCM)
	}
	return pos, rot
}

// UEEulerDegrees extracts XYZ Euler angles in degrees from a UE camera
// rotation: X is roll, Y is pitch, Z is yaw.
func UEEulerDegrees(rotUE *mat.Dense) r3.Vector {
	e := EulerXYZFromRotationMatrix(rotUE)
	return r3.Vector{
		X: utils.RadToDeg(e.X),
		Y: utils.RadToDeg(e.Y),
		Z: utils.RadToDeg(e.Z),
	}
}

// BlenderWorldFromUE maps a UE world position into the Blender world frame
// (X and Y swap, Z stays). Units are unchanged.
func BlenderWorldFromUE(pos r3.Vector) r3.Vector {
	return UEToBlenderWorld.Vector(pos)
}

// BlenderCameraFromUE builds the Blender camera world rotation for a UE
// camera-to-world rotation. The UE rotation's columns are the camera's
// forward, right and up axes in UE world components; after conjugating into
// the Blender world they become [right | forward | up]. Blender cameras look
// along local -Z with local +Y up, so the camera object wants columns
// [right | up | -forward].
func BlenderCameraFromUE(rotUE *mat.Dense) *mat.Dense {
	rb := UEToBlenderWorld.Conjugate(rotUE)
	return mat.NewDense(3, 3, []float64{
		rb.At(0, 0), rb.At(0, 2), -rb.At(0, 1),
		rb.At(1, 0), rb.At(1, 2), -rb.At(1, 1),
		rb.At(2, 0), rb.At(2, 2), -rb.At(2, 1),
	})
}
