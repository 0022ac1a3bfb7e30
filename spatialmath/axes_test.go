package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestAxisMapVector(t *testing.T) {
	v := r3.Vector{X: 1, Y: 2, Z: 3}
	test.That(t, ColmapToUE.Vector(v), test.ShouldResemble, r3.Vector{X: 3, Y: 1, Z: -2})
	test.That(t, UEToBlenderWorld.Vector(v), test.ShouldResemble, r3.Vector{X: 2, Y: 1, Z: 3})
	test.That(t, FlipX.Vector(v), test.ShouldResemble, r3.Vector{X: -1, Y: 2, Z: 3})
	test.That(t, FlipY.Vector(v), test.ShouldResemble, r3.Vector{X: 1, Y: -2, Z: 3})
	test.That(t, FlipZ.Vector(v), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: -3})
	test.That(t, SwapXY.Vector(v), test.ShouldResemble, r3.Vector{X: 2, Y: 1, Z: 3})
	test.That(t, SwapYZ.Vector(v), test.ShouldResemble, r3.Vector{X: 1, Y: 3, Z: 2})
}

func TestAxisMapInvolution(t *testing.T) {
	v := r3.Vector{X: 0.5, Y: -1.25, Z: 3.75}
	r := rotZ(0.8)
	for _, a := range []AxisMap{FlipX, FlipY, FlipZ, SwapXY, SwapYZ} {
		test.That(t, a.Vector(a.Vector(v)), test.ShouldResemble, v)
		assertMatAlmost(t, a.Conjugate(a.Conjugate(r)), r, 1e-12)
	}
}

func TestConjugateDiffersFromRotateWorld(t *testing.T) {
	// The two composition rules agree only in special cases; a plain Z
	// rotation under the COLMAP->UE map separates them.
	r := rotZ(math.Pi / 6)
	conj := ColmapToUE.Conjugate(r)
	left := ColmapToUE.RotateWorld(r)

	same := true
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(conj.At(i, j)-left.At(i, j)) > 1e-9 {
				same = false
			}
		}
	}
	test.That(t, same, test.ShouldBeFalse)

	// conjugation preserves the identity, left-multiplication does not
	ident := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	assertMatAlmost(t, ColmapToUE.Conjugate(ident), ident, 1e-12)
	assertMatAlmost(t, ColmapToUE.RotateWorld(ident), ColmapToUE.Matrix(), 1e-12)
}

func TestAxisMapMatrixIsCopy(t *testing.T) {
	m := FlipX.Matrix()
	m.Set(0, 0, 42)
	test.That(t, FlipX.Matrix().At(0, 0), test.ShouldEqual, -1)
	test.That(t, FlipX.Name(), test.ShouldEqual, "flip_x")
}
