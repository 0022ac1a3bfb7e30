package cli

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"

	"github.com/camtraj/camtraj/trajectory"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	testApp := NewApp(&out, &out)
	err := testApp.Run(append([]string{"camtraj"}, args...))
	return out.String(), err
}

func writePosesFixture(t *testing.T, path string, seq trajectory.Sequence) {
	t.Helper()
	test.That(t, trajectory.WritePosesFile(path, seq), test.ShouldBeNil)
}

func identitySequence() trajectory.Sequence {
	return trajectory.Sequence{
		{FrameID: 0, Quat: quat.Number{Real: 1}, Trans: r3.Vector{X: 1, Y: 2, Z: 3}},
		{FrameID: 1, Quat: quat.Number{Real: 1}, Trans: r3.Vector{X: 1, Y: 2, Z: 4}},
	}
}

func npyBytes(t *testing.T, descr string, shape []int, data interface{}) []byte {
	t.Helper()
	parts := make([]string, len(shape))
	for i, s := range shape {
		parts[i] = strconv.Itoa(s)
	}
	shapeStr := "(" + strings.Join(parts, ", ") + ")"
	if len(shape) == 1 {
		shapeStr = fmt.Sprintf("(%d,)", shape[0])
	}
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': %s, }", descr, shapeStr)
	if pad := 64 - (10+len(header)+1)%64; pad != 64 {
		header += strings.Repeat(" ", pad)
	}
	header += "\n"

	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY")
	buf.WriteByte(1)
	buf.WriteByte(0)
	var hlen [2]byte
	binary.LittleEndian.PutUint16(hlen[:], uint16(len(header)))
	buf.Write(hlen[:])
	buf.WriteString(header)
	test.That(t, binary.Write(&buf, binary.LittleEndian, data), test.ShouldBeNil)
	return buf.Bytes()
}

func writeNPZ(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()
	f, err := os.Create(path)
	test.That(t, err, test.ShouldBeNil)
	zw := zip.NewWriter(f)
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		w, err := zw.Create(name)
		test.That(t, err, test.ShouldBeNil)
		_, err = w.Write(entries[name])
		test.That(t, err, test.ShouldBeNil)
	}
	test.That(t, zw.Close(), test.ShouldBeNil)
	test.That(t, f.Close(), test.ShouldBeNil)
}

// writeTrackingNPZ writes a single-frame 1x1 scene with identity rotation and
// the camera center at (1,2,3).
func writeTrackingNPZ(t *testing.T, path string) {
	t.Helper()
	writeNPZ(t, path, map[string][]byte{
		"images.npy":    npyBytes(t, "|u1", []int{1, 1, 1, 3}, []uint8{10, 20, 30}),
		"depths.npy":    npyBytes(t, "<f4", []int{1, 1, 1}, []float32{2}),
		"intrinsic.npy": npyBytes(t, "<f8", []int{3, 3}, []float64{600, 0, 320, 0, 610, 240, 0, 0, 1}),
		"cam_c2w.npy": npyBytes(t, "<f8", []int{1, 4, 4}, []float64{
			1, 0, 0, 1,
			0, 1, 0, 2,
			0, 0, 1, 3,
			0, 0, 0, 1,
		}),
	})
}

func writeDepthFrameNPZ(t *testing.T, path string, vals []float32, h, w int, fov float64) {
	t.Helper()
	writeNPZ(t, path, map[string][]byte{
		"depth.npy": npyBytes(t, "<f4", []int{h, w}, vals),
		"fov.npy":   npyBytes(t, "<f8", []int{1}, []float64{fov}),
	})
}
