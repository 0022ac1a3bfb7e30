package export

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

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"github.com/camtraj/camtraj/scene"
)

// testTracking is a 2-frame 2x3 scene; frame 1 is a 90 degree yaw with the
// camera center at (1,2,3).
func testTracking() *scene.Tracking {
	images := make([]uint8, 2*2*3*3)
	for i := range images {
		images[i] = uint8(i * 3)
	}
	depths := []float32{
		1, 2, 3, 4, 0, -1,
		2, 4, 6, 8, 10, 0,
	}
	return &scene.Tracking{
		Name:      "kitchen_droid",
		Images:    &scene.ImageStack{Data: images, N: 2, H: 2, W: 3},
		Depths:    &scene.DepthStack{Data: depths, N: 2, H: 2, W: 3},
		Intrinsic: mat.NewDense(3, 3, []float64{600, 0, 320, 0, 610, 240, 0, 0, 1}),
		CamToWorld: []*mat.Dense{
			mat.NewDense(4, 4, []float64{
				1, 0, 0, 0,
				0, 1, 0, 0,
				0, 0, 1, 0,
				0, 0, 0, 1,
			}),
			mat.NewDense(4, 4, []float64{
				0, -1, 0, 1,
				1, 0, 0, 2,
				0, 0, 1, 3,
				0, 0, 0, 1,
			}),
		},
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

func writeTrackingNPZ(t *testing.T, path string) {
	t.Helper()
	sc := testTracking()
	c2w := make([]float64, 0, 32)
	for _, m := range sc.CamToWorld {
		c2w = append(c2w, m.RawMatrix().Data...)
	}
	writeNPZ(t, path, map[string][]byte{
		"images.npy":    npyBytes(t, "|u1", []int{2, 2, 3, 3}, sc.Images.Data),
		"depths.npy":    npyBytes(t, "<f4", []int{2, 2, 3}, sc.Depths.Data),
		"intrinsic.npy": npyBytes(t, "<f8", []int{3, 3}, sc.Intrinsic.RawMatrix().Data),
		"cam_c2w.npy":   npyBytes(t, "<f8", []int{2, 4, 4}, c2w),
	})
}

func writeDepthFrameNPZ(t *testing.T, path string, vals []float32, h, w int, fov float64) {
	t.Helper()
	writeNPZ(t, path, map[string][]byte{
		"depth.npy": npyBytes(t, "<f4", []int{h, w}, vals),
		"fov.npy":   npyBytes(t, "<f8", []int{1}, []float64{fov}),
	})
}
