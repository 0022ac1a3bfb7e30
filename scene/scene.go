// Package scene loads tracking and depth-frame archives produced by the
// upstream reconstruction tools (numpy .npz files) and exposes their image,
// depth and pose payloads as Go types.
//
// Two archive layouts exist: tracking archives carry a whole trajectory
// (images, depths, intrinsic, cam_c2w), per-frame depth archives carry one
// depth raster and a field of view (depth, fov). ClassifyKeys tells them
// apart; everything else in this package assumes a classified archive.
package scene

import (
	"fmt"
	"image"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/camtraj/camtraj/spatialmath"
	"github.com/camtraj/camtraj/trajectory"
)

// Tracking is a decoded tracking archive: N frames of RGB and depth, a
// shared pinhole intrinsic matrix, and per-frame camera-to-world transforms.
type Tracking struct {
	Name       string
	Images     *ImageStack
	Depths     *DepthStack
	Intrinsic  *mat.Dense
	CamToWorld []*mat.Dense
}

// DepthFrame is a decoded per-frame depth archive: a single depth raster and
// the estimated horizontal field of view in degrees.
type DepthFrame struct {
	Name       string
	Depth      *DepthStack
	FOVDegrees float64
}

// ImageStack is N contiguous H-by-W RGB rasters, one byte per channel.
type ImageStack struct {
	Data    []uint8
	N, H, W int
}

// Frame returns frame i as an NRGBA copy. Frame panics if i is out of range.
func (s *ImageStack) Frame(i int) image.Image {
	if i < 0 || i >= s.N {
		panic(fmt.Sprintf("scene: image frame %d out of range [0,%d)", i, s.N))
	}
	img := image.NewNRGBA(image.Rect(0, 0, s.W, s.H))
	src := s.Data[i*s.H*s.W*3:]
	for y := 0; y < s.H; y++ {
		for x := 0; x < s.W; x++ {
			o := (y*s.W + x) * 3
			d := img.PixOffset(x, y)
			img.Pix[d] = src[o]
			img.Pix[d+1] = src[o+1]
			img.Pix[d+2] = src[o+2]
			img.Pix[d+3] = 0xff
		}
	}
	return img
}

// DepthStack is N contiguous H-by-W depth rasters.
type DepthStack struct {
	Data    []float32
	N, H, W int
}

// Frame returns frame i as a view into the stack, row-major. Frame panics if
// i is out of range.
func (d *DepthStack) Frame(i int) []float32 {
	if i < 0 || i >= d.N {
		panic(fmt.Sprintf("scene: depth frame %d out of range [0,%d)", i, d.N))
	}
	n := d.H * d.W
	return d.Data[i*n : (i+1)*n]
}

// Poses inverts each camera-to-world transform into the world-to-camera
// convention used everywhere else, numbering frames 0..N-1.
func (t *Tracking) Poses() (trajectory.Sequence, error) {
	seq := make(trajectory.Sequence, 0, len(t.CamToWorld))
	for i, c2w := range t.CamToWorld {
		var w2c mat.Dense
		if err := w2c.Inverse(c2w); err != nil {
			return nil, errors.Wrapf(err, "inverting cam_c2w[%d]", i)
		}
		r := mat.DenseCopyOf(w2c.Slice(0, 3, 0, 3))
		seq = append(seq, trajectory.Pose{
			FrameID: i,
			Quat:    spatialmath.QuatFromRotationMatrix(r),
			Trans:   r3.Vector{X: w2c.At(0, 3), Y: w2c.At(1, 3), Z: w2c.At(2, 3)},
		})
	}
	return seq, nil
}

// Intrinsics reads the pinhole parameters out of the 3x3 intrinsic matrix,
// taking image dimensions from the image stack (or the depth stack when the
// archive carries no images).
func (t *Tracking) Intrinsics() (PinholeIntrinsics, error) {
	var in PinholeIntrinsics
	switch {
	case t.Images != nil:
		in.Width, in.Height = t.Images.W, t.Images.H
	case t.Depths != nil:
		in.Width, in.Height = t.Depths.W, t.Depths.H
	default:
		return in, errors.New("no image or depth stack to take dimensions from")
	}
	in.Fx = t.Intrinsic.At(0, 0)
	in.Fy = t.Intrinsic.At(1, 1)
	in.Cx = t.Intrinsic.At(0, 2)
	in.Cy = t.Intrinsic.At(1, 2)
	if err := in.CheckValid(); err != nil {
		return in, err
	}
	return in, nil
}

// PinholeIntrinsics are the parameters of a distortion-free pinhole camera.
type PinholeIntrinsics struct {
	Width  int
	Height int
	Fx     float64
	Fy     float64
	Cx     float64
	Cy     float64
}

// CheckValid checks the fields of PinholeIntrinsics for valid inputs.
func (in PinholeIntrinsics) CheckValid() error {
	if in.Width <= 0 || in.Height <= 0 {
		return errors.Errorf("invalid image size (%d, %d)", in.Width, in.Height)
	}
	if in.Fx <= 0 {
		return errors.Errorf("invalid focal length fx = %v", in.Fx)
	}
	if in.Fy <= 0 {
		return errors.Errorf("invalid focal length fy = %v", in.Fy)
	}
	if in.Cx < 0 {
		return errors.Errorf("invalid principal point cx = %v", in.Cx)
	}
	if in.Cy < 0 {
		return errors.Errorf("invalid principal point cy = %v", in.Cy)
	}
	return nil
}
