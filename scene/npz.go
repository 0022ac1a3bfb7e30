package scene

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio/npy"
	"github.com/sbinet/npyio/npz"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/mat"
)

// archive wraps an open npz reader with the normalized-key index: numpy's
// savez stores array "images" under zip entry "images.npy".
type archive struct {
	rd      *npz.Reader
	path    string
	entries map[string]string
}

func openArchive(path string) (*archive, error) {
	rd, err := npz.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	a := &archive{rd: rd, path: path, entries: make(map[string]string)}
	for _, k := range rd.Keys() {
		a.entries[NormalizeKey(k)] = k
	}
	return a, nil
}

func (a *archive) Close() error { return a.rd.Close() }

func (a *archive) format() Format { return ClassifyKeys(a.rd.Keys()) }

func (a *archive) wrongFormat(want Format) error {
	keys := sortedNormalizedKeys(a.rd.Keys())
	return errors.Errorf("%s: not a %s archive (keys: %s)", a.path, want, strings.Join(keys, ", "))
}

func (a *archive) header(key string) (npy.Header, error) {
	entry, ok := a.entries[key]
	if !ok {
		return npy.Header{}, errors.Errorf("%s: missing array %q", a.path, key)
	}
	return *a.rd.Header(entry), nil
}

func (a *archive) checkDescr(key string, h npy.Header, wantType string, wantDims int) error {
	if got := strings.TrimLeft(h.Descr.Type, "<>|="); got != wantType {
		return errors.Errorf("%s: array %q has dtype %q, want %q", a.path, key, h.Descr.Type, wantType)
	}
	if h.Descr.Fortran {
		return errors.Errorf("%s: array %q is column-major, want row-major", a.path, key)
	}
	if wantDims >= 0 && len(h.Descr.Shape) != wantDims {
		return errors.Errorf("%s: array %q has shape %v, want %d dimensions", a.path, key, h.Descr.Shape, wantDims)
	}
	return nil
}

func (a *archive) readUint8(key string, dims int) ([]uint8, []int, error) {
	h, err := a.header(key)
	if err != nil {
		return nil, nil, err
	}
	if err := a.checkDescr(key, h, "u1", dims); err != nil {
		return nil, nil, err
	}
	var data []uint8
	if err := a.rd.Read(a.entries[key], &data); err != nil {
		return nil, nil, errors.Wrapf(err, "%s: reading array %q", a.path, key)
	}
	return data, h.Descr.Shape, nil
}

func (a *archive) readFloat32(key string, dims int) ([]float32, []int, error) {
	h, err := a.header(key)
	if err != nil {
		return nil, nil, err
	}
	if err := a.checkDescr(key, h, "f4", dims); err != nil {
		return nil, nil, err
	}
	var data []float32
	if err := a.rd.Read(a.entries[key], &data); err != nil {
		return nil, nil, errors.Wrapf(err, "%s: reading array %q", a.path, key)
	}
	return data, h.Descr.Shape, nil
}

func (a *archive) readFloat64(key string, dims int) ([]float64, []int, error) {
	h, err := a.header(key)
	if err != nil {
		return nil, nil, err
	}
	if err := a.checkDescr(key, h, "f8", dims); err != nil {
		return nil, nil, err
	}
	var data []float64
	if err := a.rd.Read(a.entries[key], &data); err != nil {
		return nil, nil, errors.Wrapf(err, "%s: reading array %q", a.path, key)
	}
	return data, h.Descr.Shape, nil
}

// readScalar accepts 0-d and single-element arrays of either float width;
// producers disagree on how they save scalars.
func (a *archive) readScalar(key string) (float64, error) {
	h, err := a.header(key)
	if err != nil {
		return 0, err
	}
	if len(h.Descr.Shape) > 1 {
		return 0, errors.Errorf("%s: array %q has shape %v, want a scalar", a.path, key, h.Descr.Shape)
	}
	switch got := strings.TrimLeft(h.Descr.Type, "<>|="); got {
	case "f8":
		var data []float64
		if err := a.rd.Read(a.entries[key], &data); err != nil {
			return 0, errors.Wrapf(err, "%s: reading array %q", a.path, key)
		}
		if len(data) != 1 {
			return 0, errors.Errorf("%s: array %q has %d elements, want 1", a.path, key, len(data))
		}
		return data[0], nil
	case "f4":
		var data []float32
		if err := a.rd.Read(a.entries[key], &data); err != nil {
			return 0, errors.Wrapf(err, "%s: reading array %q", a.path, key)
		}
		if len(data) != 1 {
			return 0, errors.Errorf("%s: array %q has %d elements, want 1", a.path, key, len(data))
		}
		return float64(data[0]), nil
	default:
		return 0, errors.Errorf("%s: array %q has dtype %q, want a float scalar", a.path, key, h.Descr.Type)
	}
}

func archiveStem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// ReadTracking decodes a tracking archive: images uint8 [N,H,W,3], depths
// float32 [N,H,W], intrinsic float64 [3,3], cam_c2w float64 [N,4,4].
func ReadTracking(path string) (*Tracking, error) {
	a, err := openArchive(path)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(a.Close)

	if a.format() != FormatTracking {
		return nil, a.wrongFormat(FormatTracking)
	}

	imgData, imgShape, err := a.readUint8("images", 4)
	if err != nil {
		return nil, err
	}
	if imgShape[3] != 3 {
		return nil, errors.Errorf("%s: array %q has shape %v, want 3 channels", path, "images", imgShape)
	}
	images := &ImageStack{Data: imgData, N: imgShape[0], H: imgShape[1], W: imgShape[2]}

	depthData, depthShape, err := a.readFloat32("depths", 3)
	if err != nil {
		return nil, err
	}
	if depthShape[0] != images.N || depthShape[1] != images.H || depthShape[2] != images.W {
		return nil, errors.Errorf("%s: depths shape %v does not match images shape %v", path, depthShape, imgShape[:3])
	}
	depths := &DepthStack{Data: depthData, N: depthShape[0], H: depthShape[1], W: depthShape[2]}

	kData, kShape, err := a.readFloat64("intrinsic", 2)
	if err != nil {
		return nil, err
	}
	if kShape[0] != 3 || kShape[1] != 3 {
		return nil, errors.Errorf("%s: array %q has shape %v, want [3 3]", path, "intrinsic", kShape)
	}
	intrinsic := mat.NewDense(3, 3, kData)

	c2wData, c2wShape, err := a.readFloat64("cam_c2w", 3)
	if err != nil {
		return nil, err
	}
	if c2wShape[1] != 4 || c2wShape[2] != 4 {
		return nil, errors.Errorf("%s: array %q has shape %v, want [N 4 4]", path, "cam_c2w", c2wShape)
	}
	if c2wShape[0] != images.N {
		return nil, errors.Errorf("%s: cam_c2w has %d frames, images have %d", path, c2wShape[0], images.N)
	}
	c2w := make([]*mat.Dense, 0, c2wShape[0])
	for i := 0; i < c2wShape[0]; i++ {
		c2w = append(c2w, mat.NewDense(4, 4, c2wData[i*16:(i+1)*16]))
	}

	return &Tracking{
		Name:       archiveStem(path),
		Images:     images,
		Depths:     depths,
		Intrinsic:  intrinsic,
		CamToWorld: c2w,
	}, nil
}

// ReadDepthFrame decodes a per-frame depth archive: depth float32 [H,W]
// (a leading singleton dimension is tolerated) and a scalar fov in degrees.
func ReadDepthFrame(path string) (*DepthFrame, error) {
	a, err := openArchive(path)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(a.Close)

	if a.format() != FormatDepthFrame {
		return nil, a.wrongFormat(FormatDepthFrame)
	}

	h, err := a.header("depth")
	if err != nil {
		return nil, err
	}
	dims := len(h.Descr.Shape)
	if dims != 2 && !(dims == 3 && h.Descr.Shape[0] == 1) {
		return nil, errors.Errorf("%s: array %q has shape %v, want [H W]", path, "depth", h.Descr.Shape)
	}
	data, shape, err := a.readFloat32("depth", dims)
	if err != nil {
		return nil, err
	}
	depth := &DepthStack{Data: data, N: 1, H: shape[dims-2], W: shape[dims-1]}

	fov, err := a.readScalar("fov")
	if err != nil {
		return nil, err
	}

	return &DepthFrame{Name: archiveStem(path), Depth: depth, FOVDegrees: fov}, nil
}
