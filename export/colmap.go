package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/camtraj/camtraj/colmap"
	"github.com/camtraj/camtraj/scene"
)

// WriteColmapModel exports a tracking scene as a COLMAP text model:
// cameras.txt, images.txt with w2c poses and 1-based ids, an empty
// points3D.txt, and (unless skipped) the RGB frames under images/ named
// frame_%06d with the configured extension.
func WriteColmapModel(sc *scene.Tracking, dir string, opts ColmapOptions, logger golog.Logger) error {
	ext, err := normalizeImageFormat(opts.ImageFormat)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	in, err := sc.Intrinsics()
	if err != nil {
		return err
	}
	cams := []colmap.Camera{{
		ID:     1,
		Model:  colmap.ModelPinhole,
		Width:  in.Width,
		Height: in.Height,
		Params: []float64{in.Fx, in.Fy, in.Cx, in.Cy},
	}}
	if err := colmap.WriteCamerasFile(filepath.Join(dir, "cameras.txt"), cams); err != nil {
		return err
	}

	seq, err := sc.Poses()
	if err != nil {
		return err
	}
	images := make([]colmap.Image, 0, len(seq))
	for i, p := range seq {
		images = append(images, colmap.Image{
			ID:       i + 1,
			Quat:     p.Quat,
			Trans:    p.Trans,
			CameraID: 1,
			Name:     fmt.Sprintf("frame_%06d.%s", i, ext),
		})
	}
	if err := colmap.WriteImagesFile(filepath.Join(dir, "images.txt"), images); err != nil {
		return err
	}
	if err := colmap.WriteEmptyPoints3DFile(filepath.Join(dir, "points3D.txt")); err != nil {
		return err
	}
	logger.Debugf("wrote model with %d images to %s", len(images), dir)

	if opts.SkipImages {
		return nil
	}
	imgDir := filepath.Join(dir, "images")
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", imgDir)
	}
	for i := 0; i < sc.Images.N; i++ {
		path := filepath.Join(imgDir, fmt.Sprintf("frame_%06d.%s", i, ext))
		if err := imaging.Save(sc.Images.Frame(i), path); err != nil {
			return errors.Wrapf(err, "saving %s", path)
		}
	}
	logger.Debugf("wrote %d frames to %s", sc.Images.N, imgDir)
	return nil
}
