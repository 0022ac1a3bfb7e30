package colmap

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
)

// WriteEmptyPoints3D writes a points3D.txt header with no points. Pose-only
// exports carry no triangulated structure, but downstream loaders still
// expect the file to exist.
func WriteEmptyPoints3D(w io.Writer) error {
	_, err := fmt.Fprint(w,
		"# 3D point list with one line of data per point:\n"+
			"#   POINT3D_ID, X, Y, Z, R, G, B, ERROR, TRACK[] as (IMAGE_ID, POINT2D_IDX)\n"+
			"# Number of points: 0\n")
	return err
}

// WriteEmptyPoints3DFile writes an empty points3D.txt to disk.
func WriteEmptyPoints3DFile(path string) (err error) {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return WriteEmptyPoints3D(f)
}
