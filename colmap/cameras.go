package colmap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// ModelPinhole is the only camera model this package emits; fx, fy, cx, cy.
const ModelPinhole = "PINHOLE"

// Camera is one record of a cameras.txt file. Params are kept as the model's
// raw parameter list; for PINHOLE that is fx, fy, cx, cy.
type Camera struct {
	ID     int
	Model  string
	Width  int
	Height int
	Params []float64
}

// ReadCameras parses a cameras.txt stream, skipping blank lines and
// #-comments.
func ReadCameras(r io.Reader) ([]Camera, error) {
	scanner := bufio.NewScanner(r)
	var cams []Camera
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, errors.Errorf("cameras.txt line %d: expected at least 4 fields, got %d", lineNum, len(fields))
		}
		cam, err := parseCameraLine(fields, lineNum)
		if err != nil {
			return nil, err
		}
		cams = append(cams, cam)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning cameras.txt")
	}
	return cams, nil
}

func parseCameraLine(fields []string, lineNum int) (Camera, error) {
	var cam Camera
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return cam, errors.Wrapf(err, "cameras.txt line %d: bad camera id %q", lineNum, fields[0])
	}
	width, err := strconv.Atoi(fields[2])
	if err != nil {
		return cam, errors.Wrapf(err, "cameras.txt line %d: bad width %q", lineNum, fields[2])
	}
	height, err := strconv.Atoi(fields[3])
	if err != nil {
		return cam, errors.Wrapf(err, "cameras.txt line %d: bad height %q", lineNum, fields[3])
	}
	cam.ID = id
	cam.Model = fields[1]
	cam.Width = width
	cam.Height = height
	for _, field := range fields[4:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return cam, errors.Wrapf(err, "cameras.txt line %d: bad parameter %q", lineNum, field)
		}
		cam.Params = append(cam.Params, v)
	}
	return cam, nil
}

// WriteCameras writes a cameras.txt with the standard three-line header.
func WriteCameras(w io.Writer, cams []Camera) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# Camera list with one line of data per camera:")
	fmt.Fprintln(bw, "#   CAMERA_ID, MODEL, WIDTH, HEIGHT, PARAMS[]")
	fmt.Fprintf(bw, "# Number of cameras: %d\n", len(cams))
	for _, cam := range cams {
		fmt.Fprintf(bw, "%d %s %d %d", cam.ID, cam.Model, cam.Width, cam.Height)
		for _, p := range cam.Params {
			fmt.Fprintf(bw, " %.6f", p)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// ReadCamerasFile reads a cameras.txt from disk.
func ReadCamerasFile(path string) ([]Camera, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)
	cams, err := ReadCameras(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return cams, nil
}

// WriteCamerasFile writes a cameras.txt to disk.
func WriteCamerasFile(path string, cams []Camera) (err error) {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return WriteCameras(f, cams)
}
