// Package colmap reads and writes COLMAP sparse-model text files
// (cameras.txt, images.txt, points3D.txt).
//
// The reader is tolerant: comment and blank lines are skipped anywhere, and
// pose lines with fewer than ten fields are ignored rather than rejected,
// since models seen in the wild disagree on how the per-image points line and
// record separators are written. The writer always emits the normalized
// layout: a three-line header followed by two lines per image, the second
// line holding the 2D point observations (possibly empty).
package colmap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/num/quat"
)

// Image is one record of an images.txt file: the world-to-camera pose of a
// registered frame plus its camera reference and file name. Points2D carries
// the record's second line verbatim so observations survive a round trip
// without this package understanding them.
type Image struct {
	ID       int
	Quat     quat.Number
	Trans    r3.Vector
	CameraID int
	Name     string
	Points2D string
}

// scanner tokens must fit a full points line; dense models run to tens of
// thousands of characters per image.
const maxLineBytes = 16 * 1024 * 1024

// ReadImages parses an images.txt stream. Blank lines and #-comments are
// skipped. A data line with fewer than ten fields is skipped entirely (no
// points line is consumed for it); a well-formed pose line consumes the
// following line, if any, as its points line.
func ReadImages(r io.Reader) ([]Image, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var images []Image
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 10 {
			continue
		}
		img, err := parseImageLine(fields, lineNum)
		if err != nil {
			return nil, err
		}
		if scanner.Scan() {
			lineNum++
			img.Points2D = scanner.Text()
		}
		images = append(images, img)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning images.txt")
	}
	return images, nil
}

func parseImageLine(fields []string, lineNum int) (Image, error) {
	var img Image
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return img, errors.Wrapf(err, "images.txt line %d: bad image id %q", lineNum, fields[0])
	}
	img.ID = id

	var vals [7]float64
	for i := 0; i < 7; i++ {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return img, errors.Wrapf(err, "images.txt line %d: bad value %q", lineNum, fields[i+1])
		}
		vals[i] = v
	}
	img.Quat = quat.Number{Real: vals[0], Imag: vals[1], Jmag: vals[2], Kmag: vals[3]}
	img.Trans = r3.Vector{X: vals[4], Y: vals[5], Z: vals[6]}

	camID, err := strconv.Atoi(fields[8])
	if err != nil {
		return img, errors.Wrapf(err, "images.txt line %d: bad camera id %q", lineNum, fields[8])
	}
	img.CameraID = camID
	img.Name = fields[9]
	return img, nil
}

// WriteImages writes the normalized images.txt layout. Every image gets two
// lines; an image with no recorded observations gets an empty second line.
func WriteImages(w io.Writer, images []Image) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# Image list with two lines of data per image:")
	fmt.Fprintln(bw, "#   IMAGE_ID, QW, QX, QY, QZ, TX, TY, TZ, CAMERA_ID, NAME")
	fmt.Fprintf(bw, "# Number of images: %d\n", len(images))
	for _, img := range images {
		fmt.Fprintf(bw, "%d %.8f %.8f %.8f %.8f %.8f %.8f %.8f %d %s\n",
			img.ID,
			img.Quat.Real, img.Quat.Imag, img.Quat.Jmag, img.Quat.Kmag,
			img.Trans.X, img.Trans.Y, img.Trans.Z,
			img.CameraID, img.Name,
		)
		fmt.Fprintln(bw, img.Points2D)
	}
	return bw.Flush()
}

// ReadImagesFile reads an images.txt from disk.
func ReadImagesFile(path string) ([]Image, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)
	images, err := ReadImages(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return images, nil
}

// WriteImagesFile writes an images.txt to disk.
func WriteImagesFile(path string, images []Image) (err error) {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return WriteImages(f, images)
}
