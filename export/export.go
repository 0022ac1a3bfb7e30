// Package export writes the dataset artifacts downstream tools consume:
// per-scene CSV bundles (poses, intrinsics, depth summaries), COLMAP text
// models with frame images, Unreal-ready pose tables, and the batch variants
// that walk a directory of archives.
package export

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// CSVOptions controls the CSV bundle writers.
type CSVOptions struct {
	// FlattenDepth additionally writes per-pixel depth tables. They are
	// large; off unless asked for.
	FlattenDepth bool
	// SkipDepthSummary drops the per-frame depth statistics file.
	SkipDepthSummary bool
}

// ColmapOptions controls the COLMAP model writer.
type ColmapOptions struct {
	// SkipImages writes the text model without dumping RGB frames.
	SkipImages bool
	// ImageFormat is jpg (default) or png.
	ImageFormat string
}

func normalizeImageFormat(s string) (string, error) {
	switch strings.ToLower(s) {
	case "", "jpg", "jpeg":
		return "jpg", nil
	case "png":
		return "png", nil
	default:
		return "", errors.Errorf("unsupported image format %q (want jpg or png)", s)
	}
}

func f6(v float64) string {
	if v == 0 {
		// fold negative zero out of the output
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return write(f)
}
