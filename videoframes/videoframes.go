// Package videoframes extracts still frames from a video with ffmpeg.
//
// Frames are sampled at a target rate and written as sequentially numbered
// JPEGs (00000.jpg, 00001.jpg, ...), the layout the scene reconstruction
// pipeline expects as input.
package videoframes

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// DefaultFPS is the sampling rate used when the caller does not give one.
const DefaultFPS = 6.0

// DefaultOutDir returns the directory frames of videoPath land in when no
// output directory is given: <stem>_frames next to the video.
func DefaultOutDir(videoPath string) string {
	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	return filepath.Join(filepath.Dir(videoPath), stem+"_frames")
}

// Extract samples videoPath at fps frames per second and writes the frames
// into outDir, creating it if needed. It returns the number of frames on disk
// after the run.
func Extract(ctx context.Context, videoPath, outDir string, fps float64, logger golog.Logger) (int, error) {
	// make sure ffmpeg is in the path before doing anything else
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return 0, errors.Wrap(err, "ffmpeg not found in PATH; install ffmpeg to extract frames")
	}
	if _, err := os.Stat(videoPath); err != nil {
		return 0, err
	}
	if fps <= 0 {
		fps = DefaultFPS
	}
	if outDir == "" {
		outDir = DefaultOutDir(videoPath)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, err
	}

	stream := ffmpeg.Input(videoPath)
	stream = stream.Output(filepath.Join(outDir, "%05d.jpg"), ffmpeg.KwArgs{
		"vf":           fmt.Sprintf("fps=%g", fps),
		"start_number": 0,
		"qscale:v":     2,
	})
	stream.Context = ctx

	cmd := stream.OverWriteOutput().Compile()
	logger.Debugf("running %s", strings.Join(cmd.Args, " "))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			logger.Error(stderr.String())
		}
		return 0, errors.Wrapf(err, "extracting frames from %s", videoPath)
	}

	n, err := countFrames(outDir)
	if err != nil {
		return 0, err
	}
	logger.Infof("wrote %d frames to %s", n, outDir)
	return n, nil
}

func countFrames(dir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "[0-9][0-9][0-9][0-9][0-9].jpg"))
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}
