package videoframes

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"
)

func TestDefaultOutDir(t *testing.T) {
	test.That(t, DefaultOutDir("/videos/kitchen.mp4"), test.ShouldEqual, "/videos/kitchen_frames")
	test.That(t, DefaultOutDir("clip.avi"), test.ShouldEqual, "clip_frames")
}

// fakeFfmpeg puts a stand-in ffmpeg on PATH that records its arguments and
// materializes three frames from the output pattern. Only shell builtins so
// it survives the emptied PATH.
func fakeFfmpeg(t *testing.T, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture")
	}
	binDir := t.TempDir()
	script := "#!/bin/sh\n" +
		"printf '%s\\n' \"$@\" > " + argsFile + "\n" +
		"for last; do :; done\n" +
		": > \"$(printf \"$last\" 0)\"\n" +
		": > \"$(printf \"$last\" 1)\"\n" +
		": > \"$(printf \"$last\" 2)\"\n"
	test.That(t, os.WriteFile(filepath.Join(binDir, "ffmpeg"), []byte(script), 0o755), test.ShouldBeNil)
	t.Setenv("PATH", binDir)
}

func TestExtract(t *testing.T) {
	logger := golog.NewTestLogger(t)
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	fakeFfmpeg(t, argsFile)

	videoPath := filepath.Join(dir, "kitchen.mp4")
	test.That(t, os.WriteFile(videoPath, []byte("not really a video"), 0o644), test.ShouldBeNil)
	outDir := filepath.Join(dir, "frames")

	n, err := Extract(context.Background(), videoPath, outDir, 6, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, 3)

	_, err = os.Stat(filepath.Join(outDir, "00000.jpg"))
	test.That(t, err, test.ShouldBeNil)
	_, err = os.Stat(filepath.Join(outDir, "00002.jpg"))
	test.That(t, err, test.ShouldBeNil)

	raw, err := os.ReadFile(argsFile)
	test.That(t, err, test.ShouldBeNil)
	args := string(raw)
	test.That(t, args, test.ShouldContainSubstring, videoPath)
	test.That(t, args, test.ShouldContainSubstring, "fps=6")
	test.That(t, args, test.ShouldContainSubstring, "%05d.jpg")
	test.That(t, args, test.ShouldContainSubstring, "-y")
}

func TestExtractDefaults(t *testing.T) {
	logger := golog.NewTestLogger(t)
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	fakeFfmpeg(t, argsFile)

	videoPath := filepath.Join(dir, "clip.mp4")
	test.That(t, os.WriteFile(videoPath, []byte("x"), 0o644), test.ShouldBeNil)

	// Zero fps and empty outDir fall back to 6 fps and <stem>_frames.
	n, err := Extract(context.Background(), videoPath, "", 0, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, 3)

	_, err = os.Stat(filepath.Join(dir, "clip_frames", "00001.jpg"))
	test.That(t, err, test.ShouldBeNil)

	raw, err := os.ReadFile(argsFile)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(raw), test.ShouldContainSubstring, "fps=6")
}

func TestExtractNoFfmpeg(t *testing.T) {
	logger := golog.NewTestLogger(t)
	t.Setenv("PATH", t.TempDir())

	_, err := Extract(context.Background(), "clip.mp4", "", 6, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "ffmpeg not found in PATH")
}

func TestExtractMissingVideo(t *testing.T) {
	logger := golog.NewTestLogger(t)
	dir := t.TempDir()
	fakeFfmpeg(t, filepath.Join(dir, "args.txt"))

	_, err := Extract(context.Background(), filepath.Join(dir, "missing.mp4"), "", 6, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, os.IsNotExist(err), test.ShouldBeTrue)
}

func TestExtractFfmpegFailure(t *testing.T) {
	logger := golog.NewTestLogger(t)
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture")
	}
	dir := t.TempDir()
	binDir := t.TempDir()
	script := "#!/bin/sh\necho 'Invalid data found when processing input' >&2\nexit 1\n"
	test.That(t, os.WriteFile(filepath.Join(binDir, "ffmpeg"), []byte(script), 0o755), test.ShouldBeNil)
	t.Setenv("PATH", binDir)

	videoPath := filepath.Join(dir, "clip.mp4")
	test.That(t, os.WriteFile(videoPath, []byte("x"), 0o644), test.ShouldBeNil)

	_, err := Extract(context.Background(), videoPath, filepath.Join(dir, "frames"), 6, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "extracting frames from")
	test.That(t, err.Error(), test.ShouldContainSubstring, videoPath)
}
