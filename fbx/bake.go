package fbx

import (
	"context"
	_ "embed"
	"math"
	"os"
	"os/exec"
	"strconv"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/camtraj/camtraj/trajectory"
	"github.com/camtraj/camtraj/utils"
)

//go:embed bake_camera.py
var bakeScript []byte

// DefaultFPS is the timeline frame rate when none is given.
const DefaultFPS = 30.0

// BakeOptions configure a bake run. The zero value bakes at DefaultFPS with
// centimeter units and auto-discovered Blender.
type BakeOptions struct {
	// FPS for the baked timeline; Blender rounds to an integer frame rate.
	FPS float64
	// KeepMeters leaves locations in meters instead of Unreal centimeters.
	KeepMeters bool
	// KeepIntermediates leaves the temp keyframes CSV and bake script on
	// disk for inspection.
	KeepIntermediates bool
	// Resolver locates the Blender executable; nil means DefaultResolver.
	Resolver Resolver
}

// Bake converts the sequence to keyframes, writes them and the bake script
// to temp files, and runs Blender headless to export outFBX. Temp files are
// removed on every exit path unless KeepIntermediates is set.
func Bake(ctx context.Context, seq trajectory.Sequence, outFBX string, opts BakeOptions, logger golog.Logger) error {
	if len(seq) == 0 {
		return errors.New("no poses to bake")
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = DefaultResolver{}
	}
	blender, err := resolver.Resolve()
	if err != nil {
		return err
	}
	fps := opts.FPS
	if fps == 0 {
		fps = DefaultFPS
	}

	kfPath, err := writeKeyframesTemp(Keyframes(seq, !opts.KeepMeters))
	if err != nil {
		return err
	}
	scriptPath, err := writeScriptTemp()
	if err != nil {
		utils.RemoveFileNoError(kfPath)
		return err
	}
	if opts.KeepIntermediates {
		logger.Infof("keeping intermediates: %s %s", kfPath, scriptPath)
	} else {
		defer utils.RemoveFileNoError(kfPath)
		defer utils.RemoveFileNoError(scriptPath)
	}

	args := []string{
		"--background",
		"--python", scriptPath,
		"--",
		"--csv", kfPath,
		"--out", outFBX,
		"--fps", strconv.Itoa(int(math.Round(fps))),
	}
	logger.Debugf("running %s %v", blender, args)
	//nolint:gosec
	cmd := exec.CommandContext(ctx, blender, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			logger.Error(string(out))
		}
		return errors.Wrap(err, "blender bake failed")
	}
	if len(out) > 0 {
		logger.Debug(string(out))
	}
	return nil
}

func writeKeyframesTemp(frames []Keyframe) (string, error) {
	f, err := os.CreateTemp("", "camtraj_keyframes_*.csv")
	if err != nil {
		return "", err
	}
	werr := WriteKeyframesCSV(f, frames)
	if err := multierr.Combine(werr, f.Close()); err != nil {
		utils.RemoveFileNoError(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func writeScriptTemp() (string, error) {
	f, err := os.CreateTemp("", "camtraj_bake_*.py")
	if err != nil {
		return "", err
	}
	_, werr := f.Write(bakeScript)
	if err := multierr.Combine(werr, f.Close()); err != nil {
		utils.RemoveFileNoError(f.Name())
		return "", err
	}
	return f.Name(), nil
}
