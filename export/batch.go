package export

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/camtraj/camtraj/scene"
)

// TrackingArchives lists the *_droid.npz archives directly under dir, sorted.
func TrackingArchives(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*_droid.npz"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// SceneName derives a scene name from a tracking archive path: the filename
// stem minus the _droid suffix.
func SceneName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimSuffix(stem, "_droid")
}

// BatchCSV exports every tracking archive under inDir to outDir/<scene>/.
// Failing archives are logged and skipped; the aggregate error covers all of
// them.
func BatchCSV(inDir, outDir string, opts CSVOptions, logger golog.Logger) error {
	return batch(inDir, outDir, logger, func(sc *scene.Tracking, sceneDir string) error {
		return WriteCSVBundle(sc, sceneDir, opts, logger)
	})
}

// BatchColmap exports every tracking archive under inDir as a COLMAP model
// at outDir/<scene>/.
func BatchColmap(inDir, outDir string, opts ColmapOptions, logger golog.Logger) error {
	return batch(inDir, outDir, logger, func(sc *scene.Tracking, sceneDir string) error {
		return WriteColmapModel(sc, sceneDir, opts, logger)
	})
}

func batch(inDir, outDir string, logger golog.Logger, exportOne func(*scene.Tracking, string) error) error {
	archives, err := TrackingArchives(inDir)
	if err != nil {
		return err
	}
	if len(archives) == 0 {
		return errors.Errorf("no *_droid.npz archives in %s", inDir)
	}

	var errs error
	for _, path := range archives {
		sc, err := scene.ReadTracking(path)
		if err != nil {
			logger.Errorw("skipping archive", "path", path, "error", err)
			errs = multierr.Append(errs, err)
			continue
		}
		sceneDir := filepath.Join(outDir, SceneName(path))
		if err := exportOne(sc, sceneDir); err != nil {
			logger.Errorw("export failed", "path", path, "error", err)
			errs = multierr.Append(errs, errors.Wrapf(err, "exporting %s", path))
			continue
		}
		logger.Infof("exported %s -> %s", path, sceneDir)
	}
	return errs
}
