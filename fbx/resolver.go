// Package fbx bakes camera trajectories to FBX animation files by driving a
// headless Blender. All pose math happens here in Go; the embedded Blender
// script only replays precomputed keyframes and exports.
package fbx

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/pkg/errors"
)

// ErrBlenderNotFound is returned when no Blender executable can be located.
var ErrBlenderNotFound = errors.New(
	"blender not found; install Blender or set BLENDER_EXE to the blender executable path")

// Resolver locates the Blender executable.
type Resolver interface {
	Resolve() (string, error)
}

// DefaultResolver checks BLENDER_EXE, then PATH, then the platform's common
// install locations.
type DefaultResolver struct{}

// Resolve implements Resolver.
func (DefaultResolver) Resolve() (string, error) {
	if exe := os.Getenv("BLENDER_EXE"); exe != "" {
		if isFile(exe) {
			return exe, nil
		}
	}
	if exe, err := exec.LookPath("blender"); err == nil {
		return exe, nil
	}
	if exe := findInstalled(); exe != "" {
		return exe, nil
	}
	return "", ErrBlenderNotFound
}

// findInstalled scans conventional install dirs, newest version first.
func findInstalled() string {
	switch runtime.GOOS {
	case "windows":
		programFiles := os.Getenv("ProgramFiles")
		if programFiles == "" {
			programFiles = `C:\Program Files`
		}
		foundation := filepath.Join(programFiles, "Blender Foundation")
		entries, err := os.ReadDir(foundation)
		if err != nil {
			return ""
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() > entries[j].Name() })
		for _, e := range entries {
			candidate := filepath.Join(foundation, e.Name(), "blender.exe")
			if isFile(candidate) {
				return candidate
			}
		}
	case "darwin":
		candidate := "/Applications/Blender.app/Contents/MacOS/Blender"
		if isFile(candidate) {
			return candidate
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ResolvePath returns a Resolver pinned to an explicit executable, for
// --blender overrides and tests.
func ResolvePath(path string) Resolver {
	return fixedResolver(path)
}

type fixedResolver string

func (p fixedResolver) Resolve() (string, error) {
	if p == "" {
		return "", ErrBlenderNotFound
	}
	return string(p), nil
}
