package scene

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio/npz"
	"go.viam.com/utils"
)

// Format identifies one of the known archive layouts.
type Format int

// The known archive layouts. There is no sniffing beyond key sets: an
// archive that matches neither is FormatUnknown and every operation on it
// fails with the keys it did carry.
const (
	FormatUnknown Format = iota
	FormatTracking
	FormatDepthFrame
)

func (f Format) String() string {
	switch f {
	case FormatTracking:
		return "tracking"
	case FormatDepthFrame:
		return "depthframe"
	default:
		return "unknown"
	}
}

// ParseFormat maps a CLI format name to a Format; "auto" is FormatUnknown,
// which callers treat as "detect".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatUnknown, nil
	case "tracking":
		return FormatTracking, nil
	case "depthframe":
		return FormatDepthFrame, nil
	default:
		return FormatUnknown, errors.Errorf("unknown archive format %q (want auto, tracking or depthframe)", s)
	}
}

// NormalizeKey strips the ".npy" suffix numpy's savez applies to zip entry
// names, so callers can match on the array names the producer used.
func NormalizeKey(key string) string {
	return strings.TrimSuffix(key, ".npy")
}

// ClassifyKeys classifies an archive by its (normalized) key set. Tracking
// archives carry images, depths, intrinsic and cam_c2w; depth-frame archives
// carry depth and fov and no cam_c2w.
func ClassifyKeys(keys []string) Format {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[NormalizeKey(k)] = true
	}
	if set["images"] && set["depths"] && set["intrinsic"] && set["cam_c2w"] {
		return FormatTracking
	}
	if set["depth"] && set["fov"] && !set["cam_c2w"] {
		return FormatDepthFrame
	}
	return FormatUnknown
}

// DetectFormat opens the archive just far enough to classify it.
func DetectFormat(path string) (Format, error) {
	rd, err := npz.Open(path)
	if err != nil {
		return FormatUnknown, errors.Wrapf(err, "opening %s", path)
	}
	defer utils.UncheckedErrorFunc(rd.Close)
	return ClassifyKeys(rd.Keys()), nil
}

func sortedNormalizedKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, NormalizeKey(k))
	}
	sort.Strings(out)
	return out
}
