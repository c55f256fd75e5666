// Package quantize maps arbitrary colors onto a fixed palette.
package quantize

import (
	"fmt"

	"github.com/bitmapkit/ditherd/internal/pixel"
)

// Mode selects the distance metric used to compare colors. The metric
// changes which palette entry wins near decision boundaries, so it is an
// explicit parameter rather than a package default.
type Mode int

const (
	// Absolute sums the per-channel absolute differences.
	Absolute Mode = iota
	// Euclidean compares squared Euclidean distance. No square root is
	// taken; ordering is the same without it.
	Euclidean
)

func (m Mode) String() string {
	switch m {
	case Absolute:
		return "absolute"
	case Euclidean:
		return "euclidean"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses a mode name as accepted on the CLI and HTTP surface.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "absolute", "abs":
		return Absolute, nil
	case "euclidean", "":
		return Euclidean, nil
	}
	return 0, fmt.Errorf("unknown distance mode %q", s)
}

func absDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

func distance(a, b pixel.RGB, m Mode) int {
	if m == Absolute {
		return absDiff(a.R, b.R) + absDiff(a.G, b.G) + absDiff(a.B, b.B)
	}
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// Nearest returns the index of the palette entry closest to c under the
// given mode. Exact ties keep the lowest index, so the result depends only
// on the inputs. The palette must be non-empty; Nearest panics on an empty
// palette since callers are expected to have validated it.
func Nearest(c pixel.RGB, p pixel.Palette, m Mode) int {
	if len(p) == 0 {
		panic("quantize: empty palette")
	}
	best := 0
	bestDist := distance(c, p[0], m)
	for i := 1; i < len(p); i++ {
		if d := distance(c, p[i], m); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
