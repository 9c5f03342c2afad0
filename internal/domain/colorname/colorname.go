// Package colorname maps RGB triples to the nearest CSS3 color keyword.
package colorname

import (
	"math"
	"strings"
)

// RGB is a quantized color triple. Components are not clamped to 0..255;
// out-of-range values simply never match exactly.
type RGB struct {
	R, G, B int
}

type entry struct {
	name string
	rgb  RGB
}

// exact resolves shared triples to the later keyword (cyan, magenta), except
// that the "gray" spellings always win over "grey".
var exact = func() map[RGB]string {
	m := make(map[RGB]string, len(palette))
	for _, e := range palette {
		m[e.rgb] = e.name
	}
	for _, e := range palette {
		if strings.HasSuffix(e.name, "gray") {
			m[e.rgb] = e.name
		}
	}
	return m
}()

// NameFor returns the CSS3 keyword for c. An exact match wins; otherwise the
// keyword with the smallest squared Euclidean distance is returned, the first
// in palette order on ties.
func NameFor(c RGB) string {
	if name, ok := exact[c]; ok {
		return name
	}

	best := palette[0].name
	bestDist := math.MaxInt
	for _, e := range palette {
		dr := e.rgb.R - c.R
		dg := e.rgb.G - c.G
		db := e.rgb.B - c.B
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = e.name, d
		}
	}
	return best
}

// FromVector quantizes an upstream float vector by truncation. It reports
// false when the vector is not a finite triple.
func FromVector(v []float64) (RGB, bool) {
	if len(v) != 3 {
		return RGB{}, false
	}
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) || math.Abs(x) > math.MaxInt32 {
			return RGB{}, false
		}
	}
	return RGB{int(v[0]), int(v[1]), int(v[2])}, true
}

// Names returns the palette keywords in order.
func Names() []string {
	out := make([]string, len(palette))
	for i, e := range palette {
		out[i] = e.name
	}
	return out
}
