package model

import (
	"fmt"
	"log/slog"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorContext is handed to a computed color to resolve the color of one drawn element.
//
// Only the fields relevant to the element are set: a bar segment carries its row, column and
// stacked bounds, a pie slice its slice, a country its country.
type ColorContext struct {
	Series  string
	Key     Key
	Column  string
	Value   float64
	Lower   float64
	Upper   float64
	Total   float64
	Slice   *Slice
	Country *Country
}

// ColorFunc computes a color for one drawn element.
type ColorFunc func(ColorContext) string

type colorKind uint8

const (
	colorNone colorKind = iota
	colorSolid
	colorComputed
)

// ColorSpec is either a solid color, a computed color, or no color at all.
//
// The zero value is "no color": the renderer falls back to the series or palette color.
type ColorSpec struct {
	kind  colorKind
	solid string
	fn    ColorFunc
}

// Solid color, e.g. "steelblue" or "#1f77b4". An empty string yields no color.
func Solid(color string) ColorSpec {
	if color == "" {
		return ColorSpec{}
	}

	return ColorSpec{kind: colorSolid, solid: color}
}

// Computed color, resolved once per element at projection time. A nil function yields no color.
func Computed(fn ColorFunc) ColorSpec {
	if fn == nil {
		return ColorSpec{}
	}

	return ColorSpec{kind: colorComputed, fn: fn}
}

// IsNone reports whether no color is specified.
func (c ColorSpec) IsNone() bool {
	return c.kind == colorNone
}

// Resolve the color for the given context. It returns "" when no color is specified.
func (c ColorSpec) Resolve(ctx ColorContext) string {
	switch c.kind {
	case colorSolid:
		return c.solid
	case colorComputed:
		return c.fn(ctx)
	default:
		return ""
	}
}

// Category10 is the default categorical palette.
var Category10 = splitColorString("1f77b4ff7f0e2ca02cd627289467bd8c564be377c27f7f7fbcbd2217becf")

func splitColorString(str string) []string {
	arr := make([]string, 0, len(str)/6)
	for i := 0; i+6 <= len(str); i += 6 {
		arr = append(arr, "#"+str[i:i+6])
	}

	return arr
}

// Palette returns n colors, starting with the provided colors.
//
// Missing colors are taken from [Category10]. Beyond the palette, colors are interpolated
// between palette neighbors so that every column gets a distinct color.
func Palette(colors []string, n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n && i < len(colors); i++ {
		out = append(out, colors[i])
	}

	for i := len(out); i < n; i++ {
		base := i - len(colors)
		if base < len(Category10) {
			out = append(out, Category10[base])

			continue
		}

		out = append(out, blend(Category10[base%len(Category10)], Category10[(base+1)%len(Category10)], base/len(Category10)))
	}

	return out
}

func blend(from, to string, round int) string {
	c1, err := colorful.Hex(from)
	if err != nil {
		slog.Default().With(slog.String("module", "model")).Warn("invalid palette color", slog.String("color", from))

		return from
	}

	c2, err := colorful.Hex(to)
	if err != nil {
		return from
	}

	// successive rounds move halfway closer to the next palette color
	t := 1 - 1/float64(round+1)

	return c1.BlendLab(c2, t/2).Clamped().Hex()
}

// ColorScale returns a computed color interpolating between two hex colors, as the value of the
// element goes from lo to hi. Values outside the range are clamped, NaN values get no color.
func ColorScale(from, to string, lo, hi float64) (ColorFunc, error) {
	c1, err := colorful.Hex(from)
	if err != nil {
		return nil, fmt.Errorf("color scale: %w", err)
	}

	c2, err := colorful.Hex(to)
	if err != nil {
		return nil, fmt.Errorf("color scale: %w", err)
	}

	return func(ctx ColorContext) string {
		if math.IsNaN(ctx.Value) {
			return ""
		}

		t := 0.0
		if hi > lo {
			t = math.Min(1, math.Max(0, (ctx.Value-lo)/(hi-lo)))
		}

		return c1.BlendLab(c2, t).Clamped().Hex()
	}, nil
}
