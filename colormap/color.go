package colormap

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// RGB is a color with linear components in [0,1].
type RGB struct {
	R, G, B float64
}

// ColorSpec is a color description that resolves to an RGB triple.
// Implemented by [Hex], [Named] and [RGB].
type ColorSpec interface {
	resolve() (RGB, error)
}

var (
	_ ColorSpec = Hex("")
	_ ColorSpec = Named("")
	_ ColorSpec = RGB{}
)

// Hex is a color written as "#rgb", "#rrggbb" or "0xrrggbb".
type Hex string

// Named is a CSS/SVG color name such as "steelblue".
type Named string

// Resolve returns the RGB triple described by spec.
func Resolve(spec ColorSpec) (RGB, error) {
	if spec == nil {
		return RGB{}, errors.New("nil color spec")
	}
	return spec.resolve()
}

func (c RGB) resolve() (RGB, error) {
	for _, v := range [3]float64{c.R, c.G, c.B} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return RGB{}, fmt.Errorf("rgb component %g outside [0,1]", v)
		}
	}
	return c, nil
}

func (h Hex) resolve() (RGB, error) {
	s := strings.TrimSpace(string(h))
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s = "#" + s[2:]
	case !strings.HasPrefix(s, "#"):
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return RGB{}, fmt.Errorf("bad hex color %q", string(h))
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return RGB{}, fmt.Errorf("bad hex color %q: %w", string(h), err)
	}
	return fromColorful(c), nil
}

func (n Named) resolve() (RGB, error) {
	key := strings.ToLower(strings.ReplaceAll(string(n), " ", ""))
	c, ok := colornames.Map[key]
	if !ok {
		return RGB{}, fmt.Errorf("unknown color name %q", string(n))
	}
	return RGB{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}, nil
}

// Lerp blends linearly in RGB space. t=0 yields c, t=1 yields d.
func (c RGB) Lerp(d RGB, t float64) RGB {
	return fromColorful(c.colorful().BlendRgb(d.colorful(), t))
}

// AppendF32 appends the color components to dst, ready for a GPU color buffer.
func (c RGB) AppendF32(dst []float32) []float32 {
	return append(dst, float32(c.R), float32(c.G), float32(c.B))
}

// Hex returns the color formatted as "#rrggbb".
func (c RGB) Hex() string {
	return c.colorful().Clamped().Hex()
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

func fromColorful(c colorful.Color) RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}
