package turtle

import (
	"fmt"
	"math"

	"github.com/hananel42/L-system-studio/expr"
)

// Black is the colour used when a colour argument cannot be interpreted.
const Black = "black"

// ResolveColor interprets colour arguments produced by an action:
//
//   - one string is used as is (hex literals such as '#ff0000'),
//   - one number is a hue in degrees at full saturation and value,
//   - three values are an RGB triple in 0-255,
//
// and anything else is black.
func ResolveColor(values ...expr.Value) string {
	switch len(values) {
	case 1:
		v := values[0]
		switch v.Kind() {
		case expr.KindString:
			return v.Text()
		case expr.KindNumber:
			return Hue(v.Float())
		}
	case 3:
		return RGB(values[0].Float(), values[1].Float(), values[2].Float())
	}
	return Black
}

// Hue converts a hue in degrees to a hex colour.
func Hue(deg float64) string {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return Black
	}
	h := math.Mod(deg, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := hsvToRGB(h/360, 1, 1)
	return RGB(r, g, b)
}

// RGB formats components, clamped to 0-255 and rounded, as #rrggbb.
func RGB(r, g, b float64) string {
	return fmt.Sprintf("#%02x%02x%02x", channel(r), channel(g), channel(b))
}

func channel(c float64) int {
	if math.IsNaN(c) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(255, c))))
}

func hsvToRGB(h, s, v float64) (r, g, b float64) {
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	switch int(i) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return r * 255, g * 255, b * 255
}
