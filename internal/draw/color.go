package draw

import "github.com/gdamore/tcell/v2"

// Palette used by the screens. Gameplay colors live with the objects that
// carry them.
var (
	ColorWall = tcell.NewHexColor(0x3a4466)
	ColorDim  = tcell.NewHexColor(0x5c6370)
)

// Blend mixes a toward b by t in [0, 1].
func Blend(a, b tcell.Color, t float64) tcell.Color {
	t = min(max(t, 0), 1)
	ar, ag, ab := a.RGB()
	br, bg, bb := b.RGB()
	mix := func(x, y int32) int32 {
		return x + int32(float64(y-x)*t)
	}
	return tcell.NewRGBColor(mix(ar, br), mix(ag, bg), mix(ab, bb))
}
