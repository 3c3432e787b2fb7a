package core

// Color is a foreground color for a screen cell. The platform layer maps
// each one to a terminal color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorYellow
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorGray
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightCyan
	ColorBrightWhite
)

// Fade picks a color for something that is running out. frac is the share
// left in [0, 1]; ramp lists colors from full to nearly gone, each covering
// an equal slice. An empty ramp gives ColorDefault.
func Fade(frac float64, ramp ...Color) Color {
	if len(ramp) == 0 {
		return ColorDefault
	}
	idx := int((1 - ClampF(frac, 0, 1)) * float64(len(ramp)))
	return ramp[min(idx, len(ramp)-1)]
}
