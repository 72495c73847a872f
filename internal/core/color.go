package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for scene elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// palette holds the approximate sRGB value of each Color as rendered by a
// typical xterm-compatible terminal. ColorDefault is treated as light gray.
var palette = [...][3]uint8{
	ColorDefault:       {192, 192, 192},
	ColorRed:           {128, 0, 0},
	ColorGreen:         {0, 128, 0},
	ColorYellow:        {128, 128, 0},
	ColorBlue:          {0, 0, 128},
	ColorMagenta:       {128, 0, 128},
	ColorCyan:          {0, 128, 128},
	ColorWhite:         {192, 192, 192},
	ColorBrightRed:     {255, 0, 0},
	ColorBrightGreen:   {0, 255, 0},
	ColorBrightYellow:  {255, 255, 0},
	ColorBrightBlue:    {0, 0, 255},
	ColorBrightMagenta: {255, 0, 255},
	ColorBrightCyan:    {0, 255, 255},
	ColorBrightWhite:   {255, 255, 255},
	ColorOrange:        {255, 135, 0},
	ColorGray:          {138, 138, 138},
}

// RGB returns the approximate 8-bit channel values of the color.
func (c Color) RGB() (r, g, b uint8) {
	if int(c) >= len(palette) {
		c = ColorDefault
	}
	p := palette[c]
	return p[0], p[1], p[2]
}

// NearestColor returns the palette color closest to the given sRGB value.
// ColorDefault and ColorWhite share a value; ColorWhite wins so callers
// always get an explicit color back.
func NearestColor(r, g, b uint8) Color {
	best := ColorWhite
	bestDist := -1
	for i := ColorRed; int(i) < len(palette); i++ {
		p := palette[i]
		dr := int(r) - int(p[0])
		dg := int(g) - int(p[1])
		db := int(b) - int(p[2])
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
