package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for board elements.
const (
	ColorDefault Color = iota
	ColorGray
	ColorWhite
	ColorYellow
	ColorOrange
	ColorRed
	ColorMagenta
	ColorBlue
	ColorCyan
	ColorGreen
	ColorBrightYellow
	ColorBrightWhite
)

// tilePalette cycles through colors by tile exponent (2 -> index 0).
var tilePalette = []Color{
	ColorWhite,
	ColorBrightWhite,
	ColorYellow,
	ColorOrange,
	ColorRed,
	ColorMagenta,
	ColorBlue,
	ColorCyan,
	ColorGreen,
	ColorBrightYellow,
}

// TileColor returns the color for a tile value. Values are powers of two.
func TileColor(value int) Color {
	exp := 0
	for v := value; v > 2; v >>= 1 {
		exp++
	}
	return tilePalette[exp%len(tilePalette)]
}
