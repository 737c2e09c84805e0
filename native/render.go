package native

import (
	"strings"

	"github.com/mgutz/ansi"
)

// Terminal color of each LED color. DIM colors use the plain palette,
// bright colors the high intensity one.
var colorCodes = map[Color]string{
	COLOR_DARK:      ansi.ColorCode("black+h"),
	COLOR_RED:       ansi.ColorCode("red+h"),
	COLOR_ORANGE:    ansi.ColorCode("yellow"),
	COLOR_YELLOW:    ansi.ColorCode("yellow+h"),
	COLOR_GREEN:     ansi.ColorCode("green+h"),
	COLOR_BLUE:      ansi.ColorCode("blue+h"),
	COLOR_VIOLET:    ansi.ColorCode("magenta+h"),
	COLOR_WHITE:     ansi.ColorCode("white+h"),
	COLOR_DIMRED:    ansi.ColorCode("red"),
	COLOR_DIMORANGE: ansi.ColorCode("yellow"),
	COLOR_DIMYELLOW: ansi.ColorCode("yellow"),
	COLOR_DIMGREEN:  ansi.ColorCode("green"),
	COLOR_DIMAQUA:   ansi.ColorCode("cyan"),
	COLOR_DIMBLUE:   ansi.ColorCode("blue"),
	COLOR_DIMVIOLET: ansi.ColorCode("magenta"),
	COLOR_FULLON:    ansi.ColorCode("white+hb"),
}

const (
	GLYPH_LIT   = "()" // A lit or dark LED.
	GLYPH_UNSET = " ." // An LED that was never drawn.
)

// Glyph returns the LED as a two character cell for an ANSI terminal.
func (color Color) Glyph() string {
	code, ok := colorCodes[color]
	if !ok {
		return GLYPH_UNSET
	}
	return code + GLYPH_LIT + ansi.Reset
}

// Render draws the grid for an ANSI terminal, top row (y=7) first.
func (grid *Grid) Render() string {
	var sb strings.Builder
	for y := GRID_SIZE - 1; y >= 0; y-- {
		for x := range GRID_SIZE {
			sb.WriteString(grid[x][y].Glyph())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
