package native

// Color is an LED color, numbered as in MeggyJrSimple.h.
type Color int

//go:generate go tool stringer -linecomment -type=Color
const (
	COLOR_NONE      = Color(-1) // NONE
	COLOR_DARK      = Color(0)  // DARK
	COLOR_RED       = Color(1)  // RED
	COLOR_ORANGE    = Color(2)  // ORANGE
	COLOR_YELLOW    = Color(3)  // YELLOW
	COLOR_GREEN     = Color(4)  // GREEN
	COLOR_BLUE      = Color(5)  // BLUE
	COLOR_VIOLET    = Color(6)  // VIOLET
	COLOR_WHITE     = Color(7)  // WHITE
	COLOR_DIMRED    = Color(8)  // DIMRED
	COLOR_DIMORANGE = Color(9)  // DIMORANGE
	COLOR_DIMYELLOW = Color(10) // DIMYELLOW
	COLOR_DIMGREEN  = Color(11) // DIMGREEN
	COLOR_DIMAQUA   = Color(12) // DIMAQUA
	COLOR_DIMBLUE   = Color(13) // DIMBLUE
	COLOR_DIMVIOLET = Color(14) // DIMVIOLET
	COLOR_FULLON    = Color(15) // FULLON
)

// GRID_SIZE is the width and height of the LED grid and the display slate.
const GRID_SIZE = 8

// Grid is an 8x8 surface of colors, indexed [x][y].
type Grid [GRID_SIZE][GRID_SIZE]Color

// Fill sets every pixel to a color.
func (grid *Grid) Fill(color Color) {
	for x := range grid {
		for y := range grid[x] {
			grid[x][y] = color
		}
	}
}

// Contains reports whether a coordinate lies on the grid.
func Contains(x, y int) bool {
	return x >= 0 && x < GRID_SIZE && y >= 0 && y < GRID_SIZE
}
