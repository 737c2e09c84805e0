package native

// DrawPx(x, y, color) sets a pixel of the display slate.
// Coordinates off the grid are ignored.
func DrawPx(m Machine) (ret int, ok bool) {
	x := m.Register(REG_ARG0)
	y := m.Register(REG_ARG1)
	color := Color(m.Register(REG_ARG2))

	m.SetDisplaySlate(x, y, color)
	return
}

// DisplaySlate() copies the display slate onto the LED grid.
func DisplaySlate(m Machine) (ret int, ok bool) {
	for x := range GRID_SIZE {
		for y := range GRID_SIZE {
			m.SetGridColor(x, y, m.DisplaySlate(x, y))
		}
	}
	return
}

// ClearSlate() darkens every pixel of the display slate.
func ClearSlate(m Machine) (ret int, ok bool) {
	for x := range GRID_SIZE {
		for y := range GRID_SIZE {
			m.SetDisplaySlate(x, y, COLOR_DARK)
		}
	}
	return
}

// ReadPx(x, y) returns the color of a display slate pixel.
// An unset pixel reads as DARK.
func ReadPx(m Machine) (ret int, ok bool) {
	color := m.DisplaySlate(m.Register(REG_ARG0), m.Register(REG_ARG1))
	if color == COLOR_NONE {
		color = COLOR_DARK
	}
	return int(color), true
}

// Delay(ms) has no simulated effect.
func Delay(m Machine) (ret int, ok bool) {
	return
}

// Malloc(size) allocates heap space and returns its address.
func Malloc(m Machine) (ret int, ok bool) {
	size := m.Register(REG_ARG0) | (m.Register(REG_ARG0+1) << 8)
	return m.Allocate(size), true
}
