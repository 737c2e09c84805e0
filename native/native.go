// Package native implements the predefined library routines a simulated
// program may call by name, such as the Meggy Jr drawing functions and
// malloc.
//
// A routine is invoked with the machine that called it and works only through
// the Machine accessors. Argument registers follow the avr-gcc calling
// convention: the first byte argument is in r24, the second in r22, the third
// in r20. A 16-bit return value is placed in r25:r24 by the caller.
package native

import (
	"iter"
	"maps"
	"slices"
)

// Calling convention registers.
const (
	REG_ARG0   = 24 // First argument (low byte).
	REG_ARG1   = 22 // Second argument (low byte).
	REG_ARG2   = 20 // Third argument (low byte).
	REG_RET_LO = 24 // Return value, low byte.
	REG_RET_HI = 25 // Return value, high byte.
)

// Machine is the view of the simulated machine a routine works against.
type Machine interface {
	Register(reg int) int
	DisplaySlate(x, y int) Color
	SetDisplaySlate(x, y int, color Color)
	GridColor(x, y int) Color
	SetGridColor(x, y int, color Color)
	Allocate(size int) int
}

// Func is a predefined routine. When ok is set, ret is the routine's
// return value.
type Func interface {
	Invoke(m Machine) (ret int, ok bool)
}

// FuncOf adapts a function to the Func interface.
type FuncOf func(m Machine) (ret int, ok bool)

func (fn FuncOf) Invoke(m Machine) (ret int, ok bool) {
	return fn(m)
}

// Mangled names of the predefined routines.
const (
	NAME_DRAW_PX       = "_Z6DrawPxhhh"
	NAME_DISPLAY_SLATE = "_Z12DisplaySlatev"
	NAME_CLEAR_SLATE   = "_Z10ClearSlatev"
	NAME_READ_PX       = "_Z6ReadPxhh"
	NAME_DELAY         = "_Z5Delayj"
	NAME_MALLOC        = "malloc"
)

// Table maps mangled names to routines.
type Table map[string]Func

// NewTable returns a table holding every predefined routine.
//
// Each machine builds its own table.
func NewTable() Table {
	return Table{
		NAME_DRAW_PX:       FuncOf(DrawPx),
		NAME_DISPLAY_SLATE: FuncOf(DisplaySlate),
		NAME_CLEAR_SLATE:   FuncOf(ClearSlate),
		NAME_READ_PX:       FuncOf(ReadPx),
		NAME_DELAY:         FuncOf(Delay),
		NAME_MALLOC:        FuncOf(Malloc),
	}
}

// Lookup returns the routine for a name.
func (table Table) Lookup(name string) (fn Func, ok bool) {
	fn, ok = table[name]
	return
}

// Has reports whether the name is a predefined routine.
func (table Table) Has(name string) bool {
	_, ok := table[name]
	return ok
}

// Names returns the routine names in sorted order.
func (table Table) Names() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(table)))
}
