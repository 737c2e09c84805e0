package cpu

import (
	"iter"
)

// Function is a named, ordered sequence of decoded instructions.
type Function struct {
	Name         string
	Instructions []Instruction
}

// Program is a loaded program: its functions in load order.
type Program struct {
	Functions []Function
}

// Location of a program space index within a function.
type Location struct {
	*Function
	Index int
}

// Locate finds the function containing a program space index.
func (prog *Program) Locate(pc int) (loc Location) {
	base := 0
	for n := range prog.Functions {
		fn := &prog.Functions[n]
		if pc >= base && pc < base+len(fn.Instructions) {
			loc = Location{
				Function: fn,
				Index:    pc - base,
			}
			break
		}
		base += len(fn.Instructions)
	}

	return
}

// Len returns the number of instructions in the flattened program.
func (prog *Program) Len() (count int) {
	for _, fn := range prog.Functions {
		count += len(fn.Instructions)
	}
	return
}

// Instructions iterates over the flattened program, yielding the program
// space index of each instruction.
func (prog *Program) Instructions() iter.Seq2[int, Instruction] {
	return func(yield func(pc int, instr Instruction) bool) {
		pc := 0
		for _, fn := range prog.Functions {
			for _, instr := range fn.Instructions {
				if !yield(pc, instr) {
					return
				}
				pc++
			}
		}
	}
}
