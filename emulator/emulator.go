// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs a loaded program on a simulated ATmega machine.
package emulator

import (
	"fmt"
	"iter"
	"log"

	"github.com/ezrec/avrsim/cpu"
	"github.com/ezrec/avrsim/internal"
)

// Emulator state. Machine + the program it runs.
type Emulator struct {
	Verbose      bool         // If set, enables verbose logging.
	*cpu.Machine              // Reference to the machine simulation.
	Program      *cpu.Program // Reference to the currently running program.
}

// NewEmulator creates a new emulator with an empty program.
func NewEmulator(name string) (emu *Emulator) {
	emu = &Emulator{
		Machine: cpu.NewMachine(name),
		Program: &cpu.Program{},
	}

	return
}

// Reset the machine and load the program.
func (emu *Emulator) Reset() (err error) {
	if emu.Program == nil {
		err = ErrProgramMissing
		return
	}

	emu.Machine.Verbose = emu.Verbose
	emu.Machine.Reset()

	err = emu.Machine.ReadProgram(emu.Program)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emu: %v loaded, %d instructions, entry %04x",
			emu.Machine.Name(), emu.Machine.Len(), emu.Machine.PC())
		for pc, instr := range emu.Program.Instructions() {
			log.Printf("emu: %04x %v", pc, instr)
		}
	}

	return
}

// Where returns the function and offset of the program counter.
func (emu *Emulator) Where() string {
	return emu.where(emu.Machine.PC())
}

func (emu *Emulator) where(pc int) string {
	loc := emu.Program.Locate(pc)
	if loc.Function == nil {
		return fmt.Sprintf("%04x", pc)
	}

	return fmt.Sprintf("%v+%d", loc.Name, loc.Index)
}

// Symbols iterates over the function table, then the label table.
func (emu *Emulator) Symbols() iter.Seq2[string, int] {
	return internal.Concat2(emu.Machine.Functions(), emu.Machine.Labels())
}

// Tick performs a single step of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Machine.Verbose = emu.Verbose

	if !emu.Machine.HasNextInstr() {
		done = true
		return
	}

	pc := emu.Machine.PC()
	defer func() {
		if err != nil {
			err = &ErrRuntime{PC: pc, Where: emu.where(pc), Err: err}
		}
	}()

	err = emu.Machine.ExecuteInstruction()
	if err != nil {
		return
	}

	done = !emu.Machine.HasNextInstr()

	return
}

// Run ticks until the program finishes or fails, returning the number of
// instructions executed.
func (emu *Emulator) Run() (steps int, err error) {
	for {
		var done bool
		pc := emu.Machine.PC()
		done, err = emu.Tick()
		if err != nil {
			return
		}
		if _, ok := emu.Machine.Instruction(pc); ok {
			steps++
		}
		if done {
			break
		}
	}

	if emu.Verbose {
		grid := emu.Machine.Grid()
		log.Printf("emu: %v finished after %d steps\n%v", emu.Machine.Name(), steps, grid.Render())
	}

	return
}
