// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"
	"strings"

	"github.com/ezrec/avrsim/internal"
	"github.com/ezrec/avrsim/native"
)

// Machine is the simulation state of one ATmega run: registers, stack and
// heap memory, status register, program counter, the LED grid and display
// slate, and the loaded program.
//
// Instructions read the machine through the State interface. The only way
// their results change the machine is Commit.
type Machine struct {
	Verbose  bool // Set to enable verbose logging.
	Batch    bool // Set to enforce the label loop guard.
	MaxJumps int  // Label revisits permitted in batch mode.

	name string

	registers map[int]int // Small and fixed; unordered.
	stack     *Memory     // Large and sparse; ordered.
	heap      *Memory     // Large and sparse; ordered.
	heapNext  int         // Next address handed out by Allocate.

	sreg          SREG
	pc            int
	stackPointer  int
	returnAddress int
	finished      bool

	program    []Instruction
	functions  map[string]int
	labels     map[string]int
	labelJumps map[string]int

	grid    native.Grid
	slate   native.Grid
	natives native.Table
}

var _ State = (*Machine)(nil)
var _ native.Machine = (*Machine)(nil)

// NewMachine creates a machine in batch mode with the default loop guard.
func NewMachine(name string) (m *Machine) {
	m = &Machine{
		Batch:    true,
		MaxJumps: DEFAULT_MAX_JUMPS,
		name:     name,
		stack:    NewMemory(),
		heap:     NewMemory(),
	}

	m.Reset()

	return
}

// Reset the machine state.
// - Clears registers, memory, status register and the loaded program.
// - Sets every LED and slate pixel to NONE.
// - Pushes the entry function's return sentinel and reserves its slot.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("cpu: reset %v", m.name)
	}

	m.registers = map[int]int{}
	m.stack.Reset()
	m.heap.Reset()
	m.heapNext = HEAP_BASE

	m.sreg = 0
	m.pc = 0
	m.returnAddress = -1
	m.finished = false

	m.program = nil
	m.functions = map[string]int{}
	m.labels = map[string]int{}
	m.labelJumps = map[string]int{}

	m.grid.Fill(native.COLOR_NONE)
	m.slate.Fill(native.COLOR_NONE)
	m.natives = native.NewTable()
	if m.Verbose {
		log.Printf("cpu: predefined %v", strings.Join(slices.Collect(m.natives.Names()), " "))
	}

	m.stackPointer = STACK_TOP
	m.stack.Put(m.stackPointer-1, (RETURN_SENTINEL>>8)&BYTE_MASK)
	m.stack.Put(m.stackPointer, RETURN_SENTINEL&BYTE_MASK)
	m.stackPointer -= 2
}

// ReadProgram appends the functions of a program to program space, and
// records where each function and label starts.
//
// Nothing is loaded if any instruction fails validation, or if a function
// or label name is already taken. If the program defines main, the program
// counter is moved to its first instruction.
func (m *Machine) ReadProgram(prog *Program) (err error) {
	if prog == nil {
		err = ErrProgramEmpty
		return
	}

	functions := map[string]int{}
	labels := map[string]int{}

	pc := len(m.program)
	for _, fn := range prog.Functions {
		_, dup := m.functions[fn.Name]
		if _, dup2 := functions[fn.Name]; dup || dup2 {
			err = &ErrLoad{Function: fn.Name, Err: ErrFunctionDuplicate}
			return
		}
		functions[fn.Name] = pc

		for n, instr := range fn.Instructions {
			if instr == nil {
				err = &ErrLoad{Function: fn.Name, Index: n, Err: ErrInstructionInvalid}
				return
			}
			err = instr.Validate()
			if err != nil {
				err = &ErrLoad{Function: fn.Name, Index: n, Err: err}
				return
			}
			if lbl, ok := instr.(Labeler); ok {
				_, dup := m.labels[lbl.Label()]
				if _, dup2 := labels[lbl.Label()]; dup || dup2 {
					err = &ErrLoad{Function: fn.Name, Index: n, Err: ErrLabelDuplicate}
					return
				}
				labels[lbl.Label()] = pc + n
			}
		}
		pc += len(fn.Instructions)
	}

	for _, fn := range prog.Functions {
		if m.Verbose {
			log.Printf("cpu: function %v at %d", fn.Name, len(m.program))
		}
		m.program = append(m.program, fn.Instructions...)
	}
	maps.Copy(m.functions, functions)
	maps.Copy(m.labels, labels)

	if entry, ok := functions["main"]; ok {
		m.pc = entry
	}

	return
}

// HasNextInstr returns true until the program has finished.
func (m *Machine) HasNextInstr() bool {
	return !m.finished
}

// ExecuteInstruction executes the instruction at the program counter and
// commits its update.
//
// Running off the end of program space, or returning to the entry function
// sentinel, finishes the program. That is not an error. On error nothing
// is committed and the program is not finished.
func (m *Machine) ExecuteInstruction() (err error) {
	if m.finished {
		return
	}

	instr, ok := m.Instruction(m.pc)
	if !ok {
		m.finish()
		return
	}

	if m.Verbose {
		log.Printf("cpu: %04x: %v", m.pc, instr)
	}

	if lbl, ok := instr.(Labeler); ok && m.Batch {
		err = m.countJump(lbl.Label())
		if err != nil {
			return
		}
	}

	upd, err := instr.Execute(m)
	if err != nil {
		return
	}

	m.Commit(upd)

	if m.pc < 0 || m.pc >= len(m.program) || m.pc == RETURN_SENTINEL {
		m.finish()
	}

	return
}

// countJump records a visit to a label, failing once the label has been
// revisited more than MaxJumps times.
func (m *Machine) countJump(label string) (err error) {
	count, seen := m.labelJumps[label]
	if !seen {
		m.labelJumps[label] = 0
		return
	}

	count++
	m.labelJumps[label] = count
	if m.Verbose {
		log.Printf("cpu: label %v jumps %d/%d", label, count, m.MaxJumps)
	}

	if count > m.MaxJumps {
		err = ErrMaxJumps(label)
	}

	return
}

func (m *Machine) finish() {
	if m.Verbose {
		log.Printf("cpu: finished at %04x", m.pc)
	}
	m.finished = true
}

// Commit applies an update: register writes, the memory write, the stack
// pointer, the status register, the 16-bit memory write, the return address
// and any native call, then the program counter.
func (m *Machine) Commit(upd Update) {
	for reg, value := range upd.Registers() {
		if m.Verbose {
			log.Printf("cpu: r%d = 0x%02x", reg, value)
		}
		m.registers[reg] = value
	}

	if addr, value, ok := upd.Memory(); ok {
		if m.Verbose {
			log.Printf("cpu: [0x%04x] = 0x%02x", addr, value)
		}
		m.stack.Put(addr, value)
	}

	if sp, ok := upd.StackPointer(); ok {
		if m.Verbose {
			log.Printf("cpu: sp = 0x%04x", sp)
		}
		m.stackPointer = sp
	}

	if sreg, ok := upd.SREG(); ok {
		if m.Verbose {
			if diff := m.sreg.Diff(sreg); len(diff) != 0 {
				log.Printf("cpu: sreg %v -> %v", m.sreg, sreg)
			}
		}
		m.sreg.Apply(sreg)
	}

	if addr, value, ok := upd.LongMemory(); ok {
		if m.Verbose {
			log.Printf("cpu: [0x%04x] = 0x%04x", addr, value)
		}
		m.stack.Put(addr, (value&0xff00)>>8)
		m.stack.Put(addr+1, value&BYTE_MASK)
	}

	if addr, ok := upd.ReturnAddress(); ok {
		m.returnAddress = addr
	}

	if name, ok := upd.NativeCall(); ok {
		m.invoke(name)
	}

	m.pc = upd.PC()
}

// invoke runs a predefined routine, storing its return value in r25:r24.
func (m *Machine) invoke(name string) {
	fn, ok := m.natives.Lookup(name)
	if !ok {
		log.Printf("cpu: native %v not predefined", name)
		return
	}

	if m.Verbose {
		log.Printf("cpu: native %v", name)
	}

	ret, ok := fn.Invoke(m)
	if ok {
		m.registers[native.REG_RET_LO] = ret & BYTE_MASK
		m.registers[native.REG_RET_HI] = (ret >> 8) & BYTE_MASK
	}
}

// Name returns the name the machine was created with.
func (m *Machine) Name() string {
	return m.name
}

// PC returns the program counter.
func (m *Machine) PC() int {
	return m.pc
}

// Register returns the value of a register. Unwritten registers read as 0.
func (m *Machine) Register(reg int) int {
	return m.registers[reg]
}

// SREG returns a copy of the status register.
func (m *Machine) SREG() SREG {
	return m.sreg.Clone()
}

// Stack returns the stack byte at an address. Unwritten addresses read as 0.
func (m *Machine) Stack(addr int) int {
	value, _ := m.stack.Get(addr)
	return value
}

// StackPointer returns the address of the next free stack byte.
func (m *Machine) StackPointer() int {
	return m.stackPointer
}

// ReturnAddress returns the return address of the latest call, or -1.
func (m *Machine) ReturnAddress() int {
	return m.returnAddress
}

// Heap returns the heap byte at an address, and whether it was allocated
// or written.
func (m *Machine) Heap(addr int) (value int, ok bool) {
	return m.heap.Get(addr)
}

// HeapCells iterates over the allocated or written heap bytes by address.
func (m *Machine) HeapCells() iter.Seq2[int, int] {
	return m.heap.All()
}

// SetHeap writes a heap byte.
func (m *Machine) SetHeap(addr int, value int) {
	m.heap.Put(addr, value)
}

// Allocate reserves size heap bytes, set to 0, and returns the first
// address.
func (m *Machine) Allocate(size int) (addr int) {
	addr = m.heapNext
	for n := range max(size, 0) {
		m.heap.Put(addr+n, 0)
	}
	m.heapNext += max(size, 0)

	if m.Verbose {
		log.Printf("cpu: allocate %d at 0x%04x", size, addr)
	}

	return
}

// Memory reads an address from anywhere in memory.
//
// The heap takes precedence: if the address was ever allocated or written
// on the heap, that value is returned. Otherwise the stack is consulted, and
// ok is false when neither region has touched the address.
func (m *Machine) Memory(addr int) (value int, ok bool) {
	value, ok = m.heap.Get(addr)
	if ok {
		return
	}
	return m.stack.Get(addr)
}

// Function returns the program space index of a function.
func (m *Machine) Function(name string) (pc int, ok bool) {
	pc, ok = m.functions[name]
	return
}

// Label returns the program space index of a label.
func (m *Machine) Label(name string) (pc int, ok bool) {
	pc, ok = m.labels[name]
	return
}

// Functions iterates over the function table in name order.
func (m *Machine) Functions() iter.Seq2[string, int] {
	return internal.Sorted(m.functions)
}

// Labels iterates over the label table in name order.
func (m *Machine) Labels() iter.Seq2[string, int] {
	return internal.Sorted(m.labels)
}

// Jumps returns the loop guard count of a label, if it has been visited in
// batch mode.
func (m *Machine) Jumps(label string) (count int, ok bool) {
	count, ok = m.labelJumps[label]
	return
}

// Instruction returns the instruction at a program space index.
func (m *Machine) Instruction(pc int) (instr Instruction, ok bool) {
	if pc < 0 || pc >= len(m.program) {
		return
	}
	return m.program[pc], true
}

// Len returns the number of instructions in program space.
func (m *Machine) Len() int {
	return len(m.program)
}

// PreDefinedFunction returns a predefined routine by mangled name.
func (m *Machine) PreDefinedFunction(name string) (fn native.Func, ok bool) {
	return m.natives.Lookup(name)
}

// IsPredefinedFunction reports whether a name is a predefined routine.
func (m *Machine) IsPredefinedFunction(name string) bool {
	return m.natives.Has(name)
}

// GridColor returns the color of an LED. Off-grid coordinates read as NONE.
func (m *Machine) GridColor(x, y int) native.Color {
	if !native.Contains(x, y) {
		return native.COLOR_NONE
	}
	return m.grid[x][y]
}

// Grid returns a copy of the LED grid.
func (m *Machine) Grid() native.Grid {
	return m.grid
}

// SetGridColor sets the color of an LED. Off-grid coordinates are ignored.
func (m *Machine) SetGridColor(x, y int, color native.Color) {
	if native.Contains(x, y) {
		m.grid[x][y] = color
	}
}

// DisplaySlate returns the color of a slate pixel. Off-grid coordinates
// read as NONE.
func (m *Machine) DisplaySlate(x, y int) native.Color {
	if !native.Contains(x, y) {
		return native.COLOR_NONE
	}
	return m.slate[x][y]
}

// SetDisplaySlate sets the color of a slate pixel. Off-grid coordinates
// are ignored.
func (m *Machine) SetDisplaySlate(x, y int, color native.Color) {
	if native.Contains(x, y) {
		m.slate[x][y] = color
	}
}

// String returns the current machine state as a string.
func (m *Machine) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "machine: %v\n", m.name)
	fmt.Fprintf(&sb, "   pc: %04x\n", m.pc)
	fmt.Fprintf(&sb, "   sp: %04x\n", m.stackPointer)
	fmt.Fprintf(&sb, " sreg: %v\n", m.sreg)
	sb.WriteString("stack:")
	for _, value := range m.stack.Range(m.stackPointer+1, STACK_TOP+1) {
		fmt.Fprintf(&sb, " %02x", value&BYTE_MASK)
	}
	sb.WriteByte('\n')
	sb.WriteString(" heap:")
	for addr, value := range m.HeapCells() {
		fmt.Fprintf(&sb, " %04x=%02x", addr, value&BYTE_MASK)
	}
	sb.WriteByte('\n')
	for row := range REGISTER_COUNT / 8 {
		fmt.Fprintf(&sb, "%5s:", fmt.Sprintf("r%d", row*8))
		for col := range 8 {
			fmt.Fprintf(&sb, " %02x", m.registers[row*8+col]&BYTE_MASK)
		}
		sb.WriteByte('\n')
	}
	for y := range native.GRID_SIZE {
		fmt.Fprintf(&sb, "%5s:", fmt.Sprintf("led%d", y))
		for x := range native.GRID_SIZE {
			fmt.Fprintf(&sb, " %v", m.grid[x][y])
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
