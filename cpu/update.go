package cpu

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Update is the set of state changes produced by executing one instruction.
//
// An Update is built once by NewUpdate and is not changed afterwards. The
// machine applies it with Commit.
type Update struct {
	pc int

	registers map[int]int

	memory     *cell
	longMemory *cell

	stackPointer  int
	sreg          *SREG
	returnAddress *int
	nativeCall    string
}

// UpdateOption adds a state change to an Update under construction.
type UpdateOption func(upd *Update)

// NewUpdate creates an Update that moves the program counter to pc.
func NewUpdate(pc int, opts ...UpdateOption) (upd Update) {
	upd = Update{
		pc:           pc,
		stackPointer: -1,
	}

	for _, opt := range opts {
		opt(&upd)
	}

	return
}

// WithRegister writes a value into a register.
func WithRegister(reg int, value int) UpdateOption {
	return func(upd *Update) {
		if upd.registers == nil {
			upd.registers = map[int]int{}
		}
		upd.registers[reg] = value
	}
}

// WithMemory writes a single byte onto the stack region.
func WithMemory(addr int, value int) UpdateOption {
	return func(upd *Update) {
		upd.memory = &cell{Addr: addr, Value: value}
	}
}

// WithLongMemory writes a 16-bit value onto the stack region, high byte
// at addr and low byte at addr+1.
func WithLongMemory(addr int, value int) UpdateOption {
	return func(upd *Update) {
		upd.longMemory = &cell{Addr: addr, Value: value}
	}
}

// WithStackPointer replaces the stack pointer. Negative values are ignored.
func WithStackPointer(sp int) UpdateOption {
	return func(upd *Update) {
		upd.stackPointer = sp
	}
}

// WithSREG replaces the status register.
func WithSREG(sreg SREG) UpdateOption {
	return func(upd *Update) {
		upd.sreg = &sreg
	}
}

// WithReturnAddress records the return address of a call.
func WithReturnAddress(addr int) UpdateOption {
	return func(upd *Update) {
		upd.returnAddress = &addr
	}
}

// WithNativeCall invokes a predefined routine during commit.
func WithNativeCall(name string) UpdateOption {
	return func(upd *Update) {
		upd.nativeCall = name
	}
}

// PC returns the next program counter.
func (upd Update) PC() int {
	return upd.pc
}

// Registers iterates over the register writes in ascending register order.
func (upd Update) Registers() iter.Seq2[int, int] {
	return func(yield func(reg int, value int) bool) {
		for _, reg := range slices.Sorted(maps.Keys(upd.registers)) {
			if !yield(reg, upd.registers[reg]) {
				return
			}
		}
	}
}

// Register returns the value written to a register, if any.
func (upd Update) Register(reg int) (value int, ok bool) {
	value, ok = upd.registers[reg]
	return
}

// RegisterCount returns the number of registers written.
func (upd Update) RegisterCount() int {
	return len(upd.registers)
}

// Memory returns the single byte memory write, if any.
func (upd Update) Memory() (addr int, value int, ok bool) {
	if upd.memory == nil {
		return
	}
	return upd.memory.Addr, upd.memory.Value, true
}

// LongMemory returns the 16-bit memory write, if any.
func (upd Update) LongMemory() (addr int, value int, ok bool) {
	if upd.longMemory == nil {
		return
	}
	return upd.longMemory.Addr, upd.longMemory.Value, true
}

// StackPointer returns the new stack pointer, if any.
func (upd Update) StackPointer() (sp int, ok bool) {
	return upd.stackPointer, upd.stackPointer >= 0
}

// SREG returns the new status register, if any.
func (upd Update) SREG() (sreg SREG, ok bool) {
	if upd.sreg == nil {
		return
	}
	return *upd.sreg, true
}

// ReturnAddress returns the recorded return address, if any.
func (upd Update) ReturnAddress() (addr int, ok bool) {
	if upd.returnAddress == nil {
		return
	}
	return *upd.returnAddress, true
}

// NativeCall returns the predefined routine to invoke, if any.
func (upd Update) NativeCall() (name string, ok bool) {
	return upd.nativeCall, len(upd.nativeCall) != 0
}

func (upd Update) String() string {
	parts := []string{fmt.Sprintf("pc=%d", upd.pc)}
	for reg, value := range upd.Registers() {
		parts = append(parts, fmt.Sprintf("r%d=0x%02x", reg, value))
	}
	if addr, value, ok := upd.Memory(); ok {
		parts = append(parts, fmt.Sprintf("[0x%04x]=0x%02x", addr, value))
	}
	if addr, value, ok := upd.LongMemory(); ok {
		parts = append(parts, fmt.Sprintf("[0x%04x]=0x%04x", addr, value))
	}
	if sp, ok := upd.StackPointer(); ok {
		parts = append(parts, fmt.Sprintf("sp=0x%04x", sp))
	}
	if sreg, ok := upd.SREG(); ok {
		parts = append(parts, "sreg="+sreg.String())
	}
	if addr, ok := upd.ReturnAddress(); ok {
		parts = append(parts, fmt.Sprintf("ret=0x%04x", addr))
	}
	if name, ok := upd.NativeCall(); ok {
		parts = append(parts, "call="+name)
	}
	return strings.Join(parts, " ")
}
