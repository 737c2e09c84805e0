package cpu

import (
	"fmt"
)

// State is the read-only view of the machine an instruction executes against.
type State interface {
	PC() int
	Register(reg int) int
	SREG() SREG
	Stack(addr int) int
	StackPointer() int
	Function(name string) (pc int, ok bool)
	Label(name string) (pc int, ok bool)
	IsPredefinedFunction(name string) bool
}

// Instruction is a single decoded instruction.
//
// Instructions are built by their NewXXX constructors, which reject invalid
// operands with an error matching ErrMalformedInstruction. Execute never
// changes the machine; it returns the Update that the machine commits.
type Instruction interface {
	fmt.Stringer
	Validate() error
	Execute(state State) (upd Update, err error)
}

// Labeler is implemented by label markers.
type Labeler interface {
	Label() string
}

const (
	BYTE_MASK = 0xff // Mask of a register's logical width.
	MSB_MASK  = 0x80 // Sign bit of a byte.
	HALF_MASK = 0x08 // Bit 3, source of the half carry.
)

// checkRegister validates a general purpose register operand.
func checkRegister(op string, reg int) error {
	if reg < 0 || reg >= REGISTER_COUNT {
		return &ErrMalformed{Op: op, Operand: fmt.Sprintf("r%d", reg), Err: ErrRegisterInvalid}
	}
	return nil
}

// checkUpperRegister validates a register operand restricted to r16-r31.
func checkUpperRegister(op string, reg int) error {
	if reg < IMMEDIATE_REGISTER_MIN || reg >= REGISTER_COUNT {
		return &ErrMalformed{Op: op, Operand: fmt.Sprintf("r%d", reg), Err: ErrRegisterInvalid}
	}
	return nil
}

// checkImmediate validates an 8-bit immediate operand.
func checkImmediate(op string, k int) error {
	if k < 0 || k > IMMEDIATE_MAX {
		return &ErrMalformed{Op: op, Operand: fmt.Sprintf("%d", k), Err: ErrImmediateInvalid}
	}
	return nil
}

// checkTarget validates a label or function name operand.
func checkTarget(op string, name string) error {
	if len(name) == 0 {
		return &ErrMalformed{Op: op, Operand: fmt.Sprintf("%q", name), Err: ErrTargetMissing}
	}
	return nil
}

func bit7(value int) bool {
	return (value & MSB_MASK) != 0
}

func bit3(value int) bool {
	return (value & HALF_MASK) != 0
}

func abs(value int) int {
	if value < 0 {
		return -value
	}
	return value
}

// subFlags updates C, Z, N, V and S for result = dst - src.
//
// C is set when src has the larger magnitude; the carry in of SBC does not
// take part.
func subFlags(sreg SREG, dst, src, result int) SREG {
	sreg.SetC(abs(src) > abs(dst))
	sreg.SetZ(result == 0)
	sreg.SetN(bit7(result))
	sreg.SetV((bit7(dst) && !bit7(src) && !bit7(result)) ||
		(!bit7(dst) && bit7(src) && bit7(result)))
	sreg.SetS(sreg.N() != sreg.V())
	return sreg
}

// addFlags updates H, C, Z, N, V and S for the 8-bit result = dst + src.
func addFlags(sreg SREG, dst, src, result int) SREG {
	sreg.SetH((bit3(dst) && bit3(src)) || (bit3(src) && !bit3(result)) || (!bit3(result) && bit3(dst)))
	sreg.SetC((bit7(dst) && bit7(src)) || (bit7(src) && !bit7(result)) || (!bit7(result) && bit7(dst)))
	sreg.SetZ(result == 0)
	sreg.SetN(bit7(result))
	sreg.SetV((bit7(dst) && bit7(src) && !bit7(result)) ||
		(!bit7(dst) && !bit7(src) && bit7(result)))
	sreg.SetS(sreg.N() != sreg.V())
	return sreg
}

// logicFlags updates Z, N, V and S for a bitwise result.
func logicFlags(sreg SREG, result int) SREG {
	sreg.SetZ(result == 0)
	sreg.SetN(bit7(result))
	sreg.SetV(false)
	sreg.SetS(sreg.N())
	return sreg
}
