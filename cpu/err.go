package cpu

import (
	"errors"

	"github.com/ezrec/avrsim/translate"
)

var f = translate.From

var (
	// Error kinds. Every construction failure matches ErrMalformedInstruction,
	// every execution failure matches ErrRuntime.
	ErrMalformedInstruction = errors.New(f("malformed instruction"))
	ErrRuntime              = errors.New(f("runtime error"))

	// Instruction operand errors
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrImmediateInvalid   = errors.New(f("immediate invalid"))
	ErrTargetMissing      = errors.New(f("target missing"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))

	// Program load errors
	ErrProgramEmpty      = errors.New(f("program empty"))
	ErrFunctionDuplicate = errors.New(f("function duplicated"))
	ErrLabelDuplicate    = errors.New(f("label duplicated"))
)

// ErrMalformed is returned when an instruction cannot be constructed.
type ErrMalformed struct {
	Op      string // Mnemonic of the rejected instruction.
	Operand string // Offending operand, as written.
	Err     error
}

func (err *ErrMalformed) Error() string {
	return f("%v %v: %v", err.Op, err.Operand, err.Err)
}

func (err *ErrMalformed) Unwrap() error {
	return err.Err
}

func (err *ErrMalformed) Is(target error) bool {
	return target == ErrMalformedInstruction
}

// ErrMaxJumps is returned in batch mode when a label is visited too often.
type ErrMaxJumps string

func (label ErrMaxJumps) Error() string {
	return f("max jumps exceeded for label %v", string(label))
}

func (label ErrMaxJumps) Is(target error) bool {
	return target == ErrRuntime
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

func (el ErrLabelMissing) Is(target error) bool {
	return target == ErrRuntime
}

type ErrFunctionMissing string

func (ef ErrFunctionMissing) Error() string {
	return f("function %v missing", string(ef))
}

func (ef ErrFunctionMissing) Is(target error) bool {
	return target == ErrRuntime
}

// ErrLoad reports the function and instruction a program failed to load at.
type ErrLoad struct {
	Function string
	Index    int
	Err      error
}

func (err *ErrLoad) Error() string {
	return f("%v+%d %v", err.Function, err.Index, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}
