package cpu

import (
	"fmt"
)

// LDI loads an immediate into one of r16-r31.
type LDI struct {
	rd int
	k  int
}

// NewLDI creates a load-immediate instruction.
func NewLDI(rd, k int) (op *LDI, err error) {
	op = &LDI{rd: rd, k: k}
	if err = op.Validate(); err != nil {
		op = nil
	}
	return
}

func (op *LDI) Validate() (err error) {
	err = checkUpperRegister("ldi", op.rd)
	if err != nil {
		return
	}
	err = checkImmediate("ldi", op.k)
	return
}

func (op *LDI) String() string {
	return fmt.Sprintf("ldi r%d, %d", op.rd, op.k)
}

func (op *LDI) Execute(state State) (upd Update, err error) {
	upd = NewUpdate(state.PC()+1, WithRegister(op.rd, op.k))
	return
}

// MOV copies Rr into Rd.
type MOV struct{ regPair }

// NewMOV creates a register copy instruction.
func NewMOV(rd, rr int) (op *MOV, err error) {
	op = &MOV{regPair{rd: rd, rr: rr}}
	if err = op.Validate(); err != nil {
		op = nil
	}
	return
}

func (op *MOV) Validate() error { return op.validate("mov") }
func (op *MOV) String() string  { return op.format("mov") }

func (op *MOV) Execute(state State) (upd Update, err error) {
	upd = NewUpdate(state.PC()+1, WithRegister(op.rd, state.Register(op.rr)))
	return
}

// PUSH stores Rr at the stack pointer, then decrements it.
type PUSH struct {
	rr int
}

// NewPUSH creates a push instruction.
func NewPUSH(rr int) (op *PUSH, err error) {
	op = &PUSH{rr: rr}
	if err = op.Validate(); err != nil {
		op = nil
	}
	return
}

func (op *PUSH) Validate() error { return checkRegister("push", op.rr) }
func (op *PUSH) String() string  { return fmt.Sprintf("push r%d", op.rr) }

func (op *PUSH) Execute(state State) (upd Update, err error) {
	sp := state.StackPointer()
	upd = NewUpdate(state.PC()+1,
		WithMemory(sp, state.Register(op.rr)),
		WithStackPointer(sp-1))
	return
}

// POP increments the stack pointer, then loads Rd from it.
type POP struct {
	rd int
}

// NewPOP creates a pop instruction.
func NewPOP(rd int) (op *POP, err error) {
	op = &POP{rd: rd}
	if err = op.Validate(); err != nil {
		op = nil
	}
	return
}

func (op *POP) Validate() error { return checkRegister("pop", op.rd) }
func (op *POP) String() string  { return fmt.Sprintf("pop r%d", op.rd) }

func (op *POP) Execute(state State) (upd Update, err error) {
	sp := state.StackPointer() + 1
	upd = NewUpdate(state.PC()+1,
		WithRegister(op.rd, state.Stack(sp)),
		WithStackPointer(sp))
	return
}

// NOP does nothing.
type NOP struct{}

func (op NOP) Validate() error { return nil }
func (op NOP) String() string  { return "nop" }

func (op NOP) Execute(state State) (upd Update, err error) {
	upd = NewUpdate(state.PC() + 1)
	return
}
