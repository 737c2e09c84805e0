package cpu

import (
	"fmt"
)

// regPair holds the Rd, Rr operands of a two register instruction.
type regPair struct {
	rd int
	rr int
}

func (rp regPair) validate(op string) (err error) {
	err = checkRegister(op, rp.rd)
	if err != nil {
		return
	}
	err = checkRegister(op, rp.rr)
	return
}

func (rp regPair) format(op string) string {
	return fmt.Sprintf("%v r%d, r%d", op, rp.rd, rp.rr)
}

// operands reads Rd and Rr.
func (rp regPair) operands(state State) (dst, src int) {
	return state.Register(rp.rd), state.Register(rp.rr)
}

// carry returns 1 when the carry flag is set.
func carry(state State) int {
	if state.SREG().C() {
		return 1
	}
	return 0
}

// CPC compares Rd with Rr, setting C, Z, N, V and S. No register is written.
type CPC struct{ regPair }

// NewCPC creates a compare-with-carry instruction.
func NewCPC(rd, rr int) (op *CPC, err error) {
	op = &CPC{regPair{rd: rd, rr: rr}}
	if err = op.Validate(); err != nil {
		op = nil
	}
	return
}

func (op *CPC) Validate() error { return op.validate("cpc") }
func (op *CPC) String() string  { return op.format("cpc") }

func (op *CPC) Execute(state State) (upd Update, err error) {
	dst, src := op.operands(state)
	result := dst - src
	sreg := subFlags(state.SREG(), dst, src, result)

	upd = NewUpdate(state.PC()+1, WithSREG(sreg))
	return
}

// CP compares Rd with Rr. It has the same effect as CPC.
type CP struct{ regPair }

// NewCP creates a compare instruction.
func NewCP(rd, rr int) (op *CP, err error) {
	op = &CP{regPair{rd: rd, rr: rr}}
	if err = op.Validate(); err != nil {
		op = nil
	}
	return
}

func (op *CP) Validate() error { return op.validate("cp") }
func (op *CP) String() string  { return op.format("cp") }

func (op *CP) Execute(state State) (upd Update, err error) {
	dst, src := op.operands(state)
	result := dst - src

	upd = NewUpdate(state.PC()+1, WithSREG(subFlags(state.SREG(), dst, src, result)))
	return
}

// SBC subtracts Rr and the carry from Rd, storing the result in Rd.
//
// The result is stored unmasked, so a borrow leaves Rd negative.
type SBC struct{ regPair }

// NewSBC creates a subtract-with-carry instruction.
func NewSBC(rd, rr int) (op *SBC, err error) {
	op = &SBC{regPair{rd: rd, rr: rr}}
	if err = op.Validate(); err != nil {
		op = nil
	}
	return
}

func (op *SBC) Validate() error { return op.validate("sbc") }
func (op *SBC) String() string  { return op.format("sbc") }

func (op *SBC) Execute(state State) (upd Update, err error) {
	dst, src := op.operands(state)
	result := dst - src - carry(state)
	sreg := subFlags(state.SREG(), dst, src, result)

	upd = NewUpdate(state.PC()+1,
		WithRegister(op.rd, result),
		WithSREG(sreg))
	return
}

// SUB subtracts Rr from Rd, storing the unmasked result in Rd.
type SUB struct{ regPair }

// NewSUB creates a subtract instruction.
func NewSUB(rd, rr int) (op *SUB, err error) {
	op = &SUB{regPair{rd: rd, rr: rr}}
	if err = op.Validate(); err != nil {
		op = nil
	}
	return
}

func (op *SUB) Validate() error { return op.validate("sub") }
func (op *SUB) String() string  { return op.format("sub") }

func (op *SUB) Execute(state State) (upd Update, err error) {
	dst, src := op.operands(state)
	result := dst - src

	upd = NewUpdate(state.PC()+1,
		WithRegister(op.rd, result),
		WithSREG(subFlags(state.SREG(), dst, src, result)))
	return
}

// ADD adds Rr to Rd, storing the result in Rd.
type ADD struct{ regPair }

// NewADD creates an add instruction.
func NewADD(rd, rr int) (op *ADD, err error) {
	op = &ADD{regPair{rd: rd, rr: rr}}
	if err = op.Validate(); err != nil {
		op = nil
	}
	return
}

func (op *ADD) Validate() error { return op.validate("add") }
func (op *ADD) String() string  { return op.format("add") }

func (op *ADD) Execute(state State) (upd Update, err error) {
	dst, src := op.operands(state)
	result := (dst + src) & BYTE_MASK

	upd = NewUpdate(state.PC()+1,
		WithRegister(op.rd, result),
		WithSREG(addFlags(state.SREG(), dst, src, result)))
	return
}

// ADC adds Rr and the carry to Rd, storing the result in Rd.
type ADC struct{ regPair }

// NewADC creates an add-with-carry instruction.
func NewADC(rd, rr int) (op *ADC, err error) {
	op = &ADC{regPair{rd: rd, rr: rr}}
	if err = op.Validate(); err != nil {
		op = nil
	}
	return
}

func (op *ADC) Validate() error { return op.validate("adc") }
func (op *ADC) String() string  { return op.format("adc") }

func (op *ADC) Execute(state State) (upd Update, err error) {
	dst, src := op.operands(state)
	result := (dst + src + carry(state)) & BYTE_MASK

	upd = NewUpdate(state.PC()+1,
		WithRegister(op.rd, result),
		WithSREG(addFlags(state.SREG(), dst, src, result)))
	return
}

// LogicOp selects the bitwise operation of a Logic instruction.
type LogicOp int

const (
	LOGIC_AND = LogicOp(0)
	LOGIC_OR  = LogicOp(1)
	LOGIC_EOR = LogicOp(2)
)

var logicNames = [...]string{"and", "or", "eor"}

// Logic combines Rd with Rr bitwise, storing the result in Rd.
type Logic struct {
	regPair
	op LogicOp
}

// NewAND creates a bitwise and instruction.
func NewAND(rd, rr int) (*Logic, error) { return newLogic(LOGIC_AND, rd, rr) }

// NewOR creates a bitwise or instruction.
func NewOR(rd, rr int) (*Logic, error) { return newLogic(LOGIC_OR, rd, rr) }

// NewEOR creates a bitwise exclusive or instruction.
func NewEOR(rd, rr int) (*Logic, error) { return newLogic(LOGIC_EOR, rd, rr) }

func newLogic(lop LogicOp, rd, rr int) (op *Logic, err error) {
	op = &Logic{regPair: regPair{rd: rd, rr: rr}, op: lop}
	if err = op.Validate(); err != nil {
		op = nil
	}
	return
}

func (op *Logic) name() string {
	if op.op < 0 || int(op.op) >= len(logicNames) {
		return fmt.Sprintf("logic%d", int(op.op))
	}
	return logicNames[op.op]
}

func (op *Logic) Validate() error {
	if op.op < 0 || int(op.op) >= len(logicNames) {
		return &ErrMalformed{Op: op.name(), Operand: fmt.Sprintf("%d", int(op.op)), Err: ErrInstructionInvalid}
	}
	return op.validate(op.name())
}

func (op *Logic) String() string { return op.format(op.name()) }

func (op *Logic) Execute(state State) (upd Update, err error) {
	dst, src := op.operands(state)

	var result int
	switch op.op {
	case LOGIC_AND:
		result = dst & src
	case LOGIC_OR:
		result = dst | src
	case LOGIC_EOR:
		result = dst ^ src
	}
	result &= BYTE_MASK

	upd = NewUpdate(state.PC()+1,
		WithRegister(op.rd, result),
		WithSREG(logicFlags(state.SREG(), result)))
	return
}
