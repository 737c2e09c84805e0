package cpu

// Label marks a jump target. It executes as a no-op.
type Label struct {
	name string
}

// NewLabel creates a label marker.
func NewLabel(name string) (op *Label, err error) {
	op = &Label{name: name}
	if err = op.Validate(); err != nil {
		op = nil
	}
	return
}

func (op *Label) Validate() error { return checkTarget("label", op.name) }
func (op *Label) String() string  { return op.name + ":" }
func (op *Label) Label() string   { return op.name }

func (op *Label) Execute(state State) (upd Update, err error) {
	upd = NewUpdate(state.PC() + 1)
	return
}

// branch jumps to a label when taken, else falls through.
func branch(state State, label string, taken bool) (upd Update, err error) {
	if !taken {
		upd = NewUpdate(state.PC() + 1)
		return
	}

	pc, ok := state.Label(label)
	if !ok {
		err = ErrLabelMissing(label)
		return
	}

	upd = NewUpdate(pc)
	return
}

// BranchCond selects when a Branch is taken.
type BranchCond int

const (
	BRANCH_ALWAYS = BranchCond(0) // rjmp
	BRANCH_EQUAL  = BranchCond(1) // breq: Z set
	BRANCH_NEQUAL = BranchCond(2) // brne: Z clear
)

var branchNames = [...]string{"rjmp", "breq", "brne"}

// Branch is a relative jump to a label, optionally conditional on Z.
type Branch struct {
	cond  BranchCond
	label string
}

// NewRJMP creates an unconditional jump.
func NewRJMP(label string) (*Branch, error) { return newBranch(BRANCH_ALWAYS, label) }

// NewBREQ creates a jump taken when Z is set.
func NewBREQ(label string) (*Branch, error) { return newBranch(BRANCH_EQUAL, label) }

// NewBRNE creates a jump taken when Z is clear.
func NewBRNE(label string) (*Branch, error) { return newBranch(BRANCH_NEQUAL, label) }

func newBranch(cond BranchCond, label string) (op *Branch, err error) {
	op = &Branch{cond: cond, label: label}
	if err = op.Validate(); err != nil {
		op = nil
	}
	return
}

func (op *Branch) name() string {
	if op.cond < 0 || int(op.cond) >= len(branchNames) {
		return "br?"
	}
	return branchNames[op.cond]
}

func (op *Branch) Validate() error {
	if op.cond < 0 || int(op.cond) >= len(branchNames) {
		return &ErrMalformed{Op: op.name(), Operand: op.label, Err: ErrInstructionInvalid}
	}
	return checkTarget(op.name(), op.label)
}

func (op *Branch) String() string { return op.name() + " " + op.label }

func (op *Branch) Execute(state State) (upd Update, err error) {
	var taken bool
	switch op.cond {
	case BRANCH_ALWAYS:
		taken = true
	case BRANCH_EQUAL:
		taken = state.SREG().Z()
	case BRANCH_NEQUAL:
		taken = !state.SREG().Z()
	}
	return branch(state, op.label, taken)
}

// CALL calls a function by name.
//
// Predefined routines run during commit and return to the next instruction.
// Other functions get the return address pushed onto the stack, high byte
// below low byte, and control moves to the function's first instruction.
type CALL struct {
	name string
}

// NewCALL creates a call instruction.
func NewCALL(name string) (op *CALL, err error) {
	op = &CALL{name: name}
	if err = op.Validate(); err != nil {
		op = nil
	}
	return
}

func (op *CALL) Validate() error { return checkTarget("call", op.name) }
func (op *CALL) String() string  { return "call " + op.name }

func (op *CALL) Execute(state State) (upd Update, err error) {
	ret := state.PC() + 1

	if state.IsPredefinedFunction(op.name) {
		upd = NewUpdate(ret, WithNativeCall(op.name))
		return
	}

	target, ok := state.Function(op.name)
	if !ok {
		err = ErrFunctionMissing(op.name)
		return
	}

	sp := state.StackPointer()
	upd = NewUpdate(target,
		WithLongMemory(sp-1, ret),
		WithStackPointer(sp-2),
		WithReturnAddress(ret))
	return
}

// RET pops a return address pushed by CALL and jumps to it.
type RET struct{}

func (op RET) Validate() error { return nil }
func (op RET) String() string  { return "ret" }

func (op RET) Execute(state State) (upd Update, err error) {
	sp := state.StackPointer()
	hi := state.Stack(sp + 1)
	lo := state.Stack(sp + 2)

	upd = NewUpdate((hi<<8)|lo, WithStackPointer(sp+2))
	return
}
