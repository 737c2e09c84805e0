package cpu

// must panics if an instruction could not be constructed.
func must[T Instruction](op T, err error) T {
	if err != nil {
		panic(err)
	}
	return op
}

// testState is a State backed by plain maps.
type testState struct {
	pc        int
	registers map[int]int
	sreg      SREG
	stack     map[int]int
	sp        int
	functions map[string]int
	labels    map[string]int
	natives   map[string]bool
}

var _ State = (*testState)(nil)

func (ts *testState) PC() int              { return ts.pc }
func (ts *testState) Register(reg int) int { return ts.registers[reg] }
func (ts *testState) SREG() SREG           { return ts.sreg }
func (ts *testState) Stack(addr int) int   { return ts.stack[addr] }
func (ts *testState) StackPointer() int    { return ts.sp }

func (ts *testState) Function(name string) (pc int, ok bool) {
	pc, ok = ts.functions[name]
	return
}

func (ts *testState) Label(name string) (pc int, ok bool) {
	pc, ok = ts.labels[name]
	return
}

func (ts *testState) IsPredefinedFunction(name string) bool {
	return ts.natives[name]
}

// runMachine steps a machine until it finishes or fails.
func runMachine(m *Machine) (steps int, err error) {
	for m.HasNextInstr() {
		err = m.ExecuteInstruction()
		if err != nil {
			return
		}
		steps++
	}
	return
}
