package cpu

import (
	"errors"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/avrsim/native"
)

func TestMachine_New(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("test")
	assert.Equal("test", m.Name())
	assert.True(m.Batch)
	assert.Equal(DEFAULT_MAX_JUMPS, m.MaxJumps)
	assert.True(m.HasNextInstr())
	assert.Equal(0, m.PC())
	assert.Equal(STACK_TOP-2, m.StackPointer())
	assert.Equal(0xff, m.Stack(STACK_TOP))
	assert.Equal(0xff, m.Stack(STACK_TOP-1))
	assert.Equal(0, m.Stack(STACK_TOP-2))
	assert.Equal(-1, m.ReturnAddress())
	assert.Equal(SREG(0), m.SREG())
	assert.Equal(0, m.Len())

	for reg := range REGISTER_COUNT {
		assert.Equal(0, m.Register(reg))
	}
	for x := range native.GRID_SIZE {
		for y := range native.GRID_SIZE {
			assert.Equal(native.COLOR_NONE, m.GridColor(x, y))
			assert.Equal(native.COLOR_NONE, m.DisplaySlate(x, y))
		}
	}
}

func TestMachine_Commit(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("commit")
	sreg := SREG(0).With(FLAG_N, true).With(FLAG_S, true)
	m.Commit(NewUpdate(9,
		WithRegister(24, 0x12),
		WithRegister(25, 0x34),
		WithMemory(0x300, 0x56),
		WithStackPointer(0x3000),
		WithSREG(sreg),
		WithLongMemory(0x200, 0xabcd),
		WithReturnAddress(4),
	))

	assert.Equal(9, m.PC())
	assert.Equal(0x12, m.Register(24))
	assert.Equal(0x34, m.Register(25))
	assert.Equal(0x56, m.Stack(0x300))
	assert.Equal(0x3000, m.StackPointer())
	assert.Equal(sreg, m.SREG())
	assert.Equal(0xab, m.Stack(0x200))
	assert.Equal(0xcd, m.Stack(0x201))
	assert.Equal(4, m.ReturnAddress())
}

func TestMachine_CommitUntouched(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("untouched")
	m.Commit(NewUpdate(0, WithRegister(3, 3), WithRegister(30, 30), WithSREG(SREG(0).With(FLAG_T, true))))

	var before [REGISTER_COUNT]int
	for reg := range REGISTER_COUNT {
		before[reg] = m.Register(reg)
	}
	sreg := m.SREG()
	sp := m.StackPointer()

	m.Commit(NewUpdate(1))

	for reg := range REGISTER_COUNT {
		assert.Equal(before[reg], m.Register(reg))
	}
	assert.Equal(sreg, m.SREG())
	assert.Equal(sp, m.StackPointer())
	assert.Equal(1, m.PC())
}

func TestMachine_CommitNegativeStackPointer(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("sp")
	sp := m.StackPointer()
	m.Commit(NewUpdate(0, WithStackPointer(-5)))
	assert.Equal(sp, m.StackPointer())
}

func TestMachine_SREGIsCopy(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("copy")
	sreg := m.SREG()
	sreg.SetC(true)
	assert.False(m.SREG().C())
}

func TestMachine_ReadProgram(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("load")
	prog := &Program{
		Functions: []Function{
			{Name: "helper", Instructions: []Instruction{
				must(NewLDI(16, 1)),
				RET{},
			}},
			{Name: "main", Instructions: []Instruction{
				must(NewLabel("top")),
				must(NewCALL("helper")),
				must(NewRJMP("top")),
			}},
		},
	}

	err := m.ReadProgram(prog)
	assert.NoError(err)
	assert.Equal(5, m.Len())

	pc, ok := m.Function("helper")
	assert.True(ok)
	assert.Equal(0, pc)
	pc, ok = m.Function("main")
	assert.True(ok)
	assert.Equal(2, pc)
	pc, ok = m.Label("top")
	assert.True(ok)
	assert.Equal(2, pc)
	_, ok = m.Label("bottom")
	assert.False(ok)

	assert.Equal(2, m.PC())
	assert.Equal(map[string]int{"helper": 0, "main": 2}, maps.Collect(m.Functions()))
	assert.Equal(map[string]int{"top": 2}, maps.Collect(m.Labels()))

	instr, ok := m.Instruction(4)
	assert.True(ok)
	assert.Equal("rjmp top", instr.String())
	_, ok = m.Instruction(5)
	assert.False(ok)
	_, ok = m.Instruction(-1)
	assert.False(ok)
}

func TestMachine_ReadProgramErrors(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name string
		prog *Program
		err  error
	}{
		{"nil", nil, ErrProgramEmpty},
		{"dup_function", &Program{Functions: []Function{
			{Name: "f", Instructions: []Instruction{NOP{}}},
			{Name: "f", Instructions: []Instruction{NOP{}}},
		}}, ErrFunctionDuplicate},
		{"dup_label", &Program{Functions: []Function{
			{Name: "f", Instructions: []Instruction{must(NewLabel("L"))}},
			{Name: "g", Instructions: []Instruction{must(NewLabel("L"))}},
		}}, ErrLabelDuplicate},
		{"invalid", &Program{Functions: []Function{
			{Name: "f", Instructions: []Instruction{NOP{}, &LDI{rd: 2, k: 1}}},
		}}, ErrMalformedInstruction},
		{"nil_instruction", &Program{Functions: []Function{
			{Name: "f", Instructions: []Instruction{nil}},
		}}, ErrInstructionInvalid},
	}

	for _, entry := range table {
		m := NewMachine(entry.name)
		err := m.ReadProgram(entry.prog)
		assert.True(errors.Is(err, entry.err), entry.name)
		assert.Equal(0, m.Len(), entry.name)
		_, ok := m.Function("f")
		assert.False(ok, entry.name)
	}

	m := NewMachine("where")
	err := m.ReadProgram(&Program{Functions: []Function{
		{Name: "f", Instructions: []Instruction{NOP{}, NOP{}, &CPC{regPair{rd: 40}}}},
	}})
	var load *ErrLoad
	assert.True(errors.As(err, &load))
	assert.Equal("f", load.Function)
	assert.Equal(2, load.Index)
	assert.True(errors.Is(err, ErrRegisterInvalid))
}

func TestMachine_ReadProgramTwice(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("twice")
	assert.NoError(m.ReadProgram(&Program{Functions: []Function{{Name: "a", Instructions: []Instruction{NOP{}}}}}))
	assert.NoError(m.ReadProgram(&Program{Functions: []Function{{Name: "b", Instructions: []Instruction{NOP{}}}}}))
	pc, ok := m.Function("b")
	assert.True(ok)
	assert.Equal(1, pc)

	err := m.ReadProgram(&Program{Functions: []Function{{Name: "a"}}})
	assert.True(errors.Is(err, ErrFunctionDuplicate))
	assert.Equal(2, m.Len())
}

func TestMachine_Termination(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("end")
	assert.NoError(m.ReadProgram(&Program{Functions: []Function{
		{Name: "start", Instructions: []Instruction{
			must(NewLDI(16, 1)),
			must(NewLDI(17, 2)),
			NOP{},
		}},
	}}))

	transitions := 0
	for range 3 {
		assert.True(m.HasNextInstr())
		assert.NoError(m.ExecuteInstruction())
		if !m.HasNextInstr() {
			transitions++
		}
	}
	assert.Equal(1, transitions)
	assert.Equal(3, m.PC())
	assert.False(m.HasNextInstr())

	assert.NoError(m.ExecuteInstruction())
	assert.False(m.HasNextInstr())
	assert.Equal(1, m.Register(16))
	assert.Equal(2, m.Register(17))
}

func TestMachine_EmptyProgram(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("empty")
	assert.True(m.HasNextInstr())
	assert.NoError(m.ExecuteInstruction())
	assert.False(m.HasNextInstr())
}

func TestMachine_CallReturn(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("call")
	assert.NoError(m.ReadProgram(&Program{Functions: []Function{
		{Name: "main", Instructions: []Instruction{
			must(NewCALL("f")),
			must(NewLDI(16, 1)),
			RET{},
		}},
		{Name: "f", Instructions: []Instruction{
			must(NewLDI(17, 2)),
			RET{},
		}},
	}}))

	assert.NoError(m.ExecuteInstruction())
	assert.Equal(3, m.PC())
	assert.Equal(1, m.ReturnAddress())
	assert.Equal(STACK_TOP-4, m.StackPointer())
	assert.Equal(0x00, m.Stack(STACK_TOP-3))
	assert.Equal(0x01, m.Stack(STACK_TOP-2))

	steps, err := runMachine(m)
	assert.NoError(err)
	assert.Equal(4, steps)
	assert.False(m.HasNextInstr())
	assert.Equal(RETURN_SENTINEL, m.PC())
	assert.Equal(1, m.Register(16))
	assert.Equal(2, m.Register(17))
	assert.Equal(STACK_TOP, m.StackPointer())
}

func TestMachine_PushPop(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("stack")
	assert.NoError(m.ReadProgram(&Program{Functions: []Function{
		{Name: "main", Instructions: []Instruction{
			must(NewLDI(18, 0x5a)),
			must(NewPUSH(18)),
			must(NewLDI(18, 0)),
			must(NewPOP(19)),
		}},
	}}))

	_, err := runMachine(m)
	assert.NoError(err)
	assert.Equal(0x5a, m.Register(19))
	assert.Equal(0, m.Register(18))
	assert.Equal(STACK_TOP-2, m.StackPointer())
	assert.Equal(0x5a, m.Stack(STACK_TOP-2))
}

// countLoop builds a program whose label is visited loops times.
func countLoop(loops int) *Program {
	return &Program{Functions: []Function{
		{Name: "main", Instructions: []Instruction{
			must(NewLDI(16, 0)),
			must(NewLDI(17, 1)),
			must(NewLDI(18, loops)),
			must(NewLabel(".L1")),
			must(NewADD(16, 17)),
			must(NewCP(16, 18)),
			must(NewBRNE(".L1")),
			RET{},
		}},
	}}
}

func TestMachine_BatchGuard(t *testing.T) {
	assert := assert.New(t)

	const maxJumps = 3

	for loops := 1; loops <= maxJumps+3; loops++ {
		m := NewMachine("batch")
		m.MaxJumps = maxJumps
		assert.NoError(m.ReadProgram(countLoop(loops)))

		_, err := runMachine(m)
		jumps := loops - 1
		if jumps <= maxJumps {
			assert.NoError(err, loops)
			assert.False(m.HasNextInstr(), loops)
			assert.Equal(loops, m.Register(16), loops)
			count, ok := m.Jumps(".L1")
			assert.True(ok, loops)
			assert.Equal(jumps, count, loops)
		} else {
			assert.True(errors.Is(err, ErrRuntime), loops)
			assert.True(errors.Is(err, ErrMaxJumps(".L1")), loops)
			assert.False(errors.Is(err, ErrMalformedInstruction), loops)
			assert.True(m.HasNextInstr(), loops)
			assert.Equal(3, m.PC(), loops)
			assert.Equal(maxJumps+1, m.Register(16), loops)
		}
	}
}

func TestMachine_BatchGuardLabelOnly(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("spin")
	m.MaxJumps = 2
	assert.NoError(m.ReadProgram(&Program{Functions: []Function{
		{Name: "main", Instructions: []Instruction{
			must(NewLabel("spin")),
			must(NewRJMP("spin")),
		}},
	}}))

	for range 6 {
		assert.NoError(m.ExecuteInstruction())
	}
	err := m.ExecuteInstruction()
	assert.Equal(ErrMaxJumps("spin"), err)
	assert.Equal("max jumps exceeded for label spin", err.Error())
	assert.Equal(0, m.PC())
	assert.True(m.HasNextInstr())
}

func TestMachine_Interactive(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("debugger")
	m.Batch = false
	m.MaxJumps = 1
	assert.NoError(m.ReadProgram(&Program{Functions: []Function{
		{Name: "main", Instructions: []Instruction{
			must(NewLabel("spin")),
			must(NewRJMP("spin")),
		}},
	}}))

	for range 100 {
		assert.NoError(m.ExecuteInstruction())
	}
	assert.True(m.HasNextInstr())
	_, ok := m.Jumps("spin")
	assert.False(ok)
}

func TestMachine_FailedStepNotCommitted(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("fail")
	assert.NoError(m.ReadProgram(&Program{Functions: []Function{
		{Name: "main", Instructions: []Instruction{
			must(NewLDI(16, 9)),
			must(NewCALL("absent")),
		}},
	}}))

	assert.NoError(m.ExecuteInstruction())
	sp := m.StackPointer()
	err := m.ExecuteInstruction()
	assert.True(errors.Is(err, ErrFunctionMissing("absent")))
	assert.Equal(1, m.PC())
	assert.Equal(sp, m.StackPointer())
	assert.Equal(9, m.Register(16))
	assert.True(m.HasNextInstr())
}

func TestMachine_Native(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("meggy")
	assert.True(m.IsPredefinedFunction(native.NAME_DRAW_PX))
	assert.True(m.IsPredefinedFunction(native.NAME_DISPLAY_SLATE))
	assert.True(m.IsPredefinedFunction(native.NAME_MALLOC))
	assert.False(m.IsPredefinedFunction("main"))
	_, ok := m.PreDefinedFunction(native.NAME_DRAW_PX)
	assert.True(ok)

	assert.NoError(m.ReadProgram(&Program{Functions: []Function{
		{Name: "main", Instructions: []Instruction{
			must(NewLDI(24, 2)),
			must(NewLDI(22, 3)),
			must(NewLDI(20, int(native.COLOR_RED))),
			must(NewCALL(native.NAME_DRAW_PX)),
			must(NewCALL(native.NAME_DISPLAY_SLATE)),
			must(NewLDI(24, 8)),
			must(NewLDI(25, 0)),
			must(NewCALL(native.NAME_MALLOC)),
			RET{},
		}},
	}}))

	assert.NoError(m.ExecuteInstruction())
	assert.NoError(m.ExecuteInstruction())
	assert.NoError(m.ExecuteInstruction())
	assert.NoError(m.ExecuteInstruction())
	assert.Equal(native.COLOR_RED, m.DisplaySlate(2, 3))
	assert.Equal(native.COLOR_NONE, m.GridColor(2, 3))
	assert.Equal(4, m.PC())

	_, err := runMachine(m)
	assert.NoError(err)
	assert.Equal(native.COLOR_RED, m.GridColor(2, 3))
	assert.Equal(native.COLOR_NONE, m.GridColor(0, 0))

	assert.Equal(HEAP_BASE&0xff, m.Register(24))
	assert.Equal(HEAP_BASE>>8, m.Register(25))
	value, ok := m.Heap(HEAP_BASE + 7)
	assert.True(ok)
	assert.Equal(0, value)
	_, ok = m.Heap(HEAP_BASE + 8)
	assert.False(ok)
	assert.Equal(STACK_TOP, m.StackPointer())
}

func TestMachine_NativeTablePerMachine(t *testing.T) {
	assert := assert.New(t)

	a := NewMachine("a")
	b := NewMachine("b")
	delete(a.natives, native.NAME_MALLOC)

	assert.False(a.IsPredefinedFunction(native.NAME_MALLOC))
	assert.True(b.IsPredefinedFunction(native.NAME_MALLOC))
}

func TestMachine_Allocate(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("heap")
	_, ok := m.Heap(HEAP_BASE)
	assert.False(ok)

	assert.Equal(HEAP_BASE, m.Allocate(4))
	assert.Equal(HEAP_BASE+4, m.Allocate(2))
	assert.Equal(HEAP_BASE+6, m.Allocate(0))
	assert.Equal(HEAP_BASE+6, m.Allocate(-3))

	for addr := HEAP_BASE; addr < HEAP_BASE+6; addr++ {
		value, ok := m.Heap(addr)
		assert.True(ok)
		assert.Equal(0, value)
	}

	m.SetHeap(HEAP_BASE+1, 0x77)
	value, _ := m.Heap(HEAP_BASE + 1)
	assert.Equal(0x77, value)

	assert.Equal(map[int]int{
		HEAP_BASE: 0, HEAP_BASE + 1: 0x77, HEAP_BASE + 2: 0,
		HEAP_BASE + 3: 0, HEAP_BASE + 4: 0, HEAP_BASE + 5: 0,
	}, maps.Collect(m.HeapCells()))
}

func TestMachine_Memory(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("memory")
	m.SetHeap(0x300, 7)
	m.Commit(NewUpdate(0, WithMemory(0x300, 9)))
	m.Commit(NewUpdate(0, WithMemory(0x301, 11)))

	value, ok := m.Memory(0x300)
	assert.True(ok)
	assert.Equal(7, value)

	value, ok = m.Memory(0x301)
	assert.True(ok)
	assert.Equal(11, value)

	value, ok = m.Memory(STACK_TOP)
	assert.True(ok)
	assert.Equal(0xff, value)

	_, ok = m.Memory(0x302)
	assert.False(ok)
}

func TestMachine_DisplayBounds(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("bounds")
	m.SetGridColor(8, 0, native.COLOR_RED)
	m.SetDisplaySlate(0, -1, native.COLOR_RED)
	m.SetGridColor(7, 7, native.COLOR_BLUE)
	m.SetDisplaySlate(0, 0, native.COLOR_GREEN)

	assert.Equal(native.COLOR_NONE, m.GridColor(8, 0))
	assert.Equal(native.COLOR_NONE, m.DisplaySlate(0, -1))
	assert.Equal(native.COLOR_BLUE, m.GridColor(7, 7))
	assert.Equal(native.COLOR_GREEN, m.DisplaySlate(0, 0))

	grid := m.Grid()
	assert.Equal(native.COLOR_BLUE, grid[7][7])
	grid[7][7] = native.COLOR_RED
	assert.Equal(native.COLOR_BLUE, m.GridColor(7, 7))
}

func TestMachine_Reset(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("reset")
	assert.NoError(m.ReadProgram(&Program{Functions: []Function{
		{Name: "main", Instructions: []Instruction{must(NewLDI(16, 1))}},
	}}))
	_, err := runMachine(m)
	assert.NoError(err)
	m.Allocate(3)
	m.SetGridColor(1, 1, native.COLOR_WHITE)

	m.Reset()
	assert.True(m.HasNextInstr())
	assert.Equal(0, m.Len())
	assert.Equal(0, m.PC())
	assert.Equal(0, m.Register(16))
	assert.Equal(STACK_TOP-2, m.StackPointer())
	assert.Equal(native.COLOR_NONE, m.GridColor(1, 1))
	assert.Equal(HEAP_BASE, m.Allocate(1))
	_, ok := m.Function("main")
	assert.False(ok)
}

func TestMachine_String(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("dump")
	m.Commit(NewUpdate(0x12, WithRegister(9, 0xab)))
	text := m.String()

	assert.Contains(text, "machine: dump")
	assert.Contains(text, "pc: 0012")
	assert.Contains(text, "sp: 3e3b")
	assert.Contains(text, "r8: 00 ab 00")
	assert.Contains(text, "[ithsvnzc]")
	assert.Contains(text, "stack: ff ff\n")
	assert.Contains(text, " heap:\n")

	m.Allocate(2)
	m.SetHeap(HEAP_BASE+1, 0x7e)
	assert.Contains(m.String(), " heap: 0100=00 0101=7e\n")
}

func TestMachine_SubtractChain(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine("chain")
	assert.NoError(m.ReadProgram(&Program{Functions: []Function{
		{Name: "main", Instructions: []Instruction{
			must(NewLDI(17, 1)),
			must(NewLDI(18, 255)),
			must(NewSBC(16, 17)),
			must(NewCPC(16, 18)),
		}},
	}}))

	for range 3 {
		assert.NoError(m.ExecuteInstruction())
	}
	assert.Equal(-1, m.Register(16))
	assert.True(m.SREG().C())
	assert.True(m.SREG().N())

	assert.NoError(m.ExecuteInstruction())
	assert.False(m.HasNextInstr())
	assert.Equal(-1, m.Register(16))

	sreg := m.SREG()
	assert.True(sreg.C())
	assert.False(sreg.Z())
	assert.False(sreg.N())
	assert.False(sreg.V())
	assert.False(sreg.S())

	assert.Contains(m.String(), "r16: ff 01 ff")
}
