package cpu

import (
	"iter"

	"github.com/google/btree"
)

// cell is a single touched memory address.
type cell struct {
	Addr  int
	Value int
}

func cellLess(a, b cell) bool {
	return a.Addr < b.Addr
}

// Memory is a sparse, address ordered byte store.
//
// Only addresses that have been written are kept, so lookups cost the same
// however large the simulated address space is.
type Memory struct {
	tree *btree.BTreeG[cell]
}

// NewMemory creates an empty memory.
func NewMemory() (mem *Memory) {
	mem = &Memory{
		tree: btree.NewG(8, cellLess),
	}

	return
}

// Get returns the value at an address, and whether it was ever written.
func (mem *Memory) Get(addr int) (value int, ok bool) {
	item, ok := mem.tree.Get(cell{Addr: addr})
	if ok {
		value = item.Value
	}
	return
}

// Put sets the value at an address.
func (mem *Memory) Put(addr int, value int) {
	mem.tree.ReplaceOrInsert(cell{Addr: addr, Value: value})
}

// Len returns the number of touched addresses.
func (mem *Memory) Len() int {
	return mem.tree.Len()
}

// Reset forgets every address.
func (mem *Memory) Reset() {
	mem.tree.Clear(false)
}

// All iterates over the touched addresses in ascending order.
func (mem *Memory) All() iter.Seq2[int, int] {
	return func(yield func(addr int, value int) bool) {
		mem.tree.Ascend(func(item cell) bool {
			return yield(item.Addr, item.Value)
		})
	}
}

// Range iterates over the touched addresses in [lo, hi) in ascending order.
func (mem *Memory) Range(lo, hi int) iter.Seq2[int, int] {
	return func(yield func(addr int, value int) bool) {
		mem.tree.AscendRange(cell{Addr: lo}, cell{Addr: hi}, func(item cell) bool {
			return yield(item.Addr, item.Value)
		})
	}
}
