package cpu

import (
	"strings"
)

// Flag is a status register bit position.
type Flag uint8

//go:generate go tool stringer -linecomment -type=Flag
const (
	FLAG_C = Flag(0) // C
	FLAG_Z = Flag(1) // Z
	FLAG_N = Flag(2) // N
	FLAG_V = Flag(3) // V
	FLAG_S = Flag(4) // S
	FLAG_H = Flag(5) // H
	FLAG_T = Flag(6) // T
	FLAG_I = Flag(7) // I
)

// FLAGS lists every flag, lowest bit first.
var FLAGS = [...]Flag{FLAG_C, FLAG_Z, FLAG_N, FLAG_V, FLAG_S, FLAG_H, FLAG_T, FLAG_I}

// SREG is the 8-bit status register.
//
// It is a plain value: assigning or passing an SREG copies it. Instructions
// compute on a copy, and the machine folds that copy into its own register
// with Apply.
type SREG uint8

// Get returns the state of a flag.
func (sreg SREG) Get(flag Flag) bool {
	return (sreg & (1 << flag)) != 0
}

// Set sets the state of a flag.
func (sreg *SREG) Set(flag Flag, state bool) {
	if state {
		*sreg |= (1 << flag)
	} else {
		*sreg &^= (1 << flag)
	}
}

// With returns a copy of the register with one flag changed.
func (sreg SREG) With(flag Flag, state bool) SREG {
	sreg.Set(flag, state)
	return sreg
}

// Clone returns an independent copy.
func (sreg SREG) Clone() SREG {
	return sreg
}

// Apply copies each flag of src that differs from the receiver.
func (sreg *SREG) Apply(src SREG) {
	for _, flag := range FLAGS {
		if src.Get(flag) != sreg.Get(flag) {
			sreg.Set(flag, src.Get(flag))
		}
	}
}

// Diff lists the flags that differ between two registers.
func (sreg SREG) Diff(other SREG) (flags []Flag) {
	for _, flag := range FLAGS {
		if sreg.Get(flag) != other.Get(flag) {
			flags = append(flags, flag)
		}
	}
	return
}

func (sreg SREG) C() bool { return sreg.Get(FLAG_C) }
func (sreg SREG) Z() bool { return sreg.Get(FLAG_Z) }
func (sreg SREG) N() bool { return sreg.Get(FLAG_N) }
func (sreg SREG) V() bool { return sreg.Get(FLAG_V) }
func (sreg SREG) S() bool { return sreg.Get(FLAG_S) }
func (sreg SREG) H() bool { return sreg.Get(FLAG_H) }
func (sreg SREG) T() bool { return sreg.Get(FLAG_T) }
func (sreg SREG) I() bool { return sreg.Get(FLAG_I) }

func (sreg *SREG) SetC(state bool) { sreg.Set(FLAG_C, state) }
func (sreg *SREG) SetZ(state bool) { sreg.Set(FLAG_Z, state) }
func (sreg *SREG) SetN(state bool) { sreg.Set(FLAG_N, state) }
func (sreg *SREG) SetV(state bool) { sreg.Set(FLAG_V, state) }
func (sreg *SREG) SetS(state bool) { sreg.Set(FLAG_S, state) }
func (sreg *SREG) SetH(state bool) { sreg.Set(FLAG_H, state) }
func (sreg *SREG) SetT(state bool) { sreg.Set(FLAG_T, state) }
func (sreg *SREG) SetI(state bool) { sreg.Set(FLAG_I, state) }

// String returns the flags highest bit first, upper case when set.
func (sreg SREG) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for n := len(FLAGS) - 1; n >= 0; n-- {
		name := FLAGS[n].String()
		if !sreg.Get(FLAGS[n]) {
			name = strings.ToLower(name)
		}
		sb.WriteString(name)
	}
	sb.WriteByte(']')
	return sb.String()
}
