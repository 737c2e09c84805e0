// Package cpu implements an instruction level simulator for the subset of
// the AVR (ATmega) instruction set emitted for Meggy Jr programs.
//
// The Machine holds 32 byte-wide registers (r0-r31), the status register
// (SREG), a sparse stack and heap, the program counter and the LED grid.
// Instructions never change the machine directly: Execute computes an
// Update from a read-only State, and Machine.Commit applies it. Calls to
// predefined routines, such as DrawPx or malloc, are carried in the Update
// and run during commit.
//
// In batch mode the machine aborts a program that revisits any label more
// than MaxJumps times, so unattended runs of looping programs terminate.
package cpu
