package emulator

import (
	"github.com/ezrec/avrsim/translate"
)

var f = translate.From

var (
	ErrProgramMissing = translate.Errorf("program missing")
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	PC    int
	Where string
	Err   error
}

func (err *ErrRuntime) Error() string {
	return f("%04x %v %v", err.PC, err.Where, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
