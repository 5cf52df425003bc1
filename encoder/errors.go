package encoder

import (
	"fmt"

	"github.com/lookbusy1344/picobit-asm/parser"
)

// AssembleError provides context for assembly failures. It carries
// the offending value (literal, operand or name) and, when the
// failure is tied to one instruction, that instruction's source
// location and raw line.
type AssembleError struct {
	Instruction *parser.Instruction // Instruction that failed to assemble (may be nil)
	Message     string              // Error description
	Value       any                 // Offending object or operand (may be nil)
	Wrapped     error               // Underlying error (may be nil)
}

// Error implements the error interface.
func (e *AssembleError) Error() string {
	msg := e.Message
	if e.Value != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Value)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped)
	}

	if e.Instruction != nil {
		pos := e.Instruction.Pos
		if pos.Line > 0 {
			msg = fmt.Sprintf("%s: %s", pos, msg)
		}
		if e.Instruction.RawLine != "" {
			msg = fmt.Sprintf("%s\n  source: %s", msg, e.Instruction.RawLine)
		}
	}

	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AssembleError) Unwrap() error {
	return e.Wrapped
}

// newError creates an AssembleError with an offending value.
func newError(inst *parser.Instruction, value any, message string) *AssembleError {
	return &AssembleError{
		Instruction: inst,
		Message:     message,
		Value:       value,
	}
}

// wrapError attaches instruction context to an existing error. An
// AssembleError is returned as the same value, with the instruction
// filled in only if it has none yet.
func wrapError(inst *parser.Instruction, err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*AssembleError); ok {
		if ae.Instruction == nil {
			ae.Instruction = inst
		}
		return ae
	}
	return &AssembleError{
		Instruction: inst,
		Message:     "failed to assemble instruction",
		Wrapped:     err,
	}
}
