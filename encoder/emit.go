package encoder

import (
	"github.com/lookbusy1344/picobit-asm/parser"
	"github.com/lookbusy1344/picobit-asm/vm"
)

// emitPushConstant emits a push-constant for the datum's encoding:
// one byte when the encoding fits the 5-bit short form, otherwise a
// 16-bit word under the long opcode.
func (a *Assembler) emitPushConstant(inst *parser.Instruction) error {
	e, err := a.pool.Encode(inst.Datum)
	if err != nil {
		return wrapError(inst, err)
	}
	if e <= vm.MaxShortConstant {
		a.buf.EmitU8(vm.OpPushConstant | byte(e))
		return nil
	}
	a.buf.EmitU16(uint16(vm.OpPushConstantLong)<<8 | e)
	return nil
}

// emitPushStack emits a push-stack. There is no long form; deep
// frames are a front-end bug surfaced here.
func (a *Assembler) emitPushStack(inst *parser.Instruction) error {
	if inst.N > vm.MaxStackIndex {
		return newError(inst, inst.N, "stack is too deep")
	}
	a.buf.EmitU8(vm.OpPushStack | byte(inst.N))
	return nil
}

func (a *Assembler) emitPushGlobal(inst *parser.Instruction) error {
	return a.emitGlobal(inst, vm.OpPushGlobal, vm.OpPushGlobalLong)
}

func (a *Assembler) emitSetGlobal(inst *parser.Instruction) error {
	return a.emitGlobal(inst, vm.OpSetGlobal, vm.OpSetGlobalLong)
}

// emitGlobal emits a global access: short form for the first sixteen
// slots, opcode plus slot byte beyond.
func (a *Assembler) emitGlobal(inst *parser.Instruction, short, long byte) error {
	slot, err := a.globals.Slot(inst.Name)
	if err != nil {
		return wrapError(inst, err)
	}
	if slot <= vm.MaxShortGlobal {
		a.buf.EmitU8(short | byte(slot))
		return nil
	}
	a.buf.EmitU8(long)
	a.buf.EmitU8(byte(slot))
	return nil
}

// emitCall emits a call. Argument counts above fifteen do not fit the
// opcode byte and have no long form.
func (a *Assembler) emitCall(inst *parser.Instruction) error {
	if inst.N > vm.MaxCallArgs {
		return newError(inst, inst.N, "too many arguments in call")
	}
	a.buf.EmitU8(vm.OpCall | byte(inst.N))
	return nil
}

func (a *Assembler) emitJump(inst *parser.Instruction) error {
	if inst.N > vm.MaxCallArgs {
		return newError(inst, inst.N, "too many arguments in jump")
	}
	a.buf.EmitU8(vm.OpJump | byte(inst.N))
	return nil
}

// emitPrim emits a primitive call by name.
func (a *Assembler) emitPrim(name string, inst *parser.Instruction) error {
	k, err := vm.PrimitiveNumber(name)
	if err != nil {
		return wrapError(inst, err)
	}
	a.buf.EmitU8(vm.OpPrim | k)
	return nil
}

// emitEntry emits the procedure entry byte: the parameter count, or
// its two's complement when the procedure takes a rest argument.
func (a *Assembler) emitEntry(inst *parser.Instruction) error {
	np := inst.N
	if np > 127 {
		return newError(inst, np, "too many parameters in entry")
	}
	if inst.Rest {
		a.buf.EmitU8(byte(-np)) // #nosec G115 -- two's complement intended
		return nil
	}
	a.buf.EmitU8(byte(np))
	return nil
}
