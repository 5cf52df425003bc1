// Package encoder assembles symbolic PicoBit instructions into the
// binary image the VM loads from ROM. Assembly is two passes over the
// instruction stream: the first interns constants and globals and
// registers labels, the second emits bytes, deferring label-bearing
// instructions to a fixed-point sizing pass in the buffer.
package encoder

import (
	"fmt"
	"io"

	"github.com/lookbusy1344/picobit-asm/hex"
	"github.com/lookbusy1344/picobit-asm/parser"
	"github.com/lookbusy1344/picobit-asm/vm"
)

// Assembler assembles one program at a time. The pools, label map and
// buffer are rebuilt at every Assemble call; the pool and global
// table remain readable afterwards for dump tooling.
type Assembler struct {
	buf     *Buffer
	pool    *ConstantPool
	globals *GlobalTable
	labels  map[int]*Label
	stats   *Statistics
}

// New creates an assembler.
func New() *Assembler {
	return &Assembler{stats: NewStatistics()}
}

// Pool returns the constant pool of the last Assemble call.
func (a *Assembler) Pool() *ConstantPool {
	return a.pool
}

// Globals returns the global table of the last Assemble call.
func (a *Assembler) Globals() *GlobalTable {
	return a.globals
}

// Stats returns the instruction statistics of the last Assemble call.
func (a *Assembler) Stats() *Statistics {
	return a.stats
}

// Assemble assembles a program and writes the image as an Intel HEX
// file. Returns the written path.
func (a *Assembler) Assemble(prog *parser.Program, hexPath string) (string, error) {
	image, err := a.AssembleImage(prog)
	if err != nil {
		return "", err
	}
	if err := hex.WriteFile(hexPath, vm.CodeStart, image); err != nil {
		return "", fmt.Errorf("writing %s: %w", hexPath, err)
	}
	return hexPath, nil
}

// AssembleImage assembles a program into the raw byte image, loaded
// at vm.CodeStart.
func (a *Assembler) AssembleImage(prog *parser.Program) ([]byte, error) {
	a.buf = NewBuffer(vm.CodeStart)
	a.pool = NewConstantPool()
	a.globals = NewGlobalTable()
	a.labels = make(map[int]*Label)
	a.stats.Reset()

	// Pass 1: intern every literal and global, so the popularity
	// sorts see all reference counts before any byte is emitted.
	for _, inst := range prog.Instructions {
		switch inst.Op {
		case parser.OpPushConstant:
			if err := a.pool.Add(inst.Datum, true); err != nil {
				return nil, wrapError(inst, err)
			}
		case parser.OpPushGlobal, parser.OpSetGlobal:
			a.globals.Add(inst.Name)
		case parser.OpLabel:
			a.label(inst.Label)
		}
	}

	if err := a.pool.Sort(); err != nil {
		return nil, err
	}
	if err := a.globals.Sort(); err != nil {
		return nil, err
	}

	a.emitHeader()
	if err := a.emitConstantRecords(); err != nil {
		return nil, err
	}

	// Pass 2: emit instruction bytes.
	for _, inst := range prog.Instructions {
		if err := a.emit(inst); err != nil {
			return nil, err
		}
	}

	a.buf.Assemble()
	return a.buf.Bytes(), nil
}

// emitHeader emits the image magic and the pool sizes.
func (a *Assembler) emitHeader() {
	a.buf.EmitU8(vm.MagicByte0)
	a.buf.EmitU8(vm.MagicByte1)
	a.buf.EmitU8(byte(a.pool.Len()))    // #nosec G115 -- bounded by Sort
	a.buf.EmitU8(byte(a.globals.Len())) // #nosec G115 -- bounded by Sort
}

// emitConstantRecords emits one four-byte record per pooled constant,
// in address order, binding each constant's label at its record.
func (a *Assembler) emitConstantRecords() error {
	for _, c := range a.pool.Constants() {
		a.buf.PlaceLabel(c.Label)
		w0, w1, err := a.pool.Record(c)
		if err != nil {
			return err
		}
		a.buf.EmitU16(w0)
		a.buf.EmitU16(w1)
	}
	return nil
}

// emit assembles one instruction. Label markers bind their label at
// the current position; return and pop lower to primitive calls;
// label-bearing instructions are deferred for sizing.
func (a *Assembler) emit(inst *parser.Instruction) error {
	if inst.Op == parser.OpLabel {
		a.buf.PlaceLabel(a.label(inst.Label))
		return nil
	}

	a.stats.Record(inst.Op.String())

	switch inst.Op {
	case parser.OpEntry:
		return a.emitEntry(inst)
	case parser.OpPushConstant:
		return a.emitPushConstant(inst)
	case parser.OpPushStack:
		return a.emitPushStack(inst)
	case parser.OpPushGlobal:
		return a.emitPushGlobal(inst)
	case parser.OpSetGlobal:
		return a.emitSetGlobal(inst)
	case parser.OpCall:
		return a.emitCall(inst)
	case parser.OpJump:
		return a.emitJump(inst)
	case parser.OpPrim:
		return a.emitPrim(inst.Name, inst)
	case parser.OpReturn:
		return a.emitPrim("return", inst)
	case parser.OpPop:
		return a.emitPrim("pop", inst)
	case parser.OpCallToplevel, parser.OpJumpToplevel,
		parser.OpGoto, parser.OpGotoIfFalse, parser.OpClosure:
		a.buf.Defer(branchForms[inst.Op], a.label(inst.Label))
		return nil
	}

	return newError(inst, inst.Op, "unknown instruction")
}

// label returns the buffer label for a label id, creating it on first
// use so forward references work in either pass.
func (a *Assembler) label(id int) *Label {
	l, ok := a.labels[id]
	if !ok {
		l = a.buf.MakeLabel()
		a.labels[id] = l
	}
	return l
}

// DumpTables writes the sorted constant pool and global slots in a
// readable form, for toolchain debugging.
func (a *Assembler) DumpTables(w io.Writer) {
	fmt.Fprintf(w, "constants: %d\n", a.pool.Len())
	for _, c := range a.pool.Constants() {
		fmt.Fprintf(w, "  %4d  refs=%-3d  %s\n", c.Addr, c.Count, c.Datum)
	}
	fmt.Fprintf(w, "globals: %d\n", a.globals.Len())
	for _, g := range a.globals.Globals() {
		fmt.Fprintf(w, "  %4d  refs=%-3d  %s\n", g.Slot, g.Count, g.Name)
	}
}
