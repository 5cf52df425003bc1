package encoder

import (
	"github.com/lookbusy1344/picobit-asm/parser"
	"github.com/lookbusy1344/picobit-asm/vm"
)

// BranchForms lists the opcodes available to one label-bearing
// instruction, one per encoding width. A negative slot means the
// instruction has no encoding of that width; Abs16 is always present.
type BranchForms struct {
	Rel4  int // 1 byte: opcode + 4-bit forward distance
	Rel8  int // 2 bytes: opcode, biased signed distance
	Rel12 int // 2 bytes: opcode and 12-bit biased distance in one word
	Abs16 int // 3 bytes: opcode, 16-bit address from code start
}

// branchForms gives the encodings of each label-bearing instruction.
// No current instruction has a rel-12 form; the slot is carried for
// the encoding scheme's sake.
var branchForms = map[parser.Op]BranchForms{
	parser.OpCallToplevel: {Rel4: -1, Rel8: int(vm.OpCallToplevelRel8), Rel12: -1, Abs16: int(vm.OpCallToplevelAbs)},
	parser.OpJumpToplevel: {Rel4: int(vm.OpJumpToplevelRel4), Rel8: int(vm.OpJumpToplevelRel8), Rel12: -1, Abs16: int(vm.OpJumpToplevelAbs)},
	parser.OpGoto:         {Rel4: -1, Rel8: int(vm.OpGotoRel8), Rel12: -1, Abs16: int(vm.OpGotoAbs)},
	parser.OpGotoIfFalse:  {Rel4: int(vm.OpGotoIfFalseRel4), Rel8: int(vm.OpGotoIfFalseRel8), Rel12: -1, Abs16: int(vm.OpGotoIfFalseAbs)},
	parser.OpClosure:      {Rel4: -1, Rel8: int(vm.OpClosureRel8), Rel12: -1, Abs16: int(vm.OpClosureAbs)},
}

// branchItem is a deferred label-bearing instruction. pos is filled
// in by the buffer's layout pass; size starts at the widest form and
// only shrinks.
type branchItem struct {
	forms  BranchForms
	target *Label
	size   int
	pos    int
}

func (bi *branchItem) rel4Applies() bool {
	if bi.forms.Rel4 < 0 {
		return false
	}
	d := bi.target.pos - (bi.pos + 1)
	return d >= 0 && d <= 15
}

func (bi *branchItem) rel8Applies() bool {
	if bi.forms.Rel8 < 0 {
		return false
	}
	d := 128 + bi.target.pos - (bi.pos + 2)
	return d >= 0 && d <= 255
}

func (bi *branchItem) rel12Applies() bool {
	if bi.forms.Rel12 < 0 {
		return false
	}
	d := 2048 + bi.target.pos - (bi.pos + 2)
	return d >= 0 && d <= 4095
}

// bestSize returns the width of the smallest form applicable at the
// current positions. Preference order is fixed so that ties on a
// range boundary resolve the same way on every run.
func (bi *branchItem) bestSize() int {
	switch {
	case bi.rel4Applies():
		return 1
	case bi.rel8Applies(), bi.rel12Applies():
		return 2
	default:
		return 3
	}
}

// encode appends the branch's bytes for its resolved size.
func (bi *branchItem) encode(out []byte, codeStart int) []byte {
	target := bi.target.pos
	switch bi.size {
	case 1:
		return append(out, byte(bi.forms.Rel4+target-bi.pos-1))
	case 2:
		if bi.rel8Applies() {
			return append(out, byte(bi.forms.Rel8), byte(128+target-(bi.pos+2)))
		}
		word := bi.forms.Rel12*256 + 2048 + target - (bi.pos + 2)
		return append(out, byte(word>>8), byte(word))
	default:
		d := target - codeStart
		return append(out, byte(bi.forms.Abs16), byte(d>>8), byte(d))
	}
}
