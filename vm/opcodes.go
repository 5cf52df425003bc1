package vm

// Opcode bases for the fixed-size instruction forms. The short forms
// carry their operand in the low bits of the opcode byte.
const (
	OpPushConstant byte = 0x00 // 0x00|n, n <= MaxShortConstant
	OpPushStack    byte = 0x20 // 0x20|n, n <= MaxStackIndex
	OpPushGlobal   byte = 0x40 // 0x40|n, n <= MaxShortGlobal
	OpSetGlobal    byte = 0x50 // 0x50|n, n <= MaxShortGlobal
	OpCall         byte = 0x60 // 0x60|n, n <= MaxCallArgs
	OpJump         byte = 0x70 // 0x70|n, n <= MaxCallArgs
	OpPrim         byte = 0xC0 // 0xC0|k, k <= 63
)

// Long-form opcodes. PushConstantLong is the high byte of a 16-bit
// big-endian word carrying a 13-bit operand; the global long forms are
// an opcode byte followed by the slot byte.
const (
	OpPushConstantLong byte = 0xA0
	OpPushGlobalLong   byte = 0x8E
	OpSetGlobalLong    byte = 0x8F
)

// Branch opcodes, one per label-bearing instruction and supported
// form. The rel-4 forms embed a 4-bit forward distance in the opcode
// byte; the rel-8 forms are followed by a biased distance byte; the
// abs-16 forms by a big-endian 16-bit address relative to CodeStart.
const (
	OpJumpToplevelRel4 byte = 0x80
	OpGotoIfFalseRel4  byte = 0x90

	OpCallToplevelAbs byte = 0xB0
	OpJumpToplevelAbs byte = 0xB1
	OpGotoAbs         byte = 0xB2
	OpGotoIfFalseAbs  byte = 0xB3
	OpClosureAbs      byte = 0xB4

	OpCallToplevelRel8 byte = 0xB5
	OpJumpToplevelRel8 byte = 0xB6
	OpGotoRel8         byte = 0xB7
	OpGotoIfFalseRel8  byte = 0xB8
	OpClosureRel8      byte = 0xB9
)

// Primitive numbers for the two instructions that are sugar for a
// primitive call.
const (
	PrimPop    = 46
	PrimReturn = 47
)
