// Package vm describes the PicoBit virtual machine as seen by the
// assembler: the object-encoding address spaces, the bytecode opcode
// values, and the primitive procedure table.
package vm

// Object encodings. Every Scheme object the VM manipulates is named by
// a 16-bit encoding. The low encodings are reserved for objects that
// need no heap cell; fixnums occupy a contiguous band above them, ROM
// constants follow, and everything at or above MinRamEncoding lives in
// RAM at run time and can never name an assembled constant.
const (
	FalseEncoding uint16 = 0 // #f
	TrueEncoding  uint16 = 1 // #t
	NilEncoding   uint16 = 2 // ()

	MinFixnum = -1
	MaxFixnum = 256

	MinFixnumEncoding = 3
	MaxFixnumEncoding = MinFixnumEncoding + (MaxFixnum - MinFixnum) // 260

	MinRomEncoding = MaxFixnumEncoding + 1 // 261
	MinRamEncoding = 1280
)

// Image layout constants.
const (
	// CodeStart is the load address of the assembled image.
	CodeStart = 0x8000

	// Magic bytes at the start of every image.
	MagicByte0 = 0xFB
	MagicByte1 = 0xD7

	// MaxConstants and MaxGlobals are each announced by a single
	// header byte, and constant addresses must stay below the RAM
	// region.
	MaxConstants = 256
	MaxGlobals   = 256
)

// Instruction operand limits.
const (
	MaxShortConstant = 31 // largest encoding in a 1-byte push-constant
	MaxStackIndex    = 31 // push-stack has no long form
	MaxShortGlobal   = 15 // largest slot in a 1-byte push/set-global
	MaxCallArgs      = 15 // call/jump have no long form
)
