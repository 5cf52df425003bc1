package encoder

import (
	"github.com/lookbusy1344/picobit-asm/parser"
	"github.com/lookbusy1344/picobit-asm/vm"
)

// translate maps characters to their integer code points. Every other
// datum passes through unchanged. The VM has no character type of its
// own, so characters take the fixnum path everywhere: direct encoding,
// pool keying and serialisation.
func translate(d parser.Datum) parser.Datum {
	if c, ok := d.(parser.Character); ok {
		return parser.Integer(c)
	}
	return d
}

// EncodeDirect returns the one-word encoding of a datum that needs no
// ROM cell: the booleans, the empty list, and fixnums. The second
// result is false for everything else.
func EncodeDirect(d parser.Datum) (uint16, bool) {
	switch v := translate(d).(type) {
	case parser.Boolean:
		if v {
			return vm.TrueEncoding, true
		}
		return vm.FalseEncoding, true
	case parser.EmptyList:
		return vm.NilEncoding, true
	case parser.Integer:
		if v >= vm.MinFixnum && v <= vm.MaxFixnum {
			return uint16(int64(v) - vm.MinFixnum + vm.MinFixnumEncoding), true
		}
	}
	return 0, false
}
