package vm

import "fmt"

// Primitives maps each primitive procedure name to its bytecode
// number. The numbering matches the dispatch table compiled into the
// VM; pop and return must stay at 46 and 47 because the assembler
// lowers the pop and return instructions onto them.
var Primitives = map[string]byte{
	"number?":          0,
	"=":                1,
	"<":                2,
	">":                3,
	"+":                4,
	"-":                5,
	"*":                6,
	"quotient":         7,
	"remainder":        8,
	"neg":              9,
	"bitwise-ior":      10,
	"bitwise-xor":      11,
	"pair?":            12,
	"cons":             13,
	"car":              14,
	"cdr":              15,
	"set-car!":         16,
	"set-cdr!":         17,
	"null?":            18,
	"eq?":              19,
	"not":              20,
	"get-cont":         21,
	"graft-to-cont":    22,
	"return-to-cont":   23,
	"halt":             24,
	"symbol?":          25,
	"string?":          26,
	"string->list":     27,
	"list->string":     28,
	"make-u8vector":    29,
	"u8vector-ref":     30,
	"u8vector-set!":    31,
	"print":            32,
	"clock":            33,
	"motor":            34,
	"led":              35,
	"led2-color":       36,
	"getchar-wait":     37,
	"putchar":          38,
	"beep":             39,
	"adc":              40,
	"u8vector?":        41,
	"sernum":           42,
	"u8vector-length":  43,
	"u8vector-copy!":   44,
	"boolean?":         45,
	"pop":              PrimPop,
	"return":           PrimReturn,
	"shift":            48,
	"shl":              49,
	"shr":              50,
	"network-init":     51,
	"network-cleanup":  52,
	"receive-packet":   53,
	"send-packet":      54,
	"ior":              55,
	"xor":              56,
	"register-handler": 57,
}

// PrimitiveNumber resolves a primitive name to its bytecode number.
func PrimitiveNumber(name string) (byte, error) {
	n, ok := Primitives[name]
	if !ok {
		return 0, fmt.Errorf("unknown primitive: %q", name)
	}
	return n, nil
}
