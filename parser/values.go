package parser

import (
	"fmt"
	"strings"
)

// Datum is a Scheme literal as produced by the compiler front-end.
// The set of kinds is closed: Boolean, Integer, Character, Symbol,
// String, EmptyList, Pair, Vector and Bytevector.
type Datum interface {
	fmt.Stringer
	isDatum()
}

// Boolean is #t or #f.
type Boolean bool

// Integer is an exact integer. Values outside the VM's fixnum range
// are encoded by the assembler as chained 16-bit bignum records.
type Integer int64

// Character is a single character, identified by its code point.
type Character rune

// Symbol is a symbol, identified by name only.
type Symbol string

// String is a string literal.
type String string

// EmptyList is ().
type EmptyList struct{}

// Pair is a cons cell.
type Pair struct {
	Car Datum
	Cdr Datum
}

// Vector is a vector of datums.
type Vector []Datum

// Bytevector is a vector of bytes.
type Bytevector []byte

func (Boolean) isDatum()    {}
func (Integer) isDatum()    {}
func (Character) isDatum()  {}
func (Symbol) isDatum()     {}
func (String) isDatum()     {}
func (EmptyList) isDatum()  {}
func (*Pair) isDatum()      {}
func (Vector) isDatum()     {}
func (Bytevector) isDatum() {}

func (b Boolean) String() string {
	if b {
		return "#t"
	}
	return "#f"
}

func (i Integer) String() string { return fmt.Sprintf("%d", int64(i)) }

func (c Character) String() string {
	switch c {
	case ' ':
		return "#\\space"
	case '\n':
		return "#\\newline"
	case '\t':
		return "#\\tab"
	case 0:
		return "#\\nul"
	}
	return fmt.Sprintf("#\\%c", rune(c))
}

func (s Symbol) String() string { return string(s) }

func (s String) String() string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range string(s) {
		switch r {
		case '"':
			sb.WriteString("\\\"")
		case '\\':
			sb.WriteString("\\\\")
		case '\n':
			sb.WriteString("\\n")
		case '\t':
			sb.WriteString("\\t")
		case '\r':
			sb.WriteString("\\r")
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func (EmptyList) String() string { return "()" }

func (p *Pair) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(p.Car.String())
	rest := p.Cdr
	for {
		switch r := rest.(type) {
		case *Pair:
			sb.WriteByte(' ')
			sb.WriteString(r.Car.String())
			rest = r.Cdr
		case EmptyList:
			sb.WriteByte(')')
			return sb.String()
		default:
			sb.WriteString(" . ")
			sb.WriteString(r.String())
			sb.WriteByte(')')
			return sb.String()
		}
	}
}

func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, d := range v {
		parts[i] = d.String()
	}
	return "#(" + strings.Join(parts, " ") + ")"
}

func (b Bytevector) String() string {
	parts := make([]string, len(b))
	for i, x := range b {
		parts[i] = fmt.Sprintf("%d", x)
	}
	return "#u8(" + strings.Join(parts, " ") + ")"
}

// List builds a proper list from the given datums.
func List(ds ...Datum) Datum {
	var out Datum = EmptyList{}
	for i := len(ds) - 1; i >= 0; i-- {
		out = &Pair{Car: ds[i], Cdr: out}
	}
	return out
}
