package encoder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lookbusy1344/picobit-asm/parser"
	"github.com/lookbusy1344/picobit-asm/vm"
)

// Constant is the pool's bookkeeping entry for one ROM literal.
type Constant struct {
	Datum parser.Datum
	Label *Label       // bound at the constant's record in the image
	Addr  int          // ROM encoding address, assigned by Sort
	Count int          // references from code (not from other constants)
	// Content is the derived form serialised in the record: the
	// element list of a string/vector, the byte list of a
	// byte-vector, or the high part of a large integer.
	Content parser.Datum
}

// ConstantPool collects the literals that need ROM cells. Literals
// are keyed structurally, after character translation, so equal data
// built at different times share one entry.
type ConstantPool struct {
	byKey map[string]*Constant
	order []*Constant
}

// NewConstantPool creates an empty pool.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{byKey: make(map[string]*Constant)}
}

// Len returns the number of pooled constants, nested content included.
func (p *ConstantPool) Len() int {
	return len(p.order)
}

// Constants returns the pool entries; address order after Sort.
func (p *ConstantPool) Constants() []*Constant {
	return p.order
}

// Lookup finds the entry for a datum, or nil.
func (p *ConstantPool) Lookup(d parser.Datum) *Constant {
	return p.byKey[datumKey(translate(d))]
}

// Add pools a literal. Directly encodable data need no cell and are
// ignored. fromCode marks a reference from a push-constant
// instruction and bumps the entry's count; references from inside
// other constants do not.
func (p *ConstantPool) Add(d parser.Datum, fromCode bool) error {
	d = translate(d)
	if _, ok := EncodeDirect(d); ok {
		return nil
	}

	key := datumKey(d)
	if c, ok := p.byKey[key]; ok {
		if fromCode {
			c.Count++
		}
		return nil
	}

	c := &Constant{Datum: d, Label: &Label{}}
	if fromCode {
		c.Count = 1
	}
	p.byKey[key] = c
	p.order = append(p.order, c)

	switch v := d.(type) {
	case parser.Integer:
		// Large integers chain through their high 16 bits until
		// the head is a fixnum.
		hi := parser.Integer(int64(v) >> 16)
		c.Content = hi
		return p.Add(hi, false)

	case *parser.Pair:
		if err := p.Add(v.Car, false); err != nil {
			return err
		}
		return p.Add(v.Cdr, false)

	case parser.String:
		lst := codePointList(string(v))
		c.Content = lst
		return p.Add(lst, false)

	case parser.Vector:
		if len(v) == 0 {
			// The record format decomposes the element list
			// into car and cdr; an empty vector has neither.
			return newError(nil, d, "empty vector constant cannot be encoded")
		}
		lst := parser.List(v...)
		c.Content = lst
		return p.Add(lst, false)

	case parser.Bytevector:
		lst := byteList(v)
		c.Content = lst
		return p.Add(lst, false)

	case parser.Symbol:
		return nil
	}

	return newError(nil, d, "unencodable constant")
}

// Sort freezes the pool: entries are stably ordered by reference
// count, most popular first, and assigned consecutive ROM addresses
// from MinRomEncoding. The pool must not be added to afterwards.
func (p *ConstantPool) Sort() error {
	sort.SliceStable(p.order, func(i, j int) bool {
		return p.order[i].Count > p.order[j].Count
	})

	if len(p.order) > vm.MaxConstants {
		return newError(nil, len(p.order), "too many constants")
	}

	for i, c := range p.order {
		addr := vm.MinRomEncoding + i
		if addr >= vm.MinRamEncoding {
			return newError(nil, c.Datum, "constant address overflows into the RAM region")
		}
		c.Addr = addr
	}
	return nil
}

// Encode returns a datum's 16-bit encoding: direct if it has one,
// otherwise the ROM address assigned by Sort.
func (p *ConstantPool) Encode(d parser.Datum) (uint16, error) {
	d = translate(d)
	if e, ok := EncodeDirect(d); ok {
		return e, nil
	}
	if c, ok := p.byKey[datumKey(d)]; ok {
		return uint16(c.Addr), nil // #nosec G115 -- Addr < MinRamEncoding
	}
	return 0, newError(nil, d, "constant not in pool")
}

// Record serialises a constant into its two 16-bit ROM words.
func (p *ConstantPool) Record(c *Constant) (uint16, uint16, error) {
	switch v := c.Datum.(type) {
	case parser.Integer:
		hi, err := p.Encode(c.Content)
		if err != nil {
			return 0, 0, err
		}
		return hi, uint16(uint64(v) & 0xFFFF), nil

	case *parser.Pair:
		car, err := p.Encode(v.Car)
		if err != nil {
			return 0, 0, err
		}
		cdr, err := p.Encode(v.Cdr)
		if err != nil {
			return 0, 0, err
		}
		return 0x8000 | car, cdr, nil

	case parser.Symbol:
		return 0x8000, 0x2000, nil

	case parser.String:
		chars, err := p.Encode(c.Content)
		if err != nil {
			return 0, 0, err
		}
		return 0x8000 | chars, 0x4000, nil

	case parser.Vector:
		elems := c.Content.(*parser.Pair) // non-empty, checked in Add
		car, err := p.Encode(elems.Car)
		if err != nil {
			return 0, 0, err
		}
		cdr, err := p.Encode(elems.Cdr)
		if err != nil {
			return 0, 0, err
		}
		return 0x8000 | car, cdr, nil

	case parser.Bytevector:
		bytes, err := p.Encode(c.Content)
		if err != nil {
			return 0, 0, err
		}
		// The length shares the high word with the 0x8000 bit and
		// is deliberately not fixnum-encoded.
		return 0x8000 | uint16(len(v)), 0x6000 | bytes, nil
	}

	return 0, 0, newError(nil, c.Datum, "unencodable constant")
}

// codePointList materialises a string as the list of its code points.
func codePointList(s string) parser.Datum {
	runes := []rune(s)
	ds := make([]parser.Datum, len(runes))
	for i, r := range runes {
		ds[i] = parser.Integer(r)
	}
	return parser.List(ds...)
}

// byteList materialises a byte-vector as the list of its bytes.
func byteList(b parser.Bytevector) parser.Datum {
	ds := make([]parser.Datum, len(b))
	for i, x := range b {
		ds[i] = parser.Integer(x)
	}
	return parser.List(ds...)
}

// datumKey builds the structural-equality key of a datum. Characters
// key as their code points, matching translate.
func datumKey(d parser.Datum) string {
	var sb strings.Builder
	writeKey(&sb, d)
	return sb.String()
}

func writeKey(sb *strings.Builder, d parser.Datum) {
	switch v := d.(type) {
	case parser.Character:
		writeKey(sb, parser.Integer(v))
	case parser.Boolean:
		if v {
			sb.WriteString("#t")
		} else {
			sb.WriteString("#f")
		}
	case parser.Integer:
		fmt.Fprintf(sb, "i%d;", int64(v))
	case parser.Symbol:
		fmt.Fprintf(sb, "y%d:%s;", len(v), string(v))
	case parser.String:
		fmt.Fprintf(sb, "s%d:%s;", len(v), string(v))
	case parser.EmptyList:
		sb.WriteString("()")
	case *parser.Pair:
		sb.WriteString("p(")
		writeKey(sb, v.Car)
		sb.WriteByte(' ')
		writeKey(sb, v.Cdr)
		sb.WriteByte(')')
	case parser.Vector:
		sb.WriteString("v(")
		for _, e := range v {
			writeKey(sb, e)
			sb.WriteByte(' ')
		}
		sb.WriteByte(')')
	case parser.Bytevector:
		fmt.Fprintf(sb, "b%x;", []byte(v))
	}
}
