package parser_test

import (
	"testing"

	"github.com/lookbusy1344/picobit-asm/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, src string) *parser.Instruction {
	t.Helper()
	prog, err := parser.ParseString(src, "test.s")
	require.NoError(t, err)
	require.Len(t, prog.Instructions, 1)
	return prog.Instructions[0]
}

func parseFail(t *testing.T, src string) *parser.ErrorList {
	t.Helper()
	_, err := parser.ParseString(src, "test.s")
	require.Error(t, err)
	var el *parser.ErrorList
	require.ErrorAs(t, err, &el)
	return el
}

func TestParse_Instructions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		op   parser.Op
	}{
		{"entry", "\tentry 2\n", parser.OpEntry},
		{"push-constant", "\tpush-constant 5\n", parser.OpPushConstant},
		{"push-stack", "\tpush-stack 3\n", parser.OpPushStack},
		{"push-global", "\tpush-global x\n", parser.OpPushGlobal},
		{"set-global", "\tset-global x\n", parser.OpSetGlobal},
		{"call", "\tcall 2\n", parser.OpCall},
		{"jump", "\tjump 1\n", parser.OpJump},
		{"prim", "\tprim cons\n", parser.OpPrim},
		{"return", "\treturn\n", parser.OpReturn},
		{"pop", "\tpop\n", parser.OpPop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := parseOne(t, tt.src)
			assert.Equal(t, tt.op, inst.Op)
		})
	}
}

func TestParse_BranchInstructions(t *testing.T) {
	src := `
L:
	call-toplevel L
	jump-toplevel L
	goto L
	goto-if-false L
	closure L
`
	prog, err := parser.ParseString(src, "test.s")
	require.NoError(t, err)
	require.Len(t, prog.Instructions, 6)

	assert.Equal(t, parser.OpLabel, prog.Instructions[0].Op)
	labelID := prog.Instructions[0].Label

	ops := []parser.Op{
		parser.OpCallToplevel, parser.OpJumpToplevel,
		parser.OpGoto, parser.OpGotoIfFalse, parser.OpClosure,
	}
	for i, op := range ops {
		inst := prog.Instructions[i+1]
		assert.Equal(t, op, inst.Op)
		assert.Equal(t, labelID, inst.Label, "all branches target the same label")
		assert.True(t, inst.Branches())
	}

	assert.Equal(t, []string{"L"}, prog.LabelNames)
}

func TestParse_EntryRest(t *testing.T) {
	inst := parseOne(t, "\tentry 3 rest\n")
	assert.Equal(t, 3, inst.N)
	assert.True(t, inst.Rest)

	inst = parseOne(t, "\tentry 3\n")
	assert.False(t, inst.Rest)
}

func TestParse_Datums(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want parser.Datum
	}{
		{"integer", "42", parser.Integer(42)},
		{"negative integer", "-7", parser.Integer(-7)},
		{"true", "#t", parser.Boolean(true)},
		{"false", "#f", parser.Boolean(false)},
		{"empty list", "()", parser.EmptyList{}},
		{"character", "#\\a", parser.Character('a')},
		{"named character", "#\\space", parser.Character(' ')},
		{"newline character", "#\\newline", parser.Character('\n')},
		{"string", `"hi"`, parser.String("hi")},
		{"string with escapes", `"a\n\"b\""`, parser.String("a\n\"b\"")},
		{"symbol", "foo", parser.Symbol("foo")},
		{"quoted symbol", "'foo", parser.Symbol("foo")},
		{"extended symbol", "set-car!", parser.Symbol("set-car!")},
		{"dotted pair", "(1 . 2)", &parser.Pair{Car: parser.Integer(1), Cdr: parser.Integer(2)}},
		{"proper list", "(1 2)", parser.List(parser.Integer(1), parser.Integer(2))},
		{"nested list", "((1) 2)",
			parser.List(parser.List(parser.Integer(1)), parser.Integer(2))},
		{"vector", "#(1 x)", parser.Vector{parser.Integer(1), parser.Symbol("x")}},
		{"empty vector", "#()", parser.Vector{}},
		{"byte-vector", "#u8(0 255)", parser.Bytevector{0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := parseOne(t, "\tpush-constant "+tt.src+"\n")
			assert.Equal(t, tt.want, inst.Datum)
		})
	}
}

func TestParse_LabelBeforeInstructionOnSameLine(t *testing.T) {
	prog, err := parser.ParseString("L: pop\n\tgoto L\n", "test.s")
	require.NoError(t, err)
	require.Len(t, prog.Instructions, 3)
	assert.Equal(t, parser.OpLabel, prog.Instructions[0].Op)
	assert.Equal(t, parser.OpPop, prog.Instructions[1].Op)
}

func TestParse_CommentsAndBlankLines(t *testing.T) {
	prog, err := parser.ParseString(`
; leading comment

	pop  ; trailing comment
`, "test.s")
	require.NoError(t, err)
	require.Len(t, prog.Instructions, 1)
	assert.Equal(t, parser.OpPop, prog.Instructions[0].Op)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind parser.ErrorKind
	}{
		{"unknown instruction", "\tfrobnicate 1\n", parser.ErrorInvalidInstruction},
		{"missing operand", "\tpush-stack\n", parser.ErrorInvalidOperand},
		{"negative count", "\tcall -1\n", parser.ErrorInvalidOperand},
		{"trailing garbage", "\tpop 3\n", parser.ErrorInvalidOperand},
		{"undefined label", "\tgoto nowhere\n", parser.ErrorUndefinedLabel},
		{"duplicate label", "L:\nL:\n", parser.ErrorDuplicateLabel},
		{"byte out of range", "\tpush-constant #u8(256)\n", parser.ErrorInvalidDatum},
		{"unterminated list", "\tpush-constant (1 2\n", parser.ErrorInvalidDatum},
		{"misplaced dot", "\tpush-constant (. 2)\n", parser.ErrorInvalidDatum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := parseFail(t, tt.src)
			require.NotEmpty(t, el.Errors)
			assert.Equal(t, tt.kind, el.Errors[0].Kind)
		})
	}
}

func TestParse_ErrorPositions(t *testing.T) {
	el := parseFail(t, "\tpop\n\tfrobnicate\n")
	require.Len(t, el.Errors, 1)
	assert.Equal(t, 2, el.Errors[0].Pos.Line)
	assert.Equal(t, "test.s", el.Errors[0].Pos.Filename)
	assert.Contains(t, el.Errors[0].Context, "frobnicate")
}

func TestParse_LabelInterningIsDense(t *testing.T) {
	prog, err := parser.ParseString("A:\nB:\n\tgoto A\n\tgoto B\n", "test.s")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, prog.LabelNames)
	assert.Equal(t, 0, prog.Instructions[0].Label)
	assert.Equal(t, 1, prog.Instructions[1].Label)
}

func TestDatum_String(t *testing.T) {
	tests := []struct {
		datum parser.Datum
		want  string
	}{
		{parser.Boolean(true), "#t"},
		{parser.Integer(-5), "-5"},
		{parser.Character(' '), "#\\space"},
		{parser.String("a\"b"), `"a\"b"`},
		{parser.List(parser.Integer(1), parser.Integer(2)), "(1 2)"},
		{&parser.Pair{Car: parser.Integer(1), Cdr: parser.Integer(2)}, "(1 . 2)"},
		{parser.Vector{parser.Integer(1)}, "#(1)"},
		{parser.Bytevector{1, 2}, "#u8(1 2)"},
		{parser.EmptyList{}, "()"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.datum.String())
	}
}
