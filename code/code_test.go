package code_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/corelang/code"
)

func TestMakeEncodesBigEndianOperand(t *testing.T) {
	ins := code.Make(code.OpConstant, 65534)
	require.Len(t, ins, 3)
	assert.Equal(t, byte(code.OpConstant), ins[0])
	assert.Equal(t, byte(255), ins[1])
	assert.Equal(t, byte(254), ins[2])
}

func TestMakeNoOperandInstructionIsOneByte(t *testing.T) {
	ins := code.Make(code.OpAdd)
	assert.Len(t, ins, 1)
}

func TestReadUint16RoundTrips(t *testing.T) {
	ins := code.Make(code.OpJump, 1234)
	assert.Equal(t, uint16(1234), code.ReadUint16(ins[1:]))
}

func TestLookupUnknownOpcodeErrors(t *testing.T) {
	_, err := code.Lookup(code.Op(255))
	assert.Error(t, err)
}

func TestInstructionsStringDisassemblesMultipleInstructions(t *testing.T) {
	ins := code.Instructions{}
	ins = append(ins, code.Make(code.OpConstant, 1)...)
	ins = append(ins, code.Make(code.OpConstant, 2)...)
	ins = append(ins, code.Make(code.OpAdd)...)

	want := "0000 OpConstant 1\n0003 OpConstant 2\n0006 OpAdd\n"
	assert.Equal(t, want, ins.String())
}
