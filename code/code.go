// Package code defines the bytecode instruction format shared by the
// compiler and the VM: the closed Op set from spec.md §3, and the flat
// byte encoding ("Instructions") the compiler emits into and the VM reads
// back out of. It deliberately knows nothing about object.Object or the
// AST — it is pure wire format, the same separation the teacher's own
// `lexer`/`parser` split keeps between "what a token looks like" and "how
// it's used."
package code

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Instructions is a flat, already-assembled stream of one or more Ops with
// their operands, as produced by Make and consumed by the VM's fetch loop.
type Instructions []byte

// Op is one opcode from the closed set specified in spec.md §3. Constant,
// jump targets, and indices are its operands; everything else about an
// instruction (its span, for diagnostics) lives in the compiler's side
// table, not in the instruction stream itself.
type Op byte

const (
	OpConstant     Op = iota // push constants[operand]
	OpTrue                   // push Boolean(true)
	OpFalse                  // push Boolean(false)
	OpNull                   // push Null
	OpAdd                    // pop b, a; push a+b
	OpSub                    // pop b, a; push a-b
	OpMul                    // pop b, a; push a*b
	OpDiv                    // pop b, a; push a/b
	OpEqual                  // pop b, a; push a==b
	OpNotEqual               // pop b, a; push a!=b
	OpGreaterThan            // pop b, a; push a>b (also encodes a<b via operand swap, see compiler)
	OpMinus                  // pop a; push -a
	OpBang                   // pop a; push !truthy(a)
	OpPop                    // pop and discard
	OpJumpIfNot              // pop a; if falsy, ip := operand
	OpJump                   // ip := operand
	OpBind                   // pop a; locals[operand name] := a
	OpGetLocal               // push locals[operand name] (walks the closure chain)
	OpArray                  // pop operand values; push Array
	OpMap                    // pop 2*operand values; push Map
	OpIndex                  // pop index, pop collection; push element
	OpCall                   // pop callee, then N args; push call frame
	OpReturnValue            // pop value, pop frame; push value at call site
	OpReturn                 // pop frame; push Null at call site
)

// opInfo describes one Op's operand widths, in bytes, for encoding and
// decoding. Every operand is a single uint16; for OpBind and OpGetLocal it
// is an index into the compiler's name pool (see Make).
type opInfo struct {
	name          string
	operandWidths []int
}

var definitions = map[Op]*opInfo{
	OpConstant:    {"OpConstant", []int{2}},
	OpTrue:        {"OpTrue", []int{}},
	OpFalse:       {"OpFalse", []int{}},
	OpNull:        {"OpNull", []int{}},
	OpAdd:         {"OpAdd", []int{}},
	OpSub:         {"OpSub", []int{}},
	OpMul:         {"OpMul", []int{}},
	OpDiv:         {"OpDiv", []int{}},
	OpEqual:       {"OpEqual", []int{}},
	OpNotEqual:    {"OpNotEqual", []int{}},
	OpGreaterThan: {"OpGreaterThan", []int{}},
	OpMinus:       {"OpMinus", []int{}},
	OpBang:        {"OpBang", []int{}},
	OpPop:         {"OpPop", []int{}},
	OpJumpIfNot:   {"OpJumpIfNot", []int{2}},
	OpJump:        {"OpJump", []int{2}},
	OpBind:        {"OpBind", []int{2}}, // operand: index into the name pool
	OpGetLocal:    {"OpGetLocal", []int{2}},
	OpArray:       {"OpArray", []int{2}},
	OpMap:         {"OpMap", []int{2}},
	OpIndex:       {"OpIndex", []int{}},
	OpCall:        {"OpCall", []int{2}}, // operand: argument count
	OpReturnValue: {"OpReturnValue", []int{}},
	OpReturn:      {"OpReturn", []int{}},
}

// Lookup returns the definition for op, or an error if op is not in the
// closed set above.
func Lookup(op Op) (*opInfo, error) {
	def, ok := definitions[op]
	if !ok {
		return nil, fmt.Errorf("opcode %d undefined", op)
	}
	return def, nil
}

// Make assembles one instruction (an Op plus its operands, big-endian) into
// bytes. The OpBind/OpGetLocal "name" operand is encoded elsewhere as an
// index into the compiler's per-program name pool (see compiler.go) so that
// the wire format here stays uniform: every operand is a uint16.
func Make(op Op, operands ...int) Instructions {
	def, err := Lookup(op)
	if err != nil {
		return Instructions{}
	}

	instructionLen := 1
	for _, w := range def.operandWidths {
		instructionLen += w
	}

	instruction := make(Instructions, instructionLen)
	instruction[0] = byte(op)

	offset := 1
	for i, operand := range operands {
		width := def.operandWidths[i]
		switch width {
		case 2:
			binary.BigEndian.PutUint16(instruction[offset:], uint16(operand))
		}
		offset += width
	}
	return instruction
}

// ReadUint16 decodes a big-endian uint16 operand at the start of ins.
func ReadUint16(ins Instructions) uint16 {
	return binary.BigEndian.Uint16(ins)
}

// String disassembles ins into the plain-text form
// "0000 OpConstant 0\n0003 OpAdd\n..." used by the compiler's own tests to
// assert on emitted instruction sequences (SPEC_FULL.md Part D.4).
func (ins Instructions) String() string {
	var out bytes.Buffer
	i := 0
	for i < len(ins) {
		def, err := Lookup(Op(ins[i]))
		if err != nil {
			fmt.Fprintf(&out, "%04d ERROR: %s\n", i, err)
			i++
			continue
		}
		operands, read := readOperands(def, ins[i+1:])
		fmt.Fprintf(&out, "%04d %s\n", i, fmtInstruction(def, operands))
		i += 1 + read
	}
	return out.String()
}

func readOperands(def *opInfo, ins Instructions) ([]int, int) {
	operands := make([]int, len(def.operandWidths))
	offset := 0
	for i, width := range def.operandWidths {
		switch width {
		case 2:
			operands[i] = int(ReadUint16(ins[offset:]))
		}
		offset += width
	}
	return operands, offset
}

func fmtInstruction(def *opInfo, operands []int) string {
	switch len(operands) {
	case 0:
		return def.name
	case 1:
		return fmt.Sprintf("%s %d", def.name, operands[0])
	default:
		return fmt.Sprintf("%s %v", def.name, operands)
	}
}
