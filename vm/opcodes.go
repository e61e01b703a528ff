// This file is part of mako - https://github.com/db47h/mako
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

// Mako VM opcodes. Values 5 to 9 are unassigned and fault when executed.
const (
	OpConst  Cell = 0
	OpCall   Cell = 1
	OpJump   Cell = 2
	OpJumpZ  Cell = 3
	OpJumpIf Cell = 4

	OpLoad   Cell = 10
	OpStor   Cell = 11
	OpReturn Cell = 12
	OpDrop   Cell = 13
	OpSwap   Cell = 14
	OpDup    Cell = 15
	OpOver   Cell = 16
	OpStr    Cell = 17
	OpRts    Cell = 18
	OpAdd    Cell = 19
	OpSub    Cell = 20
	OpMul    Cell = 21
	OpDiv    Cell = 22
	OpMod    Cell = 23
	OpAnd    Cell = 24
	OpOr     Cell = 25
	OpXor    Cell = 26
	OpNot    Cell = 27
	OpSgt    Cell = 28
	OpSlt    Cell = 29
	OpSync   Cell = 30
	OpNext   Cell = 31

	opCount = 32
)

// Reserved registers. They live in the first cells of the address space.
const (
	PC Cell = iota // next instruction address
	DP             // data stack pointer, one past the top
	RP             // return stack pointer, one past the top
	GP             // tile grid base address
	GT             // grid tile bitmaps base address
	SP             // sprite table base address
	ST             // sprite bitmaps base address
	SX             // horizontal scroll
	SY             // vertical scroll
	GS             // grid row skip
	CL             // background color
	RN             // random number device
	KY             // gamepad device
	CO             // console device
	AU             // audio device
	KB             // keyboard queue device

	// ReservedHeader is the number of reserved register cells.
	ReservedHeader
)

var opcodes = [opCount]string{
	OpConst:  "const",
	OpCall:   "call",
	OpJump:   "jump",
	OpJumpZ:  "jumpz",
	OpJumpIf: "jumpif",
	OpLoad:   "load",
	OpStor:   "stor",
	OpReturn: "return",
	OpDrop:   "drop",
	OpSwap:   "swap",
	OpDup:    "dup",
	OpOver:   "over",
	OpStr:    "str",
	OpRts:    "rts",
	OpAdd:    "add",
	OpSub:    "sub",
	OpMul:    "mul",
	OpDiv:    "div",
	OpMod:    "mod",
	OpAnd:    "and",
	OpOr:     "or",
	OpXor:    "xor",
	OpNot:    "not",
	OpSgt:    "sgt",
	OpSlt:    "slt",
	OpSync:   "sync",
	OpNext:   "next",
}

// OpcodeName returns the mnemonic for opcode op, or an empty string if op is
// not a valid opcode.
func OpcodeName(op Cell) string {
	if op < 0 || op >= opCount {
		return ""
	}
	return opcodes[op]
}

// HasOperand returns true if opcode op reads an inline operand from the cell
// that follows it.
func HasOperand(op Cell) bool {
	switch op {
	case OpConst, OpCall, OpJump, OpJumpZ, OpJumpIf, OpNext:
		return true
	}
	return false
}

var registers = [ReservedHeader]string{
	"PC", "DP", "RP", "GP", "GT", "SP", "ST", "SX",
	"SY", "GS", "CL", "RN", "KY", "CO", "AU", "KB",
}

// RegisterName returns the symbolic name of register r.
func RegisterName(r Cell) string {
	if r < 0 || r >= ReservedHeader {
		return ""
	}
	return registers[r]
}
