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

package asm

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/db47h/mako/internal/mki"
	"github.com/db47h/mako/vm"
)

// aliases for mnemonics, in addition to the names returned by vm.OpcodeName.
var aliases = map[string]vm.Cell{
	"ret": vm.OpReturn,
	";":   vm.OpReturn,
	"@":   vm.OpLoad,
	"!":   vm.OpStor,
	"+":   vm.OpAdd,
	"-":   vm.OpSub,
	"*":   vm.OpMul,
	"/":   vm.OpDiv,
	">r":  vm.OpStr,
	"r>":  vm.OpRts,
	"jz":  vm.OpJumpZ,
	"jnz": vm.OpJumpIf,
	">":   vm.OpSgt,
	"<":   vm.OpSlt,
}

var opcodeIndex = func() map[string]vm.Cell {
	m := make(map[string]vm.Cell)
	for op := vm.Cell(0); op < 32; op++ {
		if n := vm.OpcodeName(op); n != "" {
			m[n] = op
		}
	}
	for k, v := range aliases {
		m[k] = v
	}
	return m
}()

// ErrAsm encapsulates errors generated by the assembler.
type ErrAsm []struct {
	Pos scanner.Position
	Msg string
}

func (e ErrAsm) Error() string {
	var b strings.Builder
	for i, err := range e {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Pos.String())
		b.WriteString(": ")
		b.WriteString(err.Msg)
	}
	return b.String()
}

func (e ErrAsm) sort() {
	sort.SliceStable(e, func(i, j int) bool { return e[i].Pos.Offset < e[j].Pos.Offset })
}

// Assemble compiles assembly read from the supplied io.Reader and returns the
// resulting image and error if any. The image is exactly as long as the
// highest address written to.
//
// Then name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
//
// The returned error, if not nil, can safely be cast to an ErrAsm value that
// will contain up to 10 entries.
func Assemble(name string, r io.Reader) (img []vm.Cell, err error) {
	return newParser().Parse(name, r)
}

// Disassemble writes a disassembly of the cells in the given slice at position
// pc to the specified io.Writer and returns the position of the next valid
// opcode and any write error.
//
// Constants are written as a bare number, like the implicit const of the
// assembler. Cells that do not hold a valid opcode are written as a .dat
// directive.
func Disassemble(i []vm.Cell, pc int, w io.Writer) (next int, err error) {
	ew, _ := w.(*mki.ErrWriter)
	if ew == nil {
		ew = mki.NewErrWriter(w)
	}

	op := i[pc]
	name := vm.OpcodeName(op)
	pc++
	switch {
	case name == "":
		io.WriteString(ew, ".dat ")
		io.WriteString(ew, strconv.Itoa(int(op)))
		return pc, ew.Err
	case op != vm.OpConst:
		io.WriteString(ew, name)
		if !vm.HasOperand(op) {
			return pc, ew.Err
		}
		if pc < len(i) {
			ew.WriteByte(' ')
		}
	}
	if pc < len(i) {
		io.WriteString(ew, strconv.Itoa(int(i[pc])))
		return pc + 1, ew.Err
	}
	io.WriteString(ew, "???")
	return pc, ew.Err
}

// DisassembleAll writes a disassembly of all cells in the given slice to
// the specified io.Writer. The base argument specifies the real address of the
// first cell (i[0]). It will return any write error.
func DisassembleAll(i []vm.Cell, base int, w io.Writer) error {
	ew := mki.NewErrWriter(w)
	for pc := 0; pc < len(i); {
		fmt.Fprintf(ew, "% 10d\t", base+pc)
		pc, _ = Disassemble(i, pc, ew)
		ew.WriteByte('\n')
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}
