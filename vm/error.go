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

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Errno describes the nature of a VM fault.
type Errno int

// Fault kinds.
const (
	IllegalInstruction Errno = iota + 1
	IllegalAddress
	ZeroDivision
	DisplayFault
	HostFault // runtime error raised outside of memory accesses, usually by a device
)

var strErrno = [...]string{
	"",
	"illegal instruction",
	"illegal address",
	"zero division",
	"display fault",
	"host fault",
}

func (e Errno) Error() string {
	if e <= 0 || int(e) >= len(strErrno) {
		return fmt.Sprintf("unknown fault %d", int(e))
	}
	return strErrno[e]
}

// ErrHalted is returned by Run when the program jumped to address -1.
var ErrHalted = errors.New("halted")

// ErrInvalidImage is returned when loading a program image whose size is not
// a multiple of 4 bytes.
var ErrInvalidImage = errors.New("invalid image")

// Error is a runtime fault. A fault terminates the session.
type Error struct {
	Errno Errno
	PC    int  // address of the faulting instruction
	Op    Cell // opcode at PC
	Addr  int  // offending address for IllegalAddress
	Err   error
}

func (e *Error) Error() string {
	msg := e.Errno.Error()
	switch e.Errno {
	case IllegalInstruction:
		msg += fmt.Sprintf(" %d", e.Op)
	case IllegalAddress:
		msg += fmt.Sprintf(" %d", e.Addr)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s @pc=%d", msg, e.PC)
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error { return e.Err }

// AddressFault returns a new IllegalAddress fault for address addr.
func AddressFault(addr int) *Error {
	return &Error{Errno: IllegalAddress, PC: -1, Addr: addr}
}

// fault converts a recovered panic value into a fault for the instruction at
// pc. Panics that do not originate from memory accesses are re-raised.
func fault(e interface{}, pc int, op Cell) error {
	switch e := e.(type) {
	case *Error:
		if e.PC < 0 {
			e.PC, e.Op = pc, op
		}
		return e
	case runtime.Error:
		if isBoundsError(e) {
			return &Error{Errno: IllegalAddress, PC: pc, Op: op, Addr: -1, Err: e}
		}
		return &Error{Errno: HostFault, PC: pc, Op: op, Addr: -1, Err: e}
	default:
		panic(e)
	}
}

// isBoundsError reports whether e is an index or slice bounds check failure.
// The runtime does not export its boundsError type.
func isBoundsError(e runtime.Error) bool {
	msg := e.Error()
	return strings.Contains(msg, "index out of range") || strings.Contains(msg, "slice bounds out of range")
}
