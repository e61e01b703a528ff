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

// target is a resolved dispatch target. The threaded code cache holds one
// target per code address.
type target uint8

const (
	tFault target = iota
	tConst
	tCall
	tJump
	tJumpZ
	tJumpIf
	tLoad
	tStor
	tReturn
	tDrop
	tSwap
	tDup
	tOver
	tStr
	tRts
	tAdd
	tSub
	tMul
	tDiv
	tMod
	tAnd
	tOr
	tXor
	tNot
	tSgt
	tSlt
	tSync
	tNext
	tHalt
	tUnresolved
)

// resolveTable maps opcodes to dispatch targets. Unassigned opcodes map to
// tFault.
var resolveTable = [opCount]target{
	OpConst:  tConst,
	OpCall:   tCall,
	OpJump:   tJump,
	OpJumpZ:  tJumpZ,
	OpJumpIf: tJumpIf,
	OpLoad:   tLoad,
	OpStor:   tStor,
	OpReturn: tReturn,
	OpDrop:   tDrop,
	OpSwap:   tSwap,
	OpDup:    tDup,
	OpOver:   tOver,
	OpStr:    tStr,
	OpRts:    tRts,
	OpAdd:    tAdd,
	OpSub:    tSub,
	OpMul:    tMul,
	OpDiv:    tDiv,
	OpMod:    tMod,
	OpAnd:    tAnd,
	OpOr:     tOr,
	OpXor:    tXor,
	OpNot:    tNot,
	OpSgt:    tSgt,
	OpSlt:    tSlt,
	OpSync:   tSync,
	OpNext:   tNext,
}

func resolve(op Cell) target {
	if op < 0 || op >= opCount {
		return tFault
	}
	return resolveTable[op]
}

// newThread builds the dispatch cache for a program of codeLen cells.
// thread[addr+1] holds the target for addr. thread[0] catches PC == -1 and
// thread[codeLen+1] catches execution falling off the end of the program.
func newThread(codeLen int) []target {
	t := make([]target, codeLen+2)
	for k := range t {
		t[k] = tUnresolved
	}
	t[0] = tHalt
	t[codeLen+1] = tFault
	return t
}

// fetch returns the dispatch target for the instruction at pc. When the cache
// is active, unresolved entries are resolved and rewritten in place.
func (i *Instance) fetch(pc int) target {
	if pc < -1 || pc > i.codeLen {
		panic(&Error{Errno: IllegalAddress, PC: pc, Addr: pc})
	}
	if i.thread == nil {
		// uncached
		switch {
		case pc == -1:
			return tHalt
		case pc == i.codeLen:
			return tFault
		}
		return resolve(i.Image[pc])
	}
	t := i.thread[pc+1]
	if t == tUnresolved {
		t = resolve(i.Image[pc])
		i.thread[pc+1] = t
		i.resolved++
	}
	return t
}

// invalidate resets the cache entry for code address addr.
func (i *Instance) invalidate(addr int) {
	if i.thread != nil && addr >= 0 && addr < i.codeLen {
		i.thread[addr+1] = tUnresolved
	}
}
