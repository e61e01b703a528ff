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
	"github.com/pkg/errors"
)

func (i *Instance) push(v Cell) {
	i.Image[i.dp] = v
	i.dp++
}

func (i *Instance) pop() Cell {
	i.dp--
	return i.Image[i.dp]
}

func (i *Instance) rpush(v Cell) {
	i.Image[i.rp] = v
	i.rp++
}

func (i *Instance) rpop() Cell {
	i.rp--
	return i.Image[i.rp]
}

// operand reads the inline operand of the current instruction and advances PC
// past it.
func (i *Instance) operand() Cell {
	v := i.Image[i.pc]
	i.pc++
	return v
}

// flush writes the live PC, DP and RP back to their register cells.
func (i *Instance) flush() {
	i.Image[PC] = Cell(i.pc)
	i.Image[DP] = Cell(i.dp)
	i.Image[RP] = Cell(i.rp)
}

// Load replaces the running program. The image and code length follow the
// same rules as for New. The dispatch cache is discarded and the instance can
// run again even if the previous program terminated.
func (i *Instance) Load(image Image, codeLen int) error {
	if i.running {
		return errors.New("Load: instance is running")
	}
	if len(image) < int(ReservedHeader) {
		return errors.Errorf("Load: image too small: %d cells, need at least %d", len(image), ReservedHeader)
	}
	if codeLen < 0 || codeLen > len(image) {
		return errors.Errorf("Load: code length %d out of range [0, %d]", codeLen, len(image))
	}
	i.Image = image
	i.codeLen = codeLen
	i.thread = nil
	i.done = false
	i.exitErr = nil
	i.dataBase = int(image[DP])
	i.addrBase = int(image[RP])
	return nil
}

// Run executes instructions starting at the address in PC until a SYNC
// instruction is reached or the session terminates.
//
// On SYNC, PC, DP and RP are written back to memory, the Display renderer is
// called and Run returns nil. The next call to Run resumes after the SYNC.
//
// If the program jumps to address -1, the Finished function is called with 0
// and Run returns ErrHalted. On a fault (invalid opcode, address outside the
// image, division by zero, execution past the end of the program or a display
// fault) Finished is called with 1 and Run returns an *Error. Once terminated,
// Run keeps returning the same error without executing anything.
func (i *Instance) Run() (err error) {
	if i.done {
		return i.exitErr
	}
	if i.thread == nil && !i.noThread {
		i.thread = newThread(i.codeLen)
	}
	i.pc, i.dp, i.rp = int(i.Image[PC]), int(i.Image[DP]), int(i.Image[RP])
	i.insCount = 0
	i.resolved = 0
	i.running = true
	defer func() {
		i.running = false
		if e := recover(); e != nil {
			err = fault(e, i.lastPC, i.opAt(i.lastPC))
		}
		i.flush()
		if err != nil {
			i.terminate(err)
		} else {
			i.log.Debugf("sync @pc=%d: %d instructions, %d cache entries resolved", i.lastPC, i.insCount, i.resolved)
		}
	}()
	return i.run()
}

func (i *Instance) opAt(pc int) Cell {
	if pc < 0 || pc >= len(i.Image) {
		return -1
	}
	return i.Image[pc]
}

func (i *Instance) terminate(err error) {
	i.done = true
	i.exitErr = err
	code := 0
	if err != ErrHalted {
		code = 1
		i.log.Errorf("fault: %v", err)
	} else {
		i.log.Infof("halted after %d instructions", i.insCount)
	}
	if i.finished != nil {
		i.finished(code)
	}
}

func (i *Instance) run() error {
	for {
		i.lastPC = i.pc
		t := i.fetch(i.pc)
		i.pc++
		i.insCount++
		switch t {
		case tConst:
			i.push(i.operand())
		case tCall:
			a := i.Image[i.pc]
			i.rpush(Cell(i.pc + 1))
			i.pc = int(a)
		case tJump:
			i.pc = int(i.Image[i.pc])
		case tJumpZ:
			if i.pop() == 0 {
				i.pc = int(i.Image[i.pc])
			} else {
				i.pc++
			}
		case tJumpIf:
			if i.pop() != 0 {
				i.pc = int(i.Image[i.pc])
			} else {
				i.pc++
			}
		case tLoad:
			addr := i.pop()
			i.push(i.load(addr))
		case tStor:
			addr := i.pop()
			v := i.pop()
			i.store(addr, v)
		case tReturn:
			i.pc = int(i.rpop())
		case tDrop:
			i.dp--
		case tSwap:
			i.Image[i.dp-1], i.Image[i.dp-2] = i.Image[i.dp-2], i.Image[i.dp-1]
		case tDup:
			i.push(i.Image[i.dp-1])
		case tOver:
			i.push(i.Image[i.dp-2])
		case tStr:
			i.rpush(i.pop())
		case tRts:
			i.push(i.rpop())
		case tAdd:
			rhs := i.pop()
			i.Image[i.dp-1] += rhs
		case tSub:
			rhs := i.pop()
			i.Image[i.dp-1] -= rhs
		case tMul:
			rhs := i.pop()
			i.Image[i.dp-1] *= rhs
		case tDiv:
			rhs := i.pop()
			if rhs == 0 {
				return i.zeroDivision()
			}
			i.Image[i.dp-1] /= rhs
		case tMod:
			rhs := i.pop()
			if rhs == 0 {
				return i.zeroDivision()
			}
			i.Image[i.dp-1] = mod(i.Image[i.dp-1], rhs)
		case tAnd:
			rhs := i.pop()
			i.Image[i.dp-1] &= rhs
		case tOr:
			rhs := i.pop()
			i.Image[i.dp-1] |= rhs
		case tXor:
			rhs := i.pop()
			i.Image[i.dp-1] ^= rhs
		case tNot:
			i.Image[i.dp-1] = ^i.Image[i.dp-1]
		case tSgt:
			rhs := i.pop()
			i.Image[i.dp-1] = flag(i.Image[i.dp-1] > rhs)
		case tSlt:
			rhs := i.pop()
			i.Image[i.dp-1] = flag(i.Image[i.dp-1] < rhs)
		case tNext:
			i.Image[i.rp-1]--
			if i.Image[i.rp-1] < 0 {
				i.pc++
			} else {
				i.pc = int(i.Image[i.pc])
			}
		case tSync:
			return i.sync()
		case tHalt:
			i.insCount--
			i.pc = -1
			return ErrHalted
		default:
			return i.illegal()
		}
	}
}

func (i *Instance) sync() error {
	if i.display == nil {
		return nil
	}
	i.flush()
	if err := i.display.Render(i.Image); err != nil {
		e := &Error{Errno: DisplayFault, PC: i.lastPC, Op: OpSync, Err: err}
		if f, ok := errors.Cause(err).(*Error); ok {
			e.Addr = f.Addr
		}
		return e
	}
	return nil
}

func (i *Instance) illegal() error {
	pc := i.lastPC
	if pc >= i.codeLen {
		return &Error{Errno: IllegalAddress, PC: pc, Op: -1, Addr: pc}
	}
	return &Error{Errno: IllegalInstruction, PC: pc, Op: i.Image[pc]}
}

func (i *Instance) zeroDivision() error {
	return &Error{Errno: ZeroDivision, PC: i.lastPC, Op: i.Image[i.lastPC]}
}

// mod returns a modulo b in the range [0, |b|).
func mod(a, b Cell) Cell {
	r := a % b
	if r < 0 {
		if b < 0 {
			return r - b
		}
		return r + b
	}
	return r
}

func flag(b bool) Cell {
	if b {
		return -1
	}
	return 0
}
