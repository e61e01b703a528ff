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

// cell returns the index for address addr, or panics with an IllegalAddress
// fault if addr lies outside the address space.
func (i *Instance) cell(addr Cell) int {
	a := int(addr)
	if a < 0 || a >= len(i.Image) {
		panic(AddressFault(a))
	}
	return a
}

// load services LOAD. The address operand has already been popped, so a load
// from DP sees the stack pointer without it.
func (i *Instance) load(addr Cell) Cell {
	switch addr {
	case CO:
		if i.console == nil {
			return -1
		}
		return i.console.ReadConsole()
	case KY:
		if i.gamepad == nil {
			return 0
		}
		return i.gamepad.ReadGamepad()
	case KB:
		if i.keyboard == nil {
			return -1
		}
		return i.keyboard.ReadKey()
	case RN:
		v := Cell(i.rng.Int31())
		i.Image[RN] = v
		return v
	case PC:
		return Cell(i.pc)
	case DP:
		return Cell(i.dp)
	case RP:
		return Cell(i.rp)
	}
	return i.Image[i.cell(addr)]
}

// store services STOR.
func (i *Instance) store(addr, v Cell) {
	switch addr {
	case CO:
		if i.console != nil {
			i.console.WriteConsole(v)
		}
		return
	case AU:
		if i.audio != nil {
			i.audio.WriteSound(byte(v))
		}
		return
	case PC:
		i.pc = int(v)
	case DP:
		i.dp = int(v)
	case RP:
		i.rp = int(v)
	}
	a := i.cell(addr)
	i.invalidate(a)
	i.Image[a] = v
}
