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

package device

import (
	"sync/atomic"

	"github.com/db47h/mako/vm"
)

// Gamepad buttons, as seen by loads from KY.
const (
	Up    = 1 << iota // up arrow
	Right             // right arrow
	Down              // down arrow
	Left              // left arrow
	A                 // A button
	B                 // B button
)

// Gamepad holds the current state of the gamepad buttons.
type Gamepad struct {
	state atomic.Int32
}

// Press sets the given button bits.
func (g *Gamepad) Press(buttons vm.Cell) {
	g.state.Or(int32(buttons))
}

// Release clears the given button bits.
func (g *Gamepad) Release(buttons vm.Cell) {
	g.state.And(^int32(buttons))
}

// Set replaces the whole button state.
func (g *Gamepad) Set(buttons vm.Cell) {
	g.state.Store(int32(buttons))
}

// ReadGamepad returns the button bitmask.
func (g *Gamepad) ReadGamepad() vm.Cell {
	return vm.Cell(g.state.Load())
}
