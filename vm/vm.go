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
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

// Cell is the raw type stored in a memory location.
type Cell int32

// ConsoleDevice is the console collaborator serviced by loads and stores to CO.
type ConsoleDevice interface {
	// ReadConsole returns the next input byte, or -1 on end of input.
	ReadConsole() Cell
	WriteConsole(c Cell)
}

// GamepadDevice returns the current gamepad bitmask for loads from KY.
type GamepadDevice interface {
	ReadGamepad() Cell
}

// KeyboardDevice dequeues typed characters for loads from KB. ReadKey must not
// block and returns -1 when the queue is empty.
type KeyboardDevice interface {
	ReadKey() Cell
}

// AudioDevice receives the samples stored to AU. WriteSound may block until
// the device has room for the sample.
type AudioDevice interface {
	WriteSound(sample byte)
}

// Renderer is called on every SYNC instruction with the whole address space.
type Renderer interface {
	Render(mem []Cell) error
}

// Instance represents a Mako VM instance.
type Instance struct {
	Image    Image // Memory image
	codeLen  int
	pc       int
	dp       int
	rp       int
	lastPC   int
	dataBase int
	addrBase int
	insCount int64
	resolved int
	thread   []target
	noThread bool
	running  bool
	done     bool
	exitErr  error
	rng      *rand.Rand
	console  ConsoleDevice
	gamepad  GamepadDevice
	keyboard KeyboardDevice
	audio    AudioDevice
	display  Renderer
	finished func(code int)
	log      commonlog.Logger
}

// Option interface
type Option func(*Instance) error

// Console binds the console device.
func Console(c ConsoleDevice) Option {
	return func(i *Instance) error { i.console = c; return nil }
}

// Gamepad binds the gamepad device.
func Gamepad(g GamepadDevice) Option {
	return func(i *Instance) error { i.gamepad = g; return nil }
}

// Keyboard binds the keyboard queue device.
func Keyboard(k KeyboardDevice) Option {
	return func(i *Instance) error { i.keyboard = k; return nil }
}

// Audio binds the audio sink.
func Audio(a AudioDevice) Option {
	return func(i *Instance) error { i.audio = a; return nil }
}

// Display binds the renderer invoked on SYNC.
func Display(r Renderer) Option {
	return func(i *Instance) error { i.display = r; return nil }
}

// Finished sets the function called once when the session terminates. The
// code is 0 for a normal halt and 1 for a fault.
func Finished(fn func(code int)) Option {
	return func(i *Instance) error { i.finished = fn; return nil }
}

// Seed seeds the random number device. The default seed is time based.
func Seed(seed int64) Option {
	return func(i *Instance) error {
		i.rng = rand.New(rand.NewSource(seed))
		return nil
	}
}

// Threaded enables or disables the threaded code dispatch cache. It is
// enabled by default. Both modes behave identically.
func Threaded(enable bool) Option {
	return func(i *Instance) error {
		if i.running {
			return errors.New("Threaded: cannot change dispatch mode while running")
		}
		i.noThread = !enable
		i.thread = nil
		return nil
	}
}

// Logger sets the logger used to report faults and dispatch statistics.
func Logger(l commonlog.Logger) Option {
	return func(i *Instance) error { i.log = l; return nil }
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new Mako Virtual Machine instance.
//
// The image parameter is the Cell array used as memory by the VM, usually
// loaded from file with the Load function. The codeLen parameter is the length
// of the program in cells; stores below that address invalidate the dispatch
// cache, and execution past it faults.
//
// Options will be set by calling SetOptions.
func New(image Image, codeLen int, opts ...Option) (*Instance, error) {
	if len(image) < int(ReservedHeader) {
		return nil, errors.Errorf("New: image too small: %d cells, need at least %d", len(image), ReservedHeader)
	}
	if codeLen < 0 || codeLen > len(image) {
		return nil, errors.Errorf("New: code length %d out of range [0, %d]", codeLen, len(image))
	}
	i := &Instance{
		Image:   image,
		codeLen: codeLen,
		log:     commonlog.GetLogger("mako.vm"),
	}
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	if i.rng == nil {
		i.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	i.dataBase = int(image[DP])
	i.addrBase = int(image[RP])
	return i, nil
}

// CodeLen returns the length of the program in cells.
func (i *Instance) CodeLen() int {
	return i.codeLen
}

// InstructionCount returns the number of instructions executed by the last
// call to Run.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}

// Done returns true once the session has terminated, along with the exit
// status passed to the Finished function.
func (i *Instance) Done() (done bool, code int) {
	if !i.done {
		return false, 0
	}
	if i.exitErr == ErrHalted {
		return true, 0
	}
	return true, 1
}

// Push pushes the argument on top of the data stack. It must not be called
// from a device while Run is executing.
func (i *Instance) Push(v Cell) {
	dp := i.Image[DP]
	i.Image[dp] = v
	i.Image[DP] = dp + 1
}

// Pop pops the value on top of the data stack and returns it.
func (i *Instance) Pop() Cell {
	dp := i.Image[DP] - 1
	i.Image[DP] = dp
	return i.Image[dp]
}

// Rpush pushes the argument on top of the return stack.
func (i *Instance) Rpush(v Cell) {
	rp := i.Image[RP]
	i.Image[rp] = v
	i.Image[RP] = rp + 1
}

// Rpop pops the value on top of the return stack and returns it.
func (i *Instance) Rpop() Cell {
	rp := i.Image[RP] - 1
	i.Image[RP] = rp
	return i.Image[rp]
}

func (i *Instance) stack(base int, top Cell) []Cell {
	t := int(top)
	if base < 0 || t < base || t > len(i.Image) {
		return nil
	}
	return i.Image[base:t]
}

// Data returns the data stack, from the value of DP when the instance was
// created up to the current DP. Note that value changes will be reflected in
// the instance's stack, but re-slicing will not affect it.
func (i *Instance) Data() []Cell {
	return i.stack(i.dataBase, i.Image[DP])
}

// Address returns the return stack, from the value of RP when the instance was
// created up to the current RP.
func (i *Instance) Address() []Cell {
	return i.stack(i.addrBase, i.Image[RP])
}
