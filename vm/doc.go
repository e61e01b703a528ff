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

// Package vm implements the Mako virtual machine.
//
// Mako is a 32 bit, two stack machine with a flat, word addressed memory. The
// first 16 cells of memory are registers: the program counter, the stack
// pointers, the graphics tables and a few memory mapped devices. Everything
// else, including the data and return stacks, lives in the same address space
// and can be freely read and written by programs.
//
// A program runs in frames: Run executes instructions until the program
// issues a SYNC, at which point the registers are written back to memory and
// the Display renderer is called with the whole address space. The host then
// presents the frame and calls Run again.
//
// Execution uses a threaded code cache: each code address is decoded once into
// a dispatch target, and re-decoded after any store to it, so that self
// modifying programs behave exactly as they would with plain decoding. The
// cache can be disabled with the Threaded option.
//
// Devices are bound with options (Console, Gamepad, Keyboard, Audio, Display).
// Unbound devices read as "no input" and discard output.
//
// The session terminates when the program jumps to address -1 (a normal halt)
// or on a fault. In both cases the Finished function, if any, is called once
// with the exit status and every subsequent call to Run returns the same
// error.
package vm
