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

// The mako command runs Mako program images.
//
// Usage:
//
//	mako [flags] image
//
//	-config filename
//		  load configuration from TOML file filename
//	-debug
//		  enable debug diagnostics
//	-dump
//		  dump stacks and code image upon exit
//	-fps int
//		  frames per second (default 60)
//	-frames int
//		  number of frames to run in headless mode (default 60)
//	-headless
//		  run without a window
//	-noaudio
//		  disable audio output
//	-noraw
//		  disable raw terminal IO
//	-nothread
//		  disable the threaded code cache
//	-quiet
//		  only log errors
//	-scale int
//		  window scale factor (default 2)
//	-snapshot filename
//		  in headless mode, write the last frame to PNG file filename
//	-with filename
//		  Add filename to the console input list (can be specified multiple times)
//
// The program runs one frame per tick: the VM executes until the program
// issues a SYNC, and the rendered frame is presented in a window scaled to fit
// while keeping a 4:3 aspect ratio. Escape or closing the window ends the
// session with exit status 0. A program halt exits with 0 and a fault with 1.
//
// The arrow keys map to the gamepad directions, Enter, Space and Z to A and
// X or Shift to B. Typed characters are queued for KB reads, and F12 toggles a
// status line.
//
// -config: the configuration file sets the window, audio, frame rate and key
// bindings. Explicit command line flags override it:
//
//	[window]
//	scale = 3
//	title = "demo"
//	fullscreen = false
//
//	[audio]
//	sample_rate = 8000
//	buffer = 1024
//	disabled = false
//
//	[frame]
//	rate = 60
//
//	[keys]
//	a = ["Enter", "Space", "Z"]
//	b = ["X", "ShiftLeft", "ShiftRight"]
//
// -headless: run -frames frames without a window, then exit. Audio output is
// discarded. With -snapshot, the last frame is saved as a PNG image scaled by
// the window scale factor. Builds with the headless tag only support this
// mode.
//
// -noraw: upon startup, mako switches the terminal to raw mode unless stdin
// is not a terminal. This flag disables this behavior.
//
// -with: the specified files are fed to the console device (CO) before
// stdin, in order of appearance on the command line.
//
// -dump: dump the stacks and code image to stdout upon exit, as space
// separated numbers. The dump starts with a \x1C byte and sections are
// separated by \x1D.
package main
