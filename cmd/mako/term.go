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

//go:build !windows

package main

import (
	"github.com/pkg/errors"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// consoleMode returns the terminal settings used while a program runs: input
// is unbuffered and not echoed, so that each CO load sees keys as they are
// typed. Signals stay enabled so that CTRL-C still interrupts mako, and CR is
// still translated to LF.
func consoleMode(t unix.Termios) unix.Termios {
	t.Iflag &^= unix.IGNBRK | unix.ISTRIP | unix.IXON | unix.IXOFF
	t.Iflag |= unix.BRKINT | unix.IGNPAR | unix.ICRNL
	t.Lflag &^= unix.ICANON | unix.IEXTEN | unix.ECHO
	t.Lflag |= unix.ISIG
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	return t
}

// setRawIO switches the terminal on fd to console mode. termios is used
// directly rather than x/term's MakeRaw, which also disables signals and
// output processing.
func setRawIO(fd uintptr) (restore func() error, err error) {
	var saved unix.Termios
	if err = termios.Tcgetattr(fd, &saved); err != nil {
		return nil, errors.Wrap(err, "Tcgetattr failed")
	}
	t := consoleMode(saved)
	if err = termios.Tcsetattr(fd, termios.TCSANOW, &t); err != nil {
		termios.Tcsetattr(fd, termios.TCSANOW, &saved)
		return nil, errors.Wrap(err, "Tcsetattr failed")
	}
	return func() error {
		return errors.Wrap(termios.Tcsetattr(fd, termios.TCSANOW, &saved), "terminal restore failed")
	}, nil
}
