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
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/db47h/mako/vm"
)

// multiReader reads from a stack of readers. Readers are closed and popped
// from the stack when they reach EOF.
type multiReader struct {
	readers []io.Reader
}

func (mr *multiReader) Read(p []byte) (n int, err error) {
	for len(mr.readers) > 0 {
		n, err = mr.readers[0].Read(p)
		if n > 0 || err != io.EOF {
			if err == io.EOF {
				// Don't return EOF yet. There may be more bytes
				// in the remaining readers.
				err = nil
			}
			return
		}
		if c, ok := mr.readers[0].(io.Closer); ok {
			c.Close()
		}
		mr.readers = mr.readers[1:]
	}
	return 0, io.EOF
}

func (mr *multiReader) pushReader(r io.Reader) {
	mr.readers = append([]io.Reader{r}, mr.readers...)
}

// Console implements the CO device over byte streams.
//
// Output is buffered. The buffer is flushed before every read, so that
// prompts are visible, and by calling Flush.
type Console struct {
	in  multiReader
	out *bufio.Writer
	// Raw is set when the input is a terminal in raw mode. CTRL-D then reads
	// as end of input.
	Raw bool
	err error
	b   [1]byte
}

// NewConsole returns a new Console writing to w and reading from the given
// readers, in order.
func NewConsole(w io.Writer, readers ...io.Reader) *Console {
	c := &Console{out: bufio.NewWriter(w)}
	for k := len(readers) - 1; k >= 0; k-- {
		c.in.pushReader(readers[k])
	}
	return c
}

// PushInput pushes r on top of the input stack. Bytes are read from r until
// EOF, then reading resumes with the previous reader.
func (c *Console) PushInput(r io.Reader) {
	c.in.pushReader(r)
}

// maxEmptyReads is the number of consecutive empty reads after which
// ReadConsole gives up with io.ErrNoProgress.
const maxEmptyReads = 100

// ReadConsole returns the next input byte or -1 on end of input or error.
// A byte read along with an error is returned; the error shows up on the next
// read.
func (c *Console) ReadConsole() vm.Cell {
	c.Flush()
	for k := 0; ; k++ {
		n, err := c.in.Read(c.b[:])
		if err != nil && err != io.EOF && c.err == nil {
			c.err = errors.Wrap(err, "console read")
		}
		if n > 0 {
			break
		}
		if err != nil {
			return -1
		}
		if k == maxEmptyReads {
			if c.err == nil {
				c.err = errors.Wrap(io.ErrNoProgress, "console read")
			}
			return -1
		}
	}
	if c.Raw && c.b[0] == 4 {
		return -1
	}
	return vm.Cell(c.b[0])
}

// WriteConsole writes the low byte of v.
func (c *Console) WriteConsole(v vm.Cell) {
	b := byte(v)
	if c.Raw && b == '\n' {
		c.write('\r')
	}
	c.write(b)
}

func (c *Console) write(b byte) {
	if err := c.out.WriteByte(b); err != nil && c.err == nil {
		c.err = errors.Wrap(err, "console write")
	}
}

// Flush flushes buffered output.
func (c *Console) Flush() error {
	if err := c.out.Flush(); err != nil && c.err == nil {
		c.err = errors.Wrap(err, "console flush")
	}
	return c.err
}

// Err returns the first I/O error encountered, if any.
func (c *Console) Err() error {
	return c.err
}
