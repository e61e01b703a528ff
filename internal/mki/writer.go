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

// Package mki - or mako-internal with some commonly used stuff.
package mki

import (
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/db47h/mako/vm"
)

// ErrWriter latches the first write error. Once it is set, every write is a
// no-op returning that error, so that callers can check Err once at the end.
type ErrWriter struct {
	w   io.Writer
	Err error
	buf []byte
}

// NewErrWriter returns a new ErrWriter writing to w.
func NewErrWriter(w io.Writer) *ErrWriter {
	return &ErrWriter{w: w}
}

func (w *ErrWriter) Write(p []byte) (n int, err error) {
	if w.Err != nil {
		return 0, w.Err
	}
	n, err = w.w.Write(p)
	if err != nil {
		w.Err = errors.Wrap(err, "write failed")
	}
	return n, w.Err
}

// WriteString writes s.
func (w *ErrWriter) WriteString(s string) (n int, err error) {
	return w.Write([]byte(s))
}

// WriteByte writes a single byte.
func (w *ErrWriter) WriteByte(c byte) error {
	w.buf = append(w.buf[:0], c)
	_, err := w.Write(w.buf)
	return err
}

// WriteCells writes the decimal values of cells separated by sep.
func (w *ErrWriter) WriteCells(cells []vm.Cell, sep byte) error {
	w.buf = w.buf[:0]
	for k, v := range cells {
		if k > 0 {
			w.buf = append(w.buf, sep)
		}
		w.buf = strconv.AppendInt(w.buf, int64(v), 10)
	}
	if len(w.buf) > 0 {
		w.Write(w.buf)
	}
	return w.Err
}
