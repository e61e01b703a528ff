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

package device_test

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/db47h/mako/device"
	"github.com/db47h/mako/vm"
)

// interface checks
var (
	_ vm.ConsoleDevice  = (*device.Console)(nil)
	_ vm.GamepadDevice  = (*device.Gamepad)(nil)
	_ vm.KeyboardDevice = (*device.KeyQueue)(nil)
	_ vm.AudioDevice    = (*device.AudioQueue)(nil)
	_ io.Reader         = (*device.AudioQueue)(nil)
)

func TestAudioQueue_silence(t *testing.T) {
	q := device.NewAudioQueue(4)
	q.WriteSound(1)
	q.WriteSound(2)
	p := make([]byte, 4)
	if n, err := q.Read(p); n != 4 || err != nil {
		t.Fatalf("Read returned %d, %v", n, err)
	}
	if !bytes.Equal(p, []byte{1, 2, device.Silence, device.Silence}) {
		t.Errorf("unexpected samples %v", p)
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue, got %d samples", q.Len())
	}
}

func TestAudioQueue_blocking(t *testing.T) {
	q := device.NewAudioQueue(4)
	done := make(chan struct{})
	go func() {
		for k := byte(0); k < 6; k++ {
			q.WriteSound(k)
		}
		close(done)
	}()

	// the writer must block on the fifth sample
	for q.Len() < 4 {
		time.Sleep(time.Millisecond)
	}
	select {
	case <-done:
		t.Fatal("writer did not block on a full queue")
	case <-time.After(20 * time.Millisecond):
	}

	var got []byte
	p := make([]byte, 2)
	for len(got) < 6 {
		q.Read(p)
		for _, b := range p {
			if b != device.Silence {
				got = append(got, b)
			}
		}
	}
	<-done
	if !bytes.Equal(got, []byte{0, 1, 2, 3, 4, 5}) {
		t.Errorf("samples out of order: %v", got)
	}
}

func TestAudioQueue_close(t *testing.T) {
	q := device.NewAudioQueue(1)
	q.WriteSound(1)
	done := make(chan struct{})
	go func() {
		q.WriteSound(2)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	q.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not release the blocked writer")
	}
	// writes after close are dropped and do not block
	q.WriteSound(3)
	if q.Len() != 1 {
		t.Errorf("expected 1 queued sample, got %d", q.Len())
	}
}

func TestKeyQueue(t *testing.T) {
	q := device.NewKeyQueue(3)
	if k := q.ReadKey(); k != -1 {
		t.Errorf("expected -1 from empty queue, got %d", k)
	}
	for _, r := range "ab\rcd" {
		q.Push(r)
	}
	for _, exp := range []vm.Cell{'a', 'b', '\n', -1} {
		if k := q.ReadKey(); k != exp {
			t.Errorf("expected %d, got %d", exp, k)
		}
	}
	// wrap around
	q.Push('x')
	q.Push('y')
	q.Push('z')
	for _, exp := range []vm.Cell{'x', 'y', 'z', -1} {
		if k := q.ReadKey(); k != exp {
			t.Errorf("expected %d, got %d", exp, k)
		}
	}
}

func TestGamepad(t *testing.T) {
	var g device.Gamepad
	g.Press(device.Up | device.A)
	g.Press(device.Left)
	if s := g.ReadGamepad(); s != device.Up|device.A|device.Left {
		t.Errorf("bad state %b", s)
	}
	g.Release(device.A)
	if s := g.ReadGamepad(); s != device.Up|device.Left {
		t.Errorf("bad state %b", s)
	}
	g.Set(device.B)
	if s := g.ReadGamepad(); s != 32 {
		t.Errorf("bad state %b", s)
	}
}

func TestConsole(t *testing.T) {
	var out bytes.Buffer
	c := device.NewConsole(&out, strings.NewReader("ab"), strings.NewReader("c"))
	c.PushInput(strings.NewReader("1"))
	var got []vm.Cell
	for {
		v := c.ReadConsole()
		got = append(got, v)
		if v == -1 {
			break
		}
	}
	exp := []vm.Cell{'1', 'a', 'b', 'c', -1}
	if len(got) != len(exp) {
		t.Fatalf("expected %v, got %v", exp, got)
	}
	for k := range exp {
		if got[k] != exp[k] {
			t.Fatalf("expected %v, got %v", exp, got)
		}
	}

	c.WriteConsole('h')
	c.WriteConsole('i' + 0x100)
	if out.Len() != 0 {
		t.Error("output not buffered")
	}
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "hi" {
		t.Errorf("expected %q, got %q", "hi", out.String())
	}
}

func TestConsole_raw(t *testing.T) {
	var out bytes.Buffer
	c := device.NewConsole(&out, strings.NewReader("a\x04b"))
	c.Raw = true
	if v := c.ReadConsole(); v != 'a' {
		t.Errorf("expected 'a', got %d", v)
	}
	if v := c.ReadConsole(); v != -1 {
		t.Errorf("expected CTRL-D to read as -1, got %d", v)
	}
	c.WriteConsole('\n')
	c.Flush()
	if out.String() != "\r\n" {
		t.Errorf("expected CRLF, got %q", out.String())
	}
}

// stepReader returns one scripted result per call to Read.
type stepReader []struct {
	b   string
	err error
}

func (r *stepReader) Read(p []byte) (int, error) {
	if len(*r) == 0 {
		return 0, io.EOF
	}
	s := (*r)[0]
	*r = (*r)[1:]
	return copy(p, s.b), s.err
}

func TestConsole_shortReads(t *testing.T) {
	errBroken := errors.New("broken")
	c := device.NewConsole(io.Discard, &stepReader{
		{"", nil},
		{"", nil},
		{"x", nil},
		{"y", errBroken},
	})
	if v := c.ReadConsole(); v != 'x' {
		t.Errorf("expected empty reads to be retried, got %d", v)
	}
	if v := c.ReadConsole(); v != 'y' {
		t.Errorf("expected the byte read with an error, got %d", v)
	}
	if errors.Cause(c.Err()) != errBroken {
		t.Errorf("expected read error to be recorded, got %v", c.Err())
	}
	if v := c.ReadConsole(); v != -1 {
		t.Errorf("expected end of input, got %d", v)
	}

	// a reader that never makes progress
	var stuck stepReader
	for k := 0; k < 200; k++ {
		stuck = append(stuck, struct {
			b   string
			err error
		}{"", nil})
	}
	c = device.NewConsole(io.Discard, &stuck)
	if v := c.ReadConsole(); v != -1 {
		t.Errorf("expected -1 from a stuck reader, got %d", v)
	}
	if errors.Cause(c.Err()) != io.ErrNoProgress {
		t.Errorf("expected io.ErrNoProgress, got %v", c.Err())
	}
}
