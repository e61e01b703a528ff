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
	"sync"

	"github.com/db47h/mako/vm"
)

// DefaultKeyBuffer is the default capacity of a KeyQueue.
const DefaultKeyBuffer = 1024

// KeyQueue is a bounded queue of typed characters, read by loads from KB.
type KeyQueue struct {
	mu   sync.Mutex
	buf  []vm.Cell
	head int
	n    int
}

// NewKeyQueue returns a new KeyQueue holding up to size characters.
func NewKeyQueue(size int) *KeyQueue {
	if size <= 0 {
		size = DefaultKeyBuffer
	}
	return &KeyQueue{buf: make([]vm.Cell, size)}
}

// Push queues a character. Carriage returns are translated to line feeds. The
// character is dropped if the queue is full.
func (q *KeyQueue) Push(c rune) {
	if c == '\r' {
		c = '\n'
	}
	q.mu.Lock()
	if q.n < len(q.buf) {
		q.buf[(q.head+q.n)%len(q.buf)] = vm.Cell(c)
		q.n++
	}
	q.mu.Unlock()
}

// ReadKey dequeues the next character, or returns -1 if the queue is empty.
func (q *KeyQueue) ReadKey() vm.Cell {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.n == 0 {
		return -1
	}
	c := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	return c
}
