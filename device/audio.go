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
)

// Audio format of the AU device.
const (
	SampleRate = 8000 // samples per second
	Silence    = 0x80 // unsigned 8 bit mono
)

// DefaultAudioBuffer is the default capacity of an AudioQueue, in samples.
const DefaultAudioBuffer = 1024

// AudioQueue is a bounded sample queue between the VM and the audio output.
//
// WriteSound, called by the VM on stores to AU, blocks while the queue is
// full, which paces the program to the audio output. Read, called by the
// audio output, never blocks: missing samples are replaced with silence.
type AudioQueue struct {
	mu     sync.Mutex
	room   *sync.Cond
	buf    []byte
	head   int // next sample to read
	n      int // number of queued samples
	closed bool
}

// NewAudioQueue returns a new AudioQueue holding up to size samples.
func NewAudioQueue(size int) *AudioQueue {
	if size <= 0 {
		size = DefaultAudioBuffer
	}
	q := &AudioQueue{buf: make([]byte, size)}
	q.room = sync.NewCond(&q.mu)
	return q
}

// WriteSound queues a sample. It blocks until there is room in the queue or
// the queue is closed, in which case the sample is dropped.
func (q *AudioQueue) WriteSound(sample byte) {
	q.mu.Lock()
	for q.n == len(q.buf) && !q.closed {
		q.room.Wait()
	}
	if !q.closed {
		q.buf[(q.head+q.n)%len(q.buf)] = sample
		q.n++
	}
	q.mu.Unlock()
}

// Read implements io.Reader. It fills p with queued samples and pads the
// remainder with silence. It always returns len(p), nil.
func (q *AudioQueue) Read(p []byte) (int, error) {
	q.mu.Lock()
	k := 0
	for ; k < len(p) && q.n > 0; k++ {
		p[k] = q.buf[q.head]
		q.head = (q.head + 1) % len(q.buf)
		q.n--
	}
	if k > 0 {
		q.room.Broadcast()
	}
	q.mu.Unlock()
	for ; k < len(p); k++ {
		p[k] = Silence
	}
	return len(p), nil
}

// Len returns the number of queued samples.
func (q *AudioQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.n
}

// Close releases any blocked writer. Samples written after Close are dropped.
func (q *AudioQueue) Close() error {
	q.mu.Lock()
	q.closed = true
	q.room.Broadcast()
	q.mu.Unlock()
	return nil
}
