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
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// MinImageSize is the minimum size of a memory image in cells.
const MinImageSize = 1024

// Image encapsulates a VM's memory
type Image []Cell

// imageSize returns the memory size for a program of n cells: MinImageSize
// doubled until the program fits.
func imageSize(n int) int {
	sz := MinImageSize
	for sz < n {
		sz *= 2
	}
	return sz
}

// Load reads a big-endian program image from r. The returned image is at
// least MinImageSize cells long, doubled until the program fits, and zero
// filled past the end of the program. fileCells is the number of cells read
// from r, to be used as the code length for New.
//
// If the input length is not a multiple of 4 bytes, Load returns
// ErrInvalidImage.
func Load(r io.Reader) (img Image, fileCells int, err error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, errors.Wrap(err, "Load")
	}
	if len(b)%4 != 0 {
		return nil, 0, errors.Wrapf(ErrInvalidImage, "Load: %d bytes is not a multiple of 4", len(b))
	}
	fileCells = len(b) / 4
	img = make(Image, imageSize(fileCells))
	for k := 0; k < fileCells; k++ {
		img[k] = Cell(binary.BigEndian.Uint32(b[k*4:]))
	}
	return img, fileCells, nil
}

// LoadFile loads a program image from file fileName. See Load.
func LoadFile(fileName string) (Image, int, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, 0, errors.Wrap(err, "LoadFile")
	}
	defer f.Close()
	img, n, err := Load(bufio.NewReader(f))
	if err != nil {
		return nil, 0, errors.Wrapf(err, "LoadFile %s", fileName)
	}
	return img, n, nil
}

// Save writes img to w in the big-endian format read by Load.
func Save(w io.Writer, img Image) error {
	bw := bufio.NewWriter(w)
	var buf [4]byte
	for _, c := range img {
		binary.BigEndian.PutUint32(buf[:], uint32(c))
		if _, err := bw.Write(buf[:]); err != nil {
			return errors.Wrap(err, "Save")
		}
	}
	return errors.Wrap(bw.Flush(), "Save")
}

// DecodeString returns the 0 terminated string starting at position pos in the image.
func (i Image) DecodeString(pos int) string {
	end := pos
	for ; end < len(i) && i[end] != 0; end++ {
	}
	str := make([]rune, end-pos)
	for idx, c := range i[pos:end] {
		str[idx] = rune(c)
	}
	return string(str)
}
