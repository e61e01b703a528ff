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

package main

import (
	"io"

	"github.com/db47h/mako/internal/mki"
	"github.com/db47h/mako/vm"
)

// dumpVM writes the data stack, the return stack and the first size cells of
// the image to w. The dump starts with a file separator (\x1C) and sections
// are separated with group separators (\x1D).
func dumpVM(i *vm.Instance, size int, w io.Writer) error {
	ew := mki.NewErrWriter(w)
	ew.WriteByte('\x1C')
	ew.WriteCells(i.Data(), ' ')
	ew.WriteByte('\x1D')
	ew.WriteCells(i.Address(), ' ')
	ew.WriteByte('\x1D')
	return ew.WriteCells(i.Image[:size], ' ')
}
