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
	"github.com/pkg/errors"

	"github.com/db47h/mako/vm"
)

// runHeadless runs up to n frames without presenting them. Audio is not bound
// in headless mode, so AU writes are discarded. If snapshot is not empty, the
// last rendered frame is written there as a PNG image.
func runHeadless(m *machine, n int, snapshot string, scale int) error {
	var err error
	f := 0
	for ; f < n; f++ {
		if err = m.i.Run(); err != nil {
			break
		}
	}
	m.log.Infof("headless: ran %d frames", f)
	if err == vm.ErrHalted {
		err = nil
	}
	if snapshot != "" {
		if e := m.screen.SnapshotFile(snapshot, scale); e != nil && err == nil {
			err = errors.Wrap(e, "headless")
		}
	}
	return err
}
