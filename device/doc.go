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

// Package device provides the host side of the Mako memory mapped devices:
// the console, the gamepad, the keyboard queue and the audio queue.
//
// Each type implements the matching interface of package vm and can be bound
// to an instance with the corresponding option. Except for Console, all
// devices are safe for concurrent use: the VM runs on one goroutine while the
// window and audio callbacks feed or drain the devices from others.
package device
