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

package asm

import (
	"io"
	"sort"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/db47h/mako/vm"
)

const maxErrors = 10

func isIdentRune(ch rune, i int) bool {
	return unicode.IsLetter(ch) || unicode.IsSymbol(ch) || unicode.IsPunct(ch) || unicode.IsDigit(ch)
}

type labelSite struct {
	pos     scanner.Position
	address int
}

type label struct {
	labelSite
	uses []labelSite
}

type parser struct {
	i       []vm.Cell
	pc      int
	end     int
	s       scanner.Scanner
	labels  map[string]*label
	consts  map[string]labelSite
	locals  map[string]int
	cstName string
	cstPos  scanner.Position
	errs    ErrAsm
}

func newParser() *parser {
	p := new(parser)
	p.labels = make(map[string]*label)
	p.consts = make(map[string]labelSite)
	p.locals = make(map[string]int)
	for r := vm.PC; r <= vm.KB; r++ {
		p.consts[vm.RegisterName(r)] = labelSite{address: int(r)}
	}
	return p
}

func (p *parser) write(v vm.Cell) {
	if p.pc < 0 {
		p.error("Negative compilation address: " + strconv.Itoa(p.pc))
		return
	}
	for p.pc >= len(p.i) {
		p.i = append(p.i, make([]vm.Cell, 1024)...)
	}
	p.i[p.pc] = v
	p.pc++
	if p.pc > p.end {
		p.end = p.pc
	}
}

func (p *parser) error(msg string) {
	pos := p.s.Position
	if !pos.IsValid() {
		pos = p.s.Pos()
	}
	p.errorAt(pos, msg)
}

func (p *parser) errorAt(pos scanner.Position, msg string) {
	if len(p.errs) < maxErrors {
		p.errs = append(p.errs, struct {
			Pos scanner.Position
			Msg string
		}{pos, msg})
	}
}

// localName converts a local label reference like "1+" or "1-" into its
// internal name.
func (p *parser) localName(s string) (string, bool) {
	if len(s) < 2 {
		return s, false
	}
	n, dir := s[:len(s)-1], s[len(s)-1]
	if dir != '+' && dir != '-' || !isDigits(n) {
		return s, false
	}
	c := p.locals[n]
	if dir == '+' {
		c++
	}
	return n + "·" + strconv.Itoa(c), true
}

func isDigits(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (p *parser) useLabel(name string) {
	if n, ok := p.localName(name); ok {
		name = n
	}
	lbl := p.labels[name]
	if lbl == nil {
		lbl = &label{
			// use current position as valid temp position
			labelSite{p.s.Position, -1},
			nil,
		}
		p.labels[name] = lbl
	}
	lbl.uses = append(lbl.uses, labelSite{p.s.Position, p.pc})
}

func (p *parser) defineLabel(n string) {
	if len(n) == 0 {
		p.error("Empty label name")
		return
	}
	if isDigits(n) {
		p.locals[n]++
		n = n + "·" + strconv.Itoa(p.locals[n])
	}
	if cst, ok := p.consts[n]; ok {
		p.error("Label redefinition: " + n + ", previously defined as a constant here: " + cst.pos.String())
		return
	}
	if l, ok := p.labels[n]; ok {
		if l.address != -1 {
			p.error("Label redefinition: " + n + ", previous definition here: " + l.pos.String())
			return
		}
		l.address = p.pc
		l.pos = p.s.Position
		return
	}
	p.labels[n] = &label{labelSite{p.s.Position, p.pc}, nil}
}

// Parse does the parsing and compiling.
func (p *parser) Parse(name string, r io.Reader) ([]vm.Cell, error) {
	// state:
	// 0: accept anything
	// 1: need integer, const or address argument (operand or .dat)
	// 2: accept integer or const (for .org directive)
	// 3: accept integer or const (for .equ value)
	var state int

	p.s.Init(r)
	p.s.Error = func(s *scanner.Scanner, msg string) {
		p.error(msg)
	}
	p.s.IsIdentRune = isIdentRune
	p.s.Mode = scanner.ScanIdents
	p.s.Filename = name

	for tok := p.s.Scan(); tok != scanner.EOF && len(p.errs) < maxErrors; tok = p.s.Scan() {
		var v int
		s := p.s.TokenText()

		// Words can start with and contain digits, symbols, punctuation and so
		// on. The stdlib scanner can only return tokens, so we need to convert
		// back to Ints when required. Chars are only a special case of ints.
		if tok != scanner.Ident {
			p.error("Unexpected character " + strconv.QuoteRune(tok))
			continue
		}
		if n, err := strconv.ParseInt(s, 0, 32); err == nil {
			tok, v = scanner.Int, int(n)
		} else if n, err := strconv.ParseUint(s, 0, 32); err == nil && strings.HasPrefix(s, "0x") {
			// hex literals for colors and masks
			tok, v = scanner.Int, int(int32(uint32(n)))
		} else if len(s) > 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
			r, _, _, err := strconv.UnquoteChar(s[1:len(s)-1], '\'')
			if err != nil {
				p.error(err.Error() + " " + s)
				continue
			}
			tok, v = scanner.Int, int(r)
		} else if c, ok := p.consts[s]; ok {
			tok, v = scanner.Int, c.address
		}

		if tok == scanner.Int {
			switch state {
			case 2:
				p.pc = v
			case 3:
				p.consts[p.cstName] = labelSite{p.cstPos, v}
			case 0:
				// implicit const
				p.write(vm.OpConst)
				fallthrough
			default:
				p.write(vm.Cell(v))
			}
			state = 0
			continue
		}

		switch {
		case s == "(":
			// skip comments
			for tok = p.s.Scan(); tok != scanner.EOF && (tok != scanner.Ident || p.s.TokenText() != ")"); tok = p.s.Scan() {
			}
			if tok == scanner.EOF {
				p.error("Unterminated comment")
			}
		case s[0] == ':' && len(s) > 1 || s == ":":
			if state != 0 {
				p.error("Unexpected label definition as argument: " + s)
				state = 0
				continue
			}
			p.defineLabel(s[1:])
		case s[0] == '.' && len(s) > 1:
			if state != 0 {
				p.error("Unexpected directive as argument: " + s)
				state = 0
				continue
			}
			switch s {
			case ".org":
				state = 2
			case ".dat":
				state = 1
			case ".equ":
				if t := p.s.Scan(); t != scanner.Ident {
					p.error(".equ: expected identifier, got " + p.s.TokenText())
					continue
				}
				p.cstName = p.s.TokenText()
				if l, ok := p.labels[p.cstName]; ok {
					p.error(".equ: redefinition of " + p.cstName + ", previously defined/used as a label here: " + l.pos.String())
					continue
				}
				p.cstPos = p.s.Position
				state = 3
			default:
				p.error("Unknown directive " + s)
			}
		default:
			if state >= 2 {
				p.error("Unexpected label as directive argument: " + s)
				state = 0
				continue
			}
			if op, ok := opcodeIndex[s]; ok && state == 0 {
				p.write(op)
				if vm.HasOperand(op) {
					state = 1
				}
				continue
			}
			if state == 0 {
				// implicit call
				p.write(vm.OpCall)
			}
			p.useLabel(s)
			p.write(0)
			state = 0
		}
	}
	if state != 0 && len(p.errs) == 0 {
		p.error("Unexpected end of input: missing argument")
	}

	// resolve labels
	names := make([]string, 0, len(p.labels))
	for n := range p.labels {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		l := p.labels[n]
		if l.address == -1 {
			for _, u := range l.uses {
				p.errorAt(u.pos, "Undefined label "+displayName(n))
			}
			continue
		}
		for _, u := range l.uses {
			if u.address >= 0 && u.address < len(p.i) {
				p.i[u.address] = vm.Cell(l.address)
			}
		}
	}

	if len(p.errs) > 0 {
		p.errs.sort()
		return nil, p.errs
	}
	return p.i[:p.end], nil
}

func displayName(n string) string {
	if k := strings.Index(n, "·"); k > 0 {
		return n[:k]
	}
	return n
}
