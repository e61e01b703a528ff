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

// Package asm provides utility functions to assemble and disassemble Mako
// VM code.
//
// Supported assembler mnemonics:
//
//	TOS is the value on top of the data stack. NOS is the next value on the data stack.
//	Instructions with a check mark in the "arg" column expect an argument in the cell
//	following them.
//
//	opcode	asm		arg	stack	description
//	------	---		---	-----	------------------------------------------------------------
//	0	const		✓	-n	push the value in the next cell
//	1	call		✓		push the address after the argument on the return stack and jump
//	2	jump		✓		jump to address in next cell
//	3	jumpz	jz	✓	n-	jump to address in next cell if TOS is 0
//	4	jumpif	jnz	✓	n-	jump to address in next cell if TOS is not 0
//	10	load	@		a-n	get the value at address a
//	11	stor	!		na-	store n at address a
//	12	return	ret ;		pop an address from the return stack and jump to it
//	13	drop			n-	drop TOS
//	14	swap			xy-yx	swap TOS and NOS
//	15	dup			n-nn	duplicate TOS
//	16	over			xy-xyx	copy NOS on top of the stack
//	17	str	>r		n-	move TOS to the return stack
//	18	rts	r>		-n	move the top of the return stack to the data stack
//	19	add	+		xy-z	x+y
//	20	sub	-		xy-z	x-y
//	21	mul	*		xy-z	x*y
//	22	div	/		xy-z	x/y, truncated
//	23	mod			xy-z	x modulo y, always positive
//	24	and			xy-z	bitwise and
//	25	or			xy-z	bitwise or
//	26	xor			xy-z	bitwise exclusive or
//	27	not			x-z	bitwise complement
//	28	sgt	>		xy-f	-1 if x>y, else 0
//	29	slt	<		xy-f	-1 if x<y, else 0
//	30	sync				end the frame
//	31	next		✓		decrement the top of the return stack; jump if it is still >= 0
//
// Comments:
//
// Comments are placed between parentheses, i.e. '(' and ')'. The body of the
// comment must be separated from the enclosing parentheses by a space:
//
//	( this is a valid comment )
//	( this is a
//	  rather long
//	  multiline comment )
//
// Literals and label/const identifiers:
//
// Input is split at white space into tokens. The parser then does the
// following:
//
//	- If a token can be converted to a Go integer (see strconv.ParseInt), it will
//	  be converted to an integer literal. Hexadecimal literals may use all 32 bits,
//	  so that 0xFFFF0000 is a valid color.
//	- If it is a Go character literal between single quotes, it will be converted to
//	  the corresponding integer literal.
//	- If a token is the name of a defined constant, it will be replaced internally by
//	  the constant's value and can be used anywhere an integer literal is expected.
//	  The register names PC, DP, RP, GP, GT, SP, ST, SX, SY, GS, CL, RN, KY, CO, AU
//	  and KB are predefined constants.
//	- Then name resolution applies: if an instruction is expected, the token is
//	  looked up in the assembler mnemonics and if no match is found, it is compiled
//	  as a call to a label of that name. If an argument is expected, the token is
//	  always considered a label.
//
// Where the parser is expecting an instruction, integer literals, character
// literals and constants will be compiled with an implicit "const":
//
//	const 42
//	42	( will compile as "const 42", just like above )
//	'a' CO !	( print 'a' )
//
// Labels:
//
// Labels are defined by prefixing them with a colon (:) and can be used as
// address in any instruction argument or .dat directive:
//
//	foo		( forward references are ok. This will be compiled as "call foo" )
//	const foo	( pushes the address of foo )
//	:foo	dup * ;
//
// Local labels are defined as a colon followed by a sequence of digits (i.e.
// :0, :42). They can be defined multiple times. References to such labels must
// be suffixed with either a '-' (backward reference to the last definition of
// this label), or a '+' (forward reference to the next definition):
//
//	:1	jump 1+
//	:2	jump 1-
//	:1	jump 2+
//	:2	jump 1-
//
// Assembler directives:
//
//	.equ <IDENTIFIER> <value>
//
// defines a constant value.
//
//	.org <value>
//
// places the next instruction at the given address.
//
//	.dat <value>
//
// compiles the specified integer value, named constant, character literal or
// label address as-is (i.e. with no implicit "const").
package asm
