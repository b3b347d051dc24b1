// Copyright (C) 2024 Lumen Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package machine

import "github.com/lumenchain/lumen/term"

// Env is an immutable linked list of values, extended one frame at a
// time as lambdas are entered (§4.4). Nodes are shared between
// closures captured at different points, never mutated in place.
type Env struct {
	head Value
	tail *Env
}

// Extend returns a new environment with v bound as the innermost
// (index 1) value, leaving e unmodified.
func (e *Env) Extend(v Value) *Env { return &Env{head: v, tail: e} }

// At returns the value bound at de Bruijn index i (1 = innermost).
func (e *Env) At(i term.Index) (Value, bool) {
	for n := uint64(i); n > 1 && e != nil; n-- {
		e = e.tail
	}
	if e == nil {
		return Value{}, false
	}
	return e.head, true
}
