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

// Package machine implements the CEK (Control/Environment/
// Kontinuation) abstract machine that evaluates a de Bruijn core term
// under a cost budget (§4.4).
package machine

import (
	"fmt"

	"github.com/lumenchain/lumen/builtin"
	"github.com/lumenchain/lumen/term"
)

// ValueKind discriminates the four CEK value shapes (§4.4).
type ValueKind uint8

const (
	VKCon ValueKind = iota
	VKDelay
	VKLambda
	VKBuiltin
)

// Value is a CEK machine value. VCon/VDelay/VLambda/VBuiltin are
// constructors; exactly the fields relevant to Kind are populated.
type Value struct {
	Kind ValueKind

	Con *term.Constant

	// Delay / Lambda
	Body *term.Term[term.DeBruijn]
	Env  *Env

	// Builtin
	BuiltinTag Tag
	Args       []Value
	Forces     int
}

// Tag re-exports builtin.Tag so callers of package machine rarely
// need to import package builtin directly for this one type.
type Tag = builtin.Tag

// VCon builds a constant value.
func VCon(c term.Constant) Value { return Value{Kind: VKCon, Con: &c} }

// VDelay builds a suspended-computation value.
func VDelay(body *term.Term[term.DeBruijn], env *Env) Value {
	return Value{Kind: VKDelay, Body: body, Env: env}
}

// VLambda builds a closure value.
func VLambda(body *term.Term[term.DeBruijn], env *Env) Value {
	return Value{Kind: VKLambda, Body: body, Env: env}
}

// VBuiltin builds a (possibly partially-applied) builtin value.
func VBuiltin(t Tag) Value { return Value{Kind: VKBuiltin, BuiltinTag: t} }

// Saturated reports whether a VBuiltin value has received all of its
// term arguments and type forces.
func (v Value) Saturated() bool {
	if v.Kind != VKBuiltin {
		return false
	}
	sig := builtin.SignatureOf(v.BuiltinTag)
	return len(v.Args) == sig.Arity && v.Forces == sig.ForceCount
}

func (v Value) String() string {
	switch v.Kind {
	case VKCon:
		return v.Con.String()
	case VKDelay:
		return "<delay>"
	case VKLambda:
		return "<lambda>"
	case VKBuiltin:
		return fmt.Sprintf("<builtin %s, %d args, %d forces>", v.BuiltinTag, len(v.Args), v.Forces)
	default:
		return "<?>"
	}
}

// IsFalse reports whether v is the constant `False`. The driver (§4.6)
// treats any value other than Error and VCon(Bool false) as success;
// this helper names that specific check.
func (v Value) IsFalse() bool {
	return v.Kind == VKCon && v.Con.Tag == term.CBool && !v.Con.Bool
}
