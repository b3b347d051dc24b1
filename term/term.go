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

// Package term implements the untyped core calculus that the lumen
// machine evaluates: terms, constants, the three name representations
// a term can be parameterized over, and the program envelope that
// wraps a term with a version triple.
package term

import "github.com/lumenchain/lumen/builtin"

// Name is the interface satisfied by the three representations a
// Term can use for its variables and binders: Named, NamedDeBruijn
// and DeBruijn. Terms are generic over Name so that the translator
// (package names) can walk a Named term to produce a DeBruijn term
// without any case analysis on the node shapes.
type Name interface {
	Named | NamedDeBruijn | DeBruijn
}

// Named is a textual variable reference disambiguated by Unique, an
// id assigned when the binder was created. Equality is by Unique
// only: two Named values with the same Unique refer to the same
// binder even if Text differs (the text is carried for
// pretty-printing and error messages).
type Named struct {
	Text   string
	Unique Unique
}

// Unique is a process-local identifier for a binder. It has no
// meaning across translation sessions.
type Unique int64

// NamedDeBruijn pairs a canonical textual name with a de Bruijn
// index. It exists so that a term decoded from the flat wire format
// (which only carries indices) can still be displayed with a
// placeholder name, and so that index-based translation can thread a
// textual hint through without inventing one from scratch.
type NamedDeBruijn struct {
	Text  string
	Index Index
}

// DeBruijn is a pure binder-distance index with no textual
// component: the wire representation of a bound variable.
type DeBruijn struct {
	Index Index
}

// Index is a de Bruijn depth offset. 1 refers to the nearest
// enclosing binder.
type Index uint64

// Term is the core calculus term, generic in its name representation
// N. Exactly one of the Tag-selected fields is meaningful for any
// given value; Tag doubles as the wire-format discriminant (§3 of the
// term model: tag values are load-bearing for the flat codec).
type Term[N Name] struct {
	Tag Tag

	Var     N
	Delay   *Term[N]
	Binder  N
	Lambda  *Term[N]
	Fun     *Term[N]
	Arg     *Term[N]
	Const   *Constant
	Force   *Term[N]
	Builtin builtin.Tag
}

// Tag is the wire-format discriminant for a Term variant.
type Tag uint8

const (
	TagVar Tag = iota
	TagDelay
	TagLambda
	TagApply
	TagConstant
	TagForce
	TagError
	TagBuiltin
)

func (t Tag) String() string {
	switch t {
	case TagVar:
		return "Var"
	case TagDelay:
		return "Delay"
	case TagLambda:
		return "Lambda"
	case TagApply:
		return "Apply"
	case TagConstant:
		return "Constant"
	case TagForce:
		return "Force"
	case TagError:
		return "Error"
	case TagBuiltin:
		return "Builtin"
	default:
		return "Tag(?)"
	}
}

// Var constructs a Term that references the binder named n.
func Var[N Name](n N) *Term[N] { return &Term[N]{Tag: TagVar, Var: n} }

// Delay constructs a Term that suspends evaluation of body until a
// matching Force is applied to it.
func Delay[N Name](body *Term[N]) *Term[N] { return &Term[N]{Tag: TagDelay, Delay: body} }

// Lambda constructs a single-argument abstraction.
func Lambda[N Name](binder N, body *Term[N]) *Term[N] {
	return &Term[N]{Tag: TagLambda, Binder: binder, Lambda: body}
}

// Apply constructs a function application.
func Apply[N Name](fn, arg *Term[N]) *Term[N] {
	return &Term[N]{Tag: TagApply, Fun: fn, Arg: arg}
}

// Const constructs a constant literal term.
func Const[N Name](c Constant) *Term[N] { return &Term[N]{Tag: TagConstant, Const: &c} }

// Force constructs a term that forces a delayed sub-term (or a
// partially-forced builtin).
func Force[N Name](body *Term[N]) *Term[N] { return &Term[N]{Tag: TagForce, Force: body} }

// Error constructs the term that unconditionally fails evaluation.
func Error[N Name]() *Term[N] { return &Term[N]{Tag: TagError} }

// BuiltinTerm constructs a reference to a built-in function.
func BuiltinTerm[N Name](b builtin.Tag) *Term[N] { return &Term[N]{Tag: TagBuiltin, Builtin: b} }
