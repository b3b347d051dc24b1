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

package names

import (
	"fmt"

	"github.com/lumenchain/lumen/term"
)

// NamedToNamedDeBruijn walks t maintaining a stack of currently-bound
// uniques, replacing each Named variable with a NamedDeBruijn index
// computed from use-site depth minus bind-site depth plus one. A
// reference whose binder is not on the stack is a FreeUniqueError
// (invariant I1). Conversion does not mutate t.
func NamedToNamedDeBruijn(t *term.Term[term.Named]) (*term.Term[term.NamedDeBruijn], error) {
	var stack binderStack[term.Unique]
	return namedToNDB(t, &stack)
}

func namedToNDB(t *term.Term[term.Named], stack *binderStack[term.Unique]) (*term.Term[term.NamedDeBruijn], error) {
	if t == nil {
		return nil, nil
	}
	switch t.Tag {
	case term.TagVar:
		idx, ok := stack.indexOf(t.Var.Unique)
		if !ok {
			return nil, &FreeUniqueError{Unique: t.Var.Unique}
		}
		return term.Var(term.NamedDeBruijn{Text: t.Var.Text, Index: idx}), nil
	case term.TagDelay:
		body, err := namedToNDB(t.Delay, stack)
		if err != nil {
			return nil, err
		}
		return term.Delay(body), nil
	case term.TagLambda:
		stack.push(t.Binder.Unique)
		body, err := namedToNDB(t.Lambda, stack)
		stack.pop()
		if err != nil {
			return nil, err
		}
		return term.Lambda(term.NamedDeBruijn{Text: t.Binder.Text, Index: 0}, body), nil
	case term.TagApply:
		fn, err := namedToNDB(t.Fun, stack)
		if err != nil {
			return nil, err
		}
		arg, err := namedToNDB(t.Arg, stack)
		if err != nil {
			return nil, err
		}
		return term.Apply(fn, arg), nil
	case term.TagConstant:
		return term.Const[term.NamedDeBruijn](*t.Const), nil
	case term.TagForce:
		body, err := namedToNDB(t.Force, stack)
		if err != nil {
			return nil, err
		}
		return term.Force(body), nil
	case term.TagError:
		return term.Error[term.NamedDeBruijn](), nil
	case term.TagBuiltin:
		return term.BuiltinTerm[term.NamedDeBruijn](t.Builtin), nil
	default:
		return nil, fmt.Errorf("names: unknown term tag %v", t.Tag)
	}
}

// NamedDeBruijnToDeBruijn drops the textual hint carried alongside
// each NamedDeBruijn index, producing the pure de Bruijn form that is
// actually written to the wire (§4.2).
func NamedDeBruijnToDeBruijn(t *term.Term[term.NamedDeBruijn]) *term.Term[term.DeBruijn] {
	if t == nil {
		return nil
	}
	switch t.Tag {
	case term.TagVar:
		return term.Var(term.DeBruijn{Index: t.Var.Index})
	case term.TagDelay:
		return term.Delay(NamedDeBruijnToDeBruijn(t.Delay))
	case term.TagLambda:
		return term.Lambda(term.DeBruijn{}, NamedDeBruijnToDeBruijn(t.Lambda))
	case term.TagApply:
		return term.Apply(NamedDeBruijnToDeBruijn(t.Fun), NamedDeBruijnToDeBruijn(t.Arg))
	case term.TagConstant:
		return term.Const[term.DeBruijn](*t.Const)
	case term.TagForce:
		return term.Force(NamedDeBruijnToDeBruijn(t.Force))
	case term.TagError:
		return term.Error[term.DeBruijn]()
	case term.TagBuiltin:
		return term.BuiltinTerm[term.DeBruijn](t.Builtin)
	default:
		return nil
	}
}

// NamedToDeBruijn composes NamedToNamedDeBruijn and
// NamedDeBruijnToDeBruijn: the full named -> wire-ready translation.
func NamedToDeBruijn(t *term.Term[term.Named]) (*term.Term[term.DeBruijn], error) {
	ndb, err := NamedToNamedDeBruijn(t)
	if err != nil {
		return nil, err
	}
	return NamedDeBruijnToDeBruijn(ndb), nil
}

// fakeName is the canonical placeholder textual name used when
// decoding: every binder is displayed as "i" regardless of depth, as
// the original textual names are never present on the wire.
const fakeName = "i"

// DeBruijnToFakeNamed re-attaches the placeholder text "i" to every
// index in t, producing a NamedDeBruijn term suitable for display.
// This is total: unlike index->name below, it performs no stack
// bookkeeping and cannot fail.
func DeBruijnToFakeNamed(t *term.Term[term.DeBruijn]) *term.Term[term.NamedDeBruijn] {
	if t == nil {
		return nil
	}
	switch t.Tag {
	case term.TagVar:
		return term.Var(term.NamedDeBruijn{Text: fakeName, Index: t.Var.Index})
	case term.TagDelay:
		return term.Delay(DeBruijnToFakeNamed(t.Delay))
	case term.TagLambda:
		return term.Lambda(term.NamedDeBruijn{Text: fakeName}, DeBruijnToFakeNamed(t.Lambda))
	case term.TagApply:
		return term.Apply(DeBruijnToFakeNamed(t.Fun), DeBruijnToFakeNamed(t.Arg))
	case term.TagConstant:
		return term.Const[term.NamedDeBruijn](*t.Const)
	case term.TagForce:
		return term.Force(DeBruijnToFakeNamed(t.Force))
	case term.TagError:
		return term.Error[term.NamedDeBruijn]()
	case term.TagBuiltin:
		return term.BuiltinTerm[term.NamedDeBruijn](t.Builtin)
	default:
		return nil
	}
}

// NamedDeBruijnToNamed assigns each binder a fresh Unique (via u) and
// resolves every index against the current binder stack, producing a
// fully Named term. A reference whose computed depth exceeds the
// stack is a FreeIndexError; this cannot happen for a term that was
// actually closed (invariant I3) but is checked defensively since the
// decoder's input is untrusted wire data.
func NamedDeBruijnToNamed(t *term.Term[term.NamedDeBruijn], u *UniqueSource) (*term.Term[term.Named], error) {
	var stack binderStack[term.Unique]
	return ndbToNamed(t, &stack, u)
}

func ndbToNamed(t *term.Term[term.NamedDeBruijn], stack *binderStack[term.Unique], u *UniqueSource) (*term.Term[term.Named], error) {
	if t == nil {
		return nil, nil
	}
	switch t.Tag {
	case term.TagVar:
		uq, ok := stack.at(t.Var.Index)
		if !ok {
			return nil, &FreeIndexError{Depth: t.Var.Index}
		}
		return term.Var(term.Named{Text: t.Var.Text, Unique: uq}), nil
	case term.TagDelay:
		body, err := ndbToNamed(t.Delay, stack, u)
		if err != nil {
			return nil, err
		}
		return term.Delay(body), nil
	case term.TagLambda:
		fresh := u.Next()
		stack.push(fresh)
		body, err := ndbToNamed(t.Lambda, stack, u)
		stack.pop()
		if err != nil {
			return nil, err
		}
		return term.Lambda(term.Named{Text: t.Binder.Text, Unique: fresh}, body), nil
	case term.TagApply:
		fn, err := ndbToNamed(t.Fun, stack, u)
		if err != nil {
			return nil, err
		}
		arg, err := ndbToNamed(t.Arg, stack, u)
		if err != nil {
			return nil, err
		}
		return term.Apply(fn, arg), nil
	case term.TagConstant:
		return term.Const[term.Named](*t.Const), nil
	case term.TagForce:
		body, err := ndbToNamed(t.Force, stack, u)
		if err != nil {
			return nil, err
		}
		return term.Force(body), nil
	case term.TagError:
		return term.Error[term.Named](), nil
	case term.TagBuiltin:
		return term.BuiltinTerm[term.Named](t.Builtin), nil
	default:
		return nil, fmt.Errorf("names: unknown term tag %v", t.Tag)
	}
}

// DeBruijnToNamed composes DeBruijnToFakeNamed and
// NamedDeBruijnToNamed: the full wire -> named translation used after
// decoding.
func DeBruijnToNamed(t *term.Term[term.DeBruijn], u *UniqueSource) (*term.Term[term.Named], error) {
	return NamedDeBruijnToNamed(DeBruijnToFakeNamed(t), u)
}

// UniqueSource is a scoped generator of process-local Unique ids. Per
// §5, it is scoped to a single translation session and carries no
// global mutable state.
type UniqueSource struct {
	next int64
}

// NewUniqueSource returns a UniqueSource starting at 0.
func NewUniqueSource() *UniqueSource { return &UniqueSource{} }

// Next returns a fresh Unique, not yet returned by this source.
func (u *UniqueSource) Next() term.Unique {
	v := u.next
	u.next++
	return term.Unique(v)
}
