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

import "github.com/lumenchain/lumen/term"

// Rename canonicalizes every binder's Unique in t by round-tripping
// through the de Bruijn representation and back with a fresh
// UniqueSource. Two terms that are alpha-equivalent (same binder/use
// structure, any Uniques) produce identical results from Rename, so
// property P2 ("named -> de Bruijn -> named is the identity up to
// renaming") can be checked with plain equality on the renamed trees
// instead of a hand-written alpha-equivalence comparison.
func Rename(t *term.Term[term.Named]) (*term.Term[term.Named], error) {
	ndb, err := NamedToNamedDeBruijn(t)
	if err != nil {
		return nil, err
	}
	db := NamedDeBruijnToDeBruijn(ndb)
	return DeBruijnToNamed(db, NewUniqueSource())
}

// Equal reports whether two Named terms are alpha-equivalent: it
// renames both sides canonically and compares the results
// structurally, Unique values included: each Rename numbers binders
// from a fresh UniqueSource in traversal order, so alpha-equivalent
// terms get identical Uniques. Textual names are not compared.
func Equal(a, b *term.Term[term.Named]) bool {
	ra, erra := Rename(a)
	rb, errb := Rename(b)
	if erra != nil || errb != nil {
		return false
	}
	return structEqual(ra, rb)
}

func structEqual(a, b *term.Term[term.Named]) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case term.TagVar:
		return a.Var.Unique == b.Var.Unique
	case term.TagDelay:
		return structEqual(a.Delay, b.Delay)
	case term.TagLambda:
		return a.Binder.Unique == b.Binder.Unique && structEqual(a.Lambda, b.Lambda)
	case term.TagApply:
		return structEqual(a.Fun, b.Fun) && structEqual(a.Arg, b.Arg)
	case term.TagConstant:
		return a.Const.Equal(*b.Const)
	case term.TagForce:
		return structEqual(a.Force, b.Force)
	case term.TagError:
		return true
	case term.TagBuiltin:
		return a.Builtin == b.Builtin
	default:
		return false
	}
}
