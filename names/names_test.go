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
	"testing"

	"github.com/lumenchain/lumen/term"
)

// identityNamed builds \x. x with a single interned binder "x".
func identityNamed(in *Interner) *term.Term[term.Named] {
	x := in.Intern("x")
	return term.Lambda(x, term.Var(x))
}

func TestNamedToDeBruijnRoundTrip(t *testing.T) {
	u := NewUniqueSource()
	in := NewInterner(u)
	named := identityNamed(in)

	db, err := NamedToDeBruijn(named)
	if err != nil {
		t.Fatal(err)
	}
	if db.Tag != term.TagLambda || db.Lambda.Tag != term.TagVar || db.Lambda.Var.Index != 1 {
		t.Fatalf("unexpected de Bruijn shape: %+v", db)
	}

	back, err := DeBruijnToNamed(db, NewUniqueSource())
	if err != nil {
		t.Fatal(err)
	}
	if back.Tag != term.TagLambda || back.Lambda.Tag != term.TagVar {
		t.Fatalf("unexpected named shape: %+v", back)
	}
	if back.Lambda.Var.Unique != back.Binder.Unique {
		t.Fatalf("bound occurrence resolved to a different unique than its binder")
	}
}

func TestNamedToNamedDeBruijnFreeVariable(t *testing.T) {
	free := term.Var(term.Named{Text: "y", Unique: 999})
	if _, err := NamedToNamedDeBruijn(free); err == nil {
		t.Fatal("expected a FreeUniqueError for an unbound variable")
	} else if _, ok := err.(*FreeUniqueError); !ok {
		t.Fatalf("got %T, want *FreeUniqueError", err)
	}
}

func TestEqualAlphaEquivalence(t *testing.T) {
	u1, u2 := NewUniqueSource(), NewUniqueSource()
	a := identityNamed(NewInterner(u1))
	b := identityNamed(NewInterner(u2))
	if !Equal(a, b) {
		t.Fatal("expected \\x. x and \\y. y to be alpha-equivalent")
	}

	in := NewInterner(NewUniqueSource())
	xUniq := in.Intern("x")
	yUniq := in.Intern("y")
	notIdentity := term.Lambda(xUniq, term.Var(yUniq))
	if Equal(a, notIdentity) {
		t.Fatal("did not expect \\x. x and \\x. y to be alpha-equivalent")
	}
}

func TestInternerReusesUnique(t *testing.T) {
	in := NewInterner(NewUniqueSource())
	a := in.Intern("foo")
	b := in.Intern("foo")
	if a.Unique != b.Unique {
		t.Fatalf("interning the same text twice produced different uniques: %v vs %v", a.Unique, b.Unique)
	}
	c := in.Intern("bar")
	if c.Unique == a.Unique {
		t.Fatal("interning distinct text produced the same unique")
	}
}
