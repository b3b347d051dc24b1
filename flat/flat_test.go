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

package flat

import (
	"math/big"
	"testing"

	"github.com/lumenchain/lumen/builtin"
	"github.com/lumenchain/lumen/term"
)

// identityProgram builds (\x. x) (con integer 42) directly in de Bruijn
// form, matching end-to-end scenario 1 of spec.md §8.
func identityProgram() term.Program[term.DeBruijn] {
	body := term.Apply(
		term.Lambda(term.DeBruijn{}, term.Var(term.DeBruijn{Index: 1})),
		term.Const[term.DeBruijn](term.NewInteger(42)),
	)
	return term.Program[term.DeBruijn]{Version: term.Version{Major: 1}, Term: body}
}

func TestProgramRoundTrip(t *testing.T) {
	p := identityProgram()
	enc, err := EncodeProgram(p)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeProgram(enc)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != p.Version {
		t.Fatalf("version mismatch: got %v want %v", got.Version, p.Version)
	}
	if !termsEqual(got.Term, p.Term) {
		t.Fatalf("term mismatch after round trip")
	}
}

func TestConstantRoundTripAllShapes(t *testing.T) {
	listConst, err := term.NewList(term.Type{Tag: term.TInteger}, []term.Constant{
		term.NewInteger(1), term.NewInteger(2), term.NewInteger(3),
	})
	if err != nil {
		t.Fatal(err)
	}
	cases := []term.Constant{
		term.NewInteger(0),
		term.NewInteger(-12345),
		term.NewBigInteger(new(big.Int).Lsh(big.NewInt(1), 200)),
		term.NewByteString([]byte{1, 2, 3, 4, 5}),
		term.NewString("hello, core"),
		term.NewBool(true),
		term.NewBool(false),
		term.NewUnit(),
		listConst,
		term.NewPair(term.NewInteger(7), term.NewBool(true)),
		term.NewData(term.NewConstr(0, term.NewDataInt(1), term.NewDataBytes([]byte("x")))),
	}
	for i, c := range cases {
		w := newTestWriter()
		if err := EncodeConstant(w, c); err != nil {
			t.Fatalf("case %d encode: %v", i, err)
		}
		r := newTestReader(w)
		got, err := DecodeConstant(r)
		if err != nil {
			t.Fatalf("case %d decode: %v", i, err)
		}
		if !got.Equal(c) {
			t.Fatalf("case %d: got %s want %s", i, got, c)
		}
	}
}

func TestUnknownTermTag(t *testing.T) {
	w := newTestWriter()
	w.Bits(15, termTagBits)
	r := newTestReader(w)
	_, err := DecodeTerm(r)
	if _, ok := err.(*UnknownTermTagError); !ok {
		t.Fatalf("got %v, want UnknownTermTagError", err)
	}
}

func TestCBORDoubleWrapUnwrap(t *testing.T) {
	inner := []byte{0xde, 0xad, 0xbe, 0xef}
	once := WrapCBORBytes(inner)
	twice := WrapCBORBytes(once)
	got, err := UnwrapCBORBytes(twice)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(inner) {
		t.Fatalf("got %x want %x", got, inner)
	}
}

func TestBuiltinTermRoundTrip(t *testing.T) {
	tm := term.BuiltinTerm[term.DeBruijn](builtin.AddInteger)
	w := newTestWriter()
	if err := EncodeTerm(w, tm); err != nil {
		t.Fatal(err)
	}
	r := newTestReader(w)
	got, err := DecodeTerm(r)
	if err != nil {
		t.Fatal(err)
	}
	if got.Tag != term.TagBuiltin || got.Builtin != builtin.AddInteger {
		t.Fatalf("got %+v", got)
	}
}

func termsEqual(a, b *term.Term[term.DeBruijn]) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case term.TagVar:
		return a.Var.Index == b.Var.Index
	case term.TagDelay:
		return termsEqual(a.Delay, b.Delay)
	case term.TagLambda:
		return termsEqual(a.Lambda, b.Lambda)
	case term.TagApply:
		return termsEqual(a.Fun, b.Fun) && termsEqual(a.Arg, b.Arg)
	case term.TagConstant:
		return a.Const.Equal(*b.Const)
	case term.TagForce:
		return termsEqual(a.Force, b.Force)
	case term.TagError:
		return true
	case term.TagBuiltin:
		return a.Builtin == b.Builtin
	default:
		return false
	}
}
