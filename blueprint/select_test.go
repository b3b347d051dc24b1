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

package blueprint

import (
	"errors"
	"testing"

	"github.com/lumenchain/lumen/term"
)

func TestSelectAppliesToTheOneMatch(t *testing.T) {
	bp := New("test", "v2")
	v := identityValidator(t)
	v.Purpose = PurposeSpend
	if _, err := bp.WithValidator(v); err != nil {
		t.Fatal(err)
	}

	applied, err := bp.Select("identity", PurposeSpend, func(v Validator) (Validator, error) {
		return Apply(v, []term.Constant{term.NewInteger(1)})
	})
	if err != nil {
		t.Fatal(err)
	}
	if applied.Hash == v.Hash {
		t.Fatal("expected Select's callback to change the stored validator")
	}
	if bp.Validators[0].Hash != applied.Hash {
		t.Fatal("expected Select to write the transformed validator back into the blueprint")
	}
}

func TestSelectNoMatchIsNoValidatorError(t *testing.T) {
	bp := New("test", "v2")
	_, err := bp.Select("missing", "", func(v Validator) (Validator, error) { return v, nil })
	var nv *NoValidatorError
	if !errors.As(err, &nv) {
		t.Fatalf("expected NoValidatorError, got %v", err)
	}
}

func TestSelectAmbiguousMatchIsError(t *testing.T) {
	bp := New("test", "v2")
	a, b := identityValidator(t), identityValidator(t)
	a.Purpose, b.Purpose = PurposeSpend, PurposeMint
	if _, err := bp.WithValidator(a); err != nil {
		t.Fatal(err)
	}
	if _, err := bp.WithValidator(b); err != nil {
		t.Fatal(err)
	}

	_, err := bp.Select("identity", "", func(v Validator) (Validator, error) { return v, nil })
	var amb *AmbiguousValidatorError
	if !errors.As(err, &amb) {
		t.Fatalf("expected AmbiguousValidatorError, got %v", err)
	}
	if amb.Matches != 2 {
		t.Fatalf("Matches = %d, want 2", amb.Matches)
	}
}
