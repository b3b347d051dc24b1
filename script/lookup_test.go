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

package script

import (
	"errors"
	"testing"

	"github.com/lumenchain/lumen/term"
)

func TestResolveSpendWithInlineDatum(t *testing.T) {
	var hash [28]byte
	hash[0] = 0xAA
	w := NewWitnesses()
	if err := w.AddScript(hash, alwaysSucceeds(), WitnessScript); err != nil {
		t.Fatal(err)
	}

	datum := term.NewDataInt(7)
	tx := TxInfo{
		Inputs: []ResolvedInput{{ScriptHash: &hash, Datum: &datum}},
		Redeemers: []Redeemer{
			{Purpose: Spend, Index: 0, Data: term.NewDataInt(1)},
		},
	}

	evals, err := Resolve(tx, w)
	if err != nil {
		t.Fatal(err)
	}
	if len(evals) != 1 || len(evals[0].Args) != 2 {
		t.Fatalf("evals = %+v", evals)
	}
}

func TestResolveKeyHashInputIsWrongRedeemerTag(t *testing.T) {
	w := NewWitnesses()
	tx := TxInfo{
		Inputs:    []ResolvedInput{{}},
		Redeemers: []Redeemer{{Purpose: Spend, Index: 0}},
	}
	_, err := Resolve(tx, w)
	var want *WrongRedeemerTagError
	if !errors.As(err, &want) {
		t.Fatalf("expected WrongRedeemerTagError for a key-hash input, got %v", err)
	}
}

func TestResolveMissingDatum(t *testing.T) {
	var hash [28]byte
	hash[0] = 0xBB
	w := NewWitnesses()
	if err := w.AddScript(hash, alwaysSucceeds(), WitnessScript); err != nil {
		t.Fatal(err)
	}
	var datumHash [32]byte
	datumHash[0] = 0xCC
	tx := TxInfo{
		Inputs:    []ResolvedInput{{ScriptHash: &hash, DatumHash: &datumHash}},
		Redeemers: []Redeemer{{Purpose: Spend, Index: 0}},
	}
	_, err := Resolve(tx, w)
	var want *MissingDatumError
	if !errors.As(err, &want) {
		t.Fatalf("expected MissingDatumError, got %v", err)
	}
}

func TestResolveRedeemerPointsToMissingInput(t *testing.T) {
	w := NewWitnesses()
	tx := TxInfo{
		Redeemers: []Redeemer{{Purpose: Spend, Index: 5}},
	}
	_, err := Resolve(tx, w)
	var want *RedeemerPointsToMissingInputError
	if !errors.As(err, &want) {
		t.Fatalf("expected RedeemerPointsToMissingInputError, got %v", err)
	}
}

func TestAddScriptRejectsAmbiguousSource(t *testing.T) {
	var hash [28]byte
	hash[0] = 0x01
	w := NewWitnesses()
	if err := w.AddScript(hash, alwaysSucceeds(), WitnessScript); err != nil {
		t.Fatal(err)
	}
	err := w.AddScript(hash, alwaysSucceeds(), ReferenceScript)
	var want *AmbiguousScriptSourceError
	if !errors.As(err, &want) {
		t.Fatalf("expected AmbiguousScriptSourceError, got %v", err)
	}
}

func TestCheckExUnitsCeiling(t *testing.T) {
	redeemers := []Redeemer{
		{Budget: ExBudgetHint{CPU: 100, Mem: 10}},
		{Budget: ExBudgetHint{CPU: 200, Mem: 20}},
	}
	if err := CheckExUnitsCeiling(redeemers, ExBudgetHint{CPU: 300, Mem: 30}); err != nil {
		t.Fatalf("unexpected error at exact ceiling: %v", err)
	}
	err := CheckExUnitsCeiling(redeemers, ExBudgetHint{CPU: 299, Mem: 30})
	var want *ExUnitsCeilingExceededError
	if !errors.As(err, &want) {
		t.Fatalf("expected ExUnitsCeilingExceededError, got %v", err)
	}
}
