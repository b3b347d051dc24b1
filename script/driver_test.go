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
	"testing"

	"github.com/lumenchain/lumen/cost"
	"github.com/lumenchain/lumen/term"
)

// alwaysSucceeds ignores its script-context argument and returns Unit.
func alwaysSucceeds() term.Program[term.DeBruijn] {
	body := term.Lambda(term.DeBruijn{}, term.Const[term.DeBruijn](term.NewUnit()))
	return term.Program[term.DeBruijn]{Version: term.Version{Major: 1}, Term: body}
}

// alwaysFails ignores its argument and raises Error.
func alwaysFails() term.Program[term.DeBruijn] {
	body := term.Lambda(term.DeBruijn{}, term.Error[term.DeBruijn]())
	return term.Program[term.DeBruijn]{Version: term.Version{Major: 1}, Term: body}
}

func TestRunCollectAllMixedOutcomes(t *testing.T) {
	evals := []Eval{
		{Redeemer: Redeemer{Purpose: Spend, Index: 0, Budget: ExBudgetHint{CPU: 1 << 62, Mem: 1 << 62}}, Program: alwaysSucceeds()},
		{Redeemer: Redeemer{Purpose: Mint, Index: 0, Budget: ExBudgetHint{CPU: 1 << 62, Mem: 1 << 62}}, Program: alwaysFails()},
	}
	outcomes, err := Run(evals, TxInfo{}, EvalOptions{
		Budget: cost.DefaultBudget,
		Model:  cost.DefaultModel(cost.PlutusV2),
		Mode:   CollectAll,
	})
	if err == nil {
		t.Fatal("expected an aggregate error since one redeemer fails")
	}
	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	// Spend sorts before Mint (§5 canonical order).
	if outcomes[0].Redeemer.Purpose != Spend || outcomes[0].Err != nil {
		t.Fatalf("outcome 0 = %+v", outcomes[0])
	}
	if outcomes[1].Redeemer.Purpose != Mint || outcomes[1].Err == nil {
		t.Fatalf("outcome 1 = %+v", outcomes[1])
	}
}

func TestRunAllSucceed(t *testing.T) {
	evals := []Eval{
		{Redeemer: Redeemer{Purpose: Spend, Index: 0, Budget: ExBudgetHint{CPU: 1 << 62, Mem: 1 << 62}}, Program: alwaysSucceeds()},
	}
	outcomes, err := Run(evals, TxInfo{}, EvalOptions{
		Budget: cost.DefaultBudget,
		Model:  cost.DefaultModel(cost.PlutusV2),
		Mode:   CollectAll,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcomes[0].Result.Value.Kind != 0 {
		// VKCon is 0; a Unit constant result.
		t.Fatalf("got %v, want a Unit constant", outcomes[0].Result.Value)
	}
	if outcomes[0].RunID == "" {
		t.Fatal("expected a run id to be assigned")
	}
}
