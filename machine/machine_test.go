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

import (
	"testing"

	"github.com/lumenchain/lumen/builtin"
	"github.com/lumenchain/lumen/cost"
	"github.com/lumenchain/lumen/term"
)

func dbProgram(t *term.Term[term.DeBruijn]) term.Program[term.DeBruijn] {
	return term.Program[term.DeBruijn]{Version: term.Version{Major: 1}, Term: t}
}

// TestIdentity is end-to-end scenario 1 of spec.md §8: (\x.x) 42
// reduces to the constant 42.
func TestIdentity(t *testing.T) {
	body := term.Apply(
		term.Lambda(term.DeBruijn{}, term.Var(term.DeBruijn{Index: 1})),
		term.Const[term.DeBruijn](term.NewInteger(42)),
	)
	res, err := Run(dbProgram(body), cost.DefaultBudget, cost.DefaultModel(cost.PlutusV2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value.Kind != VKCon || res.Value.Con.Integer.Int64() != 42 {
		t.Fatalf("got %v, want constant 42", res.Value)
	}
}

// TestIfThenElseShortCircuit is scenario 2: choosing the False branch
// of an ifThenElse whose True branch is Error must not evaluate Error.
// Builtin arguments are evaluated before the call, so both branches
// are passed delayed and the chosen one is forced afterwards.
func TestIfThenElseShortCircuit(t *testing.T) {
	ite := term.Force[term.DeBruijn](term.BuiltinTerm[term.DeBruijn](builtin.IfThenElse))
	applied := term.Force(term.Apply(term.Apply(term.Apply(ite,
		term.Const[term.DeBruijn](term.NewBool(false))),
		term.Delay(term.Error[term.DeBruijn]())),
		term.Delay(term.Const[term.DeBruijn](term.NewInteger(7)))))

	res, err := Run(dbProgram(applied), cost.DefaultBudget, cost.DefaultModel(cost.PlutusV2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value.Con.Integer.Int64() != 7 {
		t.Fatalf("got %v, want constant 7", res.Value)
	}
}

// TestErrorFails is the companion case: a bare Error term always fails
// evaluation regardless of budget.
func TestErrorFails(t *testing.T) {
	_, err := Run(dbProgram(term.Error[term.DeBruijn]()), cost.DefaultBudget, cost.DefaultModel(cost.PlutusV2))
	if err == nil {
		t.Fatal("expected evaluation failure")
	}
	if _, ok := err.(*EvaluationFailureError); !ok {
		t.Fatalf("got %T, want *EvaluationFailureError", err)
	}
}

// TestOutOfBudget is scenario 3: a diverging self-application (omega)
// exhausts its budget rather than looping forever.
func TestOutOfBudget(t *testing.T) {
	// (\x. x x) (\x. x x)
	selfApp := term.Lambda(term.DeBruijn{}, term.Apply(
		term.Var[term.DeBruijn](term.DeBruijn{Index: 1}),
		term.Var[term.DeBruijn](term.DeBruijn{Index: 1}),
	))
	omega := term.Apply(selfApp, selfApp)

	tiny := cost.ExBudget{CPU: 1000, Mem: 1000}
	_, err := Run(dbProgram(omega), tiny, cost.DefaultModel(cost.PlutusV2))
	if err == nil {
		t.Fatal("expected out-of-budget error")
	}
	if _, ok := err.(*OutOfBudgetError); !ok {
		t.Fatalf("got %T (%v), want *OutOfBudgetError", err, err)
	}
}

// TestTraceLogs is scenario 4: trace("hi", 1) returns 1 and records
// "hi" in the log.
func TestTraceLogs(t *testing.T) {
	tr := term.Force[term.DeBruijn](term.BuiltinTerm[term.DeBruijn](builtin.Trace))
	applied := term.Apply(term.Apply(tr,
		term.Const[term.DeBruijn](term.NewString("hi"))),
		term.Const[term.DeBruijn](term.NewInteger(1)))

	res, err := Run(dbProgram(applied), cost.DefaultBudget, cost.DefaultModel(cost.PlutusV2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value.Con.Integer.Int64() != 1 {
		t.Fatalf("got %v, want constant 1", res.Value)
	}
	if len(res.Logs) != 1 || res.Logs[0] != "hi" {
		t.Fatalf("got logs %v, want [hi]", res.Logs)
	}
}

// TestIntegerArithmetic exercises the two-argument integer builtins
// directly through the machine, including floor vs. truncated
// division semantics.
func TestIntegerArithmetic(t *testing.T) {
	apply2 := func(tag builtin.Tag, a, b int64) *term.Term[term.DeBruijn] {
		return term.Apply(term.Apply(
			term.BuiltinTerm[term.DeBruijn](tag),
			term.Const[term.DeBruijn](term.NewInteger(a))),
			term.Const[term.DeBruijn](term.NewInteger(b)))
	}

	cases := []struct {
		tag  builtin.Tag
		a, b int64
		want int64
	}{
		{builtin.AddInteger, 3, 4, 7},
		{builtin.SubtractInteger, 3, 4, -1},
		{builtin.MultiplyInteger, 3, 4, 12},
		{builtin.DivideInteger, -7, 2, -4},
		{builtin.ModInteger, -7, 2, 1},
		{builtin.QuotientInteger, -7, 2, -3},
		{builtin.RemainderInteger, -7, 2, -1},
	}
	for _, c := range cases {
		res, err := Run(dbProgram(apply2(c.tag, c.a, c.b)), cost.DefaultBudget, cost.DefaultModel(cost.PlutusV2))
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", c.tag, err)
		}
		if got := res.Value.Con.Integer.Int64(); got != c.want {
			t.Fatalf("%v(%d,%d) = %d, want %d", c.tag, c.a, c.b, got, c.want)
		}
	}
}

// TestDivideByZeroFails checks the recoverable-failure path (§7).
func TestDivideByZeroFails(t *testing.T) {
	applied := term.Apply(term.Apply(
		term.BuiltinTerm[term.DeBruijn](builtin.DivideInteger),
		term.Const[term.DeBruijn](term.NewInteger(1))),
		term.Const[term.DeBruijn](term.NewInteger(0)))
	_, err := Run(dbProgram(applied), cost.DefaultBudget, cost.DefaultModel(cost.PlutusV2))
	if _, ok := err.(*EvaluationFailureError); !ok {
		t.Fatalf("got %T (%v), want *EvaluationFailureError", err, err)
	}
}

// TestEqualsData covers the Data constructors and EqualsData builtin.
func TestEqualsData(t *testing.T) {
	mk := func() *term.Term[term.DeBruijn] {
		c := term.Apply(
			term.BuiltinTerm[term.DeBruijn](builtin.IData),
			term.Const[term.DeBruijn](term.NewInteger(42)))
		return c
	}
	applied := term.Apply(term.Apply(
		term.BuiltinTerm[term.DeBruijn](builtin.EqualsData), mk()), mk())
	res, err := Run(dbProgram(applied), cost.DefaultBudget, cost.DefaultModel(cost.PlutusV2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Value.Con.Bool {
		t.Fatalf("expected equal Data values")
	}
}
