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

package cost

import (
	"path/filepath"
	"testing"

	"github.com/lumenchain/lumen/builtin"
)

func TestBudgetSubtractAndOvershoot(t *testing.T) {
	b := ExBudget{CPU: 10, Mem: 10}
	b = b.Sub(ExBudget{CPU: 15, Mem: 3})
	if !b.Negative() {
		t.Fatalf("expected negative budget, got %+v", b)
	}
	if got := b.Overshoot(); got != (ExBudget{CPU: 5, Mem: 0}) {
		t.Fatalf("overshoot = %+v", got)
	}
}

func TestDefaultModelBuiltinCost(t *testing.T) {
	m := DefaultModel(PlutusV2)
	c, err := m.BuiltinCost(builtin.AddInteger, []int64{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if c.CPU <= 0 || c.Mem <= 0 {
		t.Fatalf("expected positive cost, got %+v", c)
	}
}

func TestBuiltinCostMissingArgument(t *testing.T) {
	m := DefaultModel(PlutusV2)
	_, err := m.BuiltinCost(builtin.ConsByteString, nil)
	if err == nil {
		t.Fatal("expected error for missing argument size")
	}
}

func TestLoadParametersYAMLOverride(t *testing.T) {
	m, err := LoadParametersYAML(filepath.Join("testdata", "params.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if m.StepCosts[StepApply] != (ExBudget{CPU: 23000, Mem: 100}) {
		t.Fatalf("step override not applied: %+v", m.StepCosts[StepApply])
	}
	c, err := m.BuiltinCost(builtin.AddInteger, []int64{2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if c.CPU != 205 {
		t.Fatalf("builtin override not applied: got %d", c.CPU)
	}
}
