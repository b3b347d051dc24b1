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

// Package cost implements the deterministic cost model the CEK
// machine charges against: per-machine-step costs, per-builtin cost
// functions, and the CPU/memory budget ledger itself (§4.3).
package cost

import (
	"fmt"

	"github.com/lumenchain/lumen/builtin"
)

// ExBudget is the pair of scalar resource ledgers the machine
// maintains, stored as signed 64-bit counters (§4.3, §9 open
// question: "an implementation may use 128-bit internally but must
// saturate at the 64-bit boundary for reporting" — lumen accumulates
// directly in int64, since the budgets in play never approach the
// boundary).
type ExBudget struct {
	CPU int64
	Mem int64
}

// Add returns the pointwise sum of two budgets.
func (b ExBudget) Add(o ExBudget) ExBudget { return ExBudget{CPU: b.CPU + o.CPU, Mem: b.Mem + o.Mem} }

// Sub returns the pointwise difference b - o.
func (b ExBudget) Sub(o ExBudget) ExBudget { return ExBudget{CPU: b.CPU - o.CPU, Mem: b.Mem - o.Mem} }

// Negative reports whether either ledger has gone below zero.
func (b ExBudget) Negative() bool { return b.CPU < 0 || b.Mem < 0 }

// Overshoot returns the amount by which a negative budget has gone
// below zero, in each dimension (zero if that dimension is
// non-negative). It is preserved for OutOfBudget reporting (§7).
func (b ExBudget) Overshoot() ExBudget {
	o := ExBudget{}
	if b.CPU < 0 {
		o.CPU = -b.CPU
	}
	if b.Mem < 0 {
		o.Mem = -b.Mem
	}
	return o
}

// StepKind discriminates the seven CEK machine step kinds that each
// carry their own fixed cost (§4.3).
type StepKind uint8

const (
	StepConstant StepKind = iota
	StepVar
	StepLambda
	StepApply
	StepDelay
	StepForce
	StepBuiltin
	numSteps
)

// ProtocolVersion selects the cost-model parameter schema and
// available built-in set (§4.3).
type ProtocolVersion uint8

const (
	PlutusV1 ProtocolVersion = iota
	PlutusV2
)

func (v ProtocolVersion) String() string {
	switch v {
	case PlutusV1:
		return "PlutusV1"
	case PlutusV2:
		return "PlutusV2"
	default:
		return "PlutusV?"
	}
}

// Model is the fully-resolved cost model for one protocol version: a
// per-step cost table plus a per-builtin CPU and memory cost function.
type Model struct {
	Version    ProtocolVersion
	StepCosts  [numSteps]ExBudget
	BuiltinCPU [builtin.Count]CostFunc
	BuiltinMem [builtin.Count]CostFunc
}

// StepCost returns the fixed cost of taking a machine step of kind k.
func (m *Model) StepCost(k StepKind) ExBudget {
	if k >= numSteps {
		return ExBudget{}
	}
	return m.StepCosts[k]
}

// BuiltinCost evaluates the CPU and memory cost of applying the
// built-in t to arguments whose Size()s are argSizes, in argument
// order (§4.3).
func (m *Model) BuiltinCost(t builtin.Tag, argSizes []int64) (ExBudget, error) {
	if !t.Valid() {
		return ExBudget{}, fmt.Errorf("cost: unknown builtin %v", t)
	}
	cpu, err := m.BuiltinCPU[t].Eval(argSizes)
	if err != nil {
		return ExBudget{}, err
	}
	mem, err := m.BuiltinMem[t].Eval(argSizes)
	if err != nil {
		return ExBudget{}, err
	}
	return ExBudget{CPU: cpu, Mem: mem}, nil
}
