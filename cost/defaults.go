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

import "github.com/lumenchain/lumen/builtin"

// DefaultBudget is a generous default initial budget: 10 billion CPU
// units and 14 million memory units (§4.3).
var DefaultBudget = ExBudget{CPU: 10_000_000_000, Mem: 14_000_000}

// DefaultSlippage is the machine's default step-batching window
// between budget checks (§4.4).
const DefaultSlippage = 200

// DefaultModel returns a baseline cost model for the given protocol
// version: every machine step costs a small fixed amount, and every
// built-in defaults to a cost function appropriate to its usual
// asymptotic cost (constant for comparisons and control flow, linear
// for operations that touch every byte/limb/element of an argument,
// quadratic for the few operations whose native cost genuinely grows
// quadratically). These are placeholder magnitudes: real values come
// from the ledger's published protocol parameters and are loaded with
// LoadParametersYAML.
func DefaultModel(v ProtocolVersion) *Model {
	m := &Model{Version: v}
	step := ExBudget{CPU: 100, Mem: 100}
	for k := StepKind(0); k < numSteps; k++ {
		m.StepCosts[k] = step
	}
	m.StepCosts[StepBuiltin] = ExBudget{CPU: 150, Mem: 100}

	constant := CostFunc{Kind: FnConstant, Intercept: 150}
	linearX := CostFunc{Kind: FnLinearInX, Intercept: 100, Slope: 10}
	linearY := CostFunc{Kind: FnLinearInY, Intercept: 100, Slope: 10}
	linearZ := CostFunc{Kind: FnLinearInZ, Intercept: 100, Slope: 10}
	linearXY := CostFunc{Kind: FnLinearInXY, Intercept: 100, Slope: 10}
	quadY := CostFunc{Kind: FnQuadraticInY, Intercept: 100, Slope: 5}
	subSizes := CostFunc{Kind: FnSubtractedSizes, Intercept: 100, Slope: 10, Floor: 0}

	for i := 0; i < builtin.Count; i++ {
		m.BuiltinCPU[i] = constant
		m.BuiltinMem[i] = constant
	}

	linear := []builtin.Tag{
		builtin.AppendByteString, builtin.AppendString,
		builtin.LengthOfByteString, builtin.EncodeUtf8, builtin.DecodeUtf8,
		builtin.Sha2_256, builtin.Sha3_256, builtin.Blake2b_256,
		builtin.UnConstrData, builtin.UnMapData, builtin.UnListData,
		builtin.UnIData, builtin.UnBData, builtin.ConstrData, builtin.MapData,
		builtin.ListData, builtin.IData, builtin.BData,
	}
	for _, t := range linear {
		m.BuiltinCPU[t] = linearX
		m.BuiltinMem[t] = linearX
	}

	m.BuiltinCPU[builtin.ConsByteString] = linearY
	m.BuiltinMem[builtin.ConsByteString] = linearY
	m.BuiltinCPU[builtin.SliceByteString] = linearZ
	m.BuiltinMem[builtin.SliceByteString] = linearZ
	m.BuiltinCPU[builtin.MkCons] = linearXY
	m.BuiltinMem[builtin.MkCons] = linearXY

	m.BuiltinCPU[builtin.LessThanByteString] = linearXY
	m.BuiltinCPU[builtin.LessThanEqualsByteString] = linearXY
	m.BuiltinCPU[builtin.EqualsByteString] = subSizes
	m.BuiltinMem[builtin.EqualsByteString] = constant

	m.BuiltinCPU[builtin.MultiplyInteger] = quadY
	m.BuiltinMem[builtin.MultiplyInteger] = linearXY

	m.BuiltinCPU[builtin.VerifyEd25519Signature] = linearZ
	m.BuiltinCPU[builtin.VerifyEcdsaSecp256k1Signature] = constant
	m.BuiltinCPU[builtin.VerifySchnorrSecp256k1Signature] = linearZ

	return m
}
