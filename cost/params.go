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
	"fmt"
	"os"

	"github.com/lumenchain/lumen/builtin"
	"sigs.k8s.io/yaml"
)

// Parameters is the on-disk, human-editable form of a cost model: the
// numeric parameter vector the ledger provides per era (§4.3),
// expressed as named fields rather than a positional array so that a
// protocol-parameters file stays readable. LoadParametersYAML decodes
// this shape with sigs.k8s.io/yaml, the same dependency the teacher's
// go.mod carries but never got to wire (SPEC_FULL.md §2).
type Parameters struct {
	Version   string                `json:"version"`
	StepCosts map[string]ExBudget   `json:"stepCosts"`
	Builtins  map[string]BuiltinCostParams `json:"builtins"`
}

// BuiltinCostParams is the YAML shape of one built-in's CPU and
// memory cost functions.
type BuiltinCostParams struct {
	CPU CostFuncParams `json:"cpu"`
	Mem CostFuncParams `json:"mem"`
}

// CostFuncParams is the YAML shape of a single CostFunc.
type CostFuncParams struct {
	Kind      string `json:"kind"`
	Intercept int64  `json:"intercept"`
	Slope     int64  `json:"slope"`
	Threshold int64  `json:"threshold"`
	Floor     int64  `json:"floor"`
}

var kindNames = map[string]CostFuncKind{
	"constant":               FnConstant,
	"linearInX":              FnLinearInX,
	"linearInY":               FnLinearInY,
	"linearInZ":               FnLinearInZ,
	"linearInMaxYZ":           FnLinearInMaxYZ,
	"linearInXY":              FnLinearInXY,
	"quadraticInY":            FnQuadraticInY,
	"subtractedSizes":         FnSubtractedSizes,
	"literalInYOrLinearInZ":   FnLiteralInYOrLinearInZ,
	"constAboveThreshold":     FnConstAboveThreshold,
}

func (p CostFuncParams) resolve() (CostFunc, error) {
	kind, ok := kindNames[p.Kind]
	if !ok {
		return CostFunc{}, fmt.Errorf("cost: unknown cost function kind %q", p.Kind)
	}
	return CostFunc{
		Kind:      kind,
		Intercept: p.Intercept,
		Slope:     p.Slope,
		Threshold: p.Threshold,
		Floor:     p.Floor,
	}, nil
}

var stepNames = map[string]StepKind{
	"constant": StepConstant,
	"var":      StepVar,
	"lambda":   StepLambda,
	"apply":    StepApply,
	"delay":    StepDelay,
	"force":    StepForce,
	"builtin":  StepBuiltin,
}

// LoadParametersYAML reads a protocol-parameters file and resolves it
// into a Model, starting from DefaultModel(version) and overriding
// only the entries present in the file — a parameters file need not
// repeat every built-in to tweak one.
func LoadParametersYAML(path string) (*Model, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cost: reading parameters: %w", err)
	}
	var p Parameters
	if err := yaml.Unmarshal(buf, &p); err != nil {
		return nil, fmt.Errorf("cost: parsing parameters: %w", err)
	}
	version := PlutusV2
	if p.Version == "PlutusV1" {
		version = PlutusV1
	}
	m := DefaultModel(version)
	for name, b := range p.StepCosts {
		k, ok := stepNames[name]
		if !ok {
			return nil, fmt.Errorf("cost: unknown step kind %q", name)
		}
		m.StepCosts[k] = b
	}
	for name, bc := range p.Builtins {
		tag, ok := builtinByName[name]
		if !ok {
			return nil, fmt.Errorf("cost: unknown builtin %q", name)
		}
		cpu, err := bc.CPU.resolve()
		if err != nil {
			return nil, err
		}
		mem, err := bc.Mem.resolve()
		if err != nil {
			return nil, err
		}
		m.BuiltinCPU[tag] = cpu
		m.BuiltinMem[tag] = mem
	}
	return m, nil
}

var builtinByName = func() map[string]builtin.Tag {
	out := make(map[string]builtin.Tag, builtin.Count)
	for i := 0; i < builtin.Count; i++ {
		out[builtin.Tag(i).String()] = builtin.Tag(i)
	}
	return out
}()
