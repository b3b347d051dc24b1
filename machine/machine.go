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
	"github.com/lumenchain/lumen/cost"
	"github.com/lumenchain/lumen/term"
)

// frameKind discriminates the three continuation frame shapes (§4.4).
type frameKind uint8

const (
	frameArg frameKind = iota
	frameFun
	frameForce
)

// frame is one entry of the kontinuation stack.
type frame struct {
	kind frameKind

	// frameArg
	argTerm *term.Term[term.DeBruijn]
	argEnv  *Env

	// frameFun
	fun Value
}

// Result is the outcome of a successful machine run: the returned
// value, the remaining budget, and whatever the script traced.
type Result struct {
	Value     Value
	Remaining cost.ExBudget
	Logs      []string
}

// Machine holds the mutable state of a single evaluation: its
// remaining budget, the cost model it charges against, and its log
// buffer. One Machine corresponds to one script evaluation (§5); it
// is not safe for concurrent use, but independent Machines share no
// state and may run in parallel.
type Machine struct {
	model    *cost.Model
	budget   cost.ExBudget
	spent    cost.ExBudget
	slippage int
	sinceChk int
	logs     *logBuffer
}

// New creates a Machine with the given initial budget and cost model.
func New(budget cost.ExBudget, model *cost.Model) *Machine {
	return &Machine{
		model:    model,
		budget:   budget,
		slippage: cost.DefaultSlippage,
		logs:     newLogBuffer(),
	}
}

// charge accounts c against the budget, batching the negativity check
// every `slippage` charges to amortize the comparison (§4.4,
// "slippage"). The final reported budget is always exact regardless
// of the batching window.
func (m *Machine) charge(c cost.ExBudget) error {
	m.spent = m.spent.Add(c)
	m.sinceChk++
	if m.sinceChk >= m.slippage {
		return m.flush()
	}
	return nil
}

func (m *Machine) flush() error {
	m.budget = m.budget.Sub(m.spent)
	m.spent = cost.ExBudget{}
	m.sinceChk = 0
	if m.budget.Negative() {
		return &OutOfBudgetError{Overshoot: m.budget.Overshoot()}
	}
	return nil
}

// Run evaluates p to completion (or to a machine error / out of
// budget / evaluation failure), returning the final value, the exact
// remaining budget, and the accumulated trace log (§4.4).
func Run(p term.Program[term.DeBruijn], budget cost.ExBudget, model *cost.Model) (Result, error) {
	m := New(budget, model)
	v, err := m.run(p.Term, nil)
	if err != nil {
		return Result{}, err
	}
	if err := m.flush(); err != nil {
		return Result{}, err
	}
	return Result{Value: v, Remaining: m.budget, Logs: append([]string(nil), m.logs.entries...)}, nil
}

// run is the Compute/Return driver loop (§4.4's state table),
// expressed iteratively over an explicit kontinuation stack so that
// deeply right-nested applications don't consume Go call stack.
func (m *Machine) run(start *term.Term[term.DeBruijn], startEnv *Env) (Value, error) {
	var stack []frame
	t := start
	env := startEnv
	computing := true
	var v Value

	for {
		if computing {
			switch t.Tag {
			case term.TagVar:
				if err := m.charge(m.model.StepCost(cost.StepVar)); err != nil {
					return Value{}, err
				}
				val, ok := env.At(t.Var.Index)
				if !ok {
					return Value{}, &NonPolymorphicInstantiationError{}
				}
				v, computing = val, false

			case term.TagLambda:
				if err := m.charge(m.model.StepCost(cost.StepLambda)); err != nil {
					return Value{}, err
				}
				v, computing = VLambda(t.Lambda, env), false

			case term.TagDelay:
				if err := m.charge(m.model.StepCost(cost.StepDelay)); err != nil {
					return Value{}, err
				}
				v, computing = VDelay(t.Delay, env), false

			case term.TagConstant:
				if err := m.charge(m.model.StepCost(cost.StepConstant)); err != nil {
					return Value{}, err
				}
				v, computing = VCon(*t.Const), false

			case term.TagError:
				return Value{}, &EvaluationFailureError{}

			case term.TagBuiltin:
				if err := m.charge(m.model.StepCost(cost.StepBuiltin)); err != nil {
					return Value{}, err
				}
				v, computing = VBuiltin(t.Builtin), false

			case term.TagApply:
				stack = append(stack, frame{kind: frameArg, argTerm: t.Arg, argEnv: env})
				t = t.Fun
				// computing stays true, descend into the function side

			case term.TagForce:
				stack = append(stack, frame{kind: frameForce})
				t = t.Force
				// computing stays true, descend into the forced term

			default:
				return Value{}, &NonFunctionalApplicationError{Got: v}
			}
			continue
		}

		if len(stack) == 0 {
			return v, nil
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch top.kind {
		case frameArg:
			// Return v into FArg(arg, env): evaluate the argument next,
			// remembering v (the function) in an FFun frame (§4.4).
			if err := m.charge(m.model.StepCost(cost.StepApply)); err != nil {
				return Value{}, err
			}
			stack = append(stack, frame{kind: frameFun, fun: v})
			t, env, computing = top.argTerm, top.argEnv, true

		case frameFun:
			// Return v into FFun(fun): apply fun to the argument v.
			next, nextEnv, result, done, err := m.applyFun(top.fun, v)
			if err != nil {
				return Value{}, err
			}
			if done {
				v = result
			} else {
				t, env, computing = next, nextEnv, true
			}

		case frameForce:
			if err := m.charge(m.model.StepCost(cost.StepForce)); err != nil {
				return Value{}, err
			}
			next, nextEnv, result, done, err := m.applyForce(v)
			if err != nil {
				return Value{}, err
			}
			if done {
				v = result
			} else {
				t, env, computing = next, nextEnv, true
			}
		}
	}
}
