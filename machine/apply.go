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
	"github.com/lumenchain/lumen/builtin"
	"github.com/lumenchain/lumen/term"
)

// applyFun implements "return v into FFun(fun)" and the application
// half of "return v into FArg(arg, env)" (§4.4): fun has already been
// reduced to a value and is now applied to the argument value v.
//
// A non-nil next/nextEnv means the caller should keep computing that
// sub-term; done=true means result is already the final value for
// this frame.
func (m *Machine) applyFun(fun Value, v Value) (next *term.Term[term.DeBruijn], nextEnv *Env, result Value, done bool, err error) {
	switch fun.Kind {
	case VKLambda:
		return fun.Body, fun.Env.Extend(v), Value{}, false, nil

	case VKBuiltin:
		sig := builtin.SignatureOf(fun.BuiltinTag)
		if len(fun.Args) >= sig.Arity {
			return nil, nil, Value{}, false, &NonFunctionalApplicationError{Got: fun}
		}
		args := make([]Value, len(fun.Args)+1)
		copy(args, fun.Args)
		args[len(fun.Args)] = v
		next := Value{Kind: VKBuiltin, BuiltinTag: fun.BuiltinTag, Args: args, Forces: fun.Forces}
		if !next.Saturated() {
			return nil, nil, next, true, nil
		}
		res, err := m.evalBuiltin(next.BuiltinTag, next.Args)
		if err != nil {
			return nil, nil, Value{}, false, err
		}
		return nil, nil, res, true, nil

	default:
		return nil, nil, Value{}, false, &NonFunctionalApplicationError{Got: fun}
	}
}

// applyForce implements "return v into FForce" (§4.4): v has been
// reduced to a value and is now forced.
func (m *Machine) applyForce(v Value) (next *term.Term[term.DeBruijn], nextEnv *Env, result Value, done bool, err error) {
	switch v.Kind {
	case VKDelay:
		return v.Body, v.Env, Value{}, false, nil

	case VKBuiltin:
		sig := builtin.SignatureOf(v.BuiltinTag)
		if v.Forces >= sig.ForceCount {
			return nil, nil, Value{}, false, &NonPolymorphicInstantiationError{}
		}
		next := Value{Kind: VKBuiltin, BuiltinTag: v.BuiltinTag, Args: v.Args, Forces: v.Forces + 1}
		if !next.Saturated() {
			return nil, nil, next, true, nil
		}
		res, err := m.evalBuiltin(next.BuiltinTag, next.Args)
		if err != nil {
			return nil, nil, Value{}, false, err
		}
		return nil, nil, res, true, nil

	default:
		return nil, nil, Value{}, false, &NonPolymorphicInstantiationError{}
	}
}

// evalBuiltin charges the builtin's cost and, if the budget survives,
// dispatches to its handler (§4.3, §4.5).
func (m *Machine) evalBuiltin(t builtin.Tag, args []Value) (Value, error) {
	sizes := make([]int64, len(args))
	for i, a := range args {
		if a.Kind == VKCon {
			sizes[i] = term.Size(*a.Con)
		}
	}
	c, err := m.model.BuiltinCost(t, sizes)
	if err != nil {
		return Value{}, err
	}
	if err := m.charge(c); err != nil {
		return Value{}, err
	}
	return m.callBuiltin(t, args)
}
