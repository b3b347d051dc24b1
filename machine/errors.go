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
	"fmt"

	"github.com/lumenchain/lumen/cost"
	"github.com/lumenchain/lumen/term"
)

// NonPolymorphicInstantiationError is raised when Force is applied to
// a value that is neither a VDelay nor an under-forced VBuiltin (§4.4
// last row, §7).
type NonPolymorphicInstantiationError struct{}

func (e *NonPolymorphicInstantiationError) Error() string {
	return "machine: non-polymorphic instantiation"
}

// NonFunctionalApplicationError is raised when the function side of
// an Apply reduces to something other than a lambda or a builtin.
type NonFunctionalApplicationError struct{ Got Value }

func (e *NonFunctionalApplicationError) Error() string {
	return fmt.Sprintf("machine: non-functional application of %v", e.Got)
}

// TypeMismatchError is raised by a built-in handler when an argument
// does not have the expected constant type.
type TypeMismatchError struct {
	Builtin  string
	Expected term.Type
	Got      term.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("machine: %s: type mismatch: expected %s, got %s", e.Builtin, e.Expected, e.Got)
}

// BuiltinTermArgumentExpectedError is the §7 error kind for a Force
// applied to a builtin that expects a term argument next. The machine
// does not raise it: applyForce reports a Force on a builtin with no
// forces left as NonPolymorphicInstantiationError.
type BuiltinTermArgumentExpectedError struct{}

func (e *BuiltinTermArgumentExpectedError) Error() string {
	return "machine: builtin term argument expected"
}

// UnexpectedBuiltinTermArgumentError is the §7 error kind for a term
// argument supplied to a builtin that still expects a Force. The
// machine does not raise it: applyFun accepts term arguments before
// the forces, and the builtin runs once both counts are complete.
type UnexpectedBuiltinTermArgumentError struct{}

func (e *UnexpectedBuiltinTermArgumentError) Error() string {
	return "machine: unexpected builtin term argument"
}

// EvaluationFailureError represents script-level failure: either the
// literal Error term, or a recoverable built-in domain violation such
// as integer division by zero (§4.4, §7 — "recoverable on-chain
// semantics: the script fails but the machine state is consistent").
type EvaluationFailureError struct{ Reason string }

func (e *EvaluationFailureError) Error() string {
	if e.Reason == "" {
		return "machine: evaluation failure"
	}
	return "machine: evaluation failure: " + e.Reason
}

// OutOfBudgetError is raised when either resource ledger goes
// negative, with the overshoot preserved for reporting (§4.3, §7).
type OutOfBudgetError struct{ Overshoot cost.ExBudget }

func (e *OutOfBudgetError) Error() string {
	return fmt.Sprintf("machine: out of budget, overshoot cpu=%d mem=%d", e.Overshoot.CPU, e.Overshoot.Mem)
}
