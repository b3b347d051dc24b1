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

import "fmt"

// MissingScriptError is raised when a redeemer's purpose points at a
// script hash that does not appear in any witness, reference script,
// or inline script the driver was given (§4.6 step 2, §7).
type MissingScriptError struct{ Hash [28]byte }

func (e *MissingScriptError) Error() string {
	return fmt.Sprintf("script: missing script for hash %x", e.Hash)
}

// MissingDatumError is raised when a Spend redeemer's input carries a
// datum hash that is not resolved by the witness set's datum map or
// by an inline datum on the resolved output (§4.6 step 2, §7).
type MissingDatumError struct{ Hash [32]byte }

func (e *MissingDatumError) Error() string {
	return fmt.Sprintf("script: missing datum for hash %x", e.Hash)
}

// RedeemerPointsToMissingInputError is raised when a Spend redeemer's
// index does not name one of the transaction's resolved inputs (§7).
type RedeemerPointsToMissingInputError struct{ Index uint32 }

func (e *RedeemerPointsToMissingInputError) Error() string {
	return fmt.Sprintf("script: redeemer points to missing input %d", e.Index)
}

// WrongRedeemerTagError is raised when a redeemer's Purpose does not
// match any component of the transaction it was built from (e.g. a
// Mint redeemer whose index exceeds the mint policy list) (§7).
type WrongRedeemerTagError struct {
	Purpose Purpose
	Index   uint32
}

func (e *WrongRedeemerTagError) Error() string {
	return fmt.Sprintf("script: wrong redeemer tag %s at index %d", e.Purpose, e.Index)
}

// ExUnitsCeilingExceededError is raised by CheckExUnitsCeiling when
// the sum of a transaction's declared redeemer ex-units exceeds the
// per-transaction ceiling the ledger enforces before phase two ever
// runs (§4.6 last paragraph, §7).
type ExUnitsCeilingExceededError struct {
	Declared ExBudgetHint
	Ceiling  ExBudgetHint
}

func (e *ExUnitsCeilingExceededError) Error() string {
	return fmt.Sprintf("script: declared ex-units cpu=%d mem=%d exceed ceiling cpu=%d mem=%d",
		e.Declared.CPU, e.Declared.Mem, e.Ceiling.CPU, e.Ceiling.Mem)
}
