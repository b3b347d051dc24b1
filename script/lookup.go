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
	"fmt"

	"github.com/lumenchain/lumen/term"
)

// ScriptSource names which part of a transaction contributed a given
// script to the lookup table (§4.6 step 2: "reference-script
// witnesses, script witnesses in the transaction, and inline-scripts
// in resolved outputs").
type ScriptSource uint8

const (
	WitnessScript ScriptSource = iota
	ReferenceScript
	InlineScript
)

func (s ScriptSource) String() string {
	switch s {
	case WitnessScript:
		return "witness"
	case ReferenceScript:
		return "reference"
	case InlineScript:
		return "inline"
	default:
		return "unknown"
	}
}

// scriptEntry is one hash's resolved program, tagged with where it
// came from so AddScript can reject a hash supplied redundantly by
// more than one source.
type scriptEntry struct {
	program term.Program[term.DeBruijn]
	source  ScriptSource
}

// AmbiguousScriptSourceError is raised when the same script hash is
// registered from more than one source (§4.6 step 2: "every script is
// referenced by at most one of script-witness/inline/reference").
type AmbiguousScriptSourceError struct {
	Hash   [28]byte
	First  ScriptSource
	Second ScriptSource
}

func (e *AmbiguousScriptSourceError) Error() string {
	return fmt.Sprintf("script: hash %x supplied by both %s and %s", e.Hash, e.First, e.Second)
}

// Witnesses is the lookup table the driver builds once per
// transaction: every script the transaction makes available (by
// witness, reference input, or inline on a resolved output) and every
// datum the witness set or an inline output datum supplies (§4.6 step
// 2).
type Witnesses struct {
	scripts map[[28]byte]scriptEntry
	datums  map[[32]byte]term.Data
}

// NewWitnesses returns an empty Witnesses table.
func NewWitnesses() *Witnesses {
	return &Witnesses{
		scripts: make(map[[28]byte]scriptEntry),
		datums:  make(map[[32]byte]term.Data),
	}
}

// AddScript registers a script under hash from source. Registering the
// same hash twice from different sources is an error even if the
// programs are identical: the ledger rule this checks for is about
// the transaction's witness structure being unambiguous, not about
// the decoded program.
func (w *Witnesses) AddScript(hash [28]byte, p term.Program[term.DeBruijn], source ScriptSource) error {
	if existing, ok := w.scripts[hash]; ok {
		return &AmbiguousScriptSourceError{Hash: hash, First: existing.source, Second: source}
	}
	w.scripts[hash] = scriptEntry{program: p, source: source}
	return nil
}

// AddDatum registers a datum under its hash, as supplied by the
// transaction's witness set.
func (w *Witnesses) AddDatum(hash [32]byte, d term.Data) {
	w.datums[hash] = d
}

// Resolve performs §4.6 steps 1-2 for every redeemer in tx.Redeemers:
// classify its purpose, locate its script in w, and (for Spend) its
// datum either from the witness datum map or an inline datum on the
// resolved input. The returned Evals are not yet in canonical
// evaluation order; Run sorts them itself.
func Resolve(tx TxInfo, w *Witnesses) ([]Eval, error) {
	evals := make([]Eval, 0, len(tx.Redeemers))
	for _, r := range tx.Redeemers {
		hash, err := scriptHashFor(tx, r)
		if err != nil {
			return nil, err
		}
		entry, ok := w.scripts[hash]
		if !ok {
			return nil, &MissingScriptError{Hash: hash}
		}

		var args []term.Constant
		if r.Purpose == Spend {
			datum, err := datumFor(tx, r, w)
			if err != nil {
				return nil, err
			}
			args = append(args, term.NewData(datum))
		}
		args = append(args, term.NewData(r.Data))

		evals = append(evals, Eval{
			Redeemer: r,
			Program:  entry.program,
			Args:     args,
		})
	}
	return evals, nil
}

// scriptHashFor implements §4.6 step 2's "look up the script hash"
// for a single redeemer, per its Purpose.
func scriptHashFor(tx TxInfo, r Redeemer) ([28]byte, error) {
	switch r.Purpose {
	case Spend:
		if int(r.Index) >= len(tx.Inputs) {
			return [28]byte{}, &RedeemerPointsToMissingInputError{Index: r.Index}
		}
		in := tx.Inputs[r.Index]
		if in.ScriptHash == nil {
			return [28]byte{}, &WrongRedeemerTagError{Purpose: r.Purpose, Index: r.Index}
		}
		return *in.ScriptHash, nil
	case Mint:
		if int(r.Index) >= len(tx.MintPolicies) {
			return [28]byte{}, &WrongRedeemerTagError{Purpose: r.Purpose, Index: r.Index}
		}
		return tx.MintPolicies[r.Index], nil
	case Cert:
		if int(r.Index) >= len(tx.CertScripts) {
			return [28]byte{}, &WrongRedeemerTagError{Purpose: r.Purpose, Index: r.Index}
		}
		return tx.CertScripts[r.Index], nil
	case Withdraw:
		if int(r.Index) >= len(tx.WithdrawScripts) {
			return [28]byte{}, &WrongRedeemerTagError{Purpose: r.Purpose, Index: r.Index}
		}
		return tx.WithdrawScripts[r.Index], nil
	default:
		return [28]byte{}, &WrongRedeemerTagError{Purpose: r.Purpose, Index: r.Index}
	}
}

// datumFor implements §4.6 step 2's datum resolution for a Spend
// redeemer: an inline datum on the resolved input wins; otherwise the
// input's declared datum hash must resolve against the witness set's
// datum map.
func datumFor(tx TxInfo, r Redeemer, w *Witnesses) (term.Data, error) {
	in := tx.Inputs[r.Index]
	if in.Datum != nil {
		return *in.Datum, nil
	}
	if in.DatumHash == nil {
		return term.Data{}, &MissingDatumError{}
	}
	d, ok := w.datums[*in.DatumHash]
	if !ok {
		return term.Data{}, &MissingDatumError{Hash: *in.DatumHash}
	}
	return d, nil
}
