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

// Package blueprint implements the CIP-0057-style manifest that
// describes a set of compiled validators: their parameter/redeemer/
// datum schemas, their compiled flat-encoded programs, and the
// script hashes and addresses derived from them (§6).
package blueprint

import (
	"encoding/hex"
	"fmt"

	"github.com/lumenchain/lumen/flat"
	"github.com/lumenchain/lumen/term"
	"golang.org/x/exp/slices"
)

// Blueprint is the top-level manifest document.
type Blueprint struct {
	Preamble    Preamble           `json:"preamble"`
	Validators  []Validator        `json:"validators"`
	Definitions map[string]Schema  `json:"definitions,omitempty"`
}

// Preamble carries the plan-level metadata every blueprint starts
// with.
type Preamble struct {
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Version       string `json:"version"`
	PlutusVersion string `json:"plutusVersion"`
	License       string `json:"license,omitempty"`
}

// ArgSchema names and types one validator argument (a parameter,
// datum, or redeemer).
type ArgSchema struct {
	Title  string `json:"title,omitempty"`
	Schema Schema `json:"schema"`
}

// Schema is a minimal JSON-schema-like description of a Data shape:
// enough to say "this is a Constr with these indexed fields" or "this
// is an integer/bytes/list/map", without attempting the full
// CIP-0057 schema language.
type Schema struct {
	DataType string   `json:"dataType,omitempty"`
	Index    *int     `json:"index,omitempty"`
	Fields   []Schema `json:"fields,omitempty"`
	Items    *Schema  `json:"items,omitempty"`
	Keys     *Schema  `json:"keys,omitempty"`
	Values   *Schema  `json:"values,omitempty"`
	Ref      string   `json:"$ref,omitempty"`
}

// Purpose names which ledger action a validator authorizes (§4.7).
type Purpose string

const (
	PurposeSpend    Purpose = "spend"
	PurposeMint     Purpose = "mint"
	PurposeWithdraw Purpose = "withdraw"
	PurposePublish  Purpose = "publish"
)

// Validator is one compiled script entry.
type Validator struct {
	Title        string      `json:"title"`
	Description  string      `json:"description,omitempty"`
	Purpose      Purpose     `json:"purpose,omitempty"`
	Parameters   []ArgSchema `json:"parameters,omitempty"`
	Datum        *ArgSchema  `json:"datum,omitempty"`
	Redeemer     *ArgSchema  `json:"redeemer,omitempty"`
	CompiledCode string      `json:"compiledCode"`
	Hash         string      `json:"hash"`
}

// New creates an empty blueprint with the given title and target
// Plutus ledger language version (e.g. "v2").
func New(title, plutusVersion string) *Blueprint {
	return &Blueprint{Preamble: Preamble{Title: title, PlutusVersion: plutusVersion}}
}

// WithValidator appends v (after computing its hash if empty) and
// returns b, so callers can chain several additions.
func (b *Blueprint) WithValidator(v Validator) (*Blueprint, error) {
	if v.Hash == "" {
		h, err := hashCompiledCode(v.CompiledCode)
		if err != nil {
			return nil, fmt.Errorf("blueprint: %s: %w", v.Title, err)
		}
		v.Hash = hex.EncodeToString(h[:])
	}
	b.Validators = append(b.Validators, v)
	return b, nil
}

// decodeProgram parses a validator's hex-encoded, flat-wrapped
// compiled code into a de Bruijn program.
func decodeProgram(compiledCodeHex string) (term.Program[term.DeBruijn], error) {
	raw, err := hex.DecodeString(compiledCodeHex)
	if err != nil {
		return term.Program[term.DeBruijn]{}, fmt.Errorf("blueprint: invalid hex: %w", err)
	}
	unwrapped, err := flat.UnwrapCBORBytes(raw)
	if err != nil {
		return term.Program[term.DeBruijn]{}, err
	}
	return flat.DecodeProgram(unwrapped)
}

func encodeProgram(p term.Program[term.DeBruijn]) (string, error) {
	enc, err := flat.EncodeProgram(p)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(flat.WrapCBORBytes(enc)), nil
}

// Apply partially applies params (in order) to a parameterized
// validator's compiled term, re-encoding CompiledCode and recomputing
// Hash. This is how a blueprint generated for a validator that takes
// compile-time parameters gets turned into the validator for one
// specific parameter instantiation (§6, "apply").
func Apply(v Validator, params []term.Constant) (Validator, error) {
	prog, err := decodeProgram(v.CompiledCode)
	if err != nil {
		return Validator{}, err
	}
	t := prog.Term
	for _, p := range params {
		t = term.Apply(t, term.Const[term.DeBruijn](p))
	}
	prog.Term = t

	code, err := encodeProgram(prog)
	if err != nil {
		return Validator{}, err
	}
	out := v
	out.CompiledCode = code
	if len(v.Parameters) >= len(params) {
		// Clone rather than reslice: out.Parameters must not alias v's
		// backing array, since callers may keep v around and later
		// Apply it again with a different param count.
		out.Parameters = slices.Clone(v.Parameters[len(params):])
	} else {
		out.Parameters = nil
	}
	h, err := hashCompiledCode(code)
	if err != nil {
		return Validator{}, err
	}
	out.Hash = hex.EncodeToString(h[:])
	return out, nil
}
