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

// Package script builds the phase-two script evaluation context (the
// information a validator script sees about the transaction it is
// guarding) and drives evaluation of every redeemer a transaction
// carries.
package script

import (
	"bytes"
	"sort"

	"github.com/lumenchain/lumen/cost"
	"github.com/lumenchain/lumen/term"
)

// Purpose classifies why a given redeemer is being run, mirroring the
// four ledger-defined reasons a script can be invoked. Evaluation
// order groups by Purpose first, then by Index within a purpose
// (Spend < Mint < Cert < Withdraw), matching the ledger's own
// redeemer ordering so that script authors can rely on it.
type Purpose uint8

const (
	Spend Purpose = iota
	Mint
	Cert
	Withdraw
)

func (p Purpose) String() string {
	switch p {
	case Spend:
		return "Spend"
	case Mint:
		return "Mint"
	case Cert:
		return "Cert"
	case Withdraw:
		return "Withdraw"
	default:
		return "Purpose(?)"
	}
}

// SlotConfig converts between on-chain slot numbers and POSIX time,
// the piece of ledger configuration a script needs to interpret the
// transaction's validity interval as wall-clock time.
type SlotConfig struct {
	ZeroTime   int64 // POSIX milliseconds of slot 0
	ZeroSlot   uint64
	SlotLength uint64 // milliseconds per slot
}

// SlotToTime converts a slot number to POSIX milliseconds.
func (c SlotConfig) SlotToTime(slot uint64) int64 {
	delta := int64(slot-c.ZeroSlot) * int64(c.SlotLength)
	return c.ZeroTime + delta
}

// TimeToSlot converts POSIX milliseconds to a slot number.
func (c SlotConfig) TimeToSlot(ms int64) uint64 {
	delta := ms - c.ZeroTime
	return c.ZeroSlot + uint64(delta/int64(c.SlotLength))
}

// ResolvedInput pairs a transaction input reference with the output
// it spends, resolved from the UTXO set the caller supplies: the
// script driver itself never performs chain lookups.
type ResolvedInput struct {
	TxHash  [32]byte
	Index   uint32
	Address []byte
	Value   map[string]int64 // asset id -> quantity, "" is the ada policy
	Datum   *term.Data

	// ScriptHash is the payment credential's script hash, already
	// extracted from Address by the caller, or nil if the output is
	// guarded by a key hash instead of a script (§4.6 step 2, "look up
	// the script hash from the spent output's payment part"). Parsing
	// Shelley addresses is the caller's job; the driver only consumes
	// the result.
	ScriptHash *[28]byte

	// DatumHash is the hash of an un-inlined datum attached to this
	// output, used to look it up in the witness set's datum map when
	// Datum itself is nil (§4.6 step 2).
	DatumHash *[32]byte
}

// TxInfo is the subset of transaction body fields a script can see,
// assembled into the Data shape the ledger passes as part of the
// ScriptContext (§6's blueprint feeds scripts that expect this shape
// as their third argument).
type TxInfo struct {
	Inputs       []ResolvedInput
	Outputs      []ResolvedInput
	Fee          int64
	Mint         map[string]int64
	ValidRangeLo *int64 // POSIX ms, nil if unbounded
	ValidRangeHi *int64
	Signatories  [][]byte
	Redeemers    []Redeemer
	ID           [32]byte

	// ReferenceInputs are inputs the transaction reads but does not
	// spend. Only visible to PlutusV2 and later scripts: a PlutusV1
	// script context has no such field (§4.6 step 3, "V1 vs V2 differ
	// in field counts and in whether reference inputs ... are
	// present").
	ReferenceInputs []ResolvedInput

	// Certificates and Withdrawals are already-built Data values for
	// the transaction's certificates and reward-withdrawal amounts;
	// assembling ledger certificate/withdrawal shapes is the caller's
	// job, the driver only places them in the script context.
	Certificates []term.Data
	Withdrawals  map[string]int64 // reward account -> amount

	// Datums is the witness set's datum map: every datum supplied by
	// hash, independent of whether any particular input inlines its
	// own datum (§4.6 step 3, "datum map").
	Datums map[[32]byte]term.Data

	// MintPolicies, CertScripts, and WithdrawScripts name, in
	// redeemer-index order, the script hash each Mint/Cert/Withdraw
	// purpose's index refers to (§4.6 step 2: "from the mint policy,
	// the certificate, or the withdrawal address").
	MintPolicies    [][28]byte
	CertScripts     [][28]byte
	WithdrawScripts [][28]byte
}

// Redeemer is one purpose+index+data triple the transaction supplies
// alongside the script it authorizes.
type Redeemer struct {
	Purpose Purpose
	Index   uint32
	Data    term.Data
	Budget  ExBudgetHint
}

// ExBudgetHint is the ex-units the transaction author declared for a
// redeemer; the driver enforces that actual consumption does not
// exceed it (§5's "ex-units ceiling check").
type ExBudgetHint struct {
	CPU int64
	Mem int64
}

// ScriptContext is the single Data value passed as a validator's
// final argument: purpose-tagged redeemer index plus the TxInfo,
// rendered according to the cost model's protocol version (§4.6 step
// 3's V1/V2 field-count variation).
type ScriptContext struct {
	TxInfo  TxInfo
	Purpose Purpose
	Index   uint32
	Version cost.ProtocolVersion
}

// ToData renders the script context as the Data tree a Plutus script
// actually receives. The exact field layout follows the ledger's
// ScriptContext encoding: Constr 0 [txInfoData, purposeData].
func (c ScriptContext) ToData() term.Data {
	return term.NewConstr(0, c.TxInfo.toData(c.Version), purposeData(c.Purpose, c.Index))
}

// purposeData encodes a purpose+index pair the way the ledger tags a
// ScriptPurpose value, shared by ScriptContext's own purpose field and
// by TxInfo's V2 "required redeemers" map, which keys on the same
// shape (§4.6 step 3).
func purposeData(p Purpose, index uint32) term.Data {
	idx := term.NewDataInt(int64(index))
	switch p {
	case Spend:
		return term.NewConstr(0, idx)
	case Mint:
		return term.NewConstr(1, idx)
	case Cert:
		return term.NewConstr(2, idx)
	default:
		return term.NewConstr(3, idx)
	}
}

// toData assembles the transaction-info Data tree. PlutusV1 omits
// reference inputs and the required-redeemers map entirely; PlutusV2
// carries both (§4.6 step 3).
func (t TxInfo) toData(v cost.ProtocolVersion) term.Data {
	inputs := make([]term.Data, len(t.Inputs))
	for i, in := range t.Inputs {
		inputs[i] = in.toData()
	}
	outputs := make([]term.Data, len(t.Outputs))
	for i, out := range t.Outputs {
		outputs[i] = out.toData()
	}
	sigs := make([]term.Data, len(t.Signatories))
	for i, s := range t.Signatories {
		sigs[i] = term.NewDataBytes(s)
	}
	var lo, hi int64
	if t.ValidRangeLo != nil {
		lo = *t.ValidRangeLo
	}
	if t.ValidRangeHi != nil {
		hi = *t.ValidRangeHi
	}

	fields := make([]term.Data, 0, 12)
	fields = append(fields, term.NewDataList(inputs...))
	if v == cost.PlutusV2 {
		refInputs := make([]term.Data, len(t.ReferenceInputs))
		for i, in := range t.ReferenceInputs {
			refInputs[i] = in.toData()
		}
		fields = append(fields, term.NewDataList(refInputs...))
	}
	fields = append(fields,
		term.NewDataList(outputs...),
		term.NewDataInt(t.Fee),
		t.mintData(),
		term.NewDataList(t.Certificates...),
		t.withdrawalsData(),
		term.NewDataInt(lo),
		term.NewDataInt(hi),
		term.NewDataList(sigs...),
		t.datumMapData(),
	)
	if v == cost.PlutusV2 {
		fields = append(fields, t.redeemersData())
	}
	fields = append(fields, term.NewDataBytes(t.ID[:]))
	return term.NewConstr(0, fields...)
}

// sortedAmountMapData renders a reward-account/asset-id keyed amount
// map as a Data map with keys sorted lexicographically, so that two
// TxInfo values with the same contents produce identical encodings
// regardless of Go map iteration order (Constant/Data equality and
// the script context a validator sees must not depend on map
// iteration, which Go deliberately randomizes).
func sortedAmountMapData(m map[string]int64) term.Data {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]term.KV, len(keys))
	for i, k := range keys {
		pairs[i] = term.KV{Key: term.NewDataBytes([]byte(k)), Value: term.NewDataInt(m[k])}
	}
	return term.NewDataMap(pairs...)
}

func (t TxInfo) mintData() term.Data {
	return sortedAmountMapData(t.Mint)
}

func (t TxInfo) withdrawalsData() term.Data {
	return sortedAmountMapData(t.Withdrawals)
}

// datumMapData renders the witness set's datum map, hashes sorted so
// the encoding does not depend on Go map iteration order.
func (t TxInfo) datumMapData() term.Data {
	keys := make([][32]byte, 0, len(t.Datums))
	for k := range t.Datums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i][:], keys[j][:]) < 0 })
	pairs := make([]term.KV, len(keys))
	for i, k := range keys {
		pairs[i] = term.KV{Key: term.NewDataBytes(k[:]), Value: term.NewData(t.Datums[k])}
	}
	return term.NewDataMap(pairs...)
}

// redeemersData renders the V2 "required redeemers" map: every
// redeemer the transaction carries, keyed by its purpose+index, in
// canonical (Purpose, Index) order so the encoding is deterministic
// independent of the caller's Redeemers slice order (§4.6 step 3,
// §5's canonical evaluation order).
func (t TxInfo) redeemersData() term.Data {
	rs := make([]Redeemer, len(t.Redeemers))
	copy(rs, t.Redeemers)
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Purpose != rs[j].Purpose {
			return rs[i].Purpose < rs[j].Purpose
		}
		return rs[i].Index < rs[j].Index
	})
	pairs := make([]term.KV, len(rs))
	for i, r := range rs {
		pairs[i] = term.KV{Key: purposeData(r.Purpose, r.Index), Value: term.NewData(r.Data)}
	}
	return term.NewDataMap(pairs...)
}

func (r ResolvedInput) toData() term.Data {
	datum := term.NewConstr(1) // DatumHash/NoDatum elided in this shape
	if r.Datum != nil {
		datum = term.NewConstr(0, *r.Datum)
	}
	return term.NewConstr(0,
		term.NewDataBytes(r.TxHash[:]),
		term.NewDataInt(int64(r.Index)),
		term.NewDataBytes(r.Address),
		datum,
	)
}
