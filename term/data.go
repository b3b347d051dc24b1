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

package term

import (
	"fmt"
	"math/big"
	"strings"
)

// DataTag discriminates the Data sum type (§3).
type DataTag uint8

const (
	DConstr DataTag = iota
	DMap
	DList
	DInt
	DBytes
)

// KV is a key/value pair within a Data Map. Order is significant: the
// ledger CBOR shape preserves map insertion order rather than sorting
// it.
type KV struct {
	Key, Value Data
}

// Data is the recursive tree carried by a Data constant. It is the
// value passed as the script context and as datums/redeemers (§3).
type Data struct {
	Tag DataTag

	// Constr
	ConstrTag uint64
	Fields    []Data

	// Map
	Pairs []KV

	// List
	Items []Data

	// Int
	Int *big.Int

	// Bytes
	Bytes []byte
}

// NewConstr builds a Constr Data node.
func NewConstr(tag uint64, fields ...Data) Data {
	return Data{Tag: DConstr, ConstrTag: tag, Fields: fields}
}

// NewDataMap builds a Map Data node.
func NewDataMap(pairs ...KV) Data { return Data{Tag: DMap, Pairs: pairs} }

// NewDataList builds a List Data node.
func NewDataList(items ...Data) Data { return Data{Tag: DList, Items: items} }

// NewDataInt builds an Int Data node.
func NewDataInt(v int64) Data { return Data{Tag: DInt, Int: big.NewInt(v)} }

// NewDataBigInt builds an Int Data node from a big.Int.
func NewDataBigInt(v *big.Int) Data { return Data{Tag: DInt, Int: new(big.Int).Set(v)} }

// NewDataBytes builds a Bytes Data node.
func NewDataBytes(b []byte) Data { return Data{Tag: DBytes, Bytes: b} }

func (d *Data) String() string {
	if d == nil {
		return "<nil>"
	}
	switch d.Tag {
	case DConstr:
		parts := make([]string, len(d.Fields))
		for i := range d.Fields {
			parts[i] = d.Fields[i].String()
		}
		return fmt.Sprintf("Constr(%d, [%s])", d.ConstrTag, strings.Join(parts, ", "))
	case DMap:
		parts := make([]string, len(d.Pairs))
		for i, kv := range d.Pairs {
			parts[i] = kv.Key.String() + ": " + kv.Value.String()
		}
		return "Map{" + strings.Join(parts, ", ") + "}"
	case DList:
		parts := make([]string, len(d.Items))
		for i := range d.Items {
			parts[i] = d.Items[i].String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case DInt:
		return d.Int.String()
	case DBytes:
		return fmt.Sprintf("#%x", d.Bytes)
	default:
		return "?"
	}
}

// Equal reports structural equality between two Data trees.
func (d *Data) Equal(o *Data) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.Tag != o.Tag {
		return false
	}
	switch d.Tag {
	case DConstr:
		if d.ConstrTag != o.ConstrTag || len(d.Fields) != len(o.Fields) {
			return false
		}
		for i := range d.Fields {
			if !d.Fields[i].Equal(&o.Fields[i]) {
				return false
			}
		}
		return true
	case DMap:
		if len(d.Pairs) != len(o.Pairs) {
			return false
		}
		for i := range d.Pairs {
			if !d.Pairs[i].Key.Equal(&o.Pairs[i].Key) || !d.Pairs[i].Value.Equal(&o.Pairs[i].Value) {
				return false
			}
		}
		return true
	case DList:
		if len(d.Items) != len(o.Items) {
			return false
		}
		for i := range d.Items {
			if !d.Items[i].Equal(&o.Items[i]) {
				return false
			}
		}
		return true
	case DInt:
		return d.Int.Cmp(o.Int) == 0
	case DBytes:
		return string(d.Bytes) == string(o.Bytes)
	default:
		return false
	}
}

// Size measures the recursive size of a Data tree, in the units the
// cost model charges memory in: one unit per Constr, Map or List node
// plus each leaf's own size (an Int's 64-bit limb count, a Bytes
// value's length in 8-byte words), following the same recursive-size convention
// spec.md §4.3 applies to lists and pairs.
func (d *Data) Size() int64 {
	if d == nil {
		return 0
	}
	switch d.Tag {
	case DConstr:
		n := int64(1)
		for i := range d.Fields {
			n += d.Fields[i].Size()
		}
		return n
	case DMap:
		n := int64(1)
		for _, kv := range d.Pairs {
			n += kv.Key.Size() + kv.Value.Size()
		}
		return n
	case DList:
		n := int64(1)
		for i := range d.Items {
			n += d.Items[i].Size()
		}
		return n
	case DInt:
		return int64(limbCount(d.Int))
	case DBytes:
		return int64((len(d.Bytes) + 7) / 8)
	default:
		return 0
	}
}

func limbCount(v *big.Int) int {
	n := len(v.Bits())
	if n == 0 {
		return 1
	}
	return n
}
