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

// TypeTag identifies one of the constant type constructors. List and
// Pair are parameterized and carry their element/component types
// inline on the Type value; the flat codec flattens a nested Type
// into a prefix list of these tags (§4.2).
type TypeTag uint8

const (
	TBool TypeTag = iota
	TInteger
	TString
	TByteString
	TUnit
	TList
	TPair
	TData
)

// Type is a node in the small recursive type grammar:
//
//	Bool | Integer | String | ByteString | Unit | List T | Pair T T | Data
type Type struct {
	Tag  TypeTag
	Elem *Type   // List element type, set iff Tag == TList
	A, B *Type   // Pair component types, set iff Tag == TPair
}

func (t Type) String() string {
	switch t.Tag {
	case TBool:
		return "bool"
	case TInteger:
		return "integer"
	case TString:
		return "string"
	case TByteString:
		return "bytestring"
	case TUnit:
		return "unit"
	case TData:
		return "data"
	case TList:
		return "list(" + t.Elem.String() + ")"
	case TPair:
		return "pair(" + t.A.String() + ", " + t.B.String() + ")"
	default:
		return "?"
	}
}

// Equal reports whether two types are structurally identical.
func (t Type) Equal(o Type) bool {
	if t.Tag != o.Tag {
		return false
	}
	switch t.Tag {
	case TList:
		return t.Elem.Equal(*o.Elem)
	case TPair:
		return t.A.Equal(*o.A) && t.B.Equal(*o.B)
	default:
		return true
	}
}

// ConstantTag discriminates the Constant sum type.
type ConstantTag uint8

const (
	CInteger ConstantTag = iota
	CByteString
	CString
	CUnit
	CBool
	CProtoList
	CProtoPair
	CData
)

// Constant is a typed literal value carried by a Constant term node.
// Exactly the field(s) matching Tag are meaningful.
type Constant struct {
	Tag ConstantTag

	Integer    *big.Int
	ByteString []byte
	String     string
	Bool       bool

	// ProtoList
	ElemType *Type
	Items    []Constant

	// ProtoPair
	TypeA, TypeB *Type
	A, B         *Constant

	Data *Data
}

// TypeOf returns the static Type of a constant, per invariant I2.
func (c Constant) TypeOf() Type {
	switch c.Tag {
	case CInteger:
		return Type{Tag: TInteger}
	case CByteString:
		return Type{Tag: TByteString}
	case CString:
		return Type{Tag: TString}
	case CUnit:
		return Type{Tag: TUnit}
	case CBool:
		return Type{Tag: TBool}
	case CData:
		return Type{Tag: TData}
	case CProtoList:
		return Type{Tag: TList, Elem: c.ElemType}
	case CProtoPair:
		return Type{Tag: TPair, A: c.TypeA, B: c.TypeB}
	default:
		return Type{}
	}
}

// NewInteger wraps an int64 as an Integer constant.
func NewInteger(v int64) Constant { return Constant{Tag: CInteger, Integer: big.NewInt(v)} }

// NewBigInteger wraps a big.Int as an Integer constant.
func NewBigInteger(v *big.Int) Constant { return Constant{Tag: CInteger, Integer: new(big.Int).Set(v)} }

// NewByteString wraps a byte slice as a ByteString constant.
func NewByteString(b []byte) Constant { return Constant{Tag: CByteString, ByteString: b} }

// NewString wraps a string as a String constant.
func NewString(s string) Constant { return Constant{Tag: CString, String: s} }

// NewBool wraps a bool as a Bool constant.
func NewBool(b bool) Constant { return Constant{Tag: CBool, Bool: b} }

// NewUnit returns the Unit constant.
func NewUnit() Constant { return Constant{Tag: CUnit} }

// NewData wraps a Data value as a Data constant.
func NewData(d Data) Constant { return Constant{Tag: CData, Data: &d} }

// NewList builds a ProtoList constant, validating invariant I2 (every
// element must have the declared element type).
func NewList(elem Type, items []Constant) (Constant, error) {
	for i := range items {
		if !items[i].TypeOf().Equal(elem) {
			return Constant{}, fmt.Errorf("list element %d has type %s, want %s", i, items[i].TypeOf(), elem)
		}
	}
	return Constant{Tag: CProtoList, ElemType: &elem, Items: items}, nil
}

// NewPair builds a ProtoPair constant whose component types are taken
// from a and b, so invariant I2 holds by construction.
func NewPair(a, b Constant) Constant {
	ta, tb := a.TypeOf(), b.TypeOf()
	return Constant{Tag: CProtoPair, TypeA: &ta, TypeB: &tb, A: &a, B: &b}
}

func (c Constant) String() string {
	switch c.Tag {
	case CInteger:
		return c.Integer.String()
	case CByteString:
		return fmt.Sprintf("%x", c.ByteString)
	case CString:
		return strconvQuote(c.String)
	case CBool:
		if c.Bool {
			return "True"
		}
		return "False"
	case CUnit:
		return "()"
	case CData:
		return c.Data.String()
	case CProtoList:
		parts := make([]string, len(c.Items))
		for i := range c.Items {
			parts[i] = c.Items[i].String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case CProtoPair:
		return "(" + c.A.String() + ", " + c.B.String() + ")"
	default:
		return "?"
	}
}

func strconvQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(s)
	b.WriteByte('"')
	return b.String()
}

// Equal reports structural equality between two constants. Integers
// compare by value, not by limb representation.
func (c Constant) Equal(o Constant) bool {
	if c.Tag != o.Tag {
		return false
	}
	switch c.Tag {
	case CInteger:
		return c.Integer.Cmp(o.Integer) == 0
	case CByteString:
		return string(c.ByteString) == string(o.ByteString)
	case CString:
		return c.String == o.String
	case CBool:
		return c.Bool == o.Bool
	case CUnit:
		return true
	case CData:
		return c.Data.Equal(o.Data)
	case CProtoList:
		if len(c.Items) != len(o.Items) {
			return false
		}
		for i := range c.Items {
			if !c.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	case CProtoPair:
		return c.A.Equal(*o.A) && c.B.Equal(*o.B)
	default:
		return false
	}
}
