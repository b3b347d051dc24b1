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
	"math/big"

	"github.com/lumenchain/lumen/term"
)

var (
	typeInteger    = term.Type{Tag: term.TInteger}
	typeByteString = term.Type{Tag: term.TByteString}
	typeString     = term.Type{Tag: term.TString}
	typeBool       = term.Type{Tag: term.TBool}
	typeUnit       = term.Type{Tag: term.TUnit}
	typeData       = term.Type{Tag: term.TData}
)

func asConst(name string, v Value) (term.Constant, error) {
	if v.Kind != VKCon {
		return term.Constant{}, &TypeMismatchError{Builtin: name, Expected: typeData, Got: term.Type{}}
	}
	return *v.Con, nil
}

func asInt(name string, v Value) (*big.Int, error) {
	c, err := asConst(name, v)
	if err != nil {
		return nil, err
	}
	if c.Tag != term.CInteger {
		return nil, &TypeMismatchError{Builtin: name, Expected: typeInteger, Got: c.TypeOf()}
	}
	return c.Integer, nil
}

func asBytes(name string, v Value) ([]byte, error) {
	c, err := asConst(name, v)
	if err != nil {
		return nil, err
	}
	if c.Tag != term.CByteString {
		return nil, &TypeMismatchError{Builtin: name, Expected: typeByteString, Got: c.TypeOf()}
	}
	return c.ByteString, nil
}

func asString(name string, v Value) (string, error) {
	c, err := asConst(name, v)
	if err != nil {
		return "", err
	}
	if c.Tag != term.CString {
		return "", &TypeMismatchError{Builtin: name, Expected: typeString, Got: c.TypeOf()}
	}
	return c.String, nil
}

func asBool(name string, v Value) (bool, error) {
	c, err := asConst(name, v)
	if err != nil {
		return false, err
	}
	if c.Tag != term.CBool {
		return false, &TypeMismatchError{Builtin: name, Expected: typeBool, Got: c.TypeOf()}
	}
	return c.Bool, nil
}

func asData(name string, v Value) (*term.Data, error) {
	c, err := asConst(name, v)
	if err != nil {
		return nil, err
	}
	if c.Tag != term.CData {
		return nil, &TypeMismatchError{Builtin: name, Expected: typeData, Got: c.TypeOf()}
	}
	return c.Data, nil
}

func asList(name string, v Value) (term.Type, []term.Constant, error) {
	c, err := asConst(name, v)
	if err != nil {
		return term.Type{}, nil, err
	}
	if c.Tag != term.CProtoList {
		return term.Type{}, nil, &TypeMismatchError{Builtin: name, Got: c.TypeOf()}
	}
	return *c.ElemType, c.Items, nil
}

func asPair(name string, v Value) (term.Constant, term.Constant, error) {
	c, err := asConst(name, v)
	if err != nil {
		return term.Constant{}, term.Constant{}, err
	}
	if c.Tag != term.CProtoPair {
		return term.Constant{}, term.Constant{}, &TypeMismatchError{Builtin: name, Got: c.TypeOf()}
	}
	return *c.A, *c.B, nil
}

func pairDataDataType() term.Type {
	return term.Type{Tag: term.TPair, A: cloneType(typeData), B: cloneType(typeData)}
}

func cloneType(t term.Type) *term.Type { c := t; return &c }

// floorDivMod returns q = floor(x/y), r = x - q*y (r has the sign of y,
// matching Haskell's divMod, which Plutus's DivideInteger/ModInteger
// follow — unlike big.Int's own Euclidean DivMod).
func floorDivMod(x, y *big.Int) (q, r *big.Int) {
	q, r = new(big.Int).QuoRem(x, y, new(big.Int))
	if r.Sign() != 0 && (r.Sign() < 0) != (y.Sign() < 0) {
		q.Sub(q, big.NewInt(1))
		r.Add(r, y)
	}
	return q, r
}

func clampIndex(i int64, n int) int {
	if i < 0 {
		return 0
	}
	if i > int64(n) {
		return n
	}
	return int(i)
}
