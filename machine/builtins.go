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
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"math/big"
	"unicode/utf8"

	"github.com/lumenchain/lumen/builtin"
	"github.com/lumenchain/lumen/internal/secp256k1"
	"github.com/lumenchain/lumen/term"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// callBuiltin dispatches a saturated builtin application to its typed
// handler (§4.5). Cost has already been charged by the caller.
func (m *Machine) callBuiltin(t builtin.Tag, args []Value) (Value, error) {
	switch t {
	case builtin.AddInteger:
		x, y, err := twoInts(t, args)
		if err != nil {
			return Value{}, err
		}
		return VCon(term.NewBigInteger(new(big.Int).Add(x, y))), nil
	case builtin.SubtractInteger:
		x, y, err := twoInts(t, args)
		if err != nil {
			return Value{}, err
		}
		return VCon(term.NewBigInteger(new(big.Int).Sub(x, y))), nil
	case builtin.MultiplyInteger:
		x, y, err := twoInts(t, args)
		if err != nil {
			return Value{}, err
		}
		return VCon(term.NewBigInteger(new(big.Int).Mul(x, y))), nil
	case builtin.DivideInteger:
		x, y, err := twoInts(t, args)
		if err != nil {
			return Value{}, err
		}
		if y.Sign() == 0 {
			return Value{}, &EvaluationFailureError{Reason: "division by zero"}
		}
		q, _ := floorDivMod(x, y)
		return VCon(term.NewBigInteger(q)), nil
	case builtin.ModInteger:
		x, y, err := twoInts(t, args)
		if err != nil {
			return Value{}, err
		}
		if y.Sign() == 0 {
			return Value{}, &EvaluationFailureError{Reason: "division by zero"}
		}
		_, r := floorDivMod(x, y)
		return VCon(term.NewBigInteger(r)), nil
	case builtin.QuotientInteger:
		x, y, err := twoInts(t, args)
		if err != nil {
			return Value{}, err
		}
		if y.Sign() == 0 {
			return Value{}, &EvaluationFailureError{Reason: "division by zero"}
		}
		q := new(big.Int).Quo(x, y)
		return VCon(term.NewBigInteger(q)), nil
	case builtin.RemainderInteger:
		x, y, err := twoInts(t, args)
		if err != nil {
			return Value{}, err
		}
		if y.Sign() == 0 {
			return Value{}, &EvaluationFailureError{Reason: "division by zero"}
		}
		r := new(big.Int).Rem(x, y)
		return VCon(term.NewBigInteger(r)), nil
	case builtin.EqualsInteger:
		x, y, err := twoInts(t, args)
		if err != nil {
			return Value{}, err
		}
		return VCon(term.NewBool(x.Cmp(y) == 0)), nil
	case builtin.LessThanInteger:
		x, y, err := twoInts(t, args)
		if err != nil {
			return Value{}, err
		}
		return VCon(term.NewBool(x.Cmp(y) < 0)), nil
	case builtin.LessThanEqualsInteger:
		x, y, err := twoInts(t, args)
		if err != nil {
			return Value{}, err
		}
		return VCon(term.NewBool(x.Cmp(y) <= 0)), nil

	case builtin.AppendByteString:
		x, y, err := twoBytes(t, args)
		if err != nil {
			return Value{}, err
		}
		out := make([]byte, 0, len(x)+len(y))
		out = append(out, x...)
		out = append(out, y...)
		return VCon(term.NewByteString(out)), nil
	case builtin.ConsByteString:
		n, err := asInt(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		bs, err := asBytes(t.String(), args[1])
		if err != nil {
			return Value{}, err
		}
		b := byte(new(big.Int).Mod(n, big.NewInt(256)).Int64())
		out := make([]byte, 0, len(bs)+1)
		out = append(out, b)
		out = append(out, bs...)
		return VCon(term.NewByteString(out)), nil
	case builtin.SliceByteString:
		start, err := asInt(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		length, err := asInt(t.String(), args[1])
		if err != nil {
			return Value{}, err
		}
		bs, err := asBytes(t.String(), args[2])
		if err != nil {
			return Value{}, err
		}
		lo := clampIndex(start.Int64(), len(bs))
		hi := clampIndex(start.Int64()+length.Int64(), len(bs))
		if hi < lo {
			hi = lo
		}
		out := make([]byte, hi-lo)
		copy(out, bs[lo:hi])
		return VCon(term.NewByteString(out)), nil
	case builtin.LengthOfByteString:
		bs, err := asBytes(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		return VCon(term.NewInteger(int64(len(bs)))), nil
	case builtin.IndexByteString:
		bs, err := asBytes(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		i, err := asInt(t.String(), args[1])
		if err != nil {
			return Value{}, err
		}
		idx := i.Int64()
		if idx < 0 || idx >= int64(len(bs)) {
			return Value{}, &EvaluationFailureError{Reason: "byte string index out of range"}
		}
		return VCon(term.NewInteger(int64(bs[idx]))), nil
	case builtin.EqualsByteString:
		x, y, err := twoBytes(t, args)
		if err != nil {
			return Value{}, err
		}
		return VCon(term.NewBool(bytes.Equal(x, y))), nil
	case builtin.LessThanByteString:
		x, y, err := twoBytes(t, args)
		if err != nil {
			return Value{}, err
		}
		return VCon(term.NewBool(bytes.Compare(x, y) < 0)), nil
	case builtin.LessThanEqualsByteString:
		x, y, err := twoBytes(t, args)
		if err != nil {
			return Value{}, err
		}
		return VCon(term.NewBool(bytes.Compare(x, y) <= 0)), nil

	case builtin.AppendString:
		x, err := asString(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		y, err := asString(t.String(), args[1])
		if err != nil {
			return Value{}, err
		}
		return VCon(term.NewString(x + y)), nil
	case builtin.EqualsString:
		x, err := asString(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		y, err := asString(t.String(), args[1])
		if err != nil {
			return Value{}, err
		}
		return VCon(term.NewBool(x == y)), nil
	case builtin.EncodeUtf8:
		s, err := asString(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		return VCon(term.NewByteString([]byte(s))), nil
	case builtin.DecodeUtf8:
		bs, err := asBytes(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		if !utf8.Valid(bs) {
			return Value{}, &EvaluationFailureError{Reason: "invalid utf8"}
		}
		return VCon(term.NewString(string(bs))), nil

	case builtin.Sha2_256:
		bs, err := asBytes(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		sum := sha256.Sum256(bs)
		return VCon(term.NewByteString(sum[:])), nil
	case builtin.Sha3_256:
		bs, err := asBytes(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		sum := sha3.Sum256(bs)
		return VCon(term.NewByteString(sum[:])), nil
	case builtin.Blake2b_256:
		bs, err := asBytes(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		sum := blake2b.Sum256(bs)
		return VCon(term.NewByteString(sum[:])), nil
	case builtin.VerifyEd25519Signature:
		pub, err := asBytes(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		msg, err := asBytes(t.String(), args[1])
		if err != nil {
			return Value{}, err
		}
		sig, err := asBytes(t.String(), args[2])
		if err != nil {
			return Value{}, err
		}
		if len(pub) != ed25519.PublicKeySize {
			return Value{}, &EvaluationFailureError{Reason: "invalid ed25519 public key length"}
		}
		return VCon(term.NewBool(ed25519.Verify(ed25519.PublicKey(pub), msg, sig))), nil
	case builtin.VerifyEcdsaSecp256k1Signature:
		pub, msg, sig, err := threeBytes(t, args)
		if err != nil {
			return Value{}, err
		}
		ok, err := secp256k1.VerifyECDSA(pub, msg, sig)
		if err != nil {
			return Value{}, &EvaluationFailureError{Reason: err.Error()}
		}
		return VCon(term.NewBool(ok)), nil
	case builtin.VerifySchnorrSecp256k1Signature:
		pub, msg, sig, err := threeBytes(t, args)
		if err != nil {
			return Value{}, err
		}
		ok, err := secp256k1.VerifySchnorr(pub, msg, sig)
		if err != nil {
			return Value{}, &EvaluationFailureError{Reason: err.Error()}
		}
		return VCon(term.NewBool(ok)), nil

	case builtin.ConstrData:
		idx, err := asInt(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		_, items, err := asList(t.String(), args[1])
		if err != nil {
			return Value{}, err
		}
		fields := make([]term.Data, len(items))
		for i, it := range items {
			if it.Tag != term.CData {
				return Value{}, &TypeMismatchError{Builtin: t.String(), Expected: typeData, Got: it.TypeOf()}
			}
			fields[i] = *it.Data
		}
		return VCon(term.NewData(term.NewConstr(idx.Uint64(), fields...))), nil
	case builtin.MapData:
		_, items, err := asList(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		pairs := make([]term.KV, len(items))
		for i, it := range items {
			if it.Tag != term.CProtoPair || it.A.Tag != term.CData || it.B.Tag != term.CData {
				return Value{}, &TypeMismatchError{Builtin: t.String(), Got: it.TypeOf()}
			}
			pairs[i] = term.KV{Key: *it.A.Data, Value: *it.B.Data}
		}
		return VCon(term.NewData(term.NewDataMap(pairs...))), nil
	case builtin.ListData:
		_, items, err := asList(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		elems := make([]term.Data, len(items))
		for i, it := range items {
			if it.Tag != term.CData {
				return Value{}, &TypeMismatchError{Builtin: t.String(), Expected: typeData, Got: it.TypeOf()}
			}
			elems[i] = *it.Data
		}
		return VCon(term.NewData(term.NewDataList(elems...))), nil
	case builtin.IData:
		n, err := asInt(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		return VCon(term.NewData(term.NewDataBigInt(n))), nil
	case builtin.BData:
		bs, err := asBytes(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		return VCon(term.NewData(term.NewDataBytes(bs))), nil
	case builtin.UnConstrData:
		d, err := asData(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		if d.Tag != term.DConstr {
			return Value{}, &EvaluationFailureError{Reason: "UnConstrData: not a Constr"}
		}
		items := make([]term.Constant, len(d.Fields))
		for i := range d.Fields {
			items[i] = term.NewData(d.Fields[i])
		}
		list, _ := term.NewList(typeData, items)
		pair := term.NewPair(term.NewInteger(int64(d.ConstrTag)), list)
		return VCon(pair), nil
	case builtin.UnMapData:
		d, err := asData(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		if d.Tag != term.DMap {
			return Value{}, &EvaluationFailureError{Reason: "UnMapData: not a Map"}
		}
		items := make([]term.Constant, len(d.Pairs))
		for i, kv := range d.Pairs {
			items[i] = term.NewPair(term.NewData(kv.Key), term.NewData(kv.Value))
		}
		list, _ := term.NewList(pairDataDataType(), items)
		return VCon(list), nil
	case builtin.UnListData:
		d, err := asData(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		if d.Tag != term.DList {
			return Value{}, &EvaluationFailureError{Reason: "UnListData: not a List"}
		}
		items := make([]term.Constant, len(d.Items))
		for i := range d.Items {
			items[i] = term.NewData(d.Items[i])
		}
		list, _ := term.NewList(typeData, items)
		return VCon(list), nil
	case builtin.UnIData:
		d, err := asData(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		if d.Tag != term.DInt {
			return Value{}, &EvaluationFailureError{Reason: "UnIData: not an Int"}
		}
		return VCon(term.NewBigInteger(d.Int)), nil
	case builtin.UnBData:
		d, err := asData(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		if d.Tag != term.DBytes {
			return Value{}, &EvaluationFailureError{Reason: "UnBData: not Bytes"}
		}
		return VCon(term.NewByteString(d.Bytes)), nil
	case builtin.EqualsData:
		d1, err := asData(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		d2, err := asData(t.String(), args[1])
		if err != nil {
			return Value{}, err
		}
		return VCon(term.NewBool(d1.Equal(d2))), nil
	case builtin.ChooseData:
		d, err := asData(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		switch d.Tag {
		case term.DConstr:
			return args[1], nil
		case term.DMap:
			return args[2], nil
		case term.DList:
			return args[3], nil
		case term.DInt:
			return args[4], nil
		default:
			return args[5], nil
		}

	case builtin.MkCons:
		elem, err := asConst(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		elemTy, items, err := asList(t.String(), args[1])
		if err != nil {
			return Value{}, err
		}
		if !elem.TypeOf().Equal(elemTy) {
			return Value{}, &TypeMismatchError{Builtin: t.String(), Expected: elemTy, Got: elem.TypeOf()}
		}
		out := make([]term.Constant, 0, len(items)+1)
		out = append(out, elem)
		out = append(out, items...)
		list, err := term.NewList(elemTy, out)
		if err != nil {
			return Value{}, err
		}
		return VCon(list), nil
	case builtin.MkNilData:
		list, _ := term.NewList(typeData, nil)
		return VCon(list), nil
	case builtin.MkNilPairData:
		list, _ := term.NewList(pairDataDataType(), nil)
		return VCon(list), nil
	case builtin.HeadList:
		_, items, err := asList(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		if len(items) == 0 {
			return Value{}, &EvaluationFailureError{Reason: "HeadList: empty list"}
		}
		return VCon(items[0]), nil
	case builtin.TailList:
		elemTy, items, err := asList(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		if len(items) == 0 {
			return Value{}, &EvaluationFailureError{Reason: "TailList: empty list"}
		}
		list, err := term.NewList(elemTy, items[1:])
		if err != nil {
			return Value{}, err
		}
		return VCon(list), nil
	case builtin.NullList:
		_, items, err := asList(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		return VCon(term.NewBool(len(items) == 0)), nil
	case builtin.ChooseList:
		_, items, err := asList(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		if len(items) == 0 {
			return args[1], nil
		}
		return args[2], nil

	case builtin.FstPair:
		a, _, err := asPair(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		return VCon(a), nil
	case builtin.SndPair:
		_, b, err := asPair(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		return VCon(b), nil
	case builtin.MkPairData:
		d1, err := asData(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		d2, err := asData(t.String(), args[1])
		if err != nil {
			return Value{}, err
		}
		pair := term.NewPair(term.NewData(*d1), term.NewData(*d2))
		return VCon(pair), nil

	case builtin.IfThenElse:
		cond, err := asBool(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		if cond {
			return args[1], nil
		}
		return args[2], nil
	case builtin.ChooseUnit:
		if _, err := asConst(t.String(), args[0]); err != nil {
			return Value{}, err
		}
		return args[1], nil
	case builtin.Trace:
		msg, err := asString(t.String(), args[0])
		if err != nil {
			return Value{}, err
		}
		if err := m.charge(m.logs.append(msg)); err != nil {
			return Value{}, err
		}
		return args[1], nil

	default:
		return Value{}, &EvaluationFailureError{Reason: "unimplemented builtin " + t.String()}
	}
}

func twoInts(t builtin.Tag, args []Value) (*big.Int, *big.Int, error) {
	x, err := asInt(t.String(), args[0])
	if err != nil {
		return nil, nil, err
	}
	y, err := asInt(t.String(), args[1])
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func twoBytes(t builtin.Tag, args []Value) ([]byte, []byte, error) {
	x, err := asBytes(t.String(), args[0])
	if err != nil {
		return nil, nil, err
	}
	y, err := asBytes(t.String(), args[1])
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func threeBytes(t builtin.Tag, args []Value) ([]byte, []byte, []byte, error) {
	x, err := asBytes(t.String(), args[0])
	if err != nil {
		return nil, nil, nil, err
	}
	y, err := asBytes(t.String(), args[1])
	if err != nil {
		return nil, nil, nil, err
	}
	z, err := asBytes(t.String(), args[2])
	if err != nil {
		return nil, nil, nil, err
	}
	return x, y, z, nil
}
