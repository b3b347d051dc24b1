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

package flat

import (
	"fmt"
	"math/big"

	"github.com/lumenchain/lumen/term"
)

// This file implements just enough CBOR (RFC 8949) to serialize Data
// values in the ledger's shape (§3, §4.2) and to peel the one or two
// layers of CBOR byte-string wrapping that historical on-chain
// encodings apply around the flat bit-stream (§9, "Double-CBOR
// wrapping"). It is not a general-purpose CBOR library: only the
// major types Data and the wrapper actually need are implemented.

const (
	majUint   = 0
	majNegInt = 1
	majBytes  = 2
	majText   = 3
	majArray  = 4
	majMap    = 5
	majTag    = 6
)

const (
	tagConstrBase  = 121 // Constr with index 0-6 (index folded into tag)
	tagConstrBase2 = 1280
	tagConstrWide  = 102 // Constr with explicit [index, fields] array
	tagPosBignum   = 2
	tagNegBignum   = 3
)

func writeHead(dst []byte, major byte, n uint64) []byte {
	if n < 24 {
		return append(dst, major<<5|byte(n))
	}
	switch {
	case n < 1<<8:
		return append(dst, major<<5|24, byte(n))
	case n < 1<<16:
		return append(dst, major<<5|25, byte(n>>8), byte(n))
	case n < 1<<32:
		return append(dst, major<<5|26, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	default:
		return append(dst, major<<5|27,
			byte(n>>56), byte(n>>48), byte(n>>40), byte(n>>32),
			byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	}
}

// EncodeData serializes d into its ledger CBOR shape.
func EncodeData(d term.Data) []byte {
	return encodeDataInto(nil, d)
}

func encodeDataInto(dst []byte, d term.Data) []byte {
	switch d.Tag {
	case term.DConstr:
		if d.ConstrTag <= 6 {
			dst = writeHead(dst, majTag, tagConstrBase+d.ConstrTag)
		} else if d.ConstrTag >= 7 && d.ConstrTag <= 127 {
			dst = writeHead(dst, majTag, tagConstrBase2+(d.ConstrTag-7))
		} else {
			dst = writeHead(dst, majTag, tagConstrWide)
			dst = writeHead(dst, majArray, 2)
			dst = writeHead(dst, majUint, d.ConstrTag)
		}
		dst = writeHead(dst, majArray, uint64(len(d.Fields)))
		for i := range d.Fields {
			dst = encodeDataInto(dst, d.Fields[i])
		}
		return dst
	case term.DMap:
		dst = writeHead(dst, majMap, uint64(len(d.Pairs)))
		for _, kv := range d.Pairs {
			dst = encodeDataInto(dst, kv.Key)
			dst = encodeDataInto(dst, kv.Value)
		}
		return dst
	case term.DList:
		dst = writeHead(dst, majArray, uint64(len(d.Items)))
		for i := range d.Items {
			dst = encodeDataInto(dst, d.Items[i])
		}
		return dst
	case term.DInt:
		return encodeBigInt(dst, d.Int)
	case term.DBytes:
		dst = writeHead(dst, majBytes, uint64(len(d.Bytes)))
		return append(dst, d.Bytes...)
	default:
		return dst
	}
}

func encodeBigInt(dst []byte, v *big.Int) []byte {
	if v.IsInt64() {
		i := v.Int64()
		if i >= 0 {
			return writeHead(dst, majUint, uint64(i))
		}
		return writeHead(dst, majNegInt, uint64(-i)-1)
	}
	if v.Sign() >= 0 {
		dst = writeHead(dst, majTag, tagPosBignum)
		b := v.Bytes()
		dst = writeHead(dst, majBytes, uint64(len(b)))
		return append(dst, b...)
	}
	dst = writeHead(dst, majTag, tagNegBignum)
	adj := new(big.Int).Add(v, big.NewInt(1))
	adj.Neg(adj)
	b := adj.Bytes()
	dst = writeHead(dst, majBytes, uint64(len(b)))
	return append(dst, b...)
}

// cborReader is a minimal cursor over a CBOR byte slice.
type cborReader struct {
	buf []byte
	pos int
}

func (r *cborReader) byte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, fmt.Errorf("flat: cbor: unexpected end of input")
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *cborReader) head() (major byte, arg uint64, err error) {
	b, err := r.byte()
	if err != nil {
		return 0, 0, err
	}
	major = b >> 5
	info := b & 0x1f
	switch {
	case info < 24:
		return major, uint64(info), nil
	case info == 24:
		v, err := r.byte()
		return major, uint64(v), err
	case info == 25:
		if r.pos+2 > len(r.buf) {
			return 0, 0, fmt.Errorf("flat: cbor: truncated")
		}
		v := uint64(r.buf[r.pos])<<8 | uint64(r.buf[r.pos+1])
		r.pos += 2
		return major, v, nil
	case info == 26:
		if r.pos+4 > len(r.buf) {
			return 0, 0, fmt.Errorf("flat: cbor: truncated")
		}
		v := uint64(0)
		for i := 0; i < 4; i++ {
			v = v<<8 | uint64(r.buf[r.pos+i])
		}
		r.pos += 4
		return major, v, nil
	case info == 27:
		if r.pos+8 > len(r.buf) {
			return 0, 0, fmt.Errorf("flat: cbor: truncated")
		}
		v := uint64(0)
		for i := 0; i < 8; i++ {
			v = v<<8 | uint64(r.buf[r.pos+i])
		}
		r.pos += 8
		return major, v, nil
	default:
		return 0, 0, fmt.Errorf("flat: cbor: unsupported additional info %d", info)
	}
}

func (r *cborReader) take(n uint64) ([]byte, error) {
	if uint64(r.pos)+n > uint64(len(r.buf)) {
		return nil, fmt.Errorf("flat: cbor: truncated byte string")
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

// DecodeData parses a single ledger-shaped CBOR Data value from b.
func DecodeData(b []byte) (term.Data, error) {
	r := &cborReader{buf: b}
	d, err := decodeDataFrom(r)
	return d, err
}

func decodeDataFrom(r *cborReader) (term.Data, error) {
	major, arg, err := r.head()
	if err != nil {
		return term.Data{}, err
	}
	switch major {
	case majUint:
		return term.NewDataInt(int64(arg)), nil
	case majNegInt:
		return term.NewDataBigInt(new(big.Int).Sub(big.NewInt(-1), new(big.Int).SetUint64(arg))), nil
	case majBytes:
		buf, err := r.take(arg)
		if err != nil {
			return term.Data{}, err
		}
		return term.NewDataBytes(append([]byte(nil), buf...)), nil
	case majArray:
		items := make([]term.Data, arg)
		for i := range items {
			items[i], err = decodeDataFrom(r)
			if err != nil {
				return term.Data{}, err
			}
		}
		return term.NewDataList(items...), nil
	case majMap:
		pairs := make([]term.KV, arg)
		for i := range pairs {
			pairs[i].Key, err = decodeDataFrom(r)
			if err != nil {
				return term.Data{}, err
			}
			pairs[i].Value, err = decodeDataFrom(r)
			if err != nil {
				return term.Data{}, err
			}
		}
		return term.NewDataMap(pairs...), nil
	case majTag:
		return decodeTagged(r, arg)
	default:
		return term.Data{}, fmt.Errorf("flat: cbor: unsupported major type %d", major)
	}
}

func decodeTagged(r *cborReader, tag uint64) (term.Data, error) {
	switch {
	case tag >= tagConstrBase && tag < tagConstrBase+7:
		return decodeConstrFields(r, tag-tagConstrBase)
	case tag >= tagConstrBase2 && tag < tagConstrBase2+uint64(1<<32-7):
		return decodeConstrFields(r, tag-tagConstrBase2+7)
	case tag == tagConstrWide:
		m, arg, err := r.head()
		if err != nil || m != majArray || arg != 2 {
			return term.Data{}, fmt.Errorf("flat: cbor: malformed wide constr")
		}
		idxData, err := decodeDataFrom(r)
		if err != nil || idxData.Tag != term.DInt {
			return term.Data{}, fmt.Errorf("flat: cbor: malformed wide constr index")
		}
		return decodeConstrFields(r, idxData.Int.Uint64())
	case tag == tagPosBignum:
		m, arg, err := r.head()
		if err != nil || m != majBytes {
			return term.Data{}, fmt.Errorf("flat: cbor: malformed bignum")
		}
		buf, err := r.take(arg)
		if err != nil {
			return term.Data{}, err
		}
		return term.NewDataBigInt(new(big.Int).SetBytes(buf)), nil
	case tag == tagNegBignum:
		m, arg, err := r.head()
		if err != nil || m != majBytes {
			return term.Data{}, fmt.Errorf("flat: cbor: malformed bignum")
		}
		buf, err := r.take(arg)
		if err != nil {
			return term.Data{}, err
		}
		v := new(big.Int).SetBytes(buf)
		v.Add(v, big.NewInt(1))
		v.Neg(v)
		return term.NewDataBigInt(v), nil
	default:
		return term.Data{}, fmt.Errorf("flat: cbor: unsupported tag %d", tag)
	}
}

func decodeConstrFields(r *cborReader, idx uint64) (term.Data, error) {
	m, arg, err := r.head()
	if err != nil || m != majArray {
		return term.Data{}, fmt.Errorf("flat: cbor: malformed constr fields")
	}
	fields := make([]term.Data, arg)
	for i := range fields {
		fields[i], err = decodeDataFrom(r)
		if err != nil {
			return term.Data{}, err
		}
	}
	return term.NewConstr(idx, fields...), nil
}

// WrapCBORBytes wraps buf in a single CBOR byte-string header,
// matching the on-chain outer envelope (§4.2, §6).
func WrapCBORBytes(buf []byte) []byte {
	dst := writeHead(nil, majBytes, uint64(len(buf)))
	return append(dst, buf...)
}

// UnwrapCBORBytes peels up to two layers of CBOR byte-string wrapping
// from buf (§9: historical serializations wrap the flat bytes once or
// twice). Input that is not itself a CBOR byte string is returned
// unchanged, on the assumption it is already raw flat bytes.
func UnwrapCBORBytes(buf []byte) ([]byte, error) {
	for layer := 0; layer < 2; layer++ {
		if len(buf) == 0 {
			return buf, nil
		}
		major := buf[0] >> 5
		if major != majBytes {
			return buf, nil
		}
		r := &cborReader{buf: buf}
		m, arg, err := r.head()
		if err != nil || m != majBytes {
			return buf, nil
		}
		inner, err := r.take(arg)
		if err != nil {
			return nil, err
		}
		buf = inner
	}
	return buf, nil
}
