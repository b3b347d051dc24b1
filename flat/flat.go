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

// Package flat implements the bit-level wire codec for core programs
// (§4.2, §6). It layers term, constant and program encoding on top of
// package bitio's primitives and peels up to two layers of CBOR
// byte-string wrapping from the on-chain representation (§9).
package flat

import (
	"fmt"

	"github.com/lumenchain/lumen/builtin"
	"github.com/lumenchain/lumen/internal/bitio"
	"github.com/lumenchain/lumen/term"
)

// UnknownTermTagError is returned when the decoder reads a 4-bit term
// tag outside the range defined in §3.
type UnknownTermTagError struct{ Tag uint64 }

func (e *UnknownTermTagError) Error() string { return fmt.Sprintf("flat: unknown term tag %d", e.Tag) }

// UnknownConstTagError is returned when the decoder reads a
// type-constructor tag outside the range defined in §3.
type UnknownConstTagError struct{ Tag uint64 }

func (e *UnknownConstTagError) Error() string {
	return fmt.Sprintf("flat: unknown const tag %d", e.Tag)
}

const termTagBits = 4
const typeTagBits = 4
const builtinTagBits = 7

// EncodeTerm writes t to w using the 4-bit tags of §3.
func EncodeTerm(w *bitio.Writer, t *term.Term[term.DeBruijn]) error {
	if t == nil {
		return fmt.Errorf("flat: cannot encode nil term")
	}
	w.Bits(uint64(t.Tag), termTagBits)
	switch t.Tag {
	case term.TagVar:
		w.Word(uint64(t.Var.Index))
	case term.TagDelay:
		return EncodeTerm(w, t.Delay)
	case term.TagLambda:
		return EncodeTerm(w, t.Lambda)
	case term.TagApply:
		if err := EncodeTerm(w, t.Fun); err != nil {
			return err
		}
		return EncodeTerm(w, t.Arg)
	case term.TagConstant:
		return EncodeConstant(w, *t.Const)
	case term.TagForce:
		return EncodeTerm(w, t.Force)
	case term.TagError:
		return nil
	case term.TagBuiltin:
		w.Bits(uint64(t.Builtin), builtinTagBits)
		return nil
	default:
		return fmt.Errorf("flat: unknown term tag %v", t.Tag)
	}
}

// DecodeTerm reads a de Bruijn term from r.
func DecodeTerm(r *bitio.Reader) (*term.Term[term.DeBruijn], error) {
	tagBits, err := r.Bits(termTagBits)
	if err != nil {
		return nil, err
	}
	if tagBits > uint64(term.TagBuiltin) {
		return nil, &UnknownTermTagError{Tag: tagBits}
	}
	tag := term.Tag(tagBits)
	switch tag {
	case term.TagVar:
		idx, err := r.Word()
		if err != nil {
			return nil, err
		}
		return term.Var(term.DeBruijn{Index: term.Index(idx)}), nil
	case term.TagDelay:
		body, err := DecodeTerm(r)
		if err != nil {
			return nil, err
		}
		return term.Delay(body), nil
	case term.TagLambda:
		body, err := DecodeTerm(r)
		if err != nil {
			return nil, err
		}
		return term.Lambda(term.DeBruijn{}, body), nil
	case term.TagApply:
		fn, err := DecodeTerm(r)
		if err != nil {
			return nil, err
		}
		arg, err := DecodeTerm(r)
		if err != nil {
			return nil, err
		}
		return term.Apply(fn, arg), nil
	case term.TagConstant:
		c, err := DecodeConstant(r)
		if err != nil {
			return nil, err
		}
		return term.Const[term.DeBruijn](c), nil
	case term.TagForce:
		body, err := DecodeTerm(r)
		if err != nil {
			return nil, err
		}
		return term.Force(body), nil
	case term.TagError:
		return term.Error[term.DeBruijn](), nil
	case term.TagBuiltin:
		b, err := r.Bits(builtinTagBits)
		if err != nil {
			return nil, err
		}
		return term.BuiltinTerm[term.DeBruijn](builtin.Tag(b)), nil
	default:
		return nil, &UnknownTermTagError{Tag: tagBits}
	}
}

// flattenType appends t's pre-order type-constructor tags to out
// (§4.2: "the type is flattened into a prefix list of type-constructor
// tags").
func flattenType(out []term.TypeTag, t term.Type) []term.TypeTag {
	out = append(out, t.Tag)
	switch t.Tag {
	case term.TList:
		out = flattenType(out, *t.Elem)
	case term.TPair:
		out = flattenType(out, *t.A)
		out = flattenType(out, *t.B)
	}
	return out
}

// parseType consumes type-constructor tags from the front of tags,
// returning the reconstructed Type and the unconsumed remainder.
func parseType(tags []term.TypeTag) (term.Type, []term.TypeTag, error) {
	if len(tags) == 0 {
		return term.Type{}, nil, fmt.Errorf("flat: empty type tag list")
	}
	head, rest := tags[0], tags[1:]
	switch head {
	case term.TBool, term.TInteger, term.TString, term.TByteString, term.TUnit, term.TData:
		return term.Type{Tag: head}, rest, nil
	case term.TList:
		elem, rest, err := parseType(rest)
		if err != nil {
			return term.Type{}, nil, err
		}
		return term.Type{Tag: term.TList, Elem: &elem}, rest, nil
	case term.TPair:
		a, rest, err := parseType(rest)
		if err != nil {
			return term.Type{}, nil, err
		}
		b, rest, err := parseType(rest)
		if err != nil {
			return term.Type{}, nil, err
		}
		return term.Type{Tag: term.TPair, A: &a, B: &b}, rest, nil
	default:
		return term.Type{}, nil, &UnknownConstTagError{Tag: uint64(head)}
	}
}

// EncodeConstant writes c to w: a nonempty cons-list of
// type-constructor tags followed by the payload (§4.2).
func EncodeConstant(w *bitio.Writer, c term.Constant) error {
	tags := flattenType(nil, c.TypeOf())
	bitio.List(w, tags, func(w *bitio.Writer, t term.TypeTag) { w.Bits(uint64(t), typeTagBits) })
	return encodePayload(w, c)
}

func encodePayload(w *bitio.Writer, c term.Constant) error {
	switch c.Tag {
	case term.CInteger:
		w.Integer(c.Integer)
		return nil
	case term.CByteString:
		w.Filler()
		return w.Bytes(c.ByteString)
	case term.CString:
		w.Filler()
		return w.Bytes([]byte(c.String))
	case term.CUnit:
		return nil
	case term.CBool:
		if c.Bool {
			w.Bit(1)
		} else {
			w.Bit(0)
		}
		return nil
	case term.CProtoList:
		bitio.List(w, c.Items, func(w *bitio.Writer, it term.Constant) {
			encodePayload(w, it)
		})
		return nil
	case term.CProtoPair:
		if err := encodePayload(w, *c.A); err != nil {
			return err
		}
		return encodePayload(w, *c.B)
	case term.CData:
		w.Filler()
		return w.Bytes(EncodeData(*c.Data))
	default:
		return fmt.Errorf("flat: unknown constant tag %v", c.Tag)
	}
}

// DecodeConstant reads a constant from r.
func DecodeConstant(r *bitio.Reader) (term.Constant, error) {
	tags, err := bitio.ListRead(r, func(r *bitio.Reader) (term.TypeTag, error) {
		v, err := r.Bits(typeTagBits)
		return term.TypeTag(v), err
	})
	if err != nil {
		return term.Constant{}, err
	}
	if len(tags) == 0 {
		return term.Constant{}, fmt.Errorf("flat: empty constant type tag list")
	}
	ty, rest, err := parseType(tags)
	if err != nil {
		return term.Constant{}, err
	}
	if len(rest) != 0 {
		return term.Constant{}, fmt.Errorf("flat: %d unconsumed type tags", len(rest))
	}
	return decodePayload(r, ty)
}

func decodePayload(r *bitio.Reader, ty term.Type) (term.Constant, error) {
	switch ty.Tag {
	case term.TInteger:
		v, err := r.Integer()
		if err != nil {
			return term.Constant{}, err
		}
		return term.NewBigInteger(v), nil
	case term.TByteString:
		if err := r.Filler(); err != nil {
			return term.Constant{}, err
		}
		b, err := r.Bytes()
		if err != nil {
			return term.Constant{}, err
		}
		return term.NewByteString(b), nil
	case term.TString:
		if err := r.Filler(); err != nil {
			return term.Constant{}, err
		}
		b, err := r.Bytes()
		if err != nil {
			return term.Constant{}, err
		}
		return term.NewString(string(b)), nil
	case term.TUnit:
		return term.NewUnit(), nil
	case term.TBool:
		b, err := r.Bit()
		if err != nil {
			return term.Constant{}, err
		}
		return term.NewBool(b != 0), nil
	case term.TList:
		items, err := bitio.ListRead(r, func(r *bitio.Reader) (term.Constant, error) {
			return decodePayload(r, *ty.Elem)
		})
		if err != nil {
			return term.Constant{}, err
		}
		return term.NewList(*ty.Elem, items)
	case term.TPair:
		a, err := decodePayload(r, *ty.A)
		if err != nil {
			return term.Constant{}, err
		}
		b, err := decodePayload(r, *ty.B)
		if err != nil {
			return term.Constant{}, err
		}
		return term.NewPair(a, b), nil
	case term.TData:
		if err := r.Filler(); err != nil {
			return term.Constant{}, err
		}
		b, err := r.Bytes()
		if err != nil {
			return term.Constant{}, err
		}
		d, err := DecodeData(b)
		if err != nil {
			return term.Constant{}, err
		}
		return term.NewData(d), nil
	default:
		return term.Constant{}, &UnknownConstTagError{Tag: uint64(ty.Tag)}
	}
}

// EncodeProgram writes the version triple, the term, and a trailing
// filler byte-alignment (§4.2, "Program encoding").
func EncodeProgram(p term.Program[term.DeBruijn]) ([]byte, error) {
	w := bitio.NewWriter()
	w.Word(uint64(p.Version.Major))
	w.Word(uint64(p.Version.Minor))
	w.Word(uint64(p.Version.Patch))
	if err := EncodeTerm(w, p.Term); err != nil {
		return nil, err
	}
	w.Filler()
	return w.Finish(), nil
}

// DecodeProgram reads a Program from its flat bit-stream
// representation (no CBOR wrapping — see UnwrapCBORBytes for the on-chain
// form).
func DecodeProgram(buf []byte) (term.Program[term.DeBruijn], error) {
	r := bitio.NewReader(buf)
	maj, err := r.Word()
	if err != nil {
		return term.Program[term.DeBruijn]{}, err
	}
	min, err := r.Word()
	if err != nil {
		return term.Program[term.DeBruijn]{}, err
	}
	patch, err := r.Word()
	if err != nil {
		return term.Program[term.DeBruijn]{}, err
	}
	t, err := DecodeTerm(r)
	if err != nil {
		return term.Program[term.DeBruijn]{}, err
	}
	return term.Program[term.DeBruijn]{
		Version: term.Version{Major: uint32(maj), Minor: uint32(min), Patch: uint32(patch)},
		Term:    t,
	}, nil
}
