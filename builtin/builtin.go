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

// Package builtin enumerates the closed set of built-in functions a
// core term may reference, along with each one's arity, force count
// and typed handler (§4.5).
package builtin

import "fmt"

// Tag is the one-byte wire tag of a built-in function (§4.5, §4.2).
type Tag uint8

const (
	AddInteger Tag = iota
	SubtractInteger
	MultiplyInteger
	DivideInteger
	QuotientInteger
	RemainderInteger
	ModInteger
	EqualsInteger
	LessThanInteger
	LessThanEqualsInteger

	AppendByteString
	ConsByteString
	SliceByteString
	LengthOfByteString
	IndexByteString
	EqualsByteString
	LessThanByteString
	LessThanEqualsByteString

	AppendString
	EqualsString
	EncodeUtf8
	DecodeUtf8

	Sha2_256
	Sha3_256
	Blake2b_256
	VerifyEd25519Signature
	VerifyEcdsaSecp256k1Signature
	VerifySchnorrSecp256k1Signature

	ConstrData
	MapData
	ListData
	IData
	BData
	UnConstrData
	UnMapData
	UnListData
	UnIData
	UnBData
	EqualsData
	ChooseData

	MkCons
	MkNilData
	MkNilPairData
	HeadList
	TailList
	NullList
	ChooseList

	FstPair
	SndPair
	MkPairData

	IfThenElse
	ChooseUnit
	Trace

	numBuiltins
)

var names = [numBuiltins]string{
	AddInteger:                      "AddInteger",
	SubtractInteger:                 "SubtractInteger",
	MultiplyInteger:                 "MultiplyInteger",
	DivideInteger:                   "DivideInteger",
	QuotientInteger:                 "QuotientInteger",
	RemainderInteger:                "RemainderInteger",
	ModInteger:                      "ModInteger",
	EqualsInteger:                   "EqualsInteger",
	LessThanInteger:                 "LessThanInteger",
	LessThanEqualsInteger:           "LessThanEqualsInteger",
	AppendByteString:                "AppendByteString",
	ConsByteString:                  "ConsByteString",
	SliceByteString:                 "SliceByteString",
	LengthOfByteString:              "LengthOfByteString",
	IndexByteString:                 "IndexByteString",
	EqualsByteString:                "EqualsByteString",
	LessThanByteString:              "LessThanByteString",
	LessThanEqualsByteString:        "LessThanEqualsByteString",
	AppendString:                    "AppendString",
	EqualsString:                    "EqualsString",
	EncodeUtf8:                      "EncodeUtf8",
	DecodeUtf8:                      "DecodeUtf8",
	Sha2_256:                        "Sha2_256",
	Sha3_256:                        "Sha3_256",
	Blake2b_256:                     "Blake2b_256",
	VerifyEd25519Signature:          "VerifyEd25519Signature",
	VerifyEcdsaSecp256k1Signature:   "VerifyEcdsaSecp256k1Signature",
	VerifySchnorrSecp256k1Signature: "VerifySchnorrSecp256k1Signature",
	ConstrData:                      "ConstrData",
	MapData:                         "MapData",
	ListData:                        "ListData",
	IData:                           "IData",
	BData:                           "BData",
	UnConstrData:                    "UnConstrData",
	UnMapData:                       "UnMapData",
	UnListData:                      "UnListData",
	UnIData:                         "UnIData",
	UnBData:                         "UnBData",
	EqualsData:                      "EqualsData",
	ChooseData:                      "ChooseData",
	MkCons:                          "MkCons",
	MkNilData:                       "MkNilData",
	MkNilPairData:                   "MkNilPairData",
	HeadList:                        "HeadList",
	TailList:                        "TailList",
	NullList:                        "NullList",
	ChooseList:                      "ChooseList",
	FstPair:                         "FstPair",
	SndPair:                         "SndPair",
	MkPairData:                      "MkPairData",
	IfThenElse:                      "IfThenElse",
	ChooseUnit:                      "ChooseUnit",
	Trace:                           "Trace",
}

func (t Tag) String() string {
	if int(t) < len(names) && names[t] != "" {
		return names[t]
	}
	return fmt.Sprintf("Tag(%d)", t)
}

// Valid reports whether t is a known built-in tag.
func (t Tag) Valid() bool { return t < numBuiltins }

// Count is the number of defined built-in tags.
const Count = int(numBuiltins)

// Signature describes the arity and force count of a built-in, which
// the CEK machine needs to know when a VBuiltin value is saturated
// (§4.4).
type Signature struct {
	Arity      int
	ForceCount int
}

var signatures = [numBuiltins]Signature{
	AddInteger:                      {Arity: 2},
	SubtractInteger:                 {Arity: 2},
	MultiplyInteger:                 {Arity: 2},
	DivideInteger:                   {Arity: 2},
	QuotientInteger:                 {Arity: 2},
	RemainderInteger:                {Arity: 2},
	ModInteger:                      {Arity: 2},
	EqualsInteger:                   {Arity: 2},
	LessThanInteger:                 {Arity: 2},
	LessThanEqualsInteger:           {Arity: 2},
	AppendByteString:                {Arity: 2},
	ConsByteString:                  {Arity: 2},
	SliceByteString:                 {Arity: 3},
	LengthOfByteString:              {Arity: 1},
	IndexByteString:                 {Arity: 2},
	EqualsByteString:                {Arity: 2},
	LessThanByteString:              {Arity: 2},
	LessThanEqualsByteString:        {Arity: 2},
	AppendString:                    {Arity: 2},
	EqualsString:                    {Arity: 2},
	EncodeUtf8:                      {Arity: 1},
	DecodeUtf8:                      {Arity: 1},
	Sha2_256:                        {Arity: 1},
	Sha3_256:                        {Arity: 1},
	Blake2b_256:                     {Arity: 1},
	VerifyEd25519Signature:          {Arity: 3},
	VerifyEcdsaSecp256k1Signature:   {Arity: 3},
	VerifySchnorrSecp256k1Signature: {Arity: 3},
	ConstrData:                      {Arity: 2},
	MapData:                         {Arity: 1},
	ListData:                        {Arity: 1},
	IData:                           {Arity: 1},
	BData:                           {Arity: 1},
	UnConstrData:                    {Arity: 1},
	UnMapData:                       {Arity: 1},
	UnListData:                      {Arity: 1},
	UnIData:                         {Arity: 1},
	UnBData:                         {Arity: 1},
	EqualsData:                      {Arity: 2},
	ChooseData:                      {Arity: 6, ForceCount: 1},
	MkCons:                          {Arity: 2, ForceCount: 1},
	MkNilData:                       {Arity: 1},
	MkNilPairData:                   {Arity: 1},
	HeadList:                        {Arity: 1, ForceCount: 1},
	TailList:                        {Arity: 1, ForceCount: 1},
	NullList:                        {Arity: 1, ForceCount: 1},
	ChooseList:                      {Arity: 3, ForceCount: 2},
	FstPair:                         {Arity: 1, ForceCount: 2},
	SndPair:                         {Arity: 1, ForceCount: 2},
	MkPairData:                      {Arity: 2},
	IfThenElse:                      {Arity: 3, ForceCount: 1},
	ChooseUnit:                      {Arity: 2, ForceCount: 1},
	Trace:                           {Arity: 2, ForceCount: 1},
}

// SignatureOf returns the arity and force count for a built-in tag.
func SignatureOf(t Tag) Signature { return signatures[t] }
