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

// Package secp256k1 implements just enough curve arithmetic to verify
// ECDSA and BIP-340 Schnorr signatures over secp256k1 (§4.5,
// VerifyEcdsaSecp256k1Signature / VerifySchnorrSecp256k1Signature).
//
// No maintained secp256k1 package turned up anywhere in the retrieved
// corpus, so this is the one builtin pair implemented directly against
// math/big rather than an ecosystem library (see DESIGN.md). It is
// unoptimized affine-coordinate double-and-add, adequate for verifying
// single signatures but not for anything performance sensitive.
package secp256k1

import (
	"crypto/sha256"
	"errors"
	"math/big"
)

var (
	// p is the field prime, n the group order, (gx, gy) the base point.
	p  = mustHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F")
	n  = mustHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141")
	gx = mustHex("79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798")
	gy = mustHex("483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8")
	b7 = big.NewInt(7)

	errInvalidSignature = errors.New("secp256k1: invalid signature encoding")
	errInvalidPublicKey = errors.New("secp256k1: invalid public key encoding")
)

func mustHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("secp256k1: bad constant " + s)
	}
	return v
}

// point is an affine curve point; a nil X represents the identity.
type point struct{ X, Y *big.Int }

func isInfinity(pt point) bool { return pt.X == nil }

func mod(v *big.Int) *big.Int { return new(big.Int).Mod(v, p) }

func double(a point) point {
	if isInfinity(a) {
		return a
	}
	// lambda = (3x^2) / (2y) mod p
	xx := new(big.Int).Mul(a.X, a.X)
	num := mod(new(big.Int).Mul(big.NewInt(3), xx))
	den := new(big.Int).ModInverse(mod(new(big.Int).Mul(big.NewInt(2), a.Y)), p)
	if den == nil {
		return point{}
	}
	lambda := mod(new(big.Int).Mul(num, den))
	x3 := mod(new(big.Int).Sub(new(big.Int).Mul(lambda, lambda), new(big.Int).Mul(big.NewInt(2), a.X)))
	y3 := mod(new(big.Int).Sub(new(big.Int).Mul(lambda, new(big.Int).Sub(a.X, x3)), a.Y))
	return point{X: x3, Y: y3}
}

func add(a, b point) point {
	if isInfinity(a) {
		return b
	}
	if isInfinity(b) {
		return a
	}
	if a.X.Cmp(b.X) == 0 {
		if a.Y.Cmp(b.Y) != 0 {
			return point{}
		}
		return double(a)
	}
	den := new(big.Int).ModInverse(mod(new(big.Int).Sub(b.X, a.X)), p)
	if den == nil {
		return point{}
	}
	lambda := mod(new(big.Int).Mul(mod(new(big.Int).Sub(b.Y, a.Y)), den))
	x3 := mod(new(big.Int).Sub(new(big.Int).Sub(new(big.Int).Mul(lambda, lambda), a.X), b.X))
	y3 := mod(new(big.Int).Sub(new(big.Int).Mul(lambda, new(big.Int).Sub(a.X, x3)), a.Y))
	return point{X: x3, Y: y3}
}

func scalarMult(k *big.Int, pt point) point {
	result := point{}
	base := pt
	kk := new(big.Int).Mod(k, n)
	for i := 0; i < kk.BitLen(); i++ {
		if kk.Bit(i) == 1 {
			result = add(result, base)
		}
		base = double(base)
	}
	return result
}

func negate(pt point) point {
	if isInfinity(pt) {
		return pt
	}
	return point{X: pt.X, Y: mod(new(big.Int).Neg(pt.Y))}
}

func basePoint() point { return point{X: new(big.Int).Set(gx), Y: new(big.Int).Set(gy)} }

// sqrtMod computes a square root of v mod p, valid because p % 4 == 3.
func sqrtMod(v *big.Int) *big.Int {
	exp := new(big.Int).Rsh(new(big.Int).Add(p, big.NewInt(1)), 2)
	return new(big.Int).Exp(v, exp, p)
}

func onCurve(x, y *big.Int) bool {
	lhs := mod(new(big.Int).Mul(y, y))
	rhs := mod(new(big.Int).Add(mod(new(big.Int).Exp(x, big.NewInt(3), p)), b7))
	return lhs.Cmp(rhs) == 0
}

// parsePublicKey accepts SEC1 compressed (33 byte) or uncompressed (65
// byte) encodings.
func parsePublicKey(b []byte) (point, error) {
	switch {
	case len(b) == 65 && b[0] == 0x04:
		x := new(big.Int).SetBytes(b[1:33])
		y := new(big.Int).SetBytes(b[33:65])
		if !onCurve(x, y) {
			return point{}, errInvalidPublicKey
		}
		return point{X: x, Y: y}, nil
	case len(b) == 33 && (b[0] == 0x02 || b[0] == 0x03):
		x := new(big.Int).SetBytes(b[1:33])
		y2 := mod(new(big.Int).Add(mod(new(big.Int).Exp(x, big.NewInt(3), p)), b7))
		y := sqrtMod(y2)
		if y.Bit(0) != uint(b[0]&1) {
			y = mod(new(big.Int).Neg(y))
		}
		if !onCurve(x, y) {
			return point{}, errInvalidPublicKey
		}
		return point{X: x, Y: y}, nil
	default:
		return point{}, errInvalidPublicKey
	}
}

// liftX recovers the even-Y point for a BIP-340 x-only public key.
func liftX(xb []byte) (point, error) {
	if len(xb) != 32 {
		return point{}, errInvalidPublicKey
	}
	x := new(big.Int).SetBytes(xb)
	if x.Cmp(p) >= 0 {
		return point{}, errInvalidPublicKey
	}
	y2 := mod(new(big.Int).Add(mod(new(big.Int).Exp(x, big.NewInt(3), p)), b7))
	y := sqrtMod(y2)
	if !onCurve(x, y) {
		return point{}, errInvalidPublicKey
	}
	if y.Bit(0) != 0 {
		y = mod(new(big.Int).Neg(y))
	}
	return point{X: x, Y: y}, nil
}

// VerifyECDSA checks a raw (r||s), 64-byte ECDSA signature of msg under
// pubKey (33 or 65 byte SEC1 encoding), per Cardano's plutus convention
// of hashing the message with SHA-256 before verification.
func VerifyECDSA(pubKey, msg, sig []byte) (bool, error) {
	if len(sig) != 64 {
		return false, errInvalidSignature
	}
	pub, err := parsePublicKey(pubKey)
	if err != nil {
		return false, err
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	if r.Sign() == 0 || r.Cmp(n) >= 0 || s.Sign() == 0 || s.Cmp(n) >= 0 {
		return false, nil
	}
	digest := sha256.Sum256(msg)
	z := new(big.Int).SetBytes(digest[:])

	w := new(big.Int).ModInverse(s, n)
	if w == nil {
		return false, nil
	}
	u1 := mod2(new(big.Int).Mul(z, w), n)
	u2 := mod2(new(big.Int).Mul(r, w), n)
	R := add(scalarMult(u1, basePoint()), scalarMult(u2, pub))
	if isInfinity(R) {
		return false, nil
	}
	return mod2(R.X, n).Cmp(r) == 0, nil
}

func mod2(v, m *big.Int) *big.Int { return new(big.Int).Mod(v, m) }

func taggedHash(tag string, parts ...[]byte) [32]byte {
	t := sha256.Sum256([]byte(tag))
	h := sha256.New()
	h.Write(t[:])
	h.Write(t[:])
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// VerifySchnorr checks a BIP-340 Schnorr signature of msg under the
// 32-byte x-only pubKey.
func VerifySchnorr(pubKey, msg, sig []byte) (bool, error) {
	if len(sig) != 64 || len(pubKey) != 32 {
		return false, errInvalidSignature
	}
	P, err := liftX(pubKey)
	if err != nil {
		return false, err
	}
	rb := sig[:32]
	r := new(big.Int).SetBytes(rb)
	s := new(big.Int).SetBytes(sig[32:])
	if r.Cmp(p) >= 0 || s.Cmp(n) >= 0 {
		return false, nil
	}
	e := taggedHash("BIP0340/challenge", rb, pubKey, msg)
	eInt := mod2(new(big.Int).SetBytes(e[:]), n)

	sg := scalarMult(s, basePoint())
	eP := scalarMult(eInt, P)
	R := add(sg, negate(eP))
	if isInfinity(R) || R.Y.Bit(0) != 0 {
		return false, nil
	}
	return R.X.Cmp(r) == 0, nil
}
