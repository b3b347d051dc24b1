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

package blueprint

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// ScriptHashSize is the length of a Cardano script hash (§6).
const ScriptHashSize = 28

// ledgerLanguageTag is the byte prepended to a script's serialized
// bytes before hashing, one per Plutus ledger language (distinct
// languages with identical bytes must still hash differently).
func ledgerLanguageTag(plutusVersion string) (byte, error) {
	switch plutusVersion {
	case "v1":
		return 0x01, nil
	case "v2":
		return 0x02, nil
	case "v3":
		return 0x03, nil
	default:
		return 0, fmt.Errorf("blueprint: unknown plutus version %q", plutusVersion)
	}
}

// hashCompiledCode computes the blake2b-224 script hash of a hex
// flat-wrapped validator, tagging the script bytes with the v2
// ledger-language byte (this package's default target).
func hashCompiledCode(compiledCodeHex string) ([ScriptHashSize]byte, error) {
	raw, err := hex.DecodeString(compiledCodeHex)
	if err != nil {
		return [ScriptHashSize]byte{}, fmt.Errorf("blueprint: invalid hex: %w", err)
	}
	tag, err := ledgerLanguageTag("v2")
	if err != nil {
		return [ScriptHashSize]byte{}, err
	}
	return hashScriptBytes(tag, raw)
}

func hashScriptBytes(tag byte, raw []byte) ([ScriptHashSize]byte, error) {
	h, err := blake2b.New(ScriptHashSize, nil)
	if err != nil {
		return [ScriptHashSize]byte{}, err
	}
	h.Write([]byte{tag})
	h.Write(raw)
	var out [ScriptHashSize]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// Credential is a payment or stake credential: either a key hash or a
// script hash, distinguished because the Shelley address header
// encodes which kind each half of an address is.
type Credential struct {
	Hash     [ScriptHashSize]byte
	IsScript bool
}

// Network selects which Shelley network an address targets.
type Network byte

const (
	Testnet Network = 0x00
	Mainnet Network = 0x01
)

// Address renders a Shelley-era address (CIP-0019) for a script
// payment credential, with an optional stake credential producing a
// base address instead of an enterprise address (§6, "address").
func Address(scriptHash [ScriptHashSize]byte, network Network, stake *Credential) []byte {
	var header byte
	body := make([]byte, 0, 1+ScriptHashSize*2)
	if stake == nil {
		header = (0x7 << 4) | byte(network) // enterprise, payment = script
		body = append(body, header)
		body = append(body, scriptHash[:]...)
		return body
	}
	addrType := byte(0x1) // base address, payment = script, stake = key
	if stake.IsScript {
		addrType = 0x3 // base address, payment = script, stake = script
	}
	header = (addrType << 4) | byte(network)
	body = append(body, header)
	body = append(body, scriptHash[:]...)
	body = append(body, stake.Hash[:]...)
	return body
}
