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
	"path/filepath"
	"testing"

	"github.com/lumenchain/lumen/flat"
	"github.com/lumenchain/lumen/term"
)

// identityValidator compiles (\x. x) applied to one parameter slot
// left open, i.e. \param. param, matching the simplest possible
// parameterized validator shape.
func identityValidator(t *testing.T) Validator {
	t.Helper()
	body := term.Lambda(term.DeBruijn{}, term.Var(term.DeBruijn{Index: 1}))
	prog := term.Program[term.DeBruijn]{Version: term.Version{Major: 1}, Term: body}
	enc, err := flat.EncodeProgram(prog)
	if err != nil {
		t.Fatal(err)
	}
	return Validator{
		Title:        "identity",
		CompiledCode: hex.EncodeToString(flat.WrapCBORBytes(enc)),
	}
}

func TestWithValidatorComputesHash(t *testing.T) {
	bp := New("test", "v2")
	v := identityValidator(t)
	bp, err := bp.WithValidator(v)
	if err != nil {
		t.Fatal(err)
	}
	if bp.Validators[0].Hash == "" {
		t.Fatal("expected a computed hash")
	}
	if _, err := hex.DecodeString(bp.Validators[0].Hash); err != nil {
		t.Fatalf("hash not valid hex: %v", err)
	}
	if len(bp.Validators[0].Hash) != ScriptHashSize*2 {
		t.Fatalf("hash length = %d, want %d hex chars", len(bp.Validators[0].Hash), ScriptHashSize*2)
	}
}

func TestApplyChangesHash(t *testing.T) {
	v := identityValidator(t)
	applied, err := Apply(v, []term.Constant{term.NewInteger(42)})
	if err != nil {
		t.Fatal(err)
	}
	orig, _ := hashCompiledCode(v.CompiledCode)
	after, _ := hashCompiledCode(applied.CompiledCode)
	if hex.EncodeToString(orig[:]) == hex.EncodeToString(after[:]) {
		t.Fatal("expected applying a parameter to change the compiled code hash")
	}
}

func TestAddressShapes(t *testing.T) {
	var hash [ScriptHashSize]byte
	copy(hash[:], []byte("01234567890123456789012345678"))

	ent := Address(hash, Mainnet, nil)
	if ent[0] != (0x7<<4)|byte(Mainnet) {
		t.Fatalf("enterprise header = %x", ent[0])
	}
	if len(ent) != 1+ScriptHashSize {
		t.Fatalf("enterprise address length = %d", len(ent))
	}

	stake := &Credential{Hash: hash}
	base := Address(hash, Testnet, stake)
	if base[0] != (0x1<<4)|byte(Testnet) {
		t.Fatalf("base header = %x", base[0])
	}
	if len(base) != 1+2*ScriptHashSize {
		t.Fatalf("base address length = %d", len(base))
	}
}

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	bp := New("roundtrip", "v2")
	v := identityValidator(t)
	bp, err = bp.WithValidator(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Put("roundtrip", bp); err != nil {
		t.Fatal(err)
	}
	got, err := c.Get("roundtrip")
	if err != nil {
		t.Fatal(err)
	}
	if got.Preamble.Title != bp.Preamble.Title || len(got.Validators) != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
