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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/klauspost/compress/zstd"
)

var (
	cacheDec *zstd.Decoder
	cacheEnc *zstd.Encoder
)

func init() {
	cacheDec, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(runtime.GOMAXPROCS(0)))
	cacheEnc, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
}

// cacheMagic begins every cache entry so Get can reject a
// differently-shaped file up front instead of failing deep inside
// JSON decoding.
var cacheMagic = []byte{0x83, 'b', 'p', '1'}

// Cache stores parsed, validated blueprints on disk as zstd-compressed
// JSON, keyed by a caller-chosen name (typically the blueprint's
// title plus a content hash), so a CLI invocation that repeatedly
// loads the same plutus.json doesn't re-parse and re-hash every
// validator on every run.
type Cache struct {
	Dir string
}

// NewCache opens (creating if necessary) a cache rooted at dir.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blueprint: cache: %w", err)
	}
	return &Cache{Dir: dir}, nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.Dir, key+".bpz")
}

// Put compresses and writes bp under key, overwriting any existing
// entry.
func (c *Cache) Put(key string, bp *Blueprint) error {
	raw, err := json.Marshal(bp)
	if err != nil {
		return fmt.Errorf("blueprint: cache: encode: %w", err)
	}
	out := append(append([]byte{}, cacheMagic...), cacheEnc.EncodeAll(raw, nil)...)
	return os.WriteFile(c.path(key), out, 0o644)
}

// Get reads and decompresses the blueprint stored under key. It
// returns an error wrapping os.ErrNotExist when no such entry exists,
// so callers can fall through to a fresh parse.
func (c *Cache) Get(key string) (*Blueprint, error) {
	raw, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, err
	}
	if len(raw) < len(cacheMagic) || string(raw[:len(cacheMagic)]) != string(cacheMagic) {
		return nil, fmt.Errorf("blueprint: cache: %s: bad magic", key)
	}
	decoded, err := cacheDec.DecodeAll(raw[len(cacheMagic):], nil)
	if err != nil {
		return nil, fmt.Errorf("blueprint: cache: decompress: %w", err)
	}
	var bp Blueprint
	if err := json.Unmarshal(decoded, &bp); err != nil {
		return nil, fmt.Errorf("blueprint: cache: decode: %w", err)
	}
	return &bp, nil
}
