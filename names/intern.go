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

package names

import "github.com/lumenchain/lumen/term"

// Interner assigns a stable Unique to each distinct binder text seen
// by a single translation session (the external compiler builds
// Named terms by binder text; this is the bridge from "a name was
// typed twice" to "these two Named values share a Unique"). It is not
// used by the translator itself, which only ever consumes Uniques
// already assigned by the caller.
type Interner struct {
	table *internTable
	src   *UniqueSource
}

// NewInterner returns an empty Interner backed by u.
func NewInterner(u *UniqueSource) *Interner {
	return &Interner{table: newInternTable(), src: u}
}

// Intern returns a Named value for text, reusing the Unique assigned
// the first time this exact text was interned by this session. The
// lookup itself goes through the siphash-sharded table rather than a
// plain map, so every repeated name is resolved by hashing into its
// shard and scanning only that shard's entries.
func (in *Interner) Intern(text string) term.Named {
	if uq, ok := in.table.lookup(text); ok {
		return term.Named{Text: text, Unique: uq}
	}
	uq := in.src.Next()
	in.table.insert(text, uq)
	return term.Named{Text: text, Unique: uq}
}
