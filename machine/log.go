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

import "github.com/lumenchain/lumen/cost"

// DefaultLogCap and DefaultLogBytesCap resolve the open question in
// spec.md §9 ("the source sets no explicit cap; implementations
// should impose one"): 10,000 entries or 1 MiB total, whichever trips
// first.
const (
	DefaultLogCap      = 10000
	DefaultLogBytesCap = 1 << 20
)

// logBuffer is the bounded buffer the `trace` built-in appends to
// (§4.4). Once either cap is reached, further appends are silently
// dropped rather than erroring: a script that logs too much still
// finishes running (or runs out of budget on its own), it just stops
// being able to see further trace output.
type logBuffer struct {
	entries  []string
	bytes    int
	capN     int
	capBytes int
}

func newLogBuffer() *logBuffer {
	return &logBuffer{capN: DefaultLogCap, capBytes: DefaultLogBytesCap}
}

// append records s and returns the additional memory cost it
// incurred (0 if the buffer was already full and s was dropped).
func (l *logBuffer) append(s string) cost.ExBudget {
	if len(l.entries) >= l.capN || l.bytes+len(s) > l.capBytes {
		return cost.ExBudget{}
	}
	l.entries = append(l.entries, s)
	l.bytes += len(s)
	return cost.ExBudget{Mem: int64((len(s) + 7) / 8)}
}
