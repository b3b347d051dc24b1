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

package term

// Size is the central sizing function the cost model charges memory
// and per-argument cost functions against (§4.3: "Size is defined per
// type"). It is kept in one place, used by package machine when it
// costs a builtin's arguments, rather than re-derived at each call site.
func Size(c Constant) int64 {
	switch c.Tag {
	case CInteger:
		return int64(limbCount(c.Integer))
	case CByteString:
		return int64((len(c.ByteString) + 7) / 8)
	case CString:
		return int64((len(c.String) + 7) / 8)
	case CUnit:
		return 1
	case CBool:
		return 1
	case CData:
		return c.Data.Size()
	case CProtoList:
		n := int64(0)
		for i := range c.Items {
			n += Size(c.Items[i])
		}
		return n
	case CProtoPair:
		return Size(*c.A) + Size(*c.B)
	default:
		return 0
	}
}
