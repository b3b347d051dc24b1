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

package cost

import "fmt"

// CostFuncKind names one of the per-argument cost function shapes
// listed in §4.3.
type CostFuncKind uint8

const (
	FnConstant CostFuncKind = iota
	FnLinearInX
	FnLinearInY
	FnLinearInZ
	FnLinearInMaxYZ
	FnLinearInXY
	FnQuadraticInY
	FnSubtractedSizes
	FnLiteralInYOrLinearInZ
	FnConstAboveThreshold
)

// CostFunc evaluates to a single CPU or memory cost given the sizes
// of a built-in's arguments (x, y, z, ... in argument order).
// Intercept/Slope are "a"/"b" in the spec's `linearInX(a,b)` notation;
// ConstAboveThreshold returns Slope when x exceeds Threshold and
// Intercept otherwise; Floor is the lower bound SubtractedSizes
// saturates at.
type CostFunc struct {
	Kind      CostFuncKind
	Intercept int64
	Slope     int64
	Threshold int64
	Floor     int64
}

// Eval computes the cost for the given argument sizes. The argument
// count required depends on Kind: LinearInX/Y/Z, QuadraticInY and
// ConstAboveThreshold read a single dimension (x, y or z), while
// LiteralInYOrLinearInZ reads z; LinearInXY and SubtractedSizes read
// the pair (x,y) and LinearInMaxYZ the pair (y,z). A missing dimension
// is an error.
func (f CostFunc) Eval(sizes []int64) (int64, error) {
	dim := func(i int) (int64, error) {
		if i >= len(sizes) {
			return 0, fmt.Errorf("cost: cost function needs argument %d, got %d sizes", i, len(sizes))
		}
		return sizes[i], nil
	}
	switch f.Kind {
	case FnConstant:
		return f.Intercept, nil
	case FnLinearInX:
		x, err := dim(0)
		if err != nil {
			return 0, err
		}
		return f.Intercept + f.Slope*x, nil
	case FnLinearInY:
		y, err := dim(1)
		if err != nil {
			return 0, err
		}
		return f.Intercept + f.Slope*y, nil
	case FnLinearInZ:
		z, err := dim(2)
		if err != nil {
			return 0, err
		}
		return f.Intercept + f.Slope*z, nil
	case FnLinearInMaxYZ:
		y, err := dim(1)
		if err != nil {
			return 0, err
		}
		z, err := dim(2)
		if err != nil {
			return 0, err
		}
		return f.Intercept + f.Slope*max64(y, z), nil
	case FnLinearInXY:
		x, err := dim(0)
		if err != nil {
			return 0, err
		}
		y, err := dim(1)
		if err != nil {
			return 0, err
		}
		return f.Intercept + f.Slope*(x+y), nil
	case FnQuadraticInY:
		y, err := dim(1)
		if err != nil {
			return 0, err
		}
		return f.Intercept + f.Slope*y + y*y, nil
	case FnSubtractedSizes:
		x, err := dim(0)
		if err != nil {
			return 0, err
		}
		y, err := dim(1)
		if err != nil {
			return 0, err
		}
		v := f.Intercept + f.Slope*(x-y)
		if v < f.Floor {
			return f.Floor, nil
		}
		return v, nil
	case FnLiteralInYOrLinearInZ:
		// Used by built-ins whose cost depends on whichever of two
		// arguments is the "dynamic" one (e.g. a fixed-shape literal
		// vs. a runtime-sized byte string); lumen always has the
		// size available up front, so this collapses to linear in z.
		z, err := dim(2)
		if err != nil {
			return 0, err
		}
		return f.Intercept + f.Slope*z, nil
	case FnConstAboveThreshold:
		x, err := dim(0)
		if err != nil {
			return 0, err
		}
		if x > f.Threshold {
			return f.Slope, nil
		}
		return f.Intercept, nil
	default:
		return 0, fmt.Errorf("cost: unknown cost function kind %d", f.Kind)
	}
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
