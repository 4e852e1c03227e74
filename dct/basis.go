// Copyright 2025 go-blockdct Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dct

import "math"

// BlockSize is the edge length of a transform block.
const BlockSize = 8

// blockPeriod is the cosine period denominator of the 8-point basis.
const blockPeriod = 2 * BlockSize

var invSqrt2 = 1 / math.Sqrt2

// alpha is the orthonormal scaling coefficient of basis index k.
func alpha(k int) float64 {
	if k == 0 {
		return invSqrt2
	}
	return 1
}

// cosine returns cos((2i+1)kπ/period).
func cosine(i, k int, period float64) float64 {
	return math.Cos(((2*float64(i) + 1) * float64(k) * math.Pi) / period)
}

// blockCos[k][i] = cos((2i+1)kπ/16).
var blockCos = cosineTable(BlockSize, blockPeriod)

// cosineTable returns t[k][i] = cos((2i+1)kπ/period) for k, i in [0, n).
func cosineTable(n int, period float64) [][]float64 {
	t := make([][]float64, n)
	for k := range n {
		t[k] = make([]float64, n)
		for i := range n {
			t[k][i] = cosine(i, k, period)
		}
	}
	return t
}

// accumulate returns sum + a*b, fused when fma is set.
func accumulate(sum, a, b float64, fma bool) float64 {
	if fma {
		return math.FMA(a, b, sum)
	}
	return sum + a*b
}
