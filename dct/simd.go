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

import "github.com/ajroetker/go-highway/hwy/contrib/matmul"

const blockArea = BlockSize * BlockSize

// dctMatrix is the orthonormal 8-point DCT matrix C, row-major:
// C[u][x] = 1/2 α(u) cos((2x+1)uπ/16). dctMatrixT is its transpose.
var dctMatrix, dctMatrixT = newDCTMatrix()

func newDCTMatrix() (c, ct []float64) {
	c = make([]float64, blockArea)
	ct = make([]float64, blockArea)
	for u := range BlockSize {
		for x := range BlockSize {
			v := 0.5 * alpha(u) * blockCos[u][x]
			c[u*BlockSize+x] = v
			ct[x*BlockSize+u] = v
		}
	}
	return c, ct
}

// loadBlock copies the 8x8 block at (ox, oy) of a plane into b, rows of b
// being image rows.
func loadBlock(b, plane []float64, stride, ox, oy int) {
	for y := range BlockSize {
		copy(b[y*BlockSize:(y+1)*BlockSize], plane[(oy+y)*stride+ox:])
	}
}

func storeBlock(plane, b []float64, stride, ox, oy int) {
	for y := range BlockSize {
		copy(plane[(oy+y)*stride+ox:(oy+y)*stride+ox+BlockSize], b[y*BlockSize:])
	}
}

// matmulBlock sets out = a·b for 8x8 row-major matrices.
func matmulBlock(a, b, out []float64) {
	matmul.MatMulFloat64(a, b, out, BlockSize, BlockSize, BlockSize)
}

// blockForwardSIMD computes the coefficient block C·B·Cᵀ. Row v, column u of
// the result is F(u, v), matching the layout of blockForward.
func blockForwardSIMD(src, dst []float64, stride, ox, oy int) {
	var b, tmp, out [blockArea]float64
	loadBlock(b[:], src, stride, ox, oy)
	matmulBlock(dctMatrix, b[:], tmp[:])
	matmulBlock(tmp[:], dctMatrixT, out[:])
	storeBlock(dst, out[:], stride, ox, oy)
}

// blockInverseSIMD reconstructs the sample block Cᵀ·F·C.
func blockInverseSIMD(src, dst []float64, stride, ox, oy int) {
	var f, tmp, out [blockArea]float64
	loadBlock(f[:], src, stride, ox, oy)
	matmulBlock(dctMatrixT, f[:], tmp[:])
	matmulBlock(tmp[:], dctMatrix, out[:])
	storeBlock(dst, out[:], stride, ox, oy)
}
