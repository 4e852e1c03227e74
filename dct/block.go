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

import (
	"fmt"

	"github.com/ajroetker/go-blockdct/dct/contrib/image"
)

// BlockDCT writes the forward DCT of the 8x8 block of src with top-left
// corner (ox, oy) into the same block of dst, for every channel src carries.
// src and dst must have the same shape and the block must lie inside them;
// otherwise BlockDCT panics.
func BlockDCT(src, dst *image.Image, ox, oy int) {
	checkBlock(src, dst, ox, oy)
	level := currentLevel
	for _, c := range src.Mode().Channels() {
		blockForward(src.Plane(c), dst.Plane(c), src.Width(), ox, oy, level)
	}
}

// BlockIDCT writes the inverse DCT of the 8x8 coefficient block of src with
// top-left corner (ox, oy) into the same block of dst. The shape requirements
// of BlockDCT apply.
func BlockIDCT(src, dst *image.Image, ox, oy int) {
	checkBlock(src, dst, ox, oy)
	level := currentLevel
	for _, c := range src.Mode().Channels() {
		blockInverse(src.Plane(c), dst.Plane(c), src.Width(), ox, oy, level)
	}
}

func checkBlock(src, dst *image.Image, ox, oy int) {
	if !image.SameShape(src, dst) {
		panic(fmt.Sprintf("dct: shape mismatch %dx%d/%v vs %dx%d/%v",
			src.Width(), src.Height(), src.Mode(), dst.Width(), dst.Height(), dst.Mode()))
	}
	if ox < 0 || oy < 0 || ox+BlockSize > src.Width() || oy+BlockSize > src.Height() {
		panic(fmt.Sprintf("dct: block (%d, %d) outside %dx%d image", ox, oy, src.Width(), src.Height()))
	}
}

// blockForward transforms one 8x8 block of a row-major plane.
func blockForward(src, dst []float64, stride, ox, oy int, level Level) {
	if level == LevelSIMD {
		blockForwardSIMD(src, dst, stride, ox, oy)
		return
	}
	fma := level == LevelFMA
	for u := range BlockSize {
		for v := range BlockSize {
			sum := 0.0
			for x := range BlockSize {
				for y := range BlockSize {
					s := src[(oy+y)*stride+ox+x]
					if level == LevelReference {
						sum += s * cosine(x, u, blockPeriod) * cosine(y, v, blockPeriod)
						continue
					}
					sum = accumulate(sum, s*blockCos[u][x], blockCos[v][y], fma)
				}
			}
			dst[(oy+v)*stride+ox+u] = 0.25 * alpha(u) * alpha(v) * sum
		}
	}
}

// blockInverse reconstructs one 8x8 block of a row-major plane from its coefficients.
func blockInverse(src, dst []float64, stride, ox, oy int, level Level) {
	if level == LevelSIMD {
		blockInverseSIMD(src, dst, stride, ox, oy)
		return
	}
	fma := level == LevelFMA
	for x := range BlockSize {
		for y := range BlockSize {
			sum := 0.0
			for u := range BlockSize {
				for v := range BlockSize {
					s := src[(oy+v)*stride+ox+u]
					if level == LevelReference {
						sum += s * alpha(u) * alpha(v) * cosine(x, u, blockPeriod) * cosine(y, v, blockPeriod)
						continue
					}
					sum = accumulate(sum, s*alpha(u)*alpha(v)*blockCos[u][x], blockCos[v][y], fma)
				}
			}
			dst[(oy+y)*stride+ox+x] = 0.25 * sum
		}
	}
}
