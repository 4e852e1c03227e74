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
	"github.com/ajroetker/go-blockdct/dct/contrib/workerpool"
)

// fullBasis holds the cosine tables of a whole-image transform.
type fullBasis struct {
	width, height int
	period        float64
	norm          float64
	level         Level

	// cx[k][i] over the width, cy[k][i] over the height; nil at LevelReference.
	cx, cy [][]float64
}

func newFullBasis(width, height int) *fullBasis {
	b := &fullBasis{
		width:  width,
		height: height,
		period: float64(width + height),
		norm:   1 / (float64(height) / 2),
		level:  currentLevel,
	}
	if b.level != LevelReference {
		b.cx = cosineTable(width, b.period)
		b.cy = cosineTable(height, b.period)
	}
	return b
}

func (b *fullBasis) cosX(i, k int) float64 {
	if b.cx == nil {
		return cosine(i, k, b.period)
	}
	return b.cx[k][i]
}

func (b *fullBasis) cosY(i, k int) float64 {
	if b.cy == nil {
		return cosine(i, k, b.period)
	}
	return b.cy[k][i]
}

// forwardColumn computes coefficient column u of a plane.
func (b *fullBasis) forwardColumn(src, dst []float64, u int) {
	fma := b.level >= LevelFMA
	for v := range b.height {
		sum := 0.0
		for x := range b.width {
			cu := b.cosX(x, u)
			for y := range b.height {
				sum = accumulate(sum, src[y*b.width+x]*cu, b.cosY(y, v), fma)
			}
		}
		dst[v*b.width+u] = b.norm * alpha(u) * alpha(v) * sum
	}
}

// inverseColumn reconstructs sample column x of a plane.
func (b *fullBasis) inverseColumn(src, dst []float64, x int) {
	fma := b.level >= LevelFMA
	for y := range b.height {
		sum := 0.0
		for u := range b.width {
			cu := alpha(u) * b.cosX(x, u)
			for v := range b.height {
				sum = accumulate(sum, src[v*b.width+u]*alpha(v)*cu, b.cosY(y, v), fma)
			}
		}
		dst[y*b.width+x] = sum * b.norm
	}
}

func checkShape(src, dst *image.Image) {
	if !image.SameShape(src, dst) {
		panic(fmt.Sprintf("dct: shape mismatch %dx%d/%v vs %dx%d/%v",
			src.Width(), src.Height(), src.Mode(), dst.Width(), dst.Height(), dst.Mode()))
	}
}

// FullDCT writes the whole-image forward transform of src into dst.
// src and dst must have the same shape. Cost grows with the square of the
// pixel count.
func FullDCT(src, dst *image.Image) {
	ParallelFullDCT(nil, src, dst)
}

// FullIDCT writes the whole-image inverse transform of src into dst.
func FullIDCT(src, dst *image.Image) {
	ParallelFullIDCT(nil, src, dst)
}

// ParallelFullDCT is FullDCT with coefficient columns spread over pool.
// A nil pool runs on the calling goroutine.
func ParallelFullDCT(pool *workerpool.Pool, src, dst *image.Image) {
	checkShape(src, dst)
	b := newFullBasis(src.Width(), src.Height())
	for _, c := range src.Mode().Channels() {
		s, d := src.Plane(c), dst.Plane(c)
		forEachColumn(pool, b.width, func(u int) {
			b.forwardColumn(s, d, u)
		})
	}
}

// ParallelFullIDCT is FullIDCT with output columns spread over pool.
// A nil pool runs on the calling goroutine.
func ParallelFullIDCT(pool *workerpool.Pool, src, dst *image.Image) {
	checkShape(src, dst)
	b := newFullBasis(src.Width(), src.Height())
	for _, c := range src.Mode().Channels() {
		s, d := src.Plane(c), dst.Plane(c)
		forEachColumn(pool, b.width, func(x int) {
			b.inverseColumn(s, d, x)
		})
	}
}

// forEachColumn runs fn over [0, n) in contiguous column chunks, one per
// pool worker.
func forEachColumn(pool *workerpool.Pool, n int, fn func(i int)) {
	if pool == nil {
		for i := range n {
			fn(i)
		}
		return
	}
	pool.Chunks(n, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}
