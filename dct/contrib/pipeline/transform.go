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

// Package pipeline runs the parallel block DCT round trip end to end: it pads
// the source so the rows split into block-aligned worker slices, drives the
// forward and inverse block transforms on a worker pool, strips the padding
// and measures the reconstruction.
package pipeline

import (
	"github.com/ajroetker/go-blockdct/dct"
	"github.com/ajroetker/go-blockdct/dct/contrib/image"
	"github.com/ajroetker/go-blockdct/dct/contrib/partition"
	"github.com/ajroetker/go-blockdct/dct/contrib/workerpool"
)

// Transform runs the forward and inverse block transforms over src, one task
// per range on pool. Coefficients go to coef and the reconstruction to recon.
// All three images must share the padded shape the ranges were planned for.
// Transform returns once every range is done.
func Transform(pool *workerpool.Pool, ranges []partition.WorkerRange, src, coef, recon *image.Image) {
	pool.Each(len(ranges), func(i int) {
		transformRange(ranges[i], src, coef, recon)
	})
}

// transformRange processes every block whose top row lies in the range,
// stopping at the padding boundary.
func transformRange(r partition.WorkerRange, src, coef, recon *image.Image) {
	width := src.Width()
	for y := r.StartRow; y < r.ProcessEnd(); y += dct.BlockSize {
		for x := 0; x < width; x += dct.BlockSize {
			dct.BlockDCT(src, coef, x, y)
			dct.BlockIDCT(coef, recon, x, y)
		}
	}
}
