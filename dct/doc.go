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

// Package dct implements the orthonormal 8x8 block DCT-II and its DCT-III
// inverse, computed directly from the cosine definition, together with the
// whole-image variants kept for comparison.
//
// For a block with origin (ox, oy) the forward transform is
//
//	F(u,v) = 1/4 α(u) α(v) Σx Σy f(ox+x, oy+y) cos((2x+1)uπ/16) cos((2y+1)vπ/16)
//
// with α(0) = 1/√2 and α(k) = 1 otherwise, and the inverse is
//
//	f(x,y) = 1/4 Σu Σv α(u) α(v) F(ox+u, oy+v) cos((2x+1)uπ/16) cos((2y+1)vπ/16)
//
// Coefficients are written in place of the block, so an image of
// coefficients has the same shape as its source. Every channel carried by
// the source image is transformed.
//
// # Whole-image transforms
//
// FullDCT and FullIDCT apply the same structure over the entire image with
// cosine periods of width+height instead of 16 and a 2/height scale. The
// basis is only orthonormal for square images, so non-square round trips lose
// accuracy. That loss is expected and is what the comparison illustrates.
//
// # Kernel levels
//
// The kernels run at one of four levels that differ only in rounding:
//
//	LevelReference - cosines evaluated per term
//	LevelTable     - memoised cosine tables
//	LevelFMA       - memoised tables, fused multiply-add accumulation
//	LevelSIMD      - C·B·Cᵀ through go-highway's vectorised matmul
//
// The level is detected at start-up (see SIMDTarget and CPUFeatures) and can
// be forced with the DCT_LEVEL environment variable ("reference", "table",
// "fma", "simd") or SetLevel. Whole-image transforms use the FMA path at
// LevelSIMD.
package dct
