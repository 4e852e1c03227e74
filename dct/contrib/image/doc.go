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

// Package image provides the floating-point pixel buffers the block DCT
// operates on.
//
// An Image is either Grayscale, carrying a single Intensity channel, or RGB,
// carrying Red, Green and Blue channels. Each channel is stored as one
// contiguous row-major plane of float64 samples. Coordinates are always given
// as (x, y) = (column, row).
//
// # Usage Example
//
//	// Deterministic 16x16 test image
//	img, err := image.Generate(16, 16, image.Grayscale, 42)
//	if err != nil {
//	    return err
//	}
//
//	// Append zero rows so the height splits evenly across workers
//	padded, err := img.PadTo(img.Width(), 24)
//
// # Padding
//
// PadTo copies an image into a larger, zero-initialised buffer anchored at the
// top-left corner. Crop shrinks an image back to its original extent once
// processing is done.
package image
