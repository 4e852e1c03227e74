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

package image

import "math/rand/v2"

// MaxSample is the exclusive upper bound of generated sample values.
const MaxSample = 255

// Generate returns a width x height image whose samples are drawn uniformly
// from [0, MaxSample) by a PCG generator seeded with seed. Samples are drawn
// in row-major order, channels innermost, so the result is a pure function of
// its arguments.
func Generate(width, height int, mode ChannelMode, seed uint64) (*Image, error) {
	img, err := New(width, height, mode)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for y := range height {
		for x := range width {
			for _, p := range img.planes {
				p[y*width+x] = float64(rng.IntN(MaxSample))
			}
		}
	}
	return img, nil
}
