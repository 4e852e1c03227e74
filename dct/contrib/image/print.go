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

import (
	"bufio"
	"fmt"
	"io"
)

// Fprint writes img to w as a grid, one image row per line. Grayscale samples
// are printed as "[%8.3f] ", RGB pixels as "[r,g,b]" separated by tabs.
func Fprint(w io.Writer, img *Image) error {
	bw := bufio.NewWriter(w)
	for y := range img.height {
		if img.mode == Grayscale {
			for _, v := range img.Row(Intensity, y) {
				fmt.Fprintf(bw, "[%8.3f] ", v)
			}
		} else {
			for x := range img.width {
				p := img.At(x, y)
				fmt.Fprintf(bw, "[%3f,%3f,%3f]\t", p.R, p.G, p.B)
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
