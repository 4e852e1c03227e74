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

import "fmt"

// PadTo returns a new width x height image holding img in its top-left corner.
// Columns right of img and rows below it are zero.
func (img *Image) PadTo(width, height int) (*Image, error) {
	if width < img.width || height < img.height {
		return nil, fmt.Errorf("%w: cannot pad %dx%d to %dx%d",
			ErrInvalidDimensions, img.width, img.height, width, height)
	}
	out, err := New(width, height, img.mode)
	if err != nil {
		return nil, err
	}
	for i, src := range img.planes {
		dst := out.planes[i]
		for y := range img.height {
			copy(dst[y*width:y*width+img.width], src[y*img.width:(y+1)*img.width])
		}
	}
	return out, nil
}

// Crop shrinks img in place to its top-left width x height region.
// Dropping only rows reslices the planes; dropping columns compacts them.
func (img *Image) Crop(width, height int) error {
	if width <= 0 || height <= 0 || width > img.width || height > img.height {
		return fmt.Errorf("%w: cannot crop %dx%d to %dx%d",
			ErrInvalidDimensions, img.width, img.height, width, height)
	}
	if width != img.width {
		for i, p := range img.planes {
			// Rows only move towards the start, so an in-place forward copy is safe.
			for y := range height {
				copy(p[y*width:(y+1)*width], p[y*img.width:y*img.width+width])
			}
			img.planes[i] = p[:width*height:width*height]
		}
	} else {
		for i, p := range img.planes {
			img.planes[i] = p[:width*height:width*height]
		}
	}
	img.width = width
	img.height = height
	return nil
}
