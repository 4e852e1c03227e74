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

package pipeline

import (
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-blockdct/dct/contrib/image"
	"github.com/ajroetker/go-blockdct/dct/contrib/netpbm"
)

// OutputNames returns the file names WriteOutputs uses for the source,
// coefficient and reconstructed images of mode. suffix (for example ".zst")
// is appended to each.
func OutputNames(mode image.ChannelMode, suffix string) [3]string {
	ext := ".pgm"
	if mode == image.RGB {
		ext = ".ppm"
	}
	return [3]string{
		"srcIMG" + ext + suffix,
		"dctIMG" + ext + suffix,
		"idctIMG" + ext + suffix,
	}
}

// WriteOutputs stores the three images of res in dir concurrently and
// returns their paths.
func WriteOutputs(dir, suffix string, res *Result) ([]string, error) {
	names := OutputNames(res.Source.Mode(), suffix)
	images := [3]*image.Image{res.Source, res.Coefficients, res.Reconstructed}

	paths := make([]string, len(names))
	var g errgroup.Group
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		g.Go(func() error {
			return netpbm.Store(paths[i], images[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
