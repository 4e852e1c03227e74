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

package netpbm

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/ajroetker/go-blockdct/dct/contrib/image"
)

// CompressedSuffix marks paths that Load and Store handle as zstd streams.
const CompressedSuffix = ".zst"

func compressed(path string) bool {
	return strings.HasSuffix(path, CompressedSuffix)
}

// Load reads the image stored at path.
func Load(path string) (*image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if compressed(path) {
		dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("netpbm: %s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}

	img, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("netpbm: %s: %w", path, err)
	}
	return img, nil
}

// Store writes img to path, replacing any existing file.
func Store(path string, img *image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if !compressed(path) {
		return Encode(f, img)
	}

	enc, err := zstd.NewWriter(f,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
	if err != nil {
		return fmt.Errorf("netpbm: %s: %w", path, err)
	}
	if err := Encode(enc, img); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
