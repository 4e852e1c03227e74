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

// Package netpbm reads and writes images in the plain (ASCII) PGM and PPM
// formats.
//
// A file starts with the format tag ("P2" for grayscale, "P3" for RGB),
// the width, the height and the maximum sample value, followed by
// whitespace-separated samples in row-major order (red, green, blue per pixel
// for P3). Lines starting with '#' in the header are comments.
//
// Load and Store compress transparently with zstd when the path ends in ".zst".
package netpbm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/ajroetker/go-blockdct/dct/contrib/image"
)

// MaxValue is the maximum sample value written by Encode.
const MaxValue = 255

var (
	// ErrFormat is returned for malformed or unsupported input.
	ErrFormat = errors.New("netpbm: invalid format")
)

const (
	tagGray = "P2"
	tagRGB  = "P3"
)

// scanner splits plain PNM input into whitespace-separated tokens.
type scanner struct {
	r *bufio.Reader
}

// token returns the next token, skipping whitespace and '#' comments.
func (s *scanner) token() (string, error) {
	var buf []byte
	for {
		c, err := s.r.ReadByte()
		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				return string(buf), nil
			}
			return "", err
		}
		switch {
		case c == '#' && len(buf) == 0:
			if _, err := s.r.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f':
			if len(buf) > 0 {
				return string(buf), nil
			}
		default:
			buf = append(buf, c)
		}
	}
}

// int reads the next token as a non-negative integer.
func (s *scanner) int(what string) (int, error) {
	tok, err := s.token()
	if err != nil {
		if err == io.EOF {
			return 0, fmt.Errorf("%w: missing %s", ErrFormat, what)
		}
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: bad %s %q", ErrFormat, what, tok)
	}
	return v, nil
}

// Decode reads a plain PGM (P2) or PPM (P3) image.
func Decode(r io.Reader) (*image.Image, error) {
	s := &scanner{r: bufio.NewReader(r)}
	tag, err := s.token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty input", ErrFormat)
		}
		return nil, err
	}
	var mode image.ChannelMode
	switch tag {
	case tagGray:
		mode = image.Grayscale
	case tagRGB:
		mode = image.RGB
	default:
		return nil, fmt.Errorf("%w: unsupported tag %q", ErrFormat, tag)
	}

	width, err := s.int("width")
	if err != nil {
		return nil, err
	}
	height, err := s.int("height")
	if err != nil {
		return nil, err
	}
	maxValue, err := s.int("max value")
	if err != nil {
		return nil, err
	}
	if maxValue < 1 || maxValue > math.MaxUint16 {
		return nil, fmt.Errorf("%w: max value %d", ErrFormat, maxValue)
	}

	img, err := image.New(width, height, mode)
	if err != nil {
		return nil, err
	}
	n := len(mode.Channels())
	var samples [3]float64
	for y := range height {
		for x := range width {
			for i := range n {
				v, err := s.int("sample")
				if err != nil {
					return nil, fmt.Errorf("pixel (%d, %d): %w", x, y, err)
				}
				if v > maxValue {
					return nil, fmt.Errorf("%w: sample %d at (%d, %d) exceeds %d", ErrFormat, v, x, y, maxValue)
				}
				samples[i] = float64(v)
			}
			if mode == image.Grayscale {
				img.Set(x, y, image.Pixel{I: samples[0]})
			} else {
				img.Set(x, y, image.Pixel{R: samples[0], G: samples[1], B: samples[2]})
			}
		}
	}
	return img, nil
}

// sample formats v rounded to an integer, clamping negative values to 0.
func sample(v float64) string {
	if !(v >= 0) {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}

// Encode writes img as plain PGM (Grayscale) or PPM (RGB) with a maximum value
// of MaxValue. Negative samples are written as 0.
func Encode(w io.Writer, img *image.Image) error {
	bw := bufio.NewWriter(w)
	tag := tagGray
	if img.Mode() == image.RGB {
		tag = tagRGB
	}
	fmt.Fprintf(bw, "%s\n%d %d\n%d\n", tag, img.Width(), img.Height(), MaxValue)

	for y := range img.Height() {
		if img.Mode() == image.Grayscale {
			for _, v := range img.Row(image.Intensity, y) {
				bw.WriteString(sample(v))
				bw.WriteByte('\n')
			}
			continue
		}
		for x := range img.Width() {
			p := img.At(x, y)
			fmt.Fprintf(bw, "%s %s %s\n", sample(p.R), sample(p.G), sample(p.B))
		}
	}
	return bw.Flush()
}
