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
	"errors"
	"fmt"
	"strings"
)

// MaxElements bounds the number of float64 samples a single Image may hold
// across all of its planes.
const MaxElements = 1 << 30

var (
	// ErrInvalidDimensions is returned for non-positive width or height.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrTooLarge is returned when an allocation would exceed MaxElements.
	ErrTooLarge = errors.New("image: too large")

	// ErrInvalidChannelMode is returned for an unknown ChannelMode.
	ErrInvalidChannelMode = errors.New("image: invalid channel mode")
)

// ChannelMode selects which Pixel fields of an image are meaningful.
type ChannelMode int

const (
	// Grayscale images carry only the Intensity channel.
	Grayscale ChannelMode = iota

	// RGB images carry the Red, Green and Blue channels.
	RGB
)

// String returns a human-readable name for the channel mode.
func (m ChannelMode) String() string {
	switch m {
	case Grayscale:
		return "gray"
	case RGB:
		return "rgb"
	default:
		return "unknown"
	}
}

// Channels returns the channels carried by images of this mode, in storage order.
func (m ChannelMode) Channels() []Channel {
	switch m {
	case Grayscale:
		return []Channel{Intensity}
	case RGB:
		return []Channel{Red, Green, Blue}
	default:
		return nil
	}
}

// Valid reports whether m is a known channel mode.
func (m ChannelMode) Valid() bool {
	return m == Grayscale || m == RGB
}

// ParseChannelMode parses "gray"/"grayscale" or "rgb"/"color".
func ParseChannelMode(s string) (ChannelMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gray", "grey", "grayscale", "greyscale":
		return Grayscale, nil
	case "rgb", "color", "colour":
		return RGB, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidChannelMode, s)
}

// Channel identifies one sample plane of an image.
type Channel int

const (
	Intensity Channel = iota
	Red
	Green
	Blue
)

// String returns a human-readable name for the channel.
func (c Channel) String() string {
	switch c {
	case Intensity:
		return "intensity"
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return "unknown"
	}
}

// Pixel holds the samples of one image position. Only the fields selected by
// the owning image's ChannelMode are meaningful: I for Grayscale, R, G and B
// for RGB.
type Pixel struct {
	R, G, B float64
	I       float64
}

// Image is a width x height grid of pixels stored as contiguous row-major
// planes, one per carried channel.
type Image struct {
	width  int
	height int
	mode   ChannelMode
	planes [][]float64
}

// New allocates a zero-initialised image.
func New(width, height int, mode ChannelMode) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannelMode, int(mode))
	}
	channels := len(mode.Channels())
	if width > MaxElements/height/channels {
		return nil, fmt.Errorf("%w: %dx%d with %d channels", ErrTooLarge, width, height, channels)
	}

	planes := make([][]float64, channels)
	for i := range planes {
		planes[i] = make([]float64, width*height)
	}
	return &Image{
		width:  width,
		height: height,
		mode:   mode,
		planes: planes,
	}, nil
}

// Width returns the image width in pixels.
func (img *Image) Width() int {
	return img.width
}

// Height returns the image height in pixels.
func (img *Image) Height() int {
	return img.height
}

// Mode returns the channel mode of the image.
func (img *Image) Mode() ChannelMode {
	return img.mode
}

// planeIndex maps a channel to its storage index, or -1 if the image does not
// carry it.
func (img *Image) planeIndex(c Channel) int {
	switch img.mode {
	case Grayscale:
		if c == Intensity {
			return 0
		}
	case RGB:
		switch c {
		case Red:
			return 0
		case Green:
			return 1
		case Blue:
			return 2
		}
	}
	return -1
}

// Plane returns the row-major samples of channel c, or nil if the image does
// not carry c. Sample (x, y) is at index y*Width()+x.
func (img *Image) Plane(c Channel) []float64 {
	i := img.planeIndex(c)
	if i < 0 {
		return nil
	}
	return img.planes[i]
}

// Row returns a mutable slice for row y of channel c.
func (img *Image) Row(c Channel, y int) []float64 {
	p := img.Plane(c)
	if p == nil || y < 0 || y >= img.height {
		return nil
	}
	start := y * img.width
	return p[start : start+img.width]
}

// Value returns the sample of channel c at (x, y). Out-of-bounds positions
// and channels the image does not carry read as zero.
func (img *Image) Value(c Channel, x, y int) float64 {
	p := img.Plane(c)
	if p == nil || x < 0 || x >= img.width || y < 0 || y >= img.height {
		return 0
	}
	return p[y*img.width+x]
}

// SetValue sets the sample of channel c at (x, y). Out-of-bounds positions and
// channels the image does not carry are ignored.
func (img *Image) SetValue(c Channel, x, y int, v float64) {
	p := img.Plane(c)
	if p == nil || x < 0 || x >= img.width || y < 0 || y >= img.height {
		return
	}
	p[y*img.width+x] = v
}

// At returns the pixel at (x, y). Fields not carried by the image's mode are zero.
func (img *Image) At(x, y int) Pixel {
	if img.mode == Grayscale {
		return Pixel{I: img.Value(Intensity, x, y)}
	}
	return Pixel{
		R: img.Value(Red, x, y),
		G: img.Value(Green, x, y),
		B: img.Value(Blue, x, y),
	}
}

// Set stores the meaningful fields of p at (x, y).
func (img *Image) Set(x, y int, p Pixel) {
	if img.mode == Grayscale {
		img.SetValue(Intensity, x, y, p.I)
		return
	}
	img.SetValue(Red, x, y, p.R)
	img.SetValue(Green, x, y, p.G)
	img.SetValue(Blue, x, y, p.B)
}

// SameShape returns true if both images have the same dimensions and channel mode.
func SameShape(a, b *Image) bool {
	return a.width == b.width && a.height == b.height && a.mode == b.mode
}

// Clone creates a deep copy of the image.
func (img *Image) Clone() *Image {
	clone := &Image{
		width:  img.width,
		height: img.height,
		mode:   img.mode,
		planes: make([][]float64, len(img.planes)),
	}
	for i, p := range img.planes {
		clone.planes[i] = make([]float64, len(p))
		copy(clone.planes[i], p)
	}
	return clone
}

// Fill sets every sample of every carried channel to v.
func (img *Image) Fill(v float64) {
	for _, p := range img.planes {
		for i := range p {
			p[i] = v
		}
	}
}
