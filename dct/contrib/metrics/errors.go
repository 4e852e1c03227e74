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

package metrics

import (
	"errors"
	"fmt"

	"github.com/ajroetker/go-blockdct/dct/contrib/image"
)

// Code is the integer form of a validation result. Success is OK (0); every
// failure kind has its own negative code.
type Code int

const (
	OK                      Code = 0
	CodeRedViolation        Code = -1
	CodeGreenViolation      Code = -2
	CodeBlueViolation       Code = -3
	CodeIntensityViolation  Code = -4
	CodeChannelModeMismatch Code = -5
	CodeWidthMismatch       Code = -6
	CodeHeightMismatch      Code = -7

	// CodeInvalid covers errors that are neither shape mismatches nor
	// threshold violations.
	CodeInvalid Code = -8
)

// String returns a human-readable name for the code.
func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case CodeRedViolation:
		return "red threshold violation"
	case CodeGreenViolation:
		return "green threshold violation"
	case CodeBlueViolation:
		return "blue threshold violation"
	case CodeIntensityViolation:
		return "intensity threshold violation"
	case CodeChannelModeMismatch:
		return "channel mode mismatch"
	case CodeWidthMismatch:
		return "width mismatch"
	case CodeHeightMismatch:
		return "height mismatch"
	default:
		return "invalid"
	}
}

var (
	// ErrGrayscaleOnly is returned by the scalar error metrics for RGB images.
	ErrGrayscaleOnly = errors.New("metrics: scalar metrics require grayscale images")

	// ErrInvalidThreshold is returned by Validate for a threshold that is not positive.
	ErrInvalidThreshold = errors.New("metrics: threshold must be positive")
)

// ShapeMismatchError reports two images that cannot be compared.
type ShapeMismatchError struct {
	Code Code

	// A and B are the mismatching heights, widths or channel modes.
	A, B int
}

func (e *ShapeMismatchError) Error() string {
	if e.Code == CodeChannelModeMismatch {
		return fmt.Sprintf("metrics: %v: %v vs %v", e.Code, image.ChannelMode(e.A), image.ChannelMode(e.B))
	}
	return fmt.Sprintf("metrics: %v: %d vs %d", e.Code, e.A, e.B)
}

// ThresholdViolation reports the first sample, in row-major order, whose
// absolute difference reached the validation threshold.
type ThresholdViolation struct {
	Code      Code
	Channel   image.Channel
	X, Y      int
	A, B      float64
	Threshold float64
}

func (e *ThresholdViolation) Error() string {
	return fmt.Sprintf("metrics: %v at (%d, %d): A=%.20f B=%.20f A-B=%.20g (threshold %g)",
		e.Code, e.X, e.Y, e.A, e.B, e.A-e.B, e.Threshold)
}

// CodeOf maps a result of Validate or Compare to its integer code.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var shape *ShapeMismatchError
	if errors.As(err, &shape) {
		return shape.Code
	}
	var violation *ThresholdViolation
	if errors.As(err, &violation) {
		return violation.Code
	}
	return CodeInvalid
}

// checkShape compares heights, widths and channel modes, in that order.
func checkShape(a, b *image.Image) error {
	switch {
	case a.Height() != b.Height():
		return &ShapeMismatchError{Code: CodeHeightMismatch, A: a.Height(), B: b.Height()}
	case a.Width() != b.Width():
		return &ShapeMismatchError{Code: CodeWidthMismatch, A: a.Width(), B: b.Width()}
	case a.Mode() != b.Mode():
		return &ShapeMismatchError{Code: CodeChannelModeMismatch, A: int(a.Mode()), B: int(b.Mode())}
	}
	return nil
}

func violationCode(c image.Channel) Code {
	switch c {
	case image.Red:
		return CodeRedViolation
	case image.Green:
		return CodeGreenViolation
	case image.Blue:
		return CodeBlueViolation
	default:
		return CodeIntensityViolation
	}
}
