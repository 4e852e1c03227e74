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

// Package metrics measures how faithfully one image reproduces another.
//
// All functions require images of identical width, height and channel mode
// and report a *ShapeMismatchError otherwise. The scalar error metrics are
// defined on grayscale intensity only; Validate also handles RGB images,
// checking red, green and blue in that order at each pixel.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/ajroetker/go-blockdct/dct/contrib/image"
)

// grayPlanes returns the intensity planes of a and b after the shape and
// channel checks shared by the scalar metrics.
func grayPlanes(a, b *image.Image) ([]float64, []float64, error) {
	if err := checkShape(a, b); err != nil {
		return nil, nil, err
	}
	if a.Mode() != image.Grayscale {
		return nil, nil, ErrGrayscaleOnly
	}
	return a.Plane(image.Intensity), b.Plane(image.Intensity), nil
}

// AverageRelativeError returns the sum of |b-a|/a over every position where
// both a and b are non-zero. Positions where either sample is exactly zero are
// skipped, so error near zero-valued pixels is under-counted.
func AverageRelativeError(a, b *image.Image) (float64, error) {
	pa, pb, err := grayPlanes(a, b)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for i, va := range pa {
		vb := pb[i]
		if va == 0 || vb == 0 {
			continue
		}
		sum += math.Abs(vb-va) / va
	}
	return sum, nil
}

// AggregateMagnitudeErrorPercent returns 100*|Σ|b| - Σ|a|| / Σ|a|, a single
// global percentage. Two all-zero images give 0; an all-zero a against a
// non-zero b gives +Inf.
func AggregateMagnitudeErrorPercent(a, b *image.Image) (float64, error) {
	pa, pb, err := grayPlanes(a, b)
	if err != nil {
		return 0, err
	}
	totalA, totalB := 0.0, 0.0
	for i, va := range pa {
		totalA += math.Abs(va)
		totalB += math.Abs(pb[i])
	}
	if totalA == 0 {
		if totalB == 0 {
			return 0, nil
		}
		return math.Inf(1), nil
	}
	return 100 * math.Abs(totalB-totalA) / totalA, nil
}

// MeanSquaredError returns Σ(b-a)² / (width*height). The sum is accumulated
// with Neumaier compensation so that large images keep the low-order bits of
// tiny round-trip errors.
func MeanSquaredError(a, b *image.Image) (float64, error) {
	pa, pb, err := grayPlanes(a, b)
	if err != nil {
		return 0, err
	}
	var sum compensatedSum
	for i, va := range pa {
		d := pb[i] - va
		sum.Add(d * d)
	}
	return sum.Value() / float64(a.Width()*a.Height()), nil
}

// Validate scans a and b in row-major order and returns a *ThresholdViolation
// for the first sample whose absolute difference is >= threshold. Shape
// mismatches are reported first as *ShapeMismatchError. A nil result means
// every sample is within threshold.
func Validate(a, b *image.Image, threshold float64) error {
	if err := checkShape(a, b); err != nil {
		return err
	}
	if !(threshold > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}
	channels := a.Mode().Channels()
	width := a.Width()
	for y := range a.Height() {
		for x := range width {
			for _, c := range channels {
				va := a.Plane(c)[y*width+x]
				vb := b.Plane(c)[y*width+x]
				// Written so that a NaN difference also counts as a violation.
				if !(math.Abs(va-vb) < threshold) {
					return &ThresholdViolation{
						Code:      violationCode(c),
						Channel:   c,
						X:         x,
						Y:         y,
						A:         va,
						B:         vb,
						Threshold: threshold,
					}
				}
			}
		}
	}
	return nil
}

// Report bundles every fidelity measure of one comparison.
type Report struct {
	// Validation is nil or a *ThresholdViolation.
	Validation error

	// Scalar metrics; NaN for RGB images.
	AverageRelativeError           float64
	AggregateMagnitudeErrorPercent float64
	MeanSquaredError               float64
}

// Code returns the integer validation code of the report.
func (r Report) Code() Code {
	return CodeOf(r.Validation)
}

// Compare validates b against a and computes the scalar metrics. Only shape
// mismatches and invalid thresholds are returned as errors; a threshold
// violation is recorded in Report.Validation.
func Compare(a, b *image.Image, threshold float64) (Report, error) {
	r := Report{
		AverageRelativeError:           math.NaN(),
		AggregateMagnitudeErrorPercent: math.NaN(),
		MeanSquaredError:               math.NaN(),
	}
	if err := Validate(a, b, threshold); err != nil {
		var violation *ThresholdViolation
		if !errors.As(err, &violation) {
			return Report{}, err
		}
		r.Validation = violation
	}
	if a.Mode() != image.Grayscale {
		return r, nil
	}
	var err error
	if r.AverageRelativeError, err = AverageRelativeError(a, b); err != nil {
		return Report{}, err
	}
	if r.AggregateMagnitudeErrorPercent, err = AggregateMagnitudeErrorPercent(a, b); err != nil {
		return Report{}, err
	}
	if r.MeanSquaredError, err = MeanSquaredError(a, b); err != nil {
		return Report{}, err
	}
	return r, nil
}
