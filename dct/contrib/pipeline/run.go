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
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ajroetker/go-blockdct/dct/contrib/image"
	"github.com/ajroetker/go-blockdct/dct/contrib/metrics"
	"github.com/ajroetker/go-blockdct/dct/contrib/netpbm"
	"github.com/ajroetker/go-blockdct/dct/contrib/partition"
	"github.com/ajroetker/go-blockdct/dct/contrib/workerpool"
)

// DefaultThreshold is the per-sample validation threshold, 1e-12.
const DefaultThreshold = 1e-12

// ErrInvalidConfig is returned for unusable run parameters.
var ErrInvalidConfig = errors.New("pipeline: invalid configuration")

// Config describes the source image of a run and how to process it.
type Config struct {
	// Workers is the worker pool size and the number of row slices.
	Workers int

	// Input, when set, is a PGM/PPM file (optionally .zst) to load.
	// Otherwise a Width x Height image of Mode is generated from Seed.
	Input  string
	Width  int
	Height int
	Mode   image.ChannelMode
	Seed   uint64

	// Threshold is the per-sample validation threshold; zero means
	// DefaultThreshold.
	Threshold float64
}

// DefaultConfig returns the single-run defaults: one worker, a 16x16
// grayscale image and DefaultThreshold.
func DefaultConfig() Config {
	return Config{
		Workers:   1,
		Width:     16,
		Height:    16,
		Mode:      image.Grayscale,
		Threshold: DefaultThreshold,
	}
}

// effectiveThreshold resolves a configured threshold: zero selects
// DefaultThreshold, anything else must be positive.
func effectiveThreshold(t float64) (float64, error) {
	if t == 0 {
		return DefaultThreshold, nil
	}
	if !(t > 0) {
		return 0, fmt.Errorf("%w: threshold must be positive, got %v", ErrInvalidConfig, t)
	}
	return t, nil
}

// Validate checks the configuration before any image is touched. A zero
// Threshold is valid and means DefaultThreshold.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := effectiveThreshold(c.Threshold); err != nil {
		return err
	}
	if c.Input != "" {
		return nil
	}
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, image.ErrInvalidChannelMode)
	}
	return nil
}

// Source loads or generates the source image described by c.
func (c Config) Source() (*image.Image, error) {
	if c.Input != "" {
		return netpbm.Load(c.Input)
	}
	return image.Generate(c.Width, c.Height, c.Mode, c.Seed)
}

// Result holds the images and measurements of one run. All images have the
// source's unpadded extent.
type Result struct {
	Source        *image.Image
	Coefficients  *image.Image
	Reconstructed *image.Image

	Workers      int
	PaddedWidth  int
	PaddedHeight int
	Ranges       []partition.WorkerRange

	// Elapsed covers the parallel transform only.
	Elapsed time.Duration
	Report  metrics.Report
}

// Runner executes block DCT round trips.
type Runner struct {
	Workers int

	// Threshold is the per-sample validation threshold; zero means
	// DefaultThreshold.
	Threshold float64

	// Logger receives run diagnostics; nil discards them.
	Logger *slog.Logger
}

// NewRunner returns a Runner for c.
func NewRunner(c Config, logger *slog.Logger) *Runner {
	return &Runner{Workers: c.Workers, Threshold: c.Threshold, Logger: logger}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// Process pads src, transforms it on a pool of r.Workers workers, removes the
// padding and compares the reconstruction with the source. src is not
// modified. A partition error aborts before any transform runs. A threshold
// violation is not an error; it is recorded in Result.Report.
func (r *Runner) Process(src *image.Image) (*Result, error) {
	if r.Workers < 1 {
		return nil, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, r.Workers)
	}
	threshold, err := effectiveThreshold(r.Threshold)
	if err != nil {
		return nil, err
	}
	log := r.logger()

	width, height := src.Width(), src.Height()
	paddedHeight, ranges, err := partition.Plan(r.Workers, height)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	paddedWidth := partition.PaddedWidth(width)
	log.Debug("partition planned",
		"workers", r.Workers,
		"width", width, "height", height,
		"padded_width", paddedWidth, "padded_height", paddedHeight)

	var padded *image.Image
	if paddedWidth == width && paddedHeight == height {
		padded = src.Clone()
	} else if padded, err = src.PadTo(paddedWidth, paddedHeight); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	coef, err := image.New(paddedWidth, paddedHeight, src.Mode())
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	recon, err := image.New(paddedWidth, paddedHeight, src.Mode())
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	pool := workerpool.New(r.Workers)
	defer pool.Close()

	start := time.Now()
	Transform(pool, ranges, padded, coef, recon)
	elapsed := time.Since(start)

	for _, img := range []*image.Image{padded, coef, recon} {
		if err := img.Crop(width, height); err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
	}

	report, err := metrics.Compare(padded, recon, threshold)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	var violation *metrics.ThresholdViolation
	if errors.As(report.Validation, &violation) {
		log.Warn("reconstruction exceeds threshold",
			"code", int(violation.Code),
			"channel", violation.Channel.String(),
			"x", violation.X, "y", violation.Y,
			"a", violation.A, "b", violation.B,
			"threshold", violation.Threshold)
	}
	log.Debug("run complete",
		"workers", r.Workers,
		"elapsed", elapsed,
		"code", int(report.Code()),
		"mse", report.MeanSquaredError)

	return &Result{
		Source:        padded,
		Coefficients:  coef,
		Reconstructed: recon,
		Workers:       r.Workers,
		PaddedWidth:   paddedWidth,
		PaddedHeight:  paddedHeight,
		Ranges:        ranges,
		Elapsed:       elapsed,
		Report:        report,
	}, nil
}

// Run validates c, obtains its source image and processes it.
func Run(c Config, logger *slog.Logger) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	src, err := c.Source()
	if err != nil {
		return nil, err
	}
	return NewRunner(c, logger).Process(src)
}
