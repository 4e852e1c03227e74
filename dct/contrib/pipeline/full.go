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
	"fmt"
	"time"

	"github.com/ajroetker/go-blockdct/dct"
	"github.com/ajroetker/go-blockdct/dct/contrib/image"
	"github.com/ajroetker/go-blockdct/dct/contrib/metrics"
	"github.com/ajroetker/go-blockdct/dct/contrib/workerpool"
)

// FullResult holds a whole-image round trip of a source image.
type FullResult struct {
	Coefficients  *image.Image
	Reconstructed *image.Image

	Elapsed time.Duration
	Report  metrics.Report
}

// ProcessFull runs the whole-image forward and inverse transforms of src on
// a pool of r.Workers workers and compares the reconstruction with src. No
// padding is involved. Cost grows with the square of the pixel count, and
// non-square images are expected to reconstruct poorly; a threshold
// violation is recorded in the report, not returned.
func (r *Runner) ProcessFull(src *image.Image) (*FullResult, error) {
	if r.Workers < 1 {
		return nil, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, r.Workers)
	}
	threshold, err := effectiveThreshold(r.Threshold)
	if err != nil {
		return nil, err
	}
	coef, err := image.New(src.Width(), src.Height(), src.Mode())
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	recon, err := image.New(src.Width(), src.Height(), src.Mode())
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	pool := workerpool.New(r.Workers)
	defer pool.Close()

	start := time.Now()
	dct.ParallelFullDCT(pool, src, coef)
	dct.ParallelFullIDCT(pool, coef, recon)
	elapsed := time.Since(start)

	report, err := metrics.Compare(src, recon, threshold)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	r.logger().Debug("whole-image run complete",
		"workers", r.Workers,
		"elapsed", elapsed,
		"code", int(report.Code()),
		"mse", report.MeanSquaredError)

	return &FullResult{
		Coefficients:  coef,
		Reconstructed: recon,
		Elapsed:       elapsed,
		Report:        report,
	}, nil
}
