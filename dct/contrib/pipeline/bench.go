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
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/ajroetker/go-blockdct/dct/contrib/image"
	"github.com/ajroetker/go-blockdct/dct/contrib/metrics"
)

// BenchConfig describes a benchmark sweep: every worker count from
// MinWorkers to MaxWorkers is run Iterations times on freshly generated images.
type BenchConfig struct {
	Width, Height int
	Mode          image.ChannelMode

	MinWorkers int
	MaxWorkers int
	Iterations int

	// Seed of the first iteration; iteration i uses Seed+i.
	Seed      uint64
	Threshold float64
}

// DefaultBenchConfig sweeps 1 to 10 workers, 25 iterations each, over a
// 2560x1440 grayscale image.
func DefaultBenchConfig() BenchConfig {
	return BenchConfig{
		Width:      2560,
		Height:     1440,
		Mode:       image.Grayscale,
		MinWorkers: 1,
		MaxWorkers: 10,
		Iterations: 25,
		Threshold:  DefaultThreshold,
	}
}

// Validate checks the sweep parameters.
func (c BenchConfig) Validate() error {
	if c.MinWorkers < 1 || c.MaxWorkers < c.MinWorkers {
		return fmt.Errorf("%w: worker range [%d, %d]", ErrInvalidConfig, c.MinWorkers, c.MaxWorkers)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidConfig, c.Iterations)
	}
	return Config{Workers: c.MinWorkers, Width: c.Width, Height: c.Height, Mode: c.Mode, Threshold: c.Threshold}.Validate()
}

// Sample is the outcome of one benchmark iteration.
type Sample struct {
	Workers   int
	Iteration int
	Elapsed   time.Duration
	Code      metrics.Code

	AverageRelativeError           float64
	AggregateMagnitudeErrorPercent float64
	MeanSquaredError               float64
}

// Summary averages the samples of one worker count.
type Summary struct {
	Workers    int
	Iterations int

	// Failures counts iterations whose validation code was not OK.
	Failures int

	MeanElapsed                        time.Duration
	MeanAverageRelativeError           float64
	MeanAggregateMagnitudeErrorPercent float64
	MeanSquaredError                   float64

	Samples []Sample
}

func summarize(workers int, samples []Sample) Summary {
	n := float64(len(samples))
	return Summary{
		Workers:    workers,
		Iterations: len(samples),
		Failures:   lo.CountBy(samples, func(s Sample) bool { return s.Code != metrics.OK }),
		MeanElapsed: time.Duration(float64(lo.SumBy(samples, func(s Sample) time.Duration {
			return s.Elapsed
		})) / n),
		MeanAverageRelativeError: lo.SumBy(samples, func(s Sample) float64 {
			return s.AverageRelativeError
		}) / n,
		MeanAggregateMagnitudeErrorPercent: lo.SumBy(samples, func(s Sample) float64 {
			return s.AggregateMagnitudeErrorPercent
		}) / n,
		MeanSquaredError: lo.SumBy(samples, func(s Sample) float64 {
			return s.MeanSquaredError
		}) / n,
		Samples: samples,
	}
}

// Bench runs the sweep described by c. observe, when non-nil, is called after
// every iteration, and summary after every worker count.
func Bench(c BenchConfig, logger *slog.Logger, observe func(Sample), summary func(Summary)) ([]Summary, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var summaries []Summary
	for workers := c.MinWorkers; workers <= c.MaxWorkers; workers++ {
		runner := &Runner{Workers: workers, Threshold: c.Threshold, Logger: logger}
		samples := make([]Sample, 0, c.Iterations)
		for it := range c.Iterations {
			src, err := image.Generate(c.Width, c.Height, c.Mode, c.Seed+uint64(it))
			if err != nil {
				return nil, err
			}
			res, err := runner.Process(src)
			if err != nil {
				return nil, fmt.Errorf("pipeline: %d workers, iteration %d: %w", workers, it, err)
			}
			s := Sample{
				Workers:                        workers,
				Iteration:                      it,
				Elapsed:                        res.Elapsed,
				Code:                           res.Report.Code(),
				AverageRelativeError:           res.Report.AverageRelativeError,
				AggregateMagnitudeErrorPercent: res.Report.AggregateMagnitudeErrorPercent,
				MeanSquaredError:               res.Report.MeanSquaredError,
			}
			samples = append(samples, s)
			if observe != nil {
				observe(s)
			}
		}
		sum := summarize(workers, samples)
		summaries = append(summaries, sum)
		if summary != nil {
			summary(sum)
		}
	}
	return summaries, nil
}
