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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-blockdct/dct/contrib/pipeline"
)

func newBenchCmd(g *globalFlags) *cobra.Command {
	c := pipeline.DefaultBenchConfig()
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time the round trip across a range of worker counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, g, c)
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&c.MinWorkers, "min-workers", c.MinWorkers, "Smallest worker count")
	fs.IntVar(&c.MaxWorkers, "max-workers", c.MaxWorkers, "Largest worker count")
	fs.IntVarP(&c.Iterations, "iterations", "n", c.Iterations, "Iterations per worker count")
	fs.IntVar(&c.Width, "width", c.Width, "Image width")
	fs.IntVar(&c.Height, "height", c.Height, "Image height")
	fs.Var(modeValue{&c.Mode}, "mode", "Channel mode (gray or rgb)")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "Seed of the first iteration")
	fs.Float64Var(&c.Threshold, "threshold", c.Threshold, "Maximum per-sample reconstruction error")
	return cmd
}

func runBench(cmd *cobra.Command, g *globalFlags, c pipeline.BenchConfig) error {
	out := cmd.OutOrStdout()
	logger := newLogger(cmd, g)

	printEnvironment(out)
	fmt.Fprintf(out, "Image: %dx%d %s, %d iterations per worker count\n",
		c.Width, c.Height, c.Mode, c.Iterations)
	fmt.Fprintf(out, "%8s %14s %9s %14s %14s %14s\n",
		"workers", "mean time", "failures", "avg rel err", "aggregate %", "mse")

	observe := func(s pipeline.Sample) {
		logger.Debug("iteration", "workers", s.Workers, "iteration", s.Iteration,
			"elapsed", s.Elapsed, "code", int(s.Code))
	}
	summaries, err := pipeline.Bench(c, logger, observe, func(s pipeline.Summary) {
		fmt.Fprintf(out, "%8d %14s %9d %14.6g %14.6g %14.6g\n",
			s.Workers, s.MeanElapsed, s.Failures,
			s.MeanAverageRelativeError, s.MeanAggregateMagnitudeErrorPercent, s.MeanSquaredError)
	})
	if err != nil {
		return err
	}
	for _, s := range summaries {
		if s.Failures > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %d of %d iterations with %d workers exceeded the threshold\n",
				s.Failures, s.Iterations, s.Workers)
			return errViolation
		}
	}
	return nil
}
