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
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-blockdct/dct/contrib/image"
	"github.com/ajroetker/go-blockdct/dct/contrib/metrics"
	"github.com/ajroetker/go-blockdct/dct/contrib/pipeline"
)

type runFlags struct {
	config    pipeline.Config
	outputDir string
	suffix    string
	print     bool
	full      bool
}

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{config: pipeline.DefaultConfig()}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Transform one image and validate the reconstruction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, g, f)
		},
	}
	fs := cmd.Flags()
	fs.IntVarP(&f.config.Workers, "workers", "w", f.config.Workers, "Number of workers")
	fs.IntVar(&f.config.Width, "width", f.config.Width, "Width of the generated image")
	fs.IntVar(&f.config.Height, "height", f.config.Height, "Height of the generated image")
	fs.Var(modeValue{&f.config.Mode}, "mode", "Channel mode of the generated image (gray or rgb)")
	fs.Uint64Var(&f.config.Seed, "seed", f.config.Seed, "Seed of the generated image")
	fs.StringVarP(&f.config.Input, "input", "i", "", "PGM/PPM file to load instead of generating (may end in .zst)")
	fs.Float64Var(&f.config.Threshold, "threshold", f.config.Threshold, "Maximum per-sample reconstruction error")
	fs.StringVarP(&f.outputDir, "output-dir", "o", "", "Directory to write srcIMG, dctIMG and idctIMG to")
	fs.StringVar(&f.suffix, "suffix", "", "Suffix appended to output file names (.zst compresses)")
	fs.BoolVar(&f.print, "print", false, "Print the source, coefficient and reconstructed images")
	fs.BoolVar(&f.full, "full", false, "Also report the whole-image transform round trip (quadratic in pixel count)")
	return cmd
}

func runOnce(cmd *cobra.Command, g *globalFlags, f *runFlags) error {
	out := cmd.OutOrStdout()
	logger := newLogger(cmd, g)

	res, err := pipeline.Run(f.config, logger)
	if err != nil {
		return err
	}

	printEnvironment(out)
	fmt.Fprintf(out, "Image: %dx%d %s, padded to %dx%d\n",
		res.Source.Width(), res.Source.Height(), res.Source.Mode(), res.PaddedWidth, res.PaddedHeight)
	for _, r := range res.Ranges {
		fmt.Fprintf(out, "  worker %d: rows [%d, %d)\n", r.Index, r.StartRow, r.ProcessEnd())
	}
	fmt.Fprintf(out, "Workers: %d, elapsed: %s\n", res.Workers, res.Elapsed)
	printReport(out, res.Report)

	if f.full {
		full, err := pipeline.NewRunner(f.config, logger).ProcessFull(res.Source)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nWhole-image transform, elapsed: %s\n", full.Elapsed)
		printReport(out, full.Report)
	}

	if f.print {
		for _, img := range []struct {
			title string
			img   *image.Image
		}{
			{"Source", res.Source},
			{"DCT coefficients", res.Coefficients},
			{"Reconstruction", res.Reconstructed},
		} {
			fmt.Fprintf(out, "\n%s:\n", img.title)
			if err := image.Fprint(out, img.img); err != nil {
				return err
			}
		}
	}

	if f.outputDir != "" {
		if err := os.MkdirAll(f.outputDir, 0o755); err != nil {
			return err
		}
		paths, err := pipeline.WriteOutputs(f.outputDir, f.suffix, res)
		if err != nil {
			return err
		}
		for _, p := range paths {
			logger.Info("wrote image", "path", p)
		}
	}

	if res.Report.Validation != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", res.Report.Validation)
		return errViolation
	}
	return nil
}

func printReport(w io.Writer, r metrics.Report) {
	fmt.Fprintf(w, "Validation: %d (%s)\n", int(r.Code()), r.Code())
	fmt.Fprintf(w, "Average relative error: %g\n", r.AverageRelativeError)
	fmt.Fprintf(w, "Aggregate magnitude error: %g%%\n", r.AggregateMagnitudeErrorPercent)
	fmt.Fprintf(w, "Mean squared error: %g\n", r.MeanSquaredError)
}
