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

// Command blockdct runs the parallel 8x8 block DCT round trip on a generated
// or loaded image and reports how well the reconstruction matches.
//
// Usage:
//
//	blockdct run --workers 4 --width 640 --height 480 --mode rgb
//	blockdct run --input photo.pgm --output-dir out --suffix .zst
//	blockdct bench --min-workers 1 --max-workers 10 --iterations 25
//
// The kernel level is picked from the CPU and can be forced with --level or
// the DCT_LEVEL environment variable.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-blockdct/dct"
)

// errViolation is returned when a reconstruction exceeds its threshold.
// The message has already been printed.
var errViolation = errors.New("reconstruction exceeds threshold")

type globalFlags struct {
	level   levelValue
	verbose bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		if errors.Is(err, errViolation) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "blockdct",
		Short:         "Parallel 8x8 block DCT round trip",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if g.level.set {
				dct.SetLevel(g.level.level)
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	levelNames := lo.Map(dct.Levels(), func(l dct.Level, _ int) string { return l.String() })
	root.PersistentFlags().Var(&g.level, "level",
		"Kernel level ("+strings.Join(levelNames, ", ")+"); default is picked from the CPU")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log debug diagnostics to stderr")

	root.AddCommand(newRunCmd(g), newBenchCmd(g))
	return root
}

// newLogger returns the text logger every subcommand writes diagnostics to.
func newLogger(cmd *cobra.Command, g *globalFlags) *slog.Logger {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// printEnvironment writes the kernel level and CPU features in use.
func printEnvironment(w io.Writer) {
	features := dct.CPUFeatures()
	if len(features) == 0 {
		features = []string{"none"}
	}
	fmt.Fprintf(w, "Kernel level: %s (SIMD target: %s, CPU features: %s)\n",
		dct.CurrentLevel(), dct.SIMDTarget(), strings.Join(features, ","))
}
