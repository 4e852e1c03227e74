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

package dct

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/ajroetker/go-highway/hwy"
	"golang.org/x/sys/cpu"
)

// Level selects how the transform kernels evaluate the cosine basis.
type Level int

const (
	// LevelReference evaluates every cosine from its definition.
	LevelReference Level = iota

	// LevelTable reads cosines from memoised tables.
	LevelTable

	// LevelFMA reads memoised tables and accumulates with fused multiply-add.
	LevelFMA

	// LevelSIMD computes each block as the matrix product C·B·Cᵀ with the
	// vectorised matmul kernels of go-highway.
	LevelSIMD
)

// String returns a human-readable name for the level.
func (l Level) String() string {
	switch l {
	case LevelReference:
		return "reference"
	case LevelTable:
		return "table"
	case LevelFMA:
		return "fma"
	case LevelSIMD:
		return "simd"
	default:
		return "unknown"
	}
}

// Levels lists every kernel level.
func Levels() []Level {
	return []Level{LevelReference, LevelTable, LevelFMA, LevelSIMD}
}

// ParseLevel parses a level name as returned by Level.String.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, l := range Levels() {
		if l.String() == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("dct: unknown level %q", s)
}

// currentLevel is the level used by all kernels.
// Set by init() and SetLevel.
var currentLevel Level

func init() {
	currentLevel = detectLevel()
}

// detectLevel honours DCT_LEVEL, then picks SIMD when highway dispatches to
// vector instructions and FMA when the CPU fuses multiply-add in hardware.
// HWY_NO_SIMD therefore also disables LevelSIMD.
func detectLevel() Level {
	if env := os.Getenv("DCT_LEVEL"); env != "" {
		if l, err := ParseLevel(env); err == nil {
			return l
		}
	}
	if hwy.CurrentLevel() != hwy.DispatchScalar {
		return LevelSIMD
	}
	if hasFMA() {
		return LevelFMA
	}
	return LevelTable
}

func hasFMA() bool {
	switch runtime.GOARCH {
	case "amd64":
		return cpu.X86.HasFMA
	case "arm64":
		// FMADD is part of the base ARMv8 instruction set.
		return true
	default:
		return false
	}
}

// CurrentLevel returns the kernel level in use.
func CurrentLevel() Level {
	return currentLevel
}

// SetLevel forces the kernel level. It must not be called while transforms
// are running.
func SetLevel(l Level) {
	currentLevel = l
}

// SIMDTarget returns the vector target LevelSIMD runs on, e.g. "neon" or
// "scalar" when highway has no vector path on this build.
func SIMDTarget() string {
	return hwy.CurrentName()
}

// CPUFeatures returns the names of the CPU features relevant to the kernels
// that the host supports.
func CPUFeatures() []string {
	var features []string
	add := func(ok bool, name string) {
		if ok {
			features = append(features, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64":
		add(cpu.X86.HasSSE2, "sse2")
		add(cpu.X86.HasAVX, "avx")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasFMA, "fma")
		add(cpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(cpu.ARM64.HasFP, "fp")
		add(cpu.ARM64.HasASIMD, "asimd")
		add(cpu.ARM64.HasSVE, "sve")
	}
	return features
}
