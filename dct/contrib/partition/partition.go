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

// Package partition splits the rows of an image into block-aligned slices,
// one per worker.
//
// Worker i of N owns rows [i*S/N, (i+1)*S/N) of a padded height S. Those
// slices only line up with 8x8 block boundaries when every slice length is a
// multiple of BlockSize, which PaddedHeight guarantees by choosing S. A slice
// that straddled a block would let two workers write the same block.
package partition

import (
	"errors"
	"fmt"

	"github.com/ajroetker/go-blockdct/dct"
)

// BlockSize is the edge length of a transform block.
const BlockSize = dct.BlockSize

// SearchLimit is the exclusive upper bound on padded heights PaddedHeight considers.
const SearchLimit = 8192

var (
	// ErrNoPaddedHeight is returned when no height below SearchLimit aligns
	// every worker slice to BlockSize.
	ErrNoPaddedHeight = errors.New("partition: no block-aligned padded height")

	// ErrInvalidArgument is returned for non-positive worker counts or heights.
	ErrInvalidArgument = errors.New("partition: invalid argument")

	// ErrUnaligned is returned by Ranges when a slice length is not a
	// multiple of BlockSize.
	ErrUnaligned = errors.New("partition: slice not block-aligned")
)

// ConfigError reports that no usable partition exists for a worker count and
// image height. The run must not proceed.
type ConfigError struct {
	Workers   int
	MinHeight int
	Err       error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("partition: %d workers over height %d: %v", e.Workers, e.MinHeight, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// WorkerRange is the row slice assigned to one worker.
type WorkerRange struct {
	Index    int
	StartRow int
	EndRow   int

	// PaddingBoundary is the unpadded image height. Rows at or past it are
	// synthetic padding and are never transformed.
	PaddingBoundary int
}

// Len returns the number of rows in the slice, padding included.
func (r WorkerRange) Len() int {
	return r.EndRow - r.StartRow
}

// ProcessEnd returns the exclusive row bound the worker actually processes.
func (r WorkerRange) ProcessEnd() int {
	return min(r.EndRow, r.PaddingBoundary)
}

// sliceBounds returns the rows of worker idx out of workers over height s.
func sliceBounds(idx, workers, s int) (start, end int) {
	return idx * s / workers, (idx + 1) * s / workers
}

// aligned reports whether every worker slice over height s is a multiple of BlockSize.
func aligned(workers, s int) bool {
	for idx := range workers {
		start, end := sliceBounds(idx, workers, s)
		if (end-start)%BlockSize != 0 {
			return false
		}
	}
	return true
}

// PaddedHeight returns the smallest height s >= minHeight, below SearchLimit,
// for which every one of workers slices is a multiple of BlockSize. The
// caller appends s-minHeight zero rows to every image in the run.
func PaddedHeight(workers, minHeight int) (int, error) {
	if workers < 1 || minHeight < 1 {
		return 0, fmt.Errorf("%w: workers=%d minHeight=%d", ErrInvalidArgument, workers, minHeight)
	}
	for s := minHeight; s < SearchLimit; s++ {
		if aligned(workers, s) {
			return s, nil
		}
	}
	return 0, &ConfigError{Workers: workers, MinHeight: minHeight, Err: ErrNoPaddedHeight}
}

// Ranges partitions [0, paddedHeight) into workers contiguous slices.
// boundary is the unpadded height recorded in every range.
func Ranges(workers, paddedHeight, boundary int) ([]WorkerRange, error) {
	if workers < 1 || paddedHeight < 1 || boundary < 1 || boundary > paddedHeight {
		return nil, fmt.Errorf("%w: workers=%d paddedHeight=%d boundary=%d",
			ErrInvalidArgument, workers, paddedHeight, boundary)
	}
	ranges := make([]WorkerRange, workers)
	for idx := range workers {
		start, end := sliceBounds(idx, workers, paddedHeight)
		if (end-start)%BlockSize != 0 {
			return nil, fmt.Errorf("%w: worker %d owns rows [%d, %d)", ErrUnaligned, idx, start, end)
		}
		ranges[idx] = WorkerRange{
			Index:           idx,
			StartRow:        start,
			EndRow:          end,
			PaddingBoundary: boundary,
		}
	}
	return ranges, nil
}

// Plan computes the padded height for workers over height and the matching ranges.
func Plan(workers, height int) (paddedHeight int, ranges []WorkerRange, err error) {
	paddedHeight, err = PaddedHeight(workers, height)
	if err != nil {
		return 0, nil, err
	}
	ranges, err = Ranges(workers, paddedHeight, height)
	if err != nil {
		return 0, nil, err
	}
	return paddedHeight, ranges, nil
}

// PaddedWidth rounds width up to a multiple of BlockSize so that every block
// column lies inside the image.
func PaddedWidth(width int) int {
	return (width + BlockSize - 1) / BlockSize * BlockSize
}
