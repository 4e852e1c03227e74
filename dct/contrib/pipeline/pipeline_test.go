package pipeline

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-blockdct/dct"
	"github.com/ajroetker/go-blockdct/dct/contrib/image"
	"github.com/ajroetker/go-blockdct/dct/contrib/metrics"
	"github.com/ajroetker/go-blockdct/dct/contrib/netpbm"
	"github.com/ajroetker/go-blockdct/dct/contrib/partition"
	"github.com/ajroetker/go-blockdct/dct/contrib/workerpool"
)

func TestProcess_EndToEnd(t *testing.T) {
	src, err := image.Generate(16, 16, image.Grayscale, 2024)
	require.NoError(t, err)

	res, err := (&Runner{Workers: 2, Threshold: 1e-3}).Process(src)
	require.NoError(t, err)

	assert.Equal(t, 16, res.PaddedHeight, "16 rows split into two 8-row slices")
	assert.Len(t, res.Ranges, 2)

	mse, err := metrics.MeanSquaredError(src, res.Reconstructed)
	require.NoError(t, err)
	assert.Less(t, mse, 1e-6)
	assert.NoError(t, metrics.Validate(src, res.Reconstructed, 1e-3))
	assert.Equal(t, metrics.OK, res.Report.Code())
}

func TestProcess_DoesNotModifySource(t *testing.T) {
	src, err := image.Generate(16, 20, image.Grayscale, 1)
	require.NoError(t, err)
	before := src.Clone()

	_, err = (&Runner{Workers: 3}).Process(src)
	require.NoError(t, err)
	assert.Equal(t, before.Plane(image.Intensity), src.Plane(image.Intensity))
}

func TestProcess_WorkerCountIndependent(t *testing.T) {
	src, err := image.Generate(24, 40, image.Grayscale, 9)
	require.NoError(t, err)

	ref, err := (&Runner{Workers: 1}).Process(src)
	require.NoError(t, err)

	for workers := 2; workers <= 6; workers++ {
		res, err := (&Runner{Workers: workers}).Process(src)
		require.NoError(t, err)
		if diff := cmp.Diff(ref.Coefficients.Plane(image.Intensity), res.Coefficients.Plane(image.Intensity)); diff != "" {
			t.Errorf("%d workers: coefficients differ (-1 worker +%d workers):\n%s", workers, workers, diff)
		}
		if diff := cmp.Diff(ref.Reconstructed.Plane(image.Intensity), res.Reconstructed.Plane(image.Intensity)); diff != "" {
			t.Errorf("%d workers: reconstruction differs:\n%s", workers, diff)
		}
	}
}

func TestProcess_Padding(t *testing.T) {
	src, err := image.Generate(13, 20, image.Grayscale, 4)
	require.NoError(t, err)

	res, err := (&Runner{Workers: 3, Threshold: 1e-6}).Process(src)
	require.NoError(t, err)

	assert.Equal(t, 16, res.PaddedWidth)
	assert.Equal(t, 24, res.PaddedHeight)
	for _, img := range []*image.Image{res.Source, res.Coefficients, res.Reconstructed} {
		assert.Equal(t, 13, img.Width())
		assert.Equal(t, 20, img.Height())
	}
	assert.Equal(t, metrics.OK, res.Report.Code(), "%v", res.Report.Validation)

	// The third worker owns rows [16, 24) but stops at the unpadded height.
	last := res.Ranges[2]
	assert.Equal(t, 20, last.ProcessEnd())
}

func TestProcess_RGB(t *testing.T) {
	src, err := image.Generate(16, 16, image.RGB, 6)
	require.NoError(t, err)

	res, err := (&Runner{Workers: 2, Threshold: 1e-6}).Process(src)
	require.NoError(t, err)
	assert.Equal(t, metrics.OK, res.Report.Code())
	assert.NoError(t, metrics.Validate(src, res.Reconstructed, 1e-6))
}

func TestProcess_ConfigurationError(t *testing.T) {
	src, err := image.Generate(8, 8, image.Grayscale, 1)
	require.NoError(t, err)

	_, err = (&Runner{Workers: 2000}).Process(src)
	require.Error(t, err)
	assert.ErrorIs(t, err, partition.ErrNoPaddedHeight)

	_, err = (&Runner{Workers: 0}).Process(src)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestProcess_LogsViolation(t *testing.T) {
	src, err := image.Generate(8, 8, image.Grayscale, 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	// Some sample of an 8x8 round trip always differs by more than 1e-300.
	res, err := (&Runner{Workers: 1, Threshold: 1e-300, Logger: logger}).Process(src)
	require.NoError(t, err)
	assert.Equal(t, metrics.CodeIntensityViolation, res.Report.Code())
	assert.Contains(t, buf.String(), "reconstruction exceeds threshold")
}

func TestTransform_SkipsPaddingRows(t *testing.T) {
	src, err := image.New(8, 16, image.Grayscale)
	require.NoError(t, err)
	src.Fill(1)
	coef, _ := image.New(8, 16, image.Grayscale)
	recon, _ := image.New(8, 16, image.Grayscale)
	coef.Fill(-1)

	ranges, err := partition.Ranges(2, 16, 8)
	require.NoError(t, err)

	pool := workerpool.New(2)
	defer pool.Close()
	Transform(pool, ranges, src, coef, recon)

	assert.InDelta(t, 8.0, coef.Value(image.Intensity, 0, 0), 1e-9)
	for y := 8; y < 16; y++ {
		assert.Equal(t, -1.0, coef.Value(image.Intensity, 0, y), "padding row %d was transformed", y)
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"workers", func(c *Config) { c.Workers = 0 }},
		{"threshold", func(c *Config) { c.Threshold = -1 }},
		{"width", func(c *Config) { c.Width = 0 }},
		{"mode", func(c *Config) { c.Mode = image.ChannelMode(9) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}

	c := DefaultConfig()
	c.Width, c.Input = 0, "in.pgm"
	assert.NoError(t, c.Validate(), "dimensions come from the input file")
}

func TestRun_FromFile(t *testing.T) {
	dir := t.TempDir()
	src, err := image.Generate(12, 10, image.Grayscale, 3)
	require.NoError(t, err)
	path := filepath.Join(dir, "in.pgm.zst")
	require.NoError(t, netpbm.Store(path, src))

	c := DefaultConfig()
	c.Input = path
	c.Workers = 2
	c.Threshold = 1e-6
	res, err := Run(c, nil)
	require.NoError(t, err)
	assert.Equal(t, metrics.OK, res.Report.Code())
	assert.Equal(t, src.Plane(image.Intensity), res.Source.Plane(image.Intensity))
}

func TestWriteOutputs(t *testing.T) {
	res, err := Run(DefaultConfig(), nil)
	require.NoError(t, err)

	dir := t.TempDir()
	paths, err := WriteOutputs(dir, "", res)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.True(t, strings.HasSuffix(paths[0], "srcIMG.pgm"))
	assert.True(t, strings.HasSuffix(paths[2], "idctIMG.pgm"))

	got, err := netpbm.Load(paths[0])
	require.NoError(t, err)
	assert.Equal(t, res.Source.Plane(image.Intensity), got.Plane(image.Intensity))

	assert.Equal(t, [3]string{"srcIMG.ppm.zst", "dctIMG.ppm.zst", "idctIMG.ppm.zst"},
		OutputNames(image.RGB, ".zst"))
}

func TestBench(t *testing.T) {
	c := BenchConfig{
		Width: 16, Height: 16, Mode: image.Grayscale,
		MinWorkers: 1, MaxWorkers: 3, Iterations: 2,
		Seed: 10, Threshold: 1e-6,
	}
	var observed int
	summaries, err := Bench(c, nil, func(Sample) { observed++ }, nil)
	require.NoError(t, err)

	require.Len(t, summaries, 3)
	assert.Equal(t, 6, observed)
	for i, s := range summaries {
		assert.Equal(t, i+1, s.Workers)
		assert.Equal(t, 2, s.Iterations)
		assert.Zero(t, s.Failures)
		assert.Less(t, s.MeanSquaredError, 1e-12)
		assert.Len(t, s.Samples, 2)
	}
}

func TestBenchConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultBenchConfig().Validate())

	c := DefaultBenchConfig()
	c.MaxWorkers = 0
	assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)

	c = DefaultBenchConfig()
	c.Iterations = 0
	assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
}

func TestSummarize(t *testing.T) {
	s := summarize(4, []Sample{
		{Elapsed: 10, MeanSquaredError: 1, Code: metrics.OK},
		{Elapsed: 30, MeanSquaredError: 3, Code: metrics.CodeIntensityViolation},
	})
	assert.Equal(t, 4, s.Workers)
	assert.Equal(t, 1, s.Failures)
	assert.EqualValues(t, 20, s.MeanElapsed)
	assert.Equal(t, 2.0, s.MeanSquaredError)
}

func BenchmarkProcess_VGA(b *testing.B) {
	src, err := image.Generate(640, 480, image.Grayscale, 1)
	if err != nil {
		b.Fatal(err)
	}
	for _, workers := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("%s/workers=%d", dct.CurrentLevel(), workers), func(b *testing.B) {
			r := &Runner{Workers: workers}
			for i := 0; i < b.N; i++ {
				if _, err := r.Process(src); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func TestProcessFull(t *testing.T) {
	square, err := image.Generate(16, 16, image.Grayscale, 12)
	require.NoError(t, err)

	res, err := (&Runner{Workers: 3, Threshold: 1e-6}).ProcessFull(square)
	require.NoError(t, err)
	assert.Equal(t, metrics.OK, res.Report.Code(), "%v", res.Report.Validation)
	assert.Less(t, res.Report.MeanSquaredError, 1e-9)

	seq, err := (&Runner{Workers: 1, Threshold: 1e-6}).ProcessFull(square)
	require.NoError(t, err)
	if diff := cmp.Diff(seq.Coefficients.Plane(image.Intensity), res.Coefficients.Plane(image.Intensity)); diff != "" {
		t.Errorf("whole-image coefficients depend on worker count:\n%s", diff)
	}

	wide, err := image.Generate(16, 8, image.Grayscale, 12)
	require.NoError(t, err)
	res, err = (&Runner{Workers: 2, Threshold: 1e-3}).ProcessFull(wide)
	require.NoError(t, err, "a poor reconstruction is reported, not returned")
	assert.Equal(t, metrics.CodeIntensityViolation, res.Report.Code())
	assert.Greater(t, res.Report.MeanSquaredError, 1e-3)
}

func TestProcess_NoPaddingNeeded(t *testing.T) {
	src, err := image.Generate(16, 16, image.Grayscale, 8)
	require.NoError(t, err)

	res, err := (&Runner{Workers: 2}).Process(src)
	require.NoError(t, err)
	assert.Equal(t, src.Plane(image.Intensity), res.Source.Plane(image.Intensity))

	// The result owns its copy of the source.
	res.Source.SetValue(image.Intensity, 0, 0, -5)
	assert.NotEqual(t, -5.0, src.Value(image.Intensity, 0, 0))
}

func TestThreshold_ZeroMeansDefault(t *testing.T) {
	c := DefaultConfig()
	c.Threshold = 0
	assert.NoError(t, c.Validate())

	bc := DefaultBenchConfig()
	bc.Threshold = 0
	assert.NoError(t, bc.Validate())

	got, err := effectiveThreshold(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultThreshold, got)

	src, err := image.Generate(8, 8, image.Grayscale, 1)
	require.NoError(t, err)
	for _, th := range []float64{-1, math.NaN()} {
		_, err = (&Runner{Workers: 1, Threshold: th}).Process(src)
		assert.ErrorIs(t, err, ErrInvalidConfig, "threshold %v", th)

		c := DefaultConfig()
		c.Threshold = th
		assert.ErrorIs(t, c.Validate(), ErrInvalidConfig, "threshold %v", th)

		bc := DefaultBenchConfig()
		bc.Threshold = th
		assert.ErrorIs(t, bc.Validate(), ErrInvalidConfig, "threshold %v", th)
	}
}
