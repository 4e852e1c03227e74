package metrics

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-blockdct/dct/contrib/image"
)

func gray(t *testing.T, width, height int, values ...float64) *image.Image {
	t.Helper()
	img, err := image.New(width, height, image.Grayscale)
	require.NoError(t, err)
	copy(img.Plane(image.Intensity), values)
	return img
}

func TestIdentityMetrics(t *testing.T) {
	for _, mode := range []image.ChannelMode{image.Grayscale, image.RGB} {
		a, err := image.Generate(16, 16, mode, 1)
		require.NoError(t, err)

		assert.NoError(t, Validate(a, a, 1e-12), mode.String())
		assert.Equal(t, OK, CodeOf(Validate(a, a, 1)))

		if mode != image.Grayscale {
			continue
		}
		rel, err := AverageRelativeError(a, a)
		require.NoError(t, err)
		assert.Zero(t, rel)

		agg, err := AggregateMagnitudeErrorPercent(a, a)
		require.NoError(t, err)
		assert.Zero(t, agg)

		mse, err := MeanSquaredError(a, a)
		require.NoError(t, err)
		assert.Zero(t, mse)
	}
}

func TestAverageRelativeError_SkipsZeros(t *testing.T) {
	a := gray(t, 2, 2, 10, 0, 4, 5)
	b := gray(t, 2, 2, 11, 3, 0, 5)

	got, err := AverageRelativeError(a, b)
	require.NoError(t, err)
	// Only (0,0) and (1,1) count: |11-10|/10 + 0.
	assert.InDelta(t, 0.1, got, 1e-15)
}

func TestAggregateMagnitudeErrorPercent(t *testing.T) {
	a := gray(t, 2, 1, 100, -100)
	b := gray(t, 2, 1, 110, -100)

	got, err := AggregateMagnitudeErrorPercent(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-12)

	zero := gray(t, 2, 1)
	got, err = AggregateMagnitudeErrorPercent(zero, zero)
	require.NoError(t, err)
	assert.Zero(t, got)

	got, err = AggregateMagnitudeErrorPercent(zero, b)
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))
}

func TestMeanSquaredError(t *testing.T) {
	a := gray(t, 2, 2, 1, 2, 3, 4)
	b := gray(t, 2, 2, 2, 2, 1, 4)

	got, err := MeanSquaredError(a, b)
	require.NoError(t, err)
	assert.InDelta(t, (1.0+0+4+0)/4, got, 1e-15)
}

func TestMeanSquaredError_Compensated(t *testing.T) {
	n := 10000
	a := gray(t, n, 1)
	b := gray(t, n, 1)
	exact := new(big.Float).SetPrec(256)
	for i := range n {
		d := 0.1 + float64(i%7)*1e-9
		b.Plane(image.Intensity)[i] = d
		exact.Add(exact, new(big.Float).SetPrec(256).SetFloat64(d*d))
	}
	exact.Quo(exact, new(big.Float).SetPrec(256).SetInt64(int64(n)))
	want, _ := exact.Float64()

	got, err := MeanSquaredError(a, b)
	require.NoError(t, err)
	assert.InEpsilon(t, want, got, 1e-15)
}

func TestScalarMetrics_GrayscaleOnly(t *testing.T) {
	a, err := image.Generate(8, 8, image.RGB, 1)
	require.NoError(t, err)

	_, err = AverageRelativeError(a, a)
	assert.ErrorIs(t, err, ErrGrayscaleOnly)
	_, err = AggregateMagnitudeErrorPercent(a, a)
	assert.ErrorIs(t, err, ErrGrayscaleOnly)
	_, err = MeanSquaredError(a, a)
	assert.ErrorIs(t, err, ErrGrayscaleOnly)
}

func TestValidate_ShapeMismatch(t *testing.T) {
	base := gray(t, 8, 8)
	rgb, err := image.New(8, 8, image.RGB)
	require.NoError(t, err)

	tests := []struct {
		name string
		b    *image.Image
		want Code
	}{
		{"height", gray(t, 8, 16), CodeHeightMismatch},
		{"width", gray(t, 16, 8), CodeWidthMismatch},
		{"both", gray(t, 16, 16), CodeHeightMismatch},
		{"mode", rgb, CodeChannelModeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(base, tt.b, 1e-3)
			var shape *ShapeMismatchError
			require.ErrorAs(t, err, &shape)
			assert.Equal(t, tt.want, shape.Code)
			assert.Equal(t, tt.want, CodeOf(err))

			_, err = MeanSquaredError(base, tt.b)
			assert.Equal(t, tt.want, CodeOf(err))
		})
	}
}

func TestValidate_ReportsFirstViolation(t *testing.T) {
	a, err := image.Generate(16, 16, image.Grayscale, 2)
	require.NoError(t, err)
	b := a.Clone()
	b.SetValue(image.Intensity, 5, 3, a.Value(image.Intensity, 5, 3)+1)

	err = Validate(a, b, 1e-3)
	var violation *ThresholdViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, CodeIntensityViolation, violation.Code)
	assert.Equal(t, image.Intensity, violation.Channel)
	assert.Equal(t, 5, violation.X, "column")
	assert.Equal(t, 3, violation.Y, "row")
	assert.Equal(t, a.Value(image.Intensity, 5, 3), violation.A)
	assert.Equal(t, b.Value(image.Intensity, 5, 3), violation.B)
}

func TestValidate_RowMajorOrder(t *testing.T) {
	a := gray(t, 8, 8)
	b := a.Clone()
	// (6, 1) precedes (1, 2) in row-major order.
	b.SetValue(image.Intensity, 1, 2, 9)
	b.SetValue(image.Intensity, 6, 1, 9)

	var violation *ThresholdViolation
	require.ErrorAs(t, Validate(a, b, 0.5), &violation)
	assert.Equal(t, [2]int{6, 1}, [2]int{violation.X, violation.Y})
}

func TestValidate_ThresholdIsInclusive(t *testing.T) {
	a := gray(t, 1, 1, 1.0)
	b := gray(t, 1, 1, 1.5)

	assert.Error(t, Validate(a, b, 0.5))
	assert.NoError(t, Validate(a, b, 0.75))
}

func TestValidate_RGBChannelOrder(t *testing.T) {
	a, err := image.New(4, 4, image.RGB)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(b *image.Image)
		want   Code
	}{
		{"red", func(b *image.Image) { b.SetValue(image.Red, 2, 2, 1) }, CodeRedViolation},
		{"green", func(b *image.Image) { b.SetValue(image.Green, 2, 2, 1) }, CodeGreenViolation},
		{"blue", func(b *image.Image) { b.SetValue(image.Blue, 2, 2, 1) }, CodeBlueViolation},
		{"green before blue", func(b *image.Image) {
			b.SetValue(image.Blue, 2, 2, 1)
			b.SetValue(image.Green, 2, 2, 1)
		}, CodeGreenViolation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := a.Clone()
			tt.mutate(b)
			assert.Equal(t, tt.want, CodeOf(Validate(a, b, 0.5)))
		})
	}
}

func TestValidate_InvalidThreshold(t *testing.T) {
	a := gray(t, 1, 1)
	for _, th := range []float64{0, -1, math.NaN()} {
		err := Validate(a, a, th)
		assert.ErrorIs(t, err, ErrInvalidThreshold)
		assert.Equal(t, CodeInvalid, CodeOf(err))
	}
}

func TestCompare(t *testing.T) {
	a, err := image.Generate(8, 8, image.Grayscale, 3)
	require.NoError(t, err)
	b := a.Clone()
	b.SetValue(image.Intensity, 7, 7, a.Value(image.Intensity, 7, 7)+2)

	r, err := Compare(a, b, 1)
	require.NoError(t, err)
	assert.Equal(t, CodeIntensityViolation, r.Code())
	assert.InDelta(t, 4.0/64, r.MeanSquaredError, 1e-15)
	assert.Greater(t, r.AggregateMagnitudeErrorPercent, 0.0)

	_, err = Compare(a, gray(t, 8, 4), 1)
	assert.Equal(t, CodeHeightMismatch, CodeOf(err))

	rgb, err := image.Generate(8, 8, image.RGB, 3)
	require.NoError(t, err)
	r, err = Compare(rgb, rgb, 1)
	require.NoError(t, err)
	assert.Equal(t, OK, r.Code())
	assert.True(t, math.IsNaN(r.MeanSquaredError))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, OK, CodeOf(nil))
	assert.Equal(t, CodeWidthMismatch, CodeOf(&ShapeMismatchError{Code: CodeWidthMismatch}))
	assert.Equal(t, CodeBlueViolation, CodeOf(&ThresholdViolation{Code: CodeBlueViolation}))
	assert.Equal(t, CodeInvalid, CodeOf(ErrGrayscaleOnly))
	assert.Equal(t, "height mismatch", CodeHeightMismatch.String())
}
