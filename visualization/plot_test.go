package visualization

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/olsgo/linear"
	"github.com/YuminosukeSato/olsgo/pkg/errors"
)

func fittedModel(t *testing.T) *linear.Regression {
	t.Helper()
	reg, err := linear.New([][]float64{{1}, {2}, {3}, {4}}, []float64{2.1, 3.9, 6.1, 7.9})
	require.NoError(t, err)
	require.True(t, reg.IsFitted(), "fixture model should fit")
	return reg
}

// assertPNG verifies the file at path starts with the PNG signature.
func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8, "plot file should not be empty")
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), data[:8], "file should start with the PNG signature")
}

func TestScatterWithFit(t *testing.T) {
	reg := fittedModel(t)
	path := filepath.Join(t.TempDir(), "fit.png")

	err := ScatterWithFit(reg, []float64{1, 2, 3, 4}, []float64{2.1, 3.9, 6.1, 7.9}, path)
	require.NoError(t, err)
	assertPNG(t, path)
}

func TestScatterWithFit_ConstantX(t *testing.T) {
	reg := fittedModel(t)
	path := filepath.Join(t.TempDir(), "constant.png")

	// 特徴量の範囲が幅を持たない場合でも描画できる
	err := ScatterWithFit(reg, []float64{2, 2, 2}, []float64{3.9, 4.1, 4.0}, path)
	require.NoError(t, err)
	assertPNG(t, path)
}

func TestScatterWithFit_Validation(t *testing.T) {
	reg := fittedModel(t)
	path := filepath.Join(t.TempDir(), "out.png")

	t.Run("nil model", func(t *testing.T) {
		err := ScatterWithFit(nil, []float64{1}, []float64{1}, path)
		var valErr *errors.ValueError
		require.ErrorAs(t, err, &valErr)
	})

	t.Run("empty data", func(t *testing.T) {
		err := ScatterWithFit(reg, nil, nil, path)
		assert.ErrorIs(t, err, errors.ErrEmptyData)
	})

	t.Run("length mismatch", func(t *testing.T) {
		err := ScatterWithFit(reg, []float64{1, 2}, []float64{1}, path)
		var dimErr *errors.DimensionError
		require.ErrorAs(t, err, &dimErr)
		assert.Equal(t, 2, dimErr.Expected)
		assert.Equal(t, 1, dimErr.Got)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		err := ScatterWithFit(reg, []float64{1, 2}, []float64{2, 4}, filepath.Join(t.TempDir(), "out.bogus"))
		assert.Error(t, err)
	})
}

func TestResiduals(t *testing.T) {
	// y = 1 + 2a + 3b の厳密なデータ
	xt := [][]float64{{1, 1}, {2, 1}, {1, 2}, {3, 2}, {2, 3}}
	y := []float64{6, 8, 9, 13, 14}
	reg, err := linear.New(xt, y)
	require.NoError(t, err)
	require.True(t, reg.IsFitted())

	path := filepath.Join(t.TempDir(), "residuals.png")
	require.NoError(t, Residuals(reg, xt, y, path))
	assertPNG(t, path)
}

func TestResiduals_UnfittedModel(t *testing.T) {
	// 完全に共線なデータでは学習が失敗し、Predictが未学習エラーを返す
	reg, err := linear.New([][]float64{{1, 2}, {2, 4}, {3, 6}, {4, 8}}, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	require.False(t, reg.IsFitted())

	err = Residuals(reg, [][]float64{{1, 2}}, []float64{1}, filepath.Join(t.TempDir(), "r.png"))
	var notFitted *errors.NotFittedError
	require.ErrorAs(t, err, &notFitted, "prediction failure should surface through the wrap")
}

func TestResiduals_Validation(t *testing.T) {
	reg := fittedModel(t)
	path := filepath.Join(t.TempDir(), "r.png")

	t.Run("empty data", func(t *testing.T) {
		err := Residuals(reg, nil, nil, path)
		assert.ErrorIs(t, err, errors.ErrEmptyData)
	})

	t.Run("length mismatch", func(t *testing.T) {
		err := Residuals(reg, [][]float64{{1}, {2}, {3}}, []float64{1}, path)
		var dimErr *errors.DimensionError
		require.ErrorAs(t, err, &dimErr)
		assert.Equal(t, 3, dimErr.Expected)
		assert.Equal(t, 1, dimErr.Got)
	})
}
