package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/olsgo/linear"
	"github.com/YuminosukeSato/olsgo/pkg/errors"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, "x1,x2,y\n1,2,3.5\n4,5,6.25\n7,8,9.75\n")

	ds, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, ds.NSamples())
	assert.Equal(t, 2, ds.NFeatures())
	assert.Equal(t, []string{"x1", "x2"}, ds.FeatureNames)
	assert.Equal(t, [][]float64{{1, 2}, {4, 5}, {7, 8}}, ds.Features)
	assert.Equal(t, []float64{3.5, 6.25, 9.75}, ds.Labels)

	m := ds.FeatureMatrix()
	rows, cols := m.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 5.0, m.At(1, 1))

	v := ds.LabelVector()
	require.Equal(t, 3, v.Len())
	assert.Equal(t, 6.25, v.AtVec(1))
}

func TestLoadNoHeader(t *testing.T) {
	path := writeCSV(t, "1,2,3.5\n4,5,6.25\n")

	ds, err := Load(path, WithHeader(false))
	require.NoError(t, err)

	assert.Equal(t, 2, ds.NSamples())
	assert.Nil(t, ds.FeatureNames)
	assert.Equal(t, []float64{3.5, 6.25}, ds.Labels)
}

func TestLoadLabelColumn(t *testing.T) {
	path := writeCSV(t, "y,x1\n1.5,2\n3.5,4\n")

	ds, err := Load(path, WithLabelColumn(0))
	require.NoError(t, err)

	assert.Equal(t, []string{"x1"}, ds.FeatureNames)
	assert.Equal(t, [][]float64{{2}, {4}}, ds.Features)
	assert.Equal(t, []float64{1.5, 3.5}, ds.Labels)
}

func TestLoadTabSeparated(t *testing.T) {
	path := writeCSV(t, "x\ty\n1\t2\n3\t4\n")

	ds, err := Load(path, WithComma('\t'))
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{1}, {3}}, ds.Features)
	assert.Equal(t, []float64{2, 4}, ds.Labels)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.csv"))
		require.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeCSV(t, "")
		_, err := Load(path)
		assert.ErrorIs(t, err, errors.ErrEmptyData)
	})

	t.Run("header only", func(t *testing.T) {
		path := writeCSV(t, "x1,x2,y\n")
		_, err := Load(path)
		assert.ErrorIs(t, err, errors.ErrEmptyData)
	})

	t.Run("non-numeric field", func(t *testing.T) {
		path := writeCSV(t, "x,y\n1,2\n3,oops\n")
		_, err := Load(path)
		require.Error(t, err)

		var valErr *errors.ValueError
		require.ErrorAs(t, err, &valErr)
		assert.Contains(t, valErr.Message, "row 3")
		assert.Contains(t, valErr.Message, `"oops"`)
	})

	t.Run("ragged rows", func(t *testing.T) {
		path := writeCSV(t, "x,y\n1,2\n3,4,5\n")
		_, err := Load(path)
		assert.ErrorIs(t, err, csv.ErrFieldCount)
	})

	t.Run("single column", func(t *testing.T) {
		path := writeCSV(t, "y\n1\n2\n")
		_, err := Load(path)

		var valErr *errors.ValueError
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("label column out of range", func(t *testing.T) {
		path := writeCSV(t, "x,y\n1,2\n")
		_, err := Load(path, WithLabelColumn(5))

		var validErr *errors.ValidationError
		require.ErrorAs(t, err, &validErr)
		assert.Equal(t, "label_column", validErr.ParamName)
	})
}

func TestLoadIntoRegression(t *testing.T) {
	// y = 2x exactly
	path := writeCSV(t, "x,y\n1,2\n2,4\n3,6\n4,8\n")

	ds, err := Load(path)
	require.NoError(t, err)

	reg, err := linear.New(ds.Features, ds.Labels)
	require.NoError(t, err)
	require.True(t, reg.IsFitted(), "fit error: %v", reg.FitError())

	pred, err := reg.Predict([]float64{5})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, pred, 1e-8)
}
