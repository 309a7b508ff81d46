package linear

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/housereg/core/model"
	"github.com/YuminosukeSato/housereg/pkg/errors"
)

func TestLinearRegression_Basic(t *testing.T) {
	// y = 2x + 1
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{3, 5, 7, 9})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	assert.InDelta(t, 2.0, lr.GetWeights()[0], 1e-9)
	assert.InDelta(t, 1.0, lr.GetIntercept(), 1e-9)
	assert.Equal(t, 1, lr.Rank)

	pred, err := lr.Predict(mat.NewDense(2, 1, []float64{5, 6}))
	require.NoError(t, err)
	assert.InDelta(t, 11.0, pred.At(0, 0), 1e-9)
	assert.InDelta(t, 13.0, pred.At(1, 0), 1e-9)

	score, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-12)
}

func TestLinearRegression_NoIntercept(t *testing.T) {
	// y = 2x
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

	lr := NewLinearRegression(WithFitIntercept(false))
	require.NoError(t, lr.Fit(X, y))

	assert.InDelta(t, 2.0, lr.Coef[0], 1e-9)
	assert.Equal(t, 0.0, lr.Intercept)
}

func TestLinearRegression_MultipleFeatures(t *testing.T) {
	// y = 2*x1 + 3*x2 + 1
	X := mat.NewDense(5, 2, []float64{
		1, 1,
		2, 1,
		3, 2,
		4, 2,
		5, 3,
	})
	y := mat.NewDense(5, 1, []float64{6, 8, 13, 15, 20})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	assert.InDeltaSlice(t, []float64{2, 3}, lr.Coef, 1e-9)
	assert.InDelta(t, 1.0, lr.Intercept, 1e-9)
	assert.Len(t, lr.Singular, 2)
}

func TestLinearRegression_CollinearColumns(t *testing.T) {
	// one-hot列の和は切片と線形従属になる
	X := mat.NewDense(6, 3, []float64{
		1.0, 1, 0,
		2.0, 0, 1,
		3.0, 1, 0,
		4.0, 0, 1,
		5.0, 1, 0,
		6.0, 0, 1,
	})
	// y = 10*x + 5*[B] + 100
	y := mat.NewDense(6, 1, []float64{110, 125, 130, 145, 150, 165})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))
	assert.Equal(t, 2, lr.Rank)

	score, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)

	pred, err := lr.Predict(mat.NewDense(1, 3, []float64{7, 1, 0}))
	require.NoError(t, err)
	assert.InDelta(t, 170.0, pred.At(0, 0), 1e-6)
}

func TestLinearRegression_Errors(t *testing.T) {
	lr := NewLinearRegression()

	_, err := lr.Predict(mat.NewDense(1, 1, []float64{1}))
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))

	err = lr.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(2, 1, []float64{1, 2}))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	err = lr.Fit(mat.NewDense(2, 1, []float64{1, 2}), mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
	var valErr *errors.ValueError
	assert.True(t, errors.As(err, &valErr))

	require.NoError(t, lr.Fit(mat.NewDense(3, 2, []float64{1, 0, 2, 1, 3, 5}), mat.NewDense(3, 1, []float64{1, 2, 3})))
	_, err = lr.Predict(mat.NewDense(1, 3, []float64{1, 2, 3}))
	assert.True(t, errors.As(err, &dimErr))
}

func TestLinearRegression_GobRoundTrip(t *testing.T) {
	X, y := createBenchmarkData(200, 4)
	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	var buf bytes.Buffer
	require.NoError(t, model.SaveModelToWriter(lr, &buf))

	var loaded LinearRegression
	require.NoError(t, model.LoadModelFromReader(&loaded, &buf))
	assert.True(t, loaded.IsFitted())

	want, err := lr.Predict(X)
	require.NoError(t, err)
	got, err := loaded.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))
}

func TestLinearRegression_Parallel(t *testing.T) {
	// 閾値を超える行数でも逐次版と同じ結果になる
	X, y := createBenchmarkData(3000, 5)
	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	assert.InDeltaSlice(t, []float64{0.5, 1.0, 1.5, 2.0, 2.5}, lr.Coef, 0.01)
	assert.InDelta(t, 1.0, lr.Intercept, 0.01)

	var _ model.Regressor = lr
}
