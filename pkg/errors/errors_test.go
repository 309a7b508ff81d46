package errors

import (
	"fmt"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Fit",
			kind:    "invalid input",
			err:     fmt.Errorf("test error"),
			wantMsg: "housereg: Fit: invalid input: test error",
		},
		{
			name:    "without original error",
			op:      "Predict",
			kind:    "not fitted",
			wantMsg: "housereg: Predict: not fitted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)
			assert.Equal(t, tt.wantMsg, err.Error())

			// スタックトレースの存在確認
			assert.Contains(t, fmt.Sprintf("%+v", err), "errors_test.go")

			var modelErr *ModelError
			assert.True(t, As(err, &modelErr))
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Predict", 10, 8, 1)
	assert.Equal(t, "housereg: Predict: dimension mismatch on axis 1 (features). Expected 10, got 8", err.Error())

	var dimErr *DimensionError
	require.True(t, As(err, &dimErr))
	assert.Equal(t, 8, dimErr.Got)
}

func TestPipelineErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		target  interface{}
		wantMsg string
	}{
		{
			name:    "input not found",
			err:     NewInputNotFoundError("data/raw/housing.csv"),
			target:  new(*InputNotFoundError),
			wantMsg: "housereg: input file not found: data/raw/housing.csv",
		},
		{
			name:    "missing column",
			err:     NewMissingColumnError("Preparer.Prepare", "total_bedrooms", []string{"a", "b"}),
			target:  new(*MissingColumnError),
			wantMsg: `housereg: Preparer.Prepare: column "total_bedrooms" not found (available: a, b)`,
		},
		{
			name:    "file not found",
			err:     NewFileNotFoundError("data/processed"),
			target:  new(*FileNotFoundError),
			wantMsg: "housereg: no train/test data found in data/processed",
		},
		{
			name:    "partial layout",
			err:     NewPartialLayoutError("out", []string{"X_train.csv"}, []string{"y_test.csv", "y_train.csv"}),
			target:  new(*PartialLayoutError),
			wantMsg: "housereg: incomplete train/test data in out: missing y_test.csv, y_train.csv",
		},
		{
			name:    "schema mismatch",
			err:     NewSchemaMismatchError("out/X_test.csv", "expected 3 rows, got 2"),
			target:  new(*SchemaMismatchError),
			wantMsg: "housereg: schema mismatch for out/X_test.csv: expected 3 rows, got 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.True(t, As(tt.err, tt.target))
		})
	}
}

func TestDirectoryCreateErrorUnwraps(t *testing.T) {
	err := NewDirectoryCreateError("missing/parent/out", os.ErrNotExist)

	var dirErr *DirectoryCreateError
	require.True(t, As(err, &dirErr))
	assert.Equal(t, "missing/parent/out", dirErr.Path)
	assert.True(t, Is(err, os.ErrNotExist))
}

func TestWrapKeepsType(t *testing.T) {
	err := Wrap(NewFileNotFoundError("out"), "reading split")
	assert.True(t, strings.HasPrefix(err.Error(), "reading split: "))

	var notFound *FileNotFoundError
	assert.True(t, As(err, &notFound))
}

func TestWarn(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(nil)

	Warn(NewDataConversionWarning("ocean_proximity", "string", "one-hot", "non-numeric values"))

	require.Len(t, got, 1)
	assert.Contains(t, got[0].Error(), `column "ocean_proximity" converted from string to one-hot`)
}

func TestCheckMatrix(t *testing.T) {
	ok := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	assert.NoError(t, CheckMatrix("encode", ok))

	bad := mat.NewDense(3, 2, []float64{1, 2, 3, 4, math.NaN(), math.Inf(1)})
	err := CheckMatrix("encode", bad)
	require.Error(t, err)

	var numErr *NumericalInstabilityError
	require.True(t, As(err, &numErr))
	assert.Equal(t, 2, numErr.Row)
	assert.Len(t, numErr.Values, 2)

	assert.NoError(t, CheckScalar("score", 0.5))
	assert.Error(t, CheckScalar("score", math.NaN()))
}
