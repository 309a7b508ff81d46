package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/housereg/pkg/errors"
	"github.com/YuminosukeSato/housereg/pkg/log"
)

// writeHousingCSV writes n rows shaped like the housing dataset. The id
// column lets tests trace rows through the split.
func writeHousingCSV(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("id,median_income,total_bedrooms,ocean_proximity,median_house_value\n")
	for i := 0; i < n; i++ {
		bedrooms := fmt.Sprint(100 + i)
		if i%10 == 3 {
			bedrooms = ""
		}
		fmt.Fprintf(&b, "%d,%.2f,%s,%s,%d\n", i, 1.5+float64(i)/10, bedrooms, []string{"INLAND", "NEAR BAY"}[i%2], 1000*i)
	}
	path := filepath.Join(t.TempDir(), "housing.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

type recordingWriter struct {
	calls  int
	dir    string
	tables [4]Table
}

func (w *recordingWriter) Write(dir string, xTrain, xTest, yTrain, yTest Table) error {
	w.calls++
	w.dir = dir
	w.tables = [4]Table{xTrain, xTest, yTrain, yTest}
	return nil
}

func TestReadCSVKeepsCellsVerbatim(t *testing.T) {
	in := "a,b,c\n1.50,,x\n007,NaN,y z\n"
	tbl, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, tbl.Names())
	assert.Equal(t, 2, tbl.Nrow())

	want := [][]string{{"a", "b", "c"}, {"1.50", "", "x"}, {"007", "NaN", "y z"}}
	if diff := cmp.Diff(want, tbl.Records()); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	var out strings.Builder
	require.NoError(t, tbl.WriteCSV(&out))
	assert.Equal(t, in, out.String())

	assert.Equal(t, map[string]int{"a": 0, "b": 2, "c": 0}, tbl.MissingCounts())
}

func TestReadCSVHeaderOnly(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("x,y\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, tbl.Names())
	assert.Equal(t, 0, tbl.Nrow())

	_, err = ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestTableColumnOperations(t *testing.T) {
	tbl, err := NewTable([]string{"a", "b", "c"}, [][]string{{"1", "2"}, {"3", "4"}, {"5", "6"}})
	require.NoError(t, err)

	dropped, err := tbl.Drop("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, dropped.Names())
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Names(), "Drop must not modify the receiver")

	selected, err := tbl.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, selected.Names())

	sub, err := tbl.Subset([]int{1})
	require.NoError(t, err)
	col, err := sub.Column("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, col)

	_, err = tbl.Drop("missing")
	var missing *errors.MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "missing", missing.Column)

	_, err = tbl.Subset([]int{2})
	assert.Error(t, err)

	_, err = NewTable([]string{"a"}, [][]string{{"1"}, {"2"}})
	assert.Error(t, err)
}

func TestTrainTestSplit(t *testing.T) {
	split, err := TrainTestSplit(100, 0.33, 0)
	require.NoError(t, err)
	assert.Len(t, split.TrainIndex, 67)
	assert.Len(t, split.TestIndex, 33)

	all := append(append([]int{}, split.TrainIndex...), split.TestIndex...)
	sort.Ints(all)
	for i, idx := range all {
		require.Equal(t, i, idx, "partitions must be disjoint and exhaustive")
	}

	again, err := TrainTestSplit(100, 0.33, 0)
	require.NoError(t, err)
	assert.Equal(t, split, again)

	other, err := TrainTestSplit(100, 0.33, 1)
	require.NoError(t, err)
	assert.NotEqual(t, split.TestIndex, other.TestIndex)
}

func TestTrainTestSplitSizes(t *testing.T) {
	tests := []struct {
		n        int
		fraction float64
		wantTest int
	}{
		{n: 100, fraction: 0.33, wantTest: 33},
		{n: 10, fraction: 0.33, wantTest: 3},
		{n: 3, fraction: 0.5, wantTest: 2},
		{n: 1, fraction: 0.33, wantTest: 0},
		{n: 0, fraction: 0.33, wantTest: 0},
		{n: 20640, fraction: 0.33, wantTest: 6811},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			split, err := TrainTestSplit(tt.n, tt.fraction, 0)
			require.NoError(t, err)
			assert.Len(t, split.TestIndex, tt.wantTest)
			assert.Len(t, split.TrainIndex, tt.n-tt.wantTest)
		})
	}

	for _, bad := range []float64{0, 1, -0.2, 1.5} {
		_, err := TrainTestSplit(10, bad, 0)
		assert.Error(t, err, "fraction %v", bad)
	}
}

func TestPreparerPrepare(t *testing.T) {
	input := writeHousingCSV(t, 100)
	logger, _ := log.NewTestLogger(log.LevelInfo)
	w := &recordingWriter{}

	prepared, err := NewPreparer(DefaultConfig(), w, logger).Prepare(input, "processed")
	require.NoError(t, err)
	require.Equal(t, 1, w.calls)
	assert.Equal(t, "processed", w.dir)

	assert.Equal(t, 67, prepared.XTrain.Nrow())
	assert.Equal(t, 33, prepared.XTest.Nrow())
	assert.Equal(t, 67, prepared.YTrain.Nrow())
	assert.Equal(t, 33, prepared.YTest.Nrow())

	assert.Equal(t, []string{"id", "median_income", "ocean_proximity"}, prepared.XTrain.Names())
	assert.Equal(t, []string{"median_house_value"}, prepared.YTrain.Names())

	// Row i of the targets belongs to the same source row as row i of the features.
	for _, pair := range [][2]Table{{prepared.XTrain, prepared.YTrain}, {prepared.XTest, prepared.YTest}} {
		ids, err := pair[0].Column("id")
		require.NoError(t, err)
		values, err := pair[1].Column("median_house_value")
		require.NoError(t, err)
		for i, id := range ids {
			var n int
			_, err := fmt.Sscan(id, &n)
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprint(1000*n), values[i])
		}
	}

	assert.True(t, logger.ContainsMessage("Loaded raw data"))
	assert.True(t, logger.ContainsField(log.TrainRowsKey, 67.0))
	assert.True(t, logger.ContainsField(log.TestRowsKey, 33.0))
}

func TestPreparerErrors(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelError)

	t.Run("input not found", func(t *testing.T) {
		w := &recordingWriter{}
		_, err := NewPreparer(DefaultConfig(), w, logger).Prepare(filepath.Join(t.TempDir(), "nope.csv"), "out")
		var notFound *errors.InputNotFoundError
		require.True(t, errors.As(err, &notFound), "got %v", err)
		assert.Zero(t, w.calls)
	})

	t.Run("missing drop column", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "housing.csv")
		require.NoError(t, os.WriteFile(path, []byte("a,median_house_value\n1,2\n"), 0o644))

		w := &recordingWriter{}
		_, err := NewPreparer(DefaultConfig(), w, logger).Prepare(path, "out")
		var missing *errors.MissingColumnError
		require.True(t, errors.As(err, &missing), "got %v", err)
		assert.Equal(t, DefaultDropColumn, missing.Column)
		assert.Zero(t, w.calls)
	})

	t.Run("missing target column", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "housing.csv")
		require.NoError(t, os.WriteFile(path, []byte("a,total_bedrooms\n1,2\n"), 0o644))

		w := &recordingWriter{}
		_, err := NewPreparer(DefaultConfig(), w, logger).Prepare(path, "out")
		var missing *errors.MissingColumnError
		require.True(t, errors.As(err, &missing), "got %v", err)
		assert.Equal(t, DefaultTargetColumn, missing.Column)
		assert.Zero(t, w.calls)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.TestFraction = 1.2
		_, err := NewPreparer(cfg, &recordingWriter{}, logger).Prepare("whatever.csv", "out")
		var validation *errors.ValidationError
		assert.True(t, errors.As(err, &validation))
	})
}
