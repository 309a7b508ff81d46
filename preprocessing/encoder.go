// Package preprocessing は特徴量の数値化と標準化を提供する
package preprocessing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/housereg/core/model"
	"github.com/YuminosukeSato/housereg/core/parallel"
	"github.com/YuminosukeSato/housereg/dataset"
	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// EncodedColumn は1つの入力列の変換方法を表す
type EncodedColumn struct {
	Name string

	// Categorical が true の列はone-hot表現に展開される
	Categorical bool

	// Categories はソート済みのカテゴリ一覧
	Categories []string
}

// width は出力列数を返す
func (c EncodedColumn) width() int {
	if c.Categorical {
		return len(c.Categories)
	}
	return 1
}

// FeatureEncoder は文字列の表を数値行列に変換する
//
// 全てのセルがfloat64として解釈できる列はそのまま数値として扱い、
// それ以外の列はカテゴリ列としてone-hot表現に展開する。
// 学習時に存在しなかったカテゴリは全て0になる。
type FeatureEncoder struct {
	model.BaseEstimator

	Columns []EncodedColumn
}

// NewFeatureEncoder は新しいFeatureEncoderを作成する
func NewFeatureEncoder() *FeatureEncoder {
	return &FeatureEncoder{}
}

// Fit は各列が数値列かカテゴリ列かを判定し、カテゴリを収集する
//
// 数値列に欠損値がある場合はValueErrorを返す。
func (e *FeatureEncoder) Fit(names []string, columns [][]string) error {
	if len(names) == 0 {
		return errors.NewModelError("FeatureEncoder.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(names) != len(columns) {
		return errors.NewDimensionError("FeatureEncoder.Fit", len(names), len(columns), 1)
	}

	encoded := make([]EncodedColumn, len(names))
	for j, name := range names {
		col := EncodedColumn{Name: name}
		if isNumericColumn(columns[j]) {
			if err := checkNoMissing(name, columns[j]); err != nil {
				return err
			}
		} else {
			col.Categorical = true
			col.Categories = categories(columns[j])
			errors.Warn(errors.NewDataConversionWarning(name, "string", "one-hot",
				fmt.Sprintf("non-numeric values, %d categories", len(col.Categories))))
		}
		encoded[j] = col
	}

	e.Columns = encoded
	e.SetFitted()
	return nil
}

// Transform は学習済みの列定義に従って行列を作成する
func (e *FeatureEncoder) Transform(names []string, columns [][]string) (*mat.Dense, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("FeatureEncoder", "Transform")
	}
	if len(names) != len(e.Columns) || len(columns) != len(e.Columns) {
		return nil, errors.NewDimensionError("FeatureEncoder.Transform", len(e.Columns), len(names), 1)
	}
	for j, name := range names {
		if name != e.Columns[j].Name {
			return nil, errors.NewValueError("FeatureEncoder.Transform",
				fmt.Sprintf("column %d is %q, expected %q", j, name, e.Columns[j].Name))
		}
	}

	rows := 0
	if len(columns) > 0 {
		rows = len(columns[0])
	}
	for j := range columns {
		if len(columns[j]) != rows {
			return nil, errors.NewDimensionError("FeatureEncoder.Transform", rows, len(columns[j]), 0)
		}
	}
	if rows == 0 {
		return nil, errors.NewModelError("FeatureEncoder.Transform", "empty data", errors.ErrEmptyData)
	}

	offsets := make([]int, len(e.Columns))
	width := 0
	for j, col := range e.Columns {
		offsets[j] = width
		width += col.width()
	}
	if width == 0 {
		return nil, errors.NewValueError("FeatureEncoder.Transform", "no output features")
	}

	// 数値列は先に検証して、並列処理中にエラーが起きないようにする
	values := make([][]float64, len(e.Columns))
	for j, col := range e.Columns {
		if col.Categorical {
			continue
		}
		parsed, err := parseColumn(col.Name, columns[j])
		if err != nil {
			return nil, err
		}
		values[j] = parsed
	}

	X := mat.NewDense(rows, width, nil)
	parallel.Rows(rows, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j, col := range e.Columns {
				if !col.Categorical {
					X.Set(i, offsets[j], values[j][i])
					continue
				}
				if k := sort.SearchStrings(col.Categories, columns[j][i]); k < len(col.Categories) && col.Categories[k] == columns[j][i] {
					X.Set(i, offsets[j]+k, 1)
				}
			}
		}
	})
	return X, nil
}

// FitTransform はFitとTransformを続けて実行する
func (e *FeatureEncoder) FitTransform(names []string, columns [][]string) (*mat.Dense, error) {
	if err := e.Fit(names, columns); err != nil {
		return nil, err
	}
	return e.Transform(names, columns)
}

// OutputNames は変換後の列名を返す。カテゴリ列は "列名=カテゴリ" になる。
func (e *FeatureEncoder) OutputNames() []string {
	var out []string
	for _, col := range e.Columns {
		if !col.Categorical {
			out = append(out, col.Name)
			continue
		}
		for _, c := range col.Categories {
			out = append(out, col.Name+"="+c)
		}
	}
	return out
}

// String はエンコーダの文字列表現を返す
func (e *FeatureEncoder) String() string {
	if !e.IsFitted() {
		return "FeatureEncoder()"
	}
	var cats []string
	for _, col := range e.Columns {
		if col.Categorical {
			cats = append(cats, col.Name)
		}
	}
	return fmt.Sprintf("FeatureEncoder(n_columns=%d, categorical=[%s])", len(e.Columns), strings.Join(cats, ", "))
}

// ParseTarget は目的変数の列をベクトルに変換する
func ParseTarget(name string, cells []string) (*mat.VecDense, error) {
	if len(cells) == 0 {
		return nil, errors.NewModelError("ParseTarget", "empty data", errors.ErrEmptyData)
	}
	values, err := parseColumn(name, cells)
	if err != nil {
		return nil, err
	}
	return mat.NewVecDense(len(values), values), nil
}

func isNumericColumn(cells []string) bool {
	seen := false
	for _, cell := range cells {
		if dataset.IsMissing(cell) {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

func checkNoMissing(name string, cells []string) error {
	for i, cell := range cells {
		if dataset.IsMissing(cell) {
			return errors.NewValueError("FeatureEncoder.Fit",
				fmt.Sprintf("column %q has a missing value at row %d", name, i))
		}
	}
	return nil
}

func parseColumn(name string, cells []string) ([]float64, error) {
	out := make([]float64, len(cells))
	for i, cell := range cells {
		if dataset.IsMissing(cell) {
			return nil, errors.NewValueError("parse",
				fmt.Sprintf("column %q has a missing value at row %d", name, i))
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, errors.NewValueError("parse",
				fmt.Sprintf("column %q row %d: %q is not a number", name, i, cell))
		}
		out[i] = v
	}
	return out, nil
}

func categories(cells []string) []string {
	set := make(map[string]struct{})
	for _, cell := range cells {
		if dataset.IsMissing(cell) {
			continue
		}
		set[cell] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
