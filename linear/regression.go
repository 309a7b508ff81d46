// Package linear は線形回帰モデルを提供する
package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/housereg/core/model"
	"github.com/YuminosukeSato/housereg/core/parallel"
	"github.com/YuminosukeSato/housereg/metrics"
	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// LinearRegression は最小二乗法による線形回帰モデル
//
// 係数は特異値分解による最小ノルム解として求めるため、
// one-hot列と切片のように列が線形従属な場合でも学習できる。
type LinearRegression struct {
	model.BaseEstimator

	// Coef は学習された係数（特徴量ごと）
	Coef []float64
	// Intercept は切片
	Intercept float64
	// NFeatures は学習時の特徴量の数
	NFeatures int
	// Rank は中心化後の計画行列のランク
	Rank int
	// Singular は計画行列の特異値（降順）
	Singular []float64

	FitIntercept bool
	Rcond        float64
}

// NewLinearRegression は新しい線形回帰モデルを作成する
//
// 使用例:
//
//	lr := linear.NewLinearRegression(linear.WithFitIntercept(true))
//	err := lr.Fit(X, y)
//	yPred, err := lr.Predict(XTest)
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{
		FitIntercept: true,
		Rcond:        -1,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit はモデルを訓練データで学習させる
//
// 切片を推定する場合はXとyを列平均で中心化してから min ||Xw - y|| を解き、
// 切片を mean(y) - mean(X)·w として復元する。
func (lr *LinearRegression) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "LinearRegression.Fit")

	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}
	if err := errors.CheckMatrix("LinearRegression.Fit", X); err != nil {
		return err
	}
	if err := errors.CheckMatrix("LinearRegression.Fit", y); err != nil {
		return err
	}

	xMean := make([]float64, c)
	var yMean float64
	if lr.FitIntercept {
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				xMean[j] += X.At(i, j)
			}
			yMean += y.At(i, 0)
		}
		for j := range xMean {
			xMean[j] /= float64(r)
		}
		yMean /= float64(r)
	}

	// 計画行列を中心化してコピー
	A := mat.NewDense(r, c, nil)
	b := mat.NewVecDense(r, nil)
	parallel.Rows(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				A.Set(i, j, X.At(i, j)-xMean[j])
			}
			b.SetVec(i, y.At(i, 0)-yMean)
		}
	})

	var svd mat.SVD
	if ok := svd.Factorize(A, mat.SVDThin); !ok {
		return errors.NewModelError("LinearRegression.Fit", "SVD did not converge", errors.ErrSingularMatrix)
	}

	rcond := lr.Rcond
	if rcond < 0 {
		rcond = eps * float64(max(r, c))
	}

	coef := mat.NewVecDense(c, nil)
	rank := svd.Rank(rcond)
	if rank > 0 {
		svd.SolveVecTo(coef, b, rank)
	}

	lr.NFeatures = c
	lr.Rank = rank
	lr.Singular = svd.Values(nil)
	lr.Coef = make([]float64, c)
	copy(lr.Coef, coef.RawVector().Data)

	lr.Intercept = 0
	if lr.FitIntercept {
		lr.Intercept = yMean - mat.Dot(mat.NewVecDense(c, xMean), coef)
	}
	if err := errors.CheckScalar("LinearRegression.Fit", lr.Intercept); err != nil {
		return err
	}

	lr.SetFitted()
	return nil
}

// eps は倍精度の計算機イプシロン
var eps = math.Nextafter(1, 2) - 1

// Predict は入力データに対する予測を行う。結果は r×1 の行列。
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if r == 0 {
		return nil, errors.NewModelError("LinearRegression.Predict", "empty data", errors.ErrEmptyData)
	}
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	// y = X * coef + intercept
	predictions := mat.NewDense(r, 1, nil)
	parallel.Rows(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			pred := lr.Intercept
			for j := 0; j < c; j++ {
				pred += X.At(i, j) * lr.Coef[j]
			}
			predictions.Set(i, 0, pred)
		}
	})
	return predictions, nil
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("LinearRegression", "Score")
	}

	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()
	if pr, _ := yPred.Dims(); pr != r {
		return 0, errors.NewDimensionError("LinearRegression.Score", pr, r, 0)
	}
	return metrics.R2Score(column(y), column(yPred))
}

// GetWeights は学習された重み（係数）を返す
func (lr *LinearRegression) GetWeights() []float64 {
	if lr.Coef == nil {
		return nil
	}
	weights := make([]float64, len(lr.Coef))
	copy(weights, lr.Coef)
	return weights
}

// GetIntercept は学習された切片を返す
func (lr *LinearRegression) GetIntercept() float64 {
	if !lr.IsFitted() {
		return 0
	}
	return lr.Intercept
}

// GetParams はモデルのパラメータを取得する
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"fit_intercept": lr.FitIntercept,
		"rcond":         lr.Rcond,
	}
}

// String はモデルの文字列表現を返す
func (lr *LinearRegression) String() string {
	if !lr.IsFitted() {
		return fmt.Sprintf("LinearRegression(fit_intercept=%t)", lr.FitIntercept)
	}
	return fmt.Sprintf("LinearRegression(fit_intercept=%t, n_features=%d, rank=%d)",
		lr.FitIntercept, lr.NFeatures, lr.Rank)
}

// column は r×1 の行列をベクトルにコピーする
func column(m mat.Matrix) *mat.VecDense {
	r, _ := m.Dims()
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}
