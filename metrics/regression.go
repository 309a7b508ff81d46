// Package metrics は回帰モデルの評価指標を提供する
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// Regression は回帰の評価指標をまとめたもの
type Regression struct {
	MAE               float64
	MSE               float64
	RMSE              float64
	ExplainedVariance float64
	R2                float64
}

// Evaluate は全ての回帰指標を計算する
func Evaluate(yTrue, yPred *mat.VecDense) (Regression, error) {
	var (
		r   Regression
		err error
	)
	if r.MAE, err = MAE(yTrue, yPred); err != nil {
		return Regression{}, err
	}
	if r.MSE, err = MSE(yTrue, yPred); err != nil {
		return Regression{}, err
	}
	r.RMSE = math.Sqrt(r.MSE)
	if r.ExplainedVariance, err = ExplainedVarianceScore(yTrue, yPred); err != nil {
		return Regression{}, err
	}
	if r.R2, err = R2Score(yTrue, yPred); err != nil {
		return Regression{}, err
	}
	return r, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkVectors("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkVectors("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score は決定係数（R²）を計算する
//
// yTrueの分散が0の場合、予測が完全に一致すれば1、そうでなければ0を返す。
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkVectors("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	yMean := stat.Mean(toSlice(yTrue), nil)

	// 全変動（TSS）と残差変動（RSS）
	var tss, rss float64
	for i := 0; i < n; i++ {
		t, p := yTrue.AtVec(i), yPred.AtVec(i)
		tss += (t - yMean) * (t - yMean)
		rss += (t - p) * (t - p)
	}
	return finiteRatio(rss, tss), nil
}

// ExplainedVarianceScore は説明分散スコアを計算する
//
// 1 - Var(yTrue - yPred) / Var(yTrue)。分散は母分散を使う。
func ExplainedVarianceScore(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkVectors("ExplainedVarianceScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	truth := toSlice(yTrue)
	residual := make([]float64, n)
	for i := range residual {
		residual[i] = truth[i] - yPred.AtVec(i)
	}
	return finiteRatio(stat.PopVariance(residual, nil), stat.PopVariance(truth, nil)), nil
}

// finiteRatio は 1 - num/den を返す。den が0のときは num が0なら1、それ以外は0。
func finiteRatio(num, den float64) float64 {
	if den == 0 {
		if num == 0 {
			return 1
		}
		return 0
	}
	return 1 - num/den
}

func checkVectors(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError(op, "nil vector")
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

func toSlice(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
