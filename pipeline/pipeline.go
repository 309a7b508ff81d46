// Package pipeline は特徴量変換と回帰モデルを1つの推定器としてまとめる
package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/housereg/core/model"
	"github.com/YuminosukeSato/housereg/dataset"
	"github.com/YuminosukeSato/housereg/linear"
	"github.com/YuminosukeSato/housereg/metrics"
	"github.com/YuminosukeSato/housereg/pkg/errors"
	"github.com/YuminosukeSato/housereg/preprocessing"
)

// ステップ名
const (
	StepEncoding = "encoding"
	StepScaling  = "data_scaling"
	StepModel    = "estimator"
)

// Pipeline は encoding → data_scaling → estimator の順に処理する
//
// 各ステップは具体型で保持し、そのままgobで保存できる。
type Pipeline struct {
	model.BaseEstimator

	Encoder   *preprocessing.FeatureEncoder
	Scaler    *preprocessing.StandardScaler
	Estimator *linear.LinearRegression
}

// New は標準化と線形回帰からなるパイプラインを作成する
func New(opts ...linear.Option) *Pipeline {
	return &Pipeline{
		Encoder:   preprocessing.NewFeatureEncoder(),
		Scaler:    preprocessing.NewStandardScalerDefault(),
		Estimator: linear.NewLinearRegression(opts...),
	}
}

// Fit は特徴量の表Xと目的変数の表yで全ステップを学習する
func (p *Pipeline) Fit(X, y dataset.Table) (err error) {
	defer errors.Recover(&err, "Pipeline.Fit")

	if X.Nrow() == 0 {
		return errors.NewModelError("Pipeline.Fit", "empty data", errors.ErrEmptyData)
	}
	if X.Nrow() != y.Nrow() {
		return errors.NewDimensionError("Pipeline.Fit", X.Nrow(), y.Nrow(), 0)
	}
	target, err := targetVector("Pipeline.Fit", y)
	if err != nil {
		return err
	}

	encoded, err := p.Encoder.FitTransform(X.Names(), X.Columns())
	if err != nil {
		return errors.Wrapf(err, "step %s", StepEncoding)
	}
	scaled, err := p.Scaler.FitTransform(encoded)
	if err != nil {
		return errors.Wrapf(err, "step %s", StepScaling)
	}
	if err := p.Estimator.Fit(scaled, target); err != nil {
		return errors.Wrapf(err, "step %s", StepModel)
	}

	p.SetFitted()
	return nil
}

// Predict はXに対する予測値を返す
func (p *Pipeline) Predict(X dataset.Table) (*mat.VecDense, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Predict")
	}
	if X.Nrow() == 0 {
		return nil, errors.NewModelError("Pipeline.Predict", "empty data", errors.ErrEmptyData)
	}

	encoded, err := p.Encoder.Transform(X.Names(), X.Columns())
	if err != nil {
		return nil, errors.Wrapf(err, "step %s", StepEncoding)
	}
	scaled, err := p.Scaler.Transform(encoded)
	if err != nil {
		return nil, errors.Wrapf(err, "step %s", StepScaling)
	}
	pred, err := p.Estimator.Predict(scaled)
	if err != nil {
		return nil, errors.Wrapf(err, "step %s", StepModel)
	}

	r, _ := pred.Dims()
	out := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		out.SetVec(i, pred.At(i, 0))
	}
	return out, nil
}

// Score はXとyに対する決定係数（R²）を返す
func (p *Pipeline) Score(X, y dataset.Table) (float64, error) {
	if X.Nrow() != y.Nrow() {
		return 0, errors.NewDimensionError("Pipeline.Score", X.Nrow(), y.Nrow(), 0)
	}
	target, err := targetVector("Pipeline.Score", y)
	if err != nil {
		return 0, err
	}
	pred, err := p.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(target, pred)
}

// FeatureNames はエンコード後の特徴量名を返す
func (p *Pipeline) FeatureNames() []string {
	return p.Encoder.OutputNames()
}

// String はパイプラインの文字列表現を返す
func (p *Pipeline) String() string {
	return fmt.Sprintf("Pipeline(steps=[(%s, %s), (%s, %s), (%s, %s)])",
		StepEncoding, p.Encoder, StepScaling, p.Scaler, StepModel, p.Estimator)
}

// TargetVector は1列の目的変数の表をベクトルに変換する
func TargetVector(y dataset.Table) (*mat.VecDense, error) {
	return targetVector("TargetVector", y)
}

func targetVector(op string, y dataset.Table) (*mat.VecDense, error) {
	if y.Ncol() != 1 {
		return nil, errors.NewDimensionError(op, 1, y.Ncol(), 1)
	}
	name := y.Names()[0]
	cells, err := y.Column(name)
	if err != nil {
		return nil, err
	}
	return preprocessing.ParseTarget(name, cells)
}
