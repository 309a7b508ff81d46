package model

import "gonum.org/v1/gonum/mat"

// Fitter は (X, y) から学習するモデル
type Fitter interface {
	Fit(X, y mat.Matrix) error
}

// Predictor は X の各行に対して1つの予測値を返す（n×1行列）
type Predictor interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer は予測値と y の決定係数（R²）を返す
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor はパイプラインの最終ステップに置ける回帰モデル
type Regressor interface {
	Fitter
	Predictor
	Scorer
	IsFitted() bool
}
