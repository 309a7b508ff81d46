package model

import "gonum.org/v1/gonum/mat"

// Transformer は特徴量行列を同じ行数の行列へ写す前処理ステップ
type Transformer interface {
	// Fit は学習データから変換パラメータを推定する
	Fit(X mat.Matrix) error

	// Transform は推定済みパラメータで変換する。未学習ならNotFittedError
	Transform(X mat.Matrix) (mat.Matrix, error)

	FitTransform(X mat.Matrix) (mat.Matrix, error)

	IsFitted() bool
}
