package model

import "gonum.org/v1/gonum/mat"

// PointPredictor は単一サンプルの予測を行うモデルのインターフェース
type PointPredictor interface {
	// Predict は1つの特徴量ベクトルに対する予測値を返す
	Predict(x []float64) (float64, error)
}

// BatchPredictor は複数サンプルの一括予測を行うモデルのインターフェース
type BatchPredictor interface {
	// PredictBatch は各行を1サンプルとして一括予測を行う
	PredictBatch(X mat.Matrix) (*mat.VecDense, error)
}

// Scorer は予測の適合度を評価できるモデルのインターフェース
type Scorer interface {
	// Score はモデルの決定係数（R²）を計算する
	Score(X, y mat.Matrix) (float64, error)
}

// LinearModel は学習済み線形モデルが公開する読み取り専用ビュー
type LinearModel interface {
	// Weights は切片を含む重みベクトルのコピーを返す
	// モデルが未学習の場合、2番目の戻り値はfalse
	Weights() ([]float64, bool)
	// Intercept は学習された切片を返す
	Intercept() (float64, bool)
	// ResidualSumOfSquares は学習データに対する残差平方和を返す
	ResidualSumOfSquares() (float64, bool)
}
