package linear

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/olsgo/core/model"
	"github.com/YuminosukeSato/olsgo/core/parallel"
	"github.com/YuminosukeSato/olsgo/metrics"
	"github.com/YuminosukeSato/olsgo/pkg/errors"
	"github.com/YuminosukeSato/olsgo/pkg/log"
)

// 並列処理の閾値（この値以下の行数では逐次処理を使用）
const parallelThreshold = 1000

var (
	_ model.Regressor       = (*Regression)(nil)
	_ model.PointPredictor  = (*Regression)(nil)
	_ model.BatchPredictor  = (*Regression)(nil)
	_ model.Scorer          = (*Regression)(nil)
	_ model.LinearModel     = (*Regression)(nil)
	_ model.ParameterGetter = (*Regression)(nil)
	_ model.Persistable     = (*Regression)(nil)
)

// Regression は最小二乗法による重回帰モデル
//
// インスタンスはNewで構築と同時に学習され、以降は不変となる。
// 学習が数値的な理由で失敗した場合（特異行列など）、Newはエラーではなく
// 未学習のインスタンスを返し、失敗の理由はFitErrorから取得できる。
type Regression struct {
	model.BaseEstimator // BaseEstimatorを埋め込み

	weights   []float64 // 切片を先頭に置いた重みベクトル（学習成功時のみ設定）
	rss       float64   // 学習データに対する残差平方和
	cond      float64   // 計画行列の条件数
	nFeatures int       // 特徴量の数
	nSamples  int       // 学習に使用したサンプル数

	solver LeastSquaresSolver
	logger log.Logger
	fitErr error // 学習失敗の理由（未学習インスタンスのみ）
}

// New は訓練データから重回帰モデルを構築し、学習させる
//
// xt は各行が1サンプルの特徴量行列、y は対応する目的変数。
// データの構成が不正な場合（空データ、行長の不一致、xtとyの長さの不一致）は
// ハードエラーを返す。ソルバーの失敗（特異行列、数値不安定性）はエラーとして
// 返さず、未学習のインスタンスと診断ログ1件として報告される。
//
// 使用例:
//
//	reg, err := linear.New([][]float64{{1}, {2}, {3}}, []float64{2, 4, 6})
//	if err != nil {
//	    // データ構成の誤り
//	}
//	if !reg.IsFitted() {
//	    // 学習の失敗。理由は reg.FitError() が保持する
//	}
func New(xt [][]float64, y []float64, opts ...Option) (*Regression, error) {
	r := &Regression{
		solver: QRSolver{},
		logger: log.GetLoggerWithName("linear"),
	}
	for _, opt := range opts {
		opt(r)
	}

	// 入力検証: ここでのエラーはモデル構成自体の誤りを意味し、
	// インスタンスは構築されない
	if len(xt) == 0 || len(y) == 0 {
		return nil, errors.NewModelError("linear.New", "empty data", errors.ErrEmptyData)
	}

	p := len(xt[0])
	if p == 0 {
		return nil, errors.NewModelError("linear.New", "empty data", errors.ErrEmptyData)
	}
	for i, row := range xt {
		if len(row) != p {
			return nil, errors.NewValueError("linear.New",
				fmt.Sprintf("xt: row %d has %d features, want %d (rows must have equal length)", i, len(row), p))
		}
	}
	if len(y) != len(xt) {
		return nil, errors.NewDimensionError("linear.New", len(xt), len(y), 0)
	}

	n := len(xt)
	r.nSamples = n
	r.nFeatures = p

	// 切片項のために先頭に 1 の列を置いた計画行列 [1 | X] を構築する
	design := mat.NewDense(n, p+1, nil)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			design.Set(i, 0, 1.0)
			for j := 0; j < p; j++ {
				design.Set(i, j+1, xt[i][j])
			}
		}
	})

	yVec := mat.NewVecDense(n, append([]float64(nil), y...))

	result, err := r.solver.Solve(design, yVec)
	if err != nil {
		// ソルバーの失敗はハードエラーにせず、未学習のモデルとして返す
		r.fitErr = err
		r.logger.Error("model fitting failed",
			log.ErrAttrKey, err,
			log.ModelNameKey, "Regression",
			log.OperationKey, log.OperationFit,
			log.SolverKey, r.solver.Name(),
			log.SamplesKey, n,
			log.FeaturesKey, p,
		)
		return r, nil
	}

	r.weights = result.Weights
	r.rss = result.RSS
	r.cond = result.Cond
	r.SetFitted()

	return r, nil
}

// Predict は1つの特徴量ベクトルに対する予測値を返す
//
// モデルが未学習の場合はNotFittedError、入力がnilまたは特徴量の数が
// 一致しない場合はそれぞれValueError、DimensionErrorを返す。
func (r *Regression) Predict(x []float64) (float64, error) {
	if !r.IsFitted() {
		return 0, errors.NewNotFittedError("Regression", "Predict")
	}

	if x == nil {
		return 0, errors.NewValueError("Regression.Predict", "x must not be nil")
	}
	if len(x) != r.nFeatures {
		return 0, errors.NewDimensionError("Regression.Predict", r.nFeatures, len(x), 1)
	}

	pred := r.weights[0]
	for j, v := range x {
		pred += v * r.weights[j+1]
	}
	return pred, nil
}

// PredictBatch は各行を1サンプルとして一括予測を行う
func (r *Regression) PredictBatch(X mat.Matrix) (*mat.VecDense, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("Regression", "PredictBatch")
	}

	if X == nil {
		return nil, errors.NewValueError("Regression.PredictBatch", "X must not be nil")
	}
	rows, cols := X.Dims()
	if rows == 0 {
		return nil, errors.NewModelError("Regression.PredictBatch", "empty data", errors.ErrEmptyData)
	}
	if cols != r.nFeatures {
		return nil, errors.NewDimensionError("Regression.PredictBatch", r.nFeatures, cols, 1)
	}

	preds := mat.NewVecDense(rows, nil)
	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			pred := r.weights[0]
			for j := 0; j < cols; j++ {
				pred += X.At(i, j) * r.weights[j+1]
			}
			preds.SetVec(i, pred)
		}
	})

	return preds, nil
}

// Score はモデルの決定係数（R²）を計算する
func (r *Regression) Score(X, y mat.Matrix) (float64, error) {
	if !r.IsFitted() {
		return 0, errors.NewNotFittedError("Regression", "Score")
	}

	rows, cols := y.Dims()
	if cols != 1 {
		return 0, errors.NewValueError("Regression.Score", "y must be a column vector")
	}

	preds, err := r.PredictBatch(X)
	if err != nil {
		return 0, err
	}
	if rows != preds.Len() {
		return 0, errors.NewDimensionError("Regression.Score", preds.Len(), rows, 0)
	}

	yVec := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	return metrics.R2Score(yVec, preds)
}

// Weights は切片を先頭に置いた重みベクトルのコピーを返す
// モデルが未学習の場合はnilとfalseを返す
func (r *Regression) Weights() ([]float64, bool) {
	if !r.IsFitted() {
		return nil, false
	}
	w := make([]float64, len(r.weights))
	copy(w, r.weights)
	return w, true
}

// Coef は切片を除いた回帰係数のコピーを返す
func (r *Regression) Coef() ([]float64, bool) {
	if !r.IsFitted() {
		return nil, false
	}
	c := make([]float64, len(r.weights)-1)
	copy(c, r.weights[1:])
	return c, true
}

// Intercept は学習された切片を返す
func (r *Regression) Intercept() (float64, bool) {
	if !r.IsFitted() {
		return 0, false
	}
	return r.weights[0], true
}

// ResidualSumOfSquares は学習データに対する残差平方和を返す
func (r *Regression) ResidualSumOfSquares() (float64, bool) {
	if !r.IsFitted() {
		return 0, false
	}
	return r.rss, true
}

// ConditionNumber は学習時に測定された計画行列の条件数を返す
func (r *Regression) ConditionNumber() (float64, bool) {
	if !r.IsFitted() {
		return 0, false
	}
	return r.cond, true
}

// NFeatures は特徴量の数を返す
func (r *Regression) NFeatures() int { return r.nFeatures }

// NSamples は学習に使用したサンプル数を返す
func (r *Regression) NSamples() int { return r.nSamples }

// FitError は学習が失敗した場合の理由を返す
// 学習済みのモデルではnilを返す
func (r *Regression) FitError() error { return r.fitErr }

// GetParams はモデルのハイパーパラメータを返す
func (r *Regression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"solver":     r.solverName(),
		"n_features": r.nFeatures,
	}
}

// solverName はゼロ値のインスタンスでも安全にソルバー名を返す
func (r *Regression) solverName() string {
	if r.solver == nil {
		return QRSolver{}.Name()
	}
	return r.solver.Name()
}

// ExportWeights は学習済みモデルの重みをModelWeights形式で返す
func (r *Regression) ExportWeights() (*model.ModelWeights, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("Regression", "ExportWeights")
	}

	coef := make([]float64, r.nFeatures)
	copy(coef, r.weights[1:])

	return &model.ModelWeights{
		ModelType:    "Regression",
		Version:      "1.0",
		Coefficients: coef,
		Intercept:    r.weights[0],
		Hyperparameters: map[string]interface{}{
			"solver": r.solverName(),
		},
		Metadata: map[string]interface{}{
			"rss":       r.rss,
			"n_samples": r.nSamples,
		},
		IsFitted: true,
	}, nil
}

// regressionState はgobシリアライゼーション用の内部表現
type regressionState struct {
	Weights   []float64
	RSS       float64
	Cond      float64
	NFeatures int
	NSamples  int
	Fitted    bool
	Solver    string
}

// GobEncode はモデルをgob形式にエンコードする
func (r *Regression) GobEncode() ([]byte, error) {
	state := regressionState{
		Weights:   r.weights,
		RSS:       r.rss,
		Cond:      r.cond,
		NFeatures: r.nFeatures,
		NSamples:  r.nSamples,
		Fitted:    r.IsFitted(),
		Solver:    r.solverName(),
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, fmt.Errorf("failed to encode model state: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode はgob形式からモデルを復元する
func (r *Regression) GobDecode(data []byte) error {
	var state regressionState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return fmt.Errorf("failed to decode model state: %w", err)
	}

	r.weights = state.Weights
	r.rss = state.RSS
	r.cond = state.Cond
	r.nFeatures = state.NFeatures
	r.nSamples = state.NSamples
	r.solver = solverByName(state.Solver)
	r.logger = log.GetLoggerWithName("linear")
	r.fitErr = nil

	if state.Fitted {
		r.SetFitted()
	} else {
		r.Reset()
	}
	return nil
}

// Save はモデルをファイルに保存する
func (r *Regression) Save(path string) error {
	if !r.IsFitted() {
		return errors.NewNotFittedError("Regression", "Save")
	}
	return model.SaveModel(r, path)
}

// Load はファイルからモデルを読み込む
func (r *Regression) Load(path string) error {
	return model.LoadModel(r, path)
}
