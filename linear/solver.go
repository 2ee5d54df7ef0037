package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/olsgo/pkg/errors"
)

// LeastSquaresResult は最小二乗ソルバーの出力
type LeastSquaresResult struct {
	// Weights は切片を先頭に置いた重みベクトル
	Weights []float64

	// RSS は学習データに対する残差平方和
	RSS float64

	// Cond は分解された行列の条件数
	Cond float64
}

// LeastSquaresSolver は計画行列に対する最小二乗問題を解く
//
// Solveの実装は、切片列を含む計画行列 x と目的変数ベクトル y を受け取り、
// 残差平方和 ||y - Xw||² を最小化する重みベクトル w を計算する。
// 行列がランク落ちしている場合はSingularMatrixError、条件数が許容値を
// 超える場合はNumericalInstabilityErrorを返す。
type LeastSquaresSolver interface {
	Solve(x mat.Matrix, y *mat.VecDense) (*LeastSquaresResult, error)

	// Name はソルバーの識別名を返す（例: "qr", "cholesky"）
	Name() string
}

var (
	_ LeastSquaresSolver = QRSolver{}
	_ LeastSquaresSolver = CholeskySolver{}
)

// checkSolverInputs はソルバー共通の入力検証を行う
func checkSolverInputs(op string, x mat.Matrix, y *mat.VecDense) error {
	rows, cols := x.Dims()

	if rows == 0 || cols == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}

	// サンプル数が係数の数を下回る場合、最小二乗問題は一意に解けない
	if rows < cols {
		return errors.NewSingularMatrixError(op, rows, cols, 0)
	}

	if y.Len() != rows {
		return errors.NewDimensionError(op, rows, y.Len(), 0)
	}

	// NaNやInfの混入は分解前に検出する
	if err := errors.CheckMatrix(op, x, rows, cols, 0); err != nil {
		return err
	}
	if err := errors.CheckMatrix(op, y, rows, 1, 0); err != nil {
		return err
	}

	return nil
}

// machineEpsilon は float64 の相対精度 (2^-52)
const machineEpsilon = 0x1p-52

// qrRankDeficient はRの対角成分からランク落ちを検出する
//
// 完全に共線な列でも丸め誤差のためRの対角は厳密な零にはならず、
// eps程度の微小値として現れる。条件数の無限大判定だけでは共線性を
// 拾いきれないため、最大対角成分との相対比が√epsを下回る対角成分を
// ランク落ちとして扱う。この比が√epsを下回る計画行列では正規方程式
// XᵀXの条件数が倍精度の分解能1/epsを超えており、回帰問題としては
// ランク落ちと区別がつかない。
func qrRankDeficient(qr *mat.QR, cols int) bool {
	r := new(mat.Dense)
	qr.RTo(r)

	var rmax float64
	for i := 0; i < cols; i++ {
		if v := math.Abs(r.At(i, i)); v > rmax {
			rmax = v
		}
	}
	if rmax == 0 {
		return true
	}

	tol := math.Sqrt(machineEpsilon) * rmax
	for i := 0; i < cols; i++ {
		if math.Abs(r.At(i, i)) <= tol {
			return true
		}
	}
	return false
}

// residualSumOfSquares は RSS = ||y - Xw||² を計算する
func residualSumOfSquares(op string, x mat.Matrix, y, weights *mat.VecDense) (float64, error) {
	rows, _ := x.Dims()

	fitted := mat.NewVecDense(rows, nil)
	fitted.MulVec(x, weights)

	residual := mat.NewVecDense(rows, nil)
	residual.SubVec(y, fitted)

	rss := mat.Dot(residual, residual)
	if err := errors.CheckScalar(op, rss, 0); err != nil {
		return 0, err
	}
	return rss, nil
}

// QRSolver はQR分解による最小二乗ソルバー
//
// 計画行列を直接QR分解するため、正規方程式を経由する方法よりも
// 数値的に安定しており、デフォルトのソルバーとして使用される。
type QRSolver struct{}

// Name はソルバーの識別名を返す
func (QRSolver) Name() string { return "qr" }

// Solve はQR分解で最小二乗問題を解く
func (QRSolver) Solve(x mat.Matrix, y *mat.VecDense) (result *LeastSquaresResult, err error) {
	const op = "qr_solve"
	defer errors.Recover(&err, op)

	if verr := checkSolverInputs(op, x, y); verr != nil {
		return nil, verr
	}
	rows, cols := x.Dims()

	var qr mat.QR
	qr.Factorize(x)

	cond := qr.Cond()
	if math.IsInf(cond, 1) || qrRankDeficient(&qr, cols) {
		return nil, errors.NewSingularMatrixError(op, rows, cols, cond)
	}
	if cond > mat.ConditionTolerance {
		return nil, errors.NewNumericalInstabilityError(op, []float64{cond}, 0)
	}

	weights := mat.NewVecDense(cols, nil)
	if serr := qr.SolveVecTo(weights, false, y); serr != nil {
		var condErr mat.Condition
		if errors.As(serr, &condErr) {
			if math.IsInf(float64(condErr), 1) {
				return nil, errors.NewSingularMatrixError(op, rows, cols, float64(condErr))
			}
			return nil, errors.NewNumericalInstabilityError(op, []float64{float64(condErr)}, 0)
		}
		return nil, errors.Wrap(serr, op)
	}

	w := make([]float64, cols)
	for i := range w {
		w[i] = weights.AtVec(i)
	}
	if werr := errors.CheckNumericalStability(op, w, 0); werr != nil {
		return nil, werr
	}

	rss, rerr := residualSumOfSquares("rss_calculation", x, y, weights)
	if rerr != nil {
		return nil, rerr
	}

	return &LeastSquaresResult{Weights: w, RSS: rss, Cond: cond}, nil
}

// CholeskySolver はコレスキー分解による最小二乗ソルバー
//
// 正規方程式 XᵀXw = Xᵀy を解く。グラム行列XᵀXの条件数はもとの
// 計画行列の条件数のおよそ二乗になるため、悪条件の問題では
// QRSolverより早く数値不安定性を報告する。
type CholeskySolver struct{}

// Name はソルバーの識別名を返す
func (CholeskySolver) Name() string { return "cholesky" }

// Solve は正規方程式をコレスキー分解で解く
func (CholeskySolver) Solve(x mat.Matrix, y *mat.VecDense) (result *LeastSquaresResult, err error) {
	const op = "cholesky_solve"
	defer errors.Recover(&err, op)

	if verr := checkSolverInputs(op, x, y); verr != nil {
		return nil, verr
	}
	rows, cols := x.Dims()

	// グラム行列 XᵀX を構成する
	var gram mat.SymDense
	gram.SymOuterK(1, x.T())

	var chol mat.Cholesky
	if ok := chol.Factorize(&gram); !ok {
		// 正定値でないグラム行列はランク落ちした計画行列を意味する
		return nil, errors.NewSingularMatrixError(op, rows, cols, 0)
	}

	cond := chol.Cond()
	if math.IsInf(cond, 1) {
		return nil, errors.NewSingularMatrixError(op, rows, cols, cond)
	}
	if cond > mat.ConditionTolerance {
		return nil, errors.NewNumericalInstabilityError(op, []float64{cond}, 0)
	}

	xty := mat.NewVecDense(cols, nil)
	xty.MulVec(x.T(), y)

	weights := mat.NewVecDense(cols, nil)
	if serr := chol.SolveVecTo(weights, xty); serr != nil {
		var condErr mat.Condition
		if errors.As(serr, &condErr) {
			if math.IsInf(float64(condErr), 1) {
				return nil, errors.NewSingularMatrixError(op, rows, cols, float64(condErr))
			}
			return nil, errors.NewNumericalInstabilityError(op, []float64{float64(condErr)}, 0)
		}
		return nil, errors.Wrap(serr, op)
	}

	w := make([]float64, cols)
	for i := range w {
		w[i] = weights.AtVec(i)
	}
	if werr := errors.CheckNumericalStability(op, w, 0); werr != nil {
		return nil, werr
	}

	rss, rerr := residualSumOfSquares("rss_calculation", x, y, weights)
	if rerr != nil {
		return nil, rerr
	}

	return &LeastSquaresResult{Weights: w, RSS: rss, Cond: cond}, nil
}

// solverByName は永続化されたソルバー名から実装を復元する
func solverByName(name string) LeastSquaresSolver {
	if name == (CholeskySolver{}).Name() {
		return CholeskySolver{}
	}
	return QRSolver{}
}
