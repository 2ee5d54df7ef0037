package linear

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/olsgo/pkg/errors"
)

func TestQRSolver_Solve(t *testing.T) {
	// y = 1 + 2x を完全に満たす系
	x := mat.NewDense(3, 2, []float64{
		1, 1,
		1, 2,
		1, 3,
	})
	y := mat.NewVecDense(3, []float64{3, 5, 7})

	result, err := QRSolver{}.Solve(x, y)
	if err != nil {
		t.Fatalf("Solve() unexpected error: %v", err)
	}

	want := []float64{1, 2}
	if len(result.Weights) != len(want) {
		t.Fatalf("len(Weights) = %d, want %d", len(result.Weights), len(want))
	}
	for i, w := range want {
		if math.Abs(result.Weights[i]-w) > 1e-10 {
			t.Errorf("Weights[%d] = %v, want %v", i, result.Weights[i], w)
		}
	}
	if result.RSS > 1e-18 {
		t.Errorf("RSS = %v, want ~0", result.RSS)
	}
	if result.Cond <= 0 || math.IsInf(result.Cond, 1) {
		t.Errorf("Cond = %v, want finite positive", result.Cond)
	}
}

func TestQRSolver_Residual(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		1, 1,
		1, 2,
		1, 3,
		1, 4,
	})
	y := mat.NewVecDense(4, []float64{2.1, 3.9, 6.1, 7.9})

	result, err := QRSolver{}.Solve(x, y)
	if err != nil {
		t.Fatalf("Solve() unexpected error: %v", err)
	}

	// この系の最小二乗解は w = [0.1, 1.96]、RSS = 0.032
	if math.Abs(result.Weights[0]-0.1) > 1e-10 {
		t.Errorf("Weights[0] = %v, want 0.1", result.Weights[0])
	}
	if math.Abs(result.Weights[1]-1.96) > 1e-10 {
		t.Errorf("Weights[1] = %v, want 1.96", result.Weights[1])
	}
	if math.Abs(result.RSS-0.032) > 1e-9 {
		t.Errorf("RSS = %v, want 0.032", result.RSS)
	}
}

func TestQRSolver_SingularDesign(t *testing.T) {
	// 3列目は2列目の2倍
	x := mat.NewDense(4, 3, []float64{
		1, 1, 2,
		1, 2, 4,
		1, 3, 6,
		1, 4, 8,
	})
	y := mat.NewVecDense(4, []float64{1, 2, 3, 4})

	_, err := QRSolver{}.Solve(x, y)
	if err == nil {
		t.Fatal("Expected error for singular design matrix")
	}
	if !errors.Is(err, errors.ErrSingularMatrix) {
		t.Errorf("Expected ErrSingularMatrix, got %v", err)
	}
	var singErr *errors.SingularMatrixError
	if !errors.As(err, &singErr) {
		t.Fatalf("Expected *SingularMatrixError, got %v", err)
	}
	if singErr.Rows != 4 || singErr.Cols != 3 {
		t.Errorf("dims = %dx%d, want 4x3", singErr.Rows, singErr.Cols)
	}
}

func TestQRSolver_Underdetermined(t *testing.T) {
	x := mat.NewDense(2, 3, []float64{
		1, 1, 2,
		1, 3, 4,
	})
	y := mat.NewVecDense(2, []float64{1, 2})

	_, err := QRSolver{}.Solve(x, y)
	var singErr *errors.SingularMatrixError
	if !errors.As(err, &singErr) {
		t.Fatalf("Expected *SingularMatrixError, got %v", err)
	}
	if singErr.Rows != 2 || singErr.Cols != 3 {
		t.Errorf("dims = %dx%d, want 2x3", singErr.Rows, singErr.Cols)
	}
}

func TestQRSolver_EmptyInput(t *testing.T) {
	_, err := QRSolver{}.Solve(new(mat.Dense), new(mat.VecDense))
	if !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("Expected ErrEmptyData, got %v", err)
	}
}

func TestQRSolver_TargetLengthMismatch(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{
		1, 1,
		1, 2,
		1, 3,
	})
	y := mat.NewVecDense(2, []float64{1, 2})

	_, err := QRSolver{}.Solve(x, y)
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("Expected *DimensionError, got %v", err)
	}
	if dimErr.Expected != 3 || dimErr.Got != 2 {
		t.Errorf("Expected/Got = %d/%d, want 3/2", dimErr.Expected, dimErr.Got)
	}
}

func TestQRSolver_NonFiniteInput(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		y    []float64
	}{
		{
			name: "NaN in design matrix",
			x:    []float64{1, 1, 1, math.NaN(), 1, 3},
			y:    []float64{1, 2, 3},
		},
		{
			name: "Inf in design matrix",
			x:    []float64{1, 1, 1, math.Inf(1), 1, 3},
			y:    []float64{1, 2, 3},
		},
		{
			name: "NaN in target",
			x:    []float64{1, 1, 1, 2, 1, 3},
			y:    []float64{1, math.NaN(), 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := mat.NewDense(3, 2, tt.x)
			y := mat.NewVecDense(3, tt.y)

			_, err := QRSolver{}.Solve(x, y)
			var instErr *errors.NumericalInstabilityError
			if !errors.As(err, &instErr) {
				t.Errorf("Expected *NumericalInstabilityError, got %v", err)
			}
		})
	}
}

func TestCholeskySolver_Solve(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{
		1, 1,
		1, 2,
		1, 3,
	})
	y := mat.NewVecDense(3, []float64{3, 5, 7})

	result, err := CholeskySolver{}.Solve(x, y)
	if err != nil {
		t.Fatalf("Solve() unexpected error: %v", err)
	}

	want := []float64{1, 2}
	for i, w := range want {
		if math.Abs(result.Weights[i]-w) > 1e-8 {
			t.Errorf("Weights[%d] = %v, want %v", i, result.Weights[i], w)
		}
	}
}

func TestCholeskySolver_SingularGram(t *testing.T) {
	// 2列目と3列目が同一のため XᵀX は正定値にならない
	x := mat.NewDense(4, 3, []float64{
		1, 1, 1,
		1, 1, 1,
		1, 3, 3,
		1, 3, 3,
	})
	y := mat.NewVecDense(4, []float64{1, 2, 3, 4})

	_, err := CholeskySolver{}.Solve(x, y)
	if err == nil {
		t.Fatal("Expected error for singular Gram matrix")
	}
	if !errors.Is(err, errors.ErrSingularMatrix) {
		t.Errorf("Expected ErrSingularMatrix, got %v", err)
	}
	var singErr *errors.SingularMatrixError
	if !errors.As(err, &singErr) {
		t.Fatalf("Expected *SingularMatrixError, got %v", err)
	}
	if singErr.Rows != 4 || singErr.Cols != 3 {
		t.Errorf("dims = %dx%d, want 4x3", singErr.Rows, singErr.Cols)
	}
}

func TestSolverNames(t *testing.T) {
	if got := (QRSolver{}).Name(); got != "qr" {
		t.Errorf("QRSolver.Name() = %q, want qr", got)
	}
	if got := (CholeskySolver{}).Name(); got != "cholesky" {
		t.Errorf("CholeskySolver.Name() = %q, want cholesky", got)
	}
}

func TestSolverByName(t *testing.T) {
	if _, ok := solverByName("cholesky").(CholeskySolver); !ok {
		t.Error(`solverByName("cholesky") did not return CholeskySolver`)
	}
	if _, ok := solverByName("qr").(QRSolver); !ok {
		t.Error(`solverByName("qr") did not return QRSolver`)
	}
	// 未知の名前はデフォルトのQRにフォールバックする
	if _, ok := solverByName("unknown").(QRSolver); !ok {
		t.Error(`solverByName("unknown") did not fall back to QRSolver`)
	}
}
