package linear

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// createBenchmarkData はベンチマーク用の学習データを生成する
func createBenchmarkData(rows, cols int) ([][]float64, []float64) {
	// シードを固定して再現性を確保
	rng := rand.New(rand.NewPCG(42, 42))

	xt := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			// -1.0 から 1.0 の範囲のランダムな値
			row[j] = rng.Float64()*2.0 - 1.0
		}
		xt[i] = row
	}

	// 真の重みベクトルを生成
	trueWeights := make([]float64, cols)
	for j := 0; j < cols; j++ {
		trueWeights[j] = float64(j+1) * 0.5
	}

	// y = 1 + X*weights + 小さなノイズ
	y := make([]float64, rows)
	for i := 0; i < rows; i++ {
		sum := 1.0 // 切片
		for j := 0; j < cols; j++ {
			sum += xt[i][j] * trueWeights[j]
		}
		sum += (rng.Float64() - 0.5) * 0.1
		y[i] = sum
	}

	return xt, y
}

// BenchmarkRegressionFit は学習全体のベンチマークを実行する
func BenchmarkRegressionFit(b *testing.B) {
	// 様々なサイズでベンチマークを実行
	sizes := []struct {
		name string
		rows int
		cols int
	}{
		{"Small_100x10", 100, 10},
		{"Small_500x10", 500, 10},
		{"Medium_1000x10", 1000, 10}, // 並列処理の閾値
		{"Medium_2000x10", 2000, 10},
		{"Large_5000x20", 5000, 20},
		{"Large_10000x20", 10000, 20},
		{"XLarge_20000x50", 20000, 50},
		{"XLarge_50000x50", 50000, 50},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			xt, y := createBenchmarkData(size.rows, size.cols)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				reg, err := New(xt, y)
				if err != nil {
					b.Fatal(err)
				}
				if !reg.IsFitted() {
					b.Fatal(reg.FitError())
				}
			}
		})
	}
}

// BenchmarkRegressionFitCholesky は正規方程式ソルバーとの比較用ベンチマーク
func BenchmarkRegressionFitCholesky(b *testing.B) {
	sizes := []struct {
		name string
		rows int
		cols int
	}{
		{"Small_500x10", 500, 10},
		{"Large_10000x20", 10000, 20},
		{"XLarge_50000x50", 50000, 50},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			xt, y := createBenchmarkData(size.rows, size.cols)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				reg, err := New(xt, y, WithSolver(CholeskySolver{}))
				if err != nil {
					b.Fatal(err)
				}
				if !reg.IsFitted() {
					b.Fatal(reg.FitError())
				}
			}
		})
	}
}

// BenchmarkRegressionPredict は単一予測のベンチマーク
func BenchmarkRegressionPredict(b *testing.B) {
	xt, y := createBenchmarkData(1000, 20)
	reg, err := New(xt, y)
	if err != nil {
		b.Fatal(err)
	}

	x := xt[0]

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := reg.Predict(x); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRegressionPredictBatch は一括予測のベンチマーク
func BenchmarkRegressionPredictBatch(b *testing.B) {
	sizes := []struct {
		name string
		rows int
	}{
		{"Batch_500", 500},
		{"Batch_1000", 1000}, // 並列処理の閾値
		{"Batch_10000", 10000},
	}

	xt, y := createBenchmarkData(1000, 10)
	reg, err := New(xt, y)
	if err != nil {
		b.Fatal(err)
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			rows, _ := createBenchmarkData(size.rows, 10)
			X := mat.NewDense(size.rows, 10, nil)
			for i, row := range rows {
				X.SetRow(i, row)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := reg.PredictBatch(X); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
