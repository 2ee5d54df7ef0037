// Package olsgo provides multivariate ordinary least squares regression for Go,
// designed for backend services that need fast, dependency-light model fitting
// and inference.
//
// Models are fitted at construction time: New solves the least squares problem
// immediately and returns a model that is either fitted or carries the recorded
// fitting failure. Input validation problems are returned from New directly,
// while numerical failures such as a singular design matrix are absorbed into
// the model and surface through IsFitted, FitError, and every later Predict.
//
// # Quick Start
//
// Here's a simple example of fitting and predicting:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/olsgo/linear"
//	)
//
//	func main() {
//	    // 1行1サンプルの特徴量と目的変数
//	    xt := [][]float64{{1}, {2}, {3}, {4}}
//	    y := []float64{2.1, 3.9, 6.1, 7.9}
//
//	    model, err := linear.New(xt, y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if !model.IsFitted() {
//	        log.Fatal(model.FitError())
//	    }
//
//	    pred, err := model.Predict([]float64{5})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("Prediction:", pred)
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - linear: ordinary least squares regression and the pluggable solvers (QR, Cholesky)
//   - dataset: CSV loading into feature rows and label vectors
//   - preprocessing: StandardScaler for feature standardization
//   - metrics: evaluation metrics (MSE, RMSE, MAE, R², RSS)
//   - visualization: fit and residual plots rendered with gonum/plot
//   - core/model: shared interfaces, estimator state, weights export, persistence
//   - core/parallel: parallel processing utilities
//   - pkg/errors: the error taxonomy (dimension, singular matrix, numerical instability)
//   - pkg/log: structured logging built on zerolog and log/slog
//
// # Error Handling
//
// Failures are classified so callers can branch on the cause:
//
//	model, err := linear.New(xt, y)
//	if err != nil {
//	    // 入力の形が不正（空データ、行長の不一致など）
//	}
//	if !model.IsFitted() {
//	    var singular *errors.SingularMatrixError
//	    if errors.As(model.FitError(), &singular) {
//	        // 完全に共線な特徴量
//	    }
//	}
//
// # Performance
//
// Fitting parallelizes the design matrix assembly for datasets with more than
// 1000 rows, using all available CPU cores.
package olsgo
