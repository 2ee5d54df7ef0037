package linear

import "github.com/YuminosukeSato/olsgo/pkg/log"

// Option is a function that configures Regression
type Option func(*Regression)

// WithSolver sets the least squares solver used for fitting.
// The default is QRSolver.
func WithSolver(solver LeastSquaresSolver) Option {
	return func(r *Regression) {
		if solver != nil {
			r.solver = solver
		}
	}
}

// WithLogger sets the logger that receives fitting diagnostics.
// The default is the package-level logger named "linear".
func WithLogger(logger log.Logger) Option {
	return func(r *Regression) {
		if logger != nil {
			r.logger = logger
		}
	}
}
