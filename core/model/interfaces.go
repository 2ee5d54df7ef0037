// Package model provides additional interfaces and types for machine learning models.
// This file complements the core interfaces in estimator.go and transformer.go
package model

// Regressor combines the interfaces implemented by regression models.
type Regressor interface {
	PointPredictor
	BatchPredictor
	Scorer
	LinearModel

	// IsFitted returns whether the model has been successfully fitted.
	IsFitted() bool
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// Persistable is the interface for models that can be saved and loaded.
type Persistable interface {
	// Save saves the model to a file.
	Save(path string) error

	// Load loads the model from a file.
	Load(path string) error
}
