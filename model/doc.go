// Package model declares the geometric-model interface the mesh core
// consumes: classification handles, snapping a parametric coordinate to a
// spatial point, and parametric range queries for periodic dimensions.
//
// The mesh never inspects geometry beyond this interface; any modeller
// (CAD kernel, discrete surrogate, analytic shape) can stand behind it.
// The package ships Analytic, a small function-backed implementation used
// by tests and examples.
package model
