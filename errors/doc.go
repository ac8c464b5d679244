// Package errors provides structured error types for the cvbridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes context: argument path, Go/host type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMarshal, errors.KindTypeMismatch).
//		Path("rect", "width").
//		GoType("int").
//		HostType("string").
//		Detail("cannot convert string to integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ShapeMismatch(errors.PhaseConvert, "copyTo", []int{3, 4}, []int{4, 3})
//	err := errors.OutOfBounds(errors.PhaseAccess, path, 10, 5)
//
// Contract violations raised as panics inside the mat package carry an *Error
// value; the bridge recovers them and returns them unchanged.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
