// Package dispatch selects among overloads of a host-visible symbol by the
// number of arguments the host passed.
//
// The host cannot overload by type, so each (symbol, arity) pair maps to
// exactly one Go function. Registering a second function at an occupied
// pair fails at registration time with KindArityConflict; lookup is a
// single table probe and therefore deterministic.
//
// Invoke lifts host arguments to the Go parameter types through a Lifter,
// calls the function, and lowers results through a Lowerer. A trailing
// error result is returned as the call's error; a panic inside the call is
// recovered and reported as KindContractViolation (or as the *errors.Error
// it carried).
package dispatch
