package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConstruct Phase = "construct" // matrix allocation and factories
	PhaseConvert   Phase = "convert"   // convertTo, copyTo, arithmetic
	PhaseAccess    Phase = "access"    // element accessors, slicing
	PhaseView      Phase = "view"      // typed window export
	PhaseMarshal   Phase = "marshal"   // host record <-> value objects
	PhaseDispatch  Phase = "dispatch"  // overload registration and lookup
	PhaseCompose   Phase = "compose"   // output-parameter adaptation
	PhaseHost      Phase = "host"      // handle table, external memory
	PhaseType      Phase = "type"      // type code decoding
)

// Kind categorizes the error
type Kind string

const (
	KindShapeMismatch     Kind = "shape_mismatch"
	KindTypeMismatch      Kind = "type_mismatch"
	KindOutOfBounds       Kind = "out_of_bounds"
	KindInvalidTypeCode   Kind = "invalid_type_code"
	KindFieldMissing      Kind = "field_missing"
	KindShortBuffer       Kind = "short_buffer"
	KindArityConflict     Kind = "arity_conflict"
	KindNotFound          Kind = "not_found"
	KindNotContinuous     Kind = "not_continuous"
	KindMisaligned        Kind = "misaligned"
	KindSingular          Kind = "singular"
	KindContractViolation Kind = "contract_violation"
	KindNotInitialized    Kind = "not_initialized"
	KindInvalidInput      Kind = "invalid_input"
	KindRegistration      Kind = "registration"
	KindStaleView         Kind = "stale_view"
	KindUnsupported       Kind = "unsupported"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	HostType string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.HostType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.HostType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", host type ")
			b.WriteString(e.HostType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("host type ")
			b.WriteString(e.HostType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.HostType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the argument path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// HostType sets the host-visible type name
func (b *Builder) HostType(t string) *Builder {
	b.err.HostType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, hostType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		GoType:   goType,
		HostType: hostType,
	}
}

// ShapeMismatch creates an operand shape mismatch error
func ShapeMismatch(phase Phase, op string, want, got []int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindShapeMismatch,
		Path:   []string{op},
		Detail: fmt.Sprintf("shape %v does not match %v", got, want),
	}
}

// DepthMismatch creates an element type mismatch between two operands
func DepthMismatch(phase Phase, op string, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   []string{op},
		Detail: fmt.Sprintf("element type %s does not match %s", got, want),
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not found", fieldName),
	}
}

// InvalidTypeCode creates an error for an unrecognized type code
func InvalidTypeCode(code int) *Error {
	return &Error{
		Phase:  PhaseType,
		Kind:   KindInvalidTypeCode,
		Detail: fmt.Sprintf("type code %d is not a valid (depth, channels) pair", code),
		Value:  code,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// ShortBuffer creates an error for a host buffer smaller than required
func ShortBuffer(phase Phase, path []string, need, have int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindShortBuffer,
		Path:   path,
		Detail: fmt.Sprintf("buffer holds %d bytes, need %d", have, need),
		Value:  have,
	}
}

// ArityConflict creates an error for two overloads sharing a (symbol, arity) key
func ArityConflict(symbol string, arity int) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindArityConflict,
		Path:   []string{symbol},
		Detail: fmt.Sprintf("an overload taking %d argument(s) is already registered", arity),
		Value:  arity,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// NotInitialized creates a not-initialized error for a missing collaborator
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// Registration creates a registration error
func Registration(symbol string, cause error) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s", symbol),
		Cause:  cause,
	}
}

// ContractViolation wraps a recovered panic value raised inside a bridged call.
// An *Error panic value is returned unchanged.
func ContractViolation(symbol string, recovered any) *Error {
	if e, ok := recovered.(*Error); ok {
		return e
	}
	e := &Error{
		Phase: PhaseDispatch,
		Kind:  KindContractViolation,
		Path:  []string{symbol},
		Value: recovered,
	}
	if err, ok := recovered.(error); ok {
		e.Cause = err
	} else {
		e.Detail = fmt.Sprint(recovered)
	}
	return e
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
