package inventory

import "fmt"

// Kind is the machine-readable classification of an engine error.
type Kind string

const (
	// KindDependencyUnavailable means every candidate product-service
	// address failed or timed out during a lookup.
	KindDependencyUnavailable Kind = "dependency_unavailable"
	// KindUpstreamProductMissing means the product could not be confirmed
	// upstream during an upsert; local state is left untouched.
	KindUpstreamProductMissing Kind = "upstream_product_missing"
	// KindRecordNotFound means no local stock record exists for the
	// product. Lookups never auto-create.
	KindRecordNotFound Kind = "record_not_found"
	// KindValidation means the request was rejected before reaching the
	// engine.
	KindValidation Kind = "validation_error"
)

// Error carries the error kind, the product it concerns and the underlying
// cause. Nothing upstream of the engine observes raw transport errors.
type Error struct {
	Kind      Kind
	ProductID int64
	Message   string
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func newError(kind Kind, productID int64, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:      kind,
		ProductID: productID,
		Message:   fmt.Sprintf(format, args...),
		cause:     cause,
	}
}
