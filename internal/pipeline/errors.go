package pipeline

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a record failure.
type ErrorKind string

const (
	KindMissingSourceName    ErrorKind = "missing_source_name"
	KindMissingSourceFile    ErrorKind = "missing_source_file"
	KindRasterizationFailure ErrorKind = "rasterization_failure"
	KindUnclassified         ErrorKind = "unclassified_record_fault"
	KindCatalogUnavailable   ErrorKind = "catalog_unavailable"
)

// Report messages for the known failure kinds.
const (
	MsgMissingSourceName    = "No source filename in metadata"
	MsgMissingSourceFile    = "PDF file not found"
	MsgRasterizationFailure = "Failed to convert PDF to image"
)

// ErrCatalogUnavailable is returned by Run when the record list cannot be
// fetched.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// StageError is a tagged failure of one pipeline stage.
type StageError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *StageError) Unwrap() error { return e.Err }

// classify maps any stage error to a kind and a report message. Untagged
// errors become unclassified faults carrying their own text.
func classify(err error) (ErrorKind, string) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind, se.Message
	}
	return KindUnclassified, err.Error()
}
