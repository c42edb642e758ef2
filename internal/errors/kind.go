package errors

import (
	"context"
	"errors"
	"net/http"

	"csvplot/internal/tabular"
)

// Error kinds used as metric labels and log fields
const (
	KindNone          = ""
	KindTimeout       = "timeout"
	KindCanceled      = "canceled"
	KindValidation    = "validation"
	KindTooLarge      = "too_large"
	KindParse         = "parse"
	KindUnknownColumn = "unknown_column"
	KindShapeMismatch = "shape_mismatch"
	KindNonNumeric    = "non_numeric"
	KindInternal      = "internal"
)

// Kind classifies err into a small fixed label set
func Kind(err error) string {
	if err == nil {
		return KindNone
	}

	var (
		apiErr     *APIError
		maxErr     *http.MaxBytesError
		parseErr   *tabular.ParseError
		lookupErr  *tabular.LookupError
		shapeErr   *tabular.ShapeMismatchError
		numericErr *tabular.NonNumericError
		dupErr     *tabular.DuplicateColumnError
	)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &maxErr):
		return KindTooLarge
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &lookupErr):
		return KindUnknownColumn
	case errors.As(err, &shapeErr):
		return KindShapeMismatch
	case errors.As(err, &numericErr):
		return KindNonNumeric
	case errors.As(err, &dupErr), errors.Is(err, tabular.ErrNoSources):
		return KindValidation
	case errors.As(err, &apiErr):
		if apiErr.StatusCode < http.StatusInternalServerError {
			return KindValidation
		}
		return KindInternal
	default:
		return KindInternal
	}
}
