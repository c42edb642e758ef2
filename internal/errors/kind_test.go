package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"csvplot/internal/tabular"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, KindNone},
		{context.DeadlineExceeded, KindTimeout},
		{fmt.Errorf("wrapped: %w", context.Canceled), KindCanceled},
		{&http.MaxBytesError{Limit: 1}, KindTooLarge},
		{&tabular.ParseError{File: "a.csv"}, KindParse},
		{fmt.Errorf("select: %w", &tabular.LookupError{Column: "q"}), KindUnknownColumn},
		{&tabular.ShapeMismatchError{}, KindShapeMismatch},
		{&tabular.NonNumericError{}, KindNonNumeric},
		{&tabular.DuplicateColumnError{Column: "x"}, KindValidation},
		{tabular.ErrNoSources, KindValidation},
		{ErrUnsupportedMediaType, KindValidation},
		{ErrServiceUnavailable, KindInternal},
		{fmt.Errorf("other"), KindInternal},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}
