package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"testing"

	apperrors "github.com/target/scrapediff/internal/errors"
)

type customErr struct{}

func (customErr) Error() string { return "custom" }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "app error code", err: apperrors.Extraction(goerrors.New("eof"), "extractor failed"), want: "extraction"},
		{name: "wrapped app error", err: fmt.Errorf("run: %w", apperrors.Conflict("busy")), want: "conflict"},
		{name: "deadline", err: fmt.Errorf("extract: %w", context.DeadlineExceeded), want: "timeout"},
		{name: "canceled", err: context.Canceled, want: "canceled"},
		{name: "concrete type", err: fmt.Errorf("x: %w", customErr{}), want: "errors_customerr"},
		{name: "pointer type", err: &customPtrErr{}, want: "errors_customptrerr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Fatalf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

type customPtrErr struct{}

func (*customPtrErr) Error() string { return "ptr" }
