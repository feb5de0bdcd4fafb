package notion

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jomei/notionapi"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{
			name: "object not found",
			err:  &notionapi.Error{Status: 404, Code: "object_not_found", Message: "Could not find database"},
			want: ErrTargetNotFound,
		},
		{
			name: "unauthorized",
			err:  &notionapi.Error{Status: 401, Code: "unauthorized", Message: "API token is invalid"},
			want: ErrUnauthorized,
		},
		{
			name: "validation error about a property",
			err:  &notionapi.Error{Status: 400, Code: "validation_error", Message: "Name is not a property that exists"},
			want: ErrSchemaMismatch,
		},
		{
			name: "validation error about something else",
			err:  &notionapi.Error{Status: 400, Code: "validation_error", Message: "body failed validation"},
			want: ErrOther,
		},
		{
			name: "wrapped API error still classified",
			err:  fmt.Errorf("failed to create page: %w", &notionapi.Error{Status: 404, Code: "object_not_found"}),
			want: ErrTargetNotFound,
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: ErrOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}
}
