package notion

import (
	"errors"
	"strings"

	"github.com/jomei/notionapi"
)

// ErrorKind buckets remote failures into the cases the CLI reports
// differently.
type ErrorKind int

const (
	// ErrOther covers anything without a more specific diagnostic.
	ErrOther ErrorKind = iota
	// ErrTargetNotFound means the database does not exist or is not shared
	// with the integration.
	ErrTargetNotFound
	// ErrUnauthorized means the token was rejected.
	ErrUnauthorized
	// ErrSchemaMismatch means the request's properties do not fit the
	// database schema.
	ErrSchemaMismatch
)

// ClassifyError inspects a Notion API error and returns the bucket it
// belongs to.
func ClassifyError(err error) ErrorKind {
	var apiErr *notionapi.Error
	if !errors.As(err, &apiErr) {
		return ErrOther
	}

	switch {
	case apiErr.Code == "object_not_found" || apiErr.Status == 404:
		return ErrTargetNotFound
	case apiErr.Code == "unauthorized" || apiErr.Status == 401:
		return ErrUnauthorized
	case apiErr.Code == "validation_error" && strings.Contains(strings.ToLower(apiErr.Message), "propert"):
		return ErrSchemaMismatch
	}
	return ErrOther
}
