package catalog

import (
	"errors"
	"fmt"
)

// Error kinds of a failed catalog request.
var (
	ErrStatus    = errors.New("catalog returned an error status")
	ErrMalformed = errors.New("catalog response is not a feature collection")
	ErrTransport = errors.New("catalog request failed")
)

// CatalogError is the fetch failure handed to the presentation layer.
type CatalogError struct {
	Kind       error
	StatusCode int
	Detail     string
	Err        error
}

func (e *CatalogError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return e.Kind.Error()
	}
}

// Is lets errors.Is match on the kind.
func (e *CatalogError) Is(target error) bool { return target == e.Kind }

func (e *CatalogError) Unwrap() error { return e.Err }

// IsCatalog reports whether err is, or wraps, a *CatalogError.
func IsCatalog(err error) bool {
	var ce *CatalogError
	return errors.As(err, &ce)
}
