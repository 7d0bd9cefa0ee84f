// Package apperr holds sentinel errors shared by the application layer.
package apperr

import "errors"

var (
	ErrMissingCredentials = errors.New("missing credentials: set PAPRIKA_EMAIL and PAPRIKA_PASSWORD or the account section of the config")
	ErrUnsupportedFormat  = errors.New("unsupported recipe document format")
	ErrInvalidRecipe      = errors.New("invalid recipe document")
)
