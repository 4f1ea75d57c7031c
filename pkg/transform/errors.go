package transform

import (
	"github.com/pkg/errors"
)

var (
	ErrNotFitted       = errors.New("not fitted")
	ErrUnknownCategory = errors.New("unknown category")
	ErrConfiguration   = errors.New("invalid configuration")
	ErrSerialization   = errors.New("invalid serialized step")
)

// Detailed errors, each matching its parent kind with errors.Is.
var (
	ErrNoInputColumns      = errors.WithMessage(ErrConfiguration, "at least one input column is required")
	ErrColumnCountMismatch = errors.WithMessage(ErrConfiguration, "input and output column counts differ")
	ErrDuplicateColumn     = errors.WithMessage(ErrConfiguration, "column declared twice")
	ErrOutputCollision     = errors.WithMessage(ErrConfiguration, "output column collides with an existing column")
	ErrDuplicateLabel      = errors.WithMessage(ErrConfiguration, "duplicate category label")
	ErrInvalidOption       = errors.WithMessage(ErrConfiguration, "invalid option value")
	ErrKindRegistered      = errors.WithMessage(ErrConfiguration, "step kind already registered")
	ErrUnknownKind         = errors.WithMessage(ErrSerialization, "unknown step kind")
)
