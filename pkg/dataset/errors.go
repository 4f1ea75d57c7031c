package dataset

import "github.com/pkg/errors"

var (
	ErrColumnNotFound  = errors.New("column not found")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrLengthMismatch  = errors.New("column length mismatch")
	ErrColumnKind      = errors.New("unexpected column kind")
	ErrColumnMustBeSet = errors.New("column must be set")
)
