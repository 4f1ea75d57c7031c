package pipeline

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/askiada/go-preprocess/pkg/pipeline/model"
	"github.com/askiada/go-preprocess/pkg/transform"
)

var (
	ErrNotFitted     = transform.ErrNotFitted
	ErrConfiguration = transform.ErrConfiguration
	ErrSerialization = transform.ErrSerialization

	ErrStepNameRequired = errors.WithMessage(ErrConfiguration, "step name is required")
	ErrStepMustBeSet    = errors.WithMessage(ErrConfiguration, "step must be set")
	ErrDuplicateStep    = errors.WithMessage(ErrConfiguration, "duplicate step name")
	ErrInvalidStepName  = errors.WithMessage(ErrConfiguration, "invalid step name")
	ErrDatasetMustBeSet = errors.New("dataset must be set")
)

// StepError annotates the error of a step with the step name and the operation that
// failed.
type StepError struct {
	Step string
	Op   model.Op
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q: %s: %v", e.Step, e.Op, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
