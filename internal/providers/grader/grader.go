package grader

import (
	"context"

	"github.com/yoockh/resumeprep/internal/assessment"
)

type Grader interface {
	// Name identifies the grader in evaluation runs and reports.
	Name() string
	// Grade returns the raw payload for req. An error means no payload at
	// all; a payload with ungraded blocks is not an error.
	Grade(ctx context.Context, req Request) (assessment.Payload, error)
}
