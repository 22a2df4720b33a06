// Package steps runs the ordered steps of an everestctl operation.
package steps

import (
	"context"
	"fmt"
	"io"

	"github.com/everest-platform/console/pkg/cli/printer"
)

// Step is a single unit of work shown as one spinner line.
type Step struct {
	Desc string
	F    func(ctx context.Context) error
}

// RunStepsWithSpinner runs steps in order and stops at the first failure.
// Progress is written to out.
func RunStepsWithSpinner(ctx context.Context, steps []Step, out io.Writer) error {
	for _, s := range steps {
		done := printer.Spinner(out, "%s", s.Desc)
		if err := s.F(ctx); err != nil {
			done(false)
			return fmt.Errorf("%s: %w", s.Desc, err)
		}
		done(true)
	}
	return nil
}
