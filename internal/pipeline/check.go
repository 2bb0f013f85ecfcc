package pipeline

import (
	"context"
	"strings"

	"git.home.luguber.info/inful/glueregen/internal/foundation/errors"
)

// Check performs a dry run and reports drift: it returns a DriftError
// naming every target whose content would change.
func (r *Runner) Check(ctx context.Context) (*RunResult, error) {
	res, err := r.Run(ctx, Options{DryRun: true})
	if err != nil {
		return res, err
	}
	if changed := res.Changed(); len(changed) > 0 {
		return res, errors.DriftError("generated files are out of date").
			WithContext("targets", strings.Join(changed, ",")).
			Build()
	}
	return res, nil
}
