package source

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/recipesync/pkg/errors"
	"github.com/matzehuels/recipesync/pkg/integrations"
)

// Classify wraps err in a coded error. Errors that already carry a code keep
// it; integration sentinels and context deadlines are mapped onto
// NOT_FOUND, RATE_LIMITED, TIMEOUT or NETWORK_ERROR. Anything else is
// INTERNAL_ERROR.
func Classify(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.GetCode(err) != "" {
		return err
	}

	code := errors.ErrCodeInternal
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		code = errors.ErrCodeTimeout
	case stderrors.Is(err, integrations.ErrRateLimited):
		code = errors.ErrCodeRateLimited
	case stderrors.Is(err, integrations.ErrNotFound):
		code = errors.ErrCodeNotFound
	case stderrors.Is(err, integrations.ErrNetwork):
		code = errors.ErrCodeNetwork
	}
	return errors.Wrap(code, err, format, args...)
}
