package hetzner

import (
	"errors"

	"nathanbeddoewebdev/hcloud-mcp/internal/domain"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// classifiedError tags an API error with a domain sentinel without
// changing its message.
type classifiedError struct {
	kind error
	err  error
}

func (e *classifiedError) Error() string   { return e.err.Error() }
func (e *classifiedError) Unwrap() []error { return []error{e.kind, e.err} }

// Classify maps hcloud API error codes onto the domain sentinels so callers
// can branch with errors.Is. Errors without a known code are returned
// unchanged, as is nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var kind error
	switch {
	case hcloud.IsError(err, hcloud.ErrorCodeUnauthorized, hcloud.ErrorCodeForbidden):
		kind = domain.ErrUnauthorized
	case hcloud.IsError(err, hcloud.ErrorCodeRateLimitExceeded):
		kind = domain.ErrRateLimited
	case hcloud.IsError(err,
		hcloud.ErrorCodeConflict,
		hcloud.ErrorCodeLocked,
		hcloud.ErrorCodeResourceLocked,
		hcloud.ErrorCodeUniquenessError,
	):
		kind = domain.ErrConflict
	case hcloud.IsError(err, hcloud.ErrorCodeNotFound):
		kind = domain.ErrNotFound
	case hcloud.IsError(err, hcloud.ErrorCodeInvalidInput):
		kind = domain.ErrInvalidInput
	default:
		return err
	}

	var already *classifiedError
	if errors.As(err, &already) {
		return err
	}
	return &classifiedError{kind: kind, err: err}
}
