package config

import "github.com/ndmgr/ndmgr/pkg/errors"

func newValidationError(field, value string) error {
	return errors.Newf(errors.ErrConfigInvalid, "invalid value for %s: %q", field, value).
		WithDetail("field", field).
		WithDetail("value", value)
}
