package utils

import (
	"github.com/pkg/errors"
)

// NewOutOfRangeError is used when a numeric attribute falls outside of its allowed range.
func NewOutOfRangeError(name string, value interface{}, bound string) error {
	return errors.Errorf("%s %v out of range, must be %s", name, value, bound)
}
