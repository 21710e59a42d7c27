package utils

import (
	"testing"

	"go.viam.com/test"
)

func TestNewOutOfRangeError(t *testing.T) {
	err := NewOutOfRangeError("max_leaf_size", 0, "at least 1")
	test.That(t, err.Error(), test.ShouldEqual, "max_leaf_size 0 out of range, must be at least 1")
}
