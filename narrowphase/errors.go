package narrowphase

import "github.com/pkg/errors"

func newBadGeometryDimensionsError(s Shape) error {
	return errors.Errorf("invalid dimension(s) for %s", s.Kind())
}

func newCollisionTypeUnsupportedError(s1, s2 Shape) error {
	return errors.Errorf("collisions between %s and %s are not supported", s1.Kind(), s2.Kind())
}

func newDistanceTypeUnsupportedError(s1, s2 Shape) error {
	return errors.Errorf("distance between %s and %s is not supported", s1.Kind(), s2.Kind())
}
