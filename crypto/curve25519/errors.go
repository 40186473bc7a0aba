package curve25519

import "errors"

// ErrInvalidScalar A scalar encoding is not 32 bytes or is not reduced modulo the group order
var ErrInvalidScalar = errors.New("invalid scalar")

// ErrInvalidPoint A point encoding is not canonical, not on the curve, or a point is the identity or torsioned where disallowed
var ErrInvalidPoint = errors.New("invalid point")
