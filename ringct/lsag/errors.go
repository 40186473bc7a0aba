package lsag

import (
	"errors"
	"fmt"
)

// ErrMalformedSignature Structural problems with a signature or its ring. A well-formed forgery is not malformed,
// Verify reports it as a false result instead
var ErrMalformedSignature = errors.New("malformed LSAG signature")

var ErrInvalidResponseCount = errors.New("response count does not match ring size")
var ErrInvalidKeyImage = errors.New("invalid LSAG key image")
var ErrRandomness = errors.New("could not read randomness")
var ErrTrailingData = errors.New("trailing data after signature")

func malformed(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformedSignature, err)
}
