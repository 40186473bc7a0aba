package ringct

import "errors"

var ErrInvalidRingSize = errors.New("invalid ring size")
var ErrIndexOutOfRange = errors.New("signer index out of range")
var ErrDuplicateRingMember = errors.New("duplicate ring member")
