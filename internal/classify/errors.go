package classify

import "errors"

var (
	// ErrWalkFailed indicates traversal of the source tree failed.
	ErrWalkFailed = errors.New("source tree walk failed")

	// ErrUnknownPlatform indicates a platform identifier outside the known set.
	ErrUnknownPlatform = errors.New("unknown platform")
)
