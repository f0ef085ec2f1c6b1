package cp

import "errors"

// Error variables for the engine.
var (
	// ErrInconsistent is returned when propagation proves that the current
	// search node has no solution: a domain became empty, a global
	// constraint detected infeasibility, or an impossible assignment was
	// attempted. It is ordinary control flow; the search driver reacts by
	// restoring the trail and trying the next branch.
	ErrInconsistent = errors.New("inconsistency")

	// ErrInvalidArgument is returned by constructors on malformed input.
	// It is never produced during propagation.
	ErrInvalidArgument = errors.New("invalid argument")
)

// IsInconsistent reports whether err signals a failed search node.
func IsInconsistent(err error) bool { return errors.Is(err, ErrInconsistent) }
