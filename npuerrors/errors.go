// Package npuerrors defines the conversion pass's error taxonomy
// (spec.md §7): sentinel errors for conditions a caller can legitimately
// branch on, checked with errors.Is, following the pack's own
// ErrInvalid*/errors.Is convention
// (pkg/core/math/control/kinematics/thrusters/types.go,
// pkg/core/math/control/motion/planner/types.go).
package npuerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnsupported is returned when the support oracle classifies an
	// operation as Unsupported, or when an operation's structural shape
	// (e.g. an unrecognized pooling configuration) has no lowering.
	ErrUnsupported = errors.New("npulower: operation not supported by target hardware")

	// ErrNotImplemented is returned for operations the conversion pass
	// recognizes but has no rewrite rule for outside EstimateOnly mode
	// (spec.md §4.2 Softmax).
	ErrNotImplemented = errors.New("npulower: operation not implemented outside estimation mode")

	// ErrSharedConcatInput is returned when a Concat input operand has more
	// than one consumer outside estimation mode (spec.md §4.2 Concatenation
	// step 1).
	ErrSharedConcatInput = errors.New("npulower: shared inputs to concat are not supported")
)

// NotSupported wraps ErrUnsupported with op-specific context, preserving a
// stack trace the way the pack's own layers wrap constructor errors with
// fmt.Errorf("...: %w", err).
func NotSupported(format string, args ...interface{}) error {
	return errors.Wrap(ErrUnsupported, fmt.Sprintf(format, args...))
}

// NotImplemented wraps ErrNotImplemented with op-specific context.
func NotImplemented(format string, args ...interface{}) error {
	return errors.Wrap(ErrNotImplemented, fmt.Sprintf(format, args...))
}

// SharedConcatInput wraps ErrSharedConcatInput with op-specific context.
func SharedConcatInput(format string, args ...interface{}) error {
	return errors.Wrap(ErrSharedConcatInput, fmt.Sprintf(format, args...))
}
