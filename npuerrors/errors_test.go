package npuerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelsWrapAndUnwrap(t *testing.T) {
	err := NotSupported("op %d rejected", 3)
	assert.True(t, errors.Is(err, ErrUnsupported))
	assert.Contains(t, err.Error(), "op 3 rejected")

	err = NotImplemented("softmax not implemented")
	assert.True(t, errors.Is(err, ErrNotImplemented))

	err = SharedConcatInput("input %d shared", 1)
	assert.True(t, errors.Is(err, ErrSharedConcatInput))
}
