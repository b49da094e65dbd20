package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassString(t *testing.T) {
	assert.Equal(t, "transient", ErrorTransient.String())
	assert.Equal(t, "invalid", ErrorInvalid.String())
	assert.Equal(t, "fatal", ErrorFatal.String())
	assert.Equal(t, "unknown", ErrorClass(99).String())
}

func TestWrapFormat(t *testing.T) {
	err := Wrap(ErrShortBuffer, "Reader", "Data", "payload read")
	require.Error(t, err)
	assert.Equal(t, "Reader.Data: payload read failed: unexpected end of buffer", err.Error())
	assert.True(t, stderrors.Is(err, ErrShortBuffer))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "C", "M", "a"))
	assert.NoError(t, WrapTransient(nil, "C", "M", "a"))
	assert.NoError(t, WrapInvalid(nil, "C", "M", "a"))
	assert.NoError(t, WrapFatal(nil, "C", "M", "a"))
}

func TestClassificationPreservedThroughWrapping(t *testing.T) {
	wrapped := WrapInvalid(ErrInvalidFlag, "Reader", "Flag", "flag byte")
	assert.True(t, IsInvalid(wrapped))
	assert.False(t, IsTransient(wrapped))
	assert.False(t, IsFatal(wrapped))

	var ce *ClassifiedError
	require.True(t, stderrors.As(wrapped, &ce))
	assert.Equal(t, ErrorInvalid, ce.Class)
	assert.Equal(t, "Reader", ce.Component)
}

func TestFramingErrorsAreInvalid(t *testing.T) {
	framing := []error{
		ErrShortBuffer,
		ErrInvalidFlag,
		ErrNegativeCount,
		ErrCountTooLarge,
		ErrBadVersion,
		ErrDepthExceeded,
		ErrInvalidOffset,
	}
	for _, err := range framing {
		assert.True(t, IsFraming(err), "expected framing: %v", err)
		assert.True(t, IsInvalid(err), "expected invalid: %v", err)
		assert.Equal(t, ErrorInvalid, Classify(err))
	}

	assert.False(t, IsFraming(ErrDanglingReference))
	assert.True(t, IsInvalid(ErrDanglingReference))
}

func TestContextErrorsAreTransient(t *testing.T) {
	assert.True(t, IsTransient(context.DeadlineExceeded))
	assert.True(t, IsTransient(context.Canceled))
	assert.True(t, IsTransient(fmt.Errorf("connect: %w", ErrConnectionTimeout)))
}

func TestClassifyDefaults(t *testing.T) {
	assert.Equal(t, ErrorTransient, Classify(nil))
	assert.Equal(t, ErrorFatal, Classify(ErrDataCorrupted))
	// Unknown errors default to transient so callers may retry
	assert.Equal(t, ErrorTransient, Classify(stderrors.New("something odd")))
}
