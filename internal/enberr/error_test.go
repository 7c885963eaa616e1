package enberr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_New(t *testing.T) {
	cause := errors.New("boom")
	err := New(cause, TargetNotFound, map[string]any{"target": "foo"})

	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, TargetNotFound, err.Code)
	assert.Equal(t, "foo", err.Details["target"])
	assert.ErrorIs(t, err, cause)
}

func Test_Newf(t *testing.T) {
	err := Newf(NodeInitError, nil, "node %s failed", "web")
	assert.Equal(t, "node web failed", err.Error())
	assert.Equal(t, NodeInitError, err.Code)
}

func Test_Error_Is(t *testing.T) {
	t.Run("Should match by code", func(t *testing.T) {
		a := New(errors.New("x"), TargetNotFound, nil)
		b := &Error{Code: TargetNotFound}
		assert.True(t, errors.Is(a, b))
	})

	t.Run("Should not match a different code", func(t *testing.T) {
		a := New(errors.New("x"), TargetNotFound, nil)
		b := &Error{Code: NodeInitError}
		assert.False(t, errors.Is(a, b))
	})
}

func Test_Error_NilReceiver(t *testing.T) {
	var e *Error
	assert.Equal(t, "", e.Error())
	assert.NoError(t, e.Unwrap())
}
