package apierr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{401, Auth},
		{403, Auth},
		{404, NotFound},
		{429, Network},
		{503, Network},
		{400, Unknown},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := FromStatus("get photo", tt.status, "")
			assert.Equal(t, tt.want, err.Kind)
			assert.Equal(t, tt.want, Classify(err))
			assert.Contains(t, err.Error(), "get photo")
		})
	}
}

func TestClassify(t *testing.T) {
	var syntaxErr error = &json.SyntaxError{}

	assert.Equal(t, Cancelled, Classify(context.Canceled))
	assert.Equal(t, Cancelled, Classify(fmt.Errorf("fetch: %w", context.Canceled)))
	assert.Equal(t, Network, Classify(context.DeadlineExceeded))
	assert.Equal(t, Parse, Classify(fmt.Errorf("decode: %w", syntaxErr)))
	assert.Equal(t, Unknown, Classify(errors.New("boom")))
	assert.Equal(t, Unknown, Classify(nil))
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("op", nil))

	wrapped := Wrap("list topics", context.Canceled)
	assert.True(t, IsCancelled(wrapped))
	assert.ErrorIs(t, wrapped, context.Canceled)

	// Already classified errors pass through unchanged.
	orig := New(Auth, "login", errors.New("bad code"))
	assert.Same(t, orig, Wrap("other", orig))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(New(Network, "op", errors.New("reset"))))
	assert.False(t, Retryable(New(Auth, "op", errors.New("expired"))))
	assert.False(t, Retryable(context.Canceled))
}
