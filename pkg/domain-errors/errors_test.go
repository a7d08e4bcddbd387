package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Run("nil cause returns nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("preserves cause chain", func(t *testing.T) {
		cause := fmt.Errorf("connection refused")
		err := Wrap(cause, CodeDependency, "transcription call failed")
		require.Error(t, err)
		assert.ErrorContains(t, err, "connection refused")
		assert.True(t, HasCode(err, CodeDependency))
	})
}

func TestHasCode(t *testing.T) {
	err := New(CodeValidation, "description too short")
	assert.True(t, HasCode(err, CodeValidation))
	assert.False(t, HasCode(err, CodeInternal))
	assert.False(t, HasCode(fmt.Errorf("plain"), CodeValidation))
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, ToHTTPStatus(CodeValidation))
	assert.Equal(t, http.StatusBadRequest, ToHTTPStatus(CodeInvalidInput))
	assert.Equal(t, http.StatusBadGateway, ToHTTPStatus(CodeDependency))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(CodeInternal))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(Code("unknown")))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(New(CodeNotFound, "missing")))
	assert.Equal(t, CodeInternal, CodeOf(fmt.Errorf("plain")))
}
