package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/apirunner/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{Resource: "dataset", ID: "contacts"}
		assert.Equal(t, `dataset "contacts" not found`, err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		wrapped := fmt.Errorf("load: %w", pkgerrors.NewNotFoundError("dataset", "x"))
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("method", "FETCH", "unsupported method")
		assert.Equal(t, "validation failed for field method: unsupported method", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "body is not JSON"}
		assert.Equal(t, "validation failed: body is not JSON", err.Error())
	})

	t.Run("wrap keeps cause", func(t *testing.T) {
		cause := errors.New("unexpected end of JSON input")
		err := pkgerrors.WrapValidation("record", cause)
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.True(t, pkgerrors.IsValidationError(err))
		assert.NoError(t, pkgerrors.WrapValidation("record", nil))
	})
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"rate limited", 429, pkgerrors.ErrRateLimited},
		{"unauthorized", 401, pkgerrors.ErrUnauthorized},
		{"forbidden", 403, pkgerrors.ErrUnauthorized},
		{"server error", 503, pkgerrors.ErrUpstreamUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pkgerrors.NewAPIError("list", tt.status, "status text")
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}

	t.Run("message carries status", func(t *testing.T) {
		err := pkgerrors.NewAPIError("list", 404, "Not Found")
		assert.Equal(t, "list failed: 404 Not Found", err.Error())
		assert.False(t, pkgerrors.IsUpstreamUnavailable(err))
	})

	t.Run("network failure", func(t *testing.T) {
		err := &pkgerrors.APIError{Operation: "list", StatusText: "NetworkError", Message: "Request timed out"}
		assert.Equal(t, "list failed: 0 NetworkError: Request timed out", err.Error())
	})
}

func TestParseAndIOErrors(t *testing.T) {
	cause := errors.New("boom")

	perr := pkgerrors.WrapParse("yaml", "profile.yaml", cause)
	assert.Equal(t, "parse error in yaml file profile.yaml: boom", perr.Error())
	assert.ErrorIs(t, perr, cause)
	assert.True(t, pkgerrors.IsValidationError(perr))

	ioerr := pkgerrors.WrapIO("read", "/tmp/x", cause)
	assert.Equal(t, "IO error during read of /tmp/x: boom", ioerr.Error())
	assert.ErrorIs(t, ioerr, cause)
	assert.NoError(t, pkgerrors.WrapIO("read", "", nil))
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("store", "unknown backend \"mongo\"", nil)
	assert.Equal(t, `configuration error in store: unknown backend "mongo"`, err.Error())
}

func TestResourceError(t *testing.T) {
	cause := pkgerrors.NewNotFoundError("key", "apiRunner.dataset.march")

	err := pkgerrors.WrapResource("load", "dataset", "march", cause)
	assert.Equal(t, `failed to load dataset march: key "apiRunner.dataset.march" not found`, err.Error())
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.NoError(t, pkgerrors.WrapResource("load", "dataset", "", nil))
}
