package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"summarylab/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Validation("missing content"), http.StatusBadRequest},
		{"auth", apperr.Auth("token expired"), http.StatusUnauthorized},
		{"upstream passthrough", apperr.Upstream(http.StatusTeapot, "short and stout", nil), http.StatusTeapot},
		{"upstream no status", apperr.Upstream(0, "dial failed", errors.New("refused")), http.StatusBadGateway},
		{"upstream non-error status", apperr.Upstream(http.StatusAccepted, "", nil), http.StatusBadGateway},
		{"internal", apperr.Internal("no predictions", nil), http.StatusInternalServerError},
		{"persistence", apperr.Persistence("insert failed", errors.New("disk")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("summarize: %w", apperr.Validation("x")), http.StatusBadRequest},
		{"plain", errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.StatusOf(tt.err))
		})
	}
}

func TestIsKindDistinguishesUpstreamFromInternal(t *testing.T) {
	internal := apperr.Internal("predictions not found in the response", nil)

	assert.True(t, apperr.IsKind(internal, apperr.KindInternal))
	assert.False(t, apperr.IsKind(internal, apperr.KindUpstream))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperr.Persistence("insert feedback", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}
