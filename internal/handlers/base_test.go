package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/contenthub/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{
			name:         "forbidden maps to 403",
			err:          services.ErrForbidden,
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "not found maps to 404",
			err:          fmt.Errorf("%w: content 5", services.ErrNotFound),
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "validation maps to 400",
			err:          fmt.Errorf("%w: title is required", services.ErrValidation),
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "invalid credentials maps to 401",
			err:          services.ErrInvalidCredentials,
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "anything else stays an opaque 500",
			err:          errors.New("dial tcp: connection refused"),
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{Logger: zap.NewNop()}
			rec := httptest.NewRecorder()

			h.RespondServiceError(rec, tt.err)

			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedCode == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "connection refused")
			}
		})
	}
}

func TestLogServiceError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := &BaseHandler{Logger: zap.New(core)}

	h.LogServiceError("denied request", services.ErrForbidden)
	h.LogServiceError("missing resource", fmt.Errorf("%w: content 5", services.ErrNotFound))
	h.LogServiceError("bad payload", fmt.Errorf("%w: title is required", services.ErrValidation))
	h.LogServiceError("repository failure", errors.New("dial tcp: connection refused"))

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, zap.WarnLevel, entries[2].Level)
	assert.Equal(t, zap.ErrorLevel, entries[3].Level)
}
