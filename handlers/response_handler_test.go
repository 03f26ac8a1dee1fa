package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseEnvelopes(t *testing.T) {
	h := NewResponseHandler()

	tests := []struct {
		name    string
		write   func(w http.ResponseWriter)
		code    int
		message string
	}{
		{
			name:    "success",
			write:   func(w http.ResponseWriter) { h.Success(w, "Fetched", map[string]string{"k": "v"}) },
			code:    http.StatusOK,
			message: "Fetched",
		},
		{
			name:    "created",
			write:   func(w http.ResponseWriter) { h.Created(w, "Account created", map[string]string{"k": "v"}) },
			code:    http.StatusCreated,
			message: "Account created",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			require.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Status)
			assert.Equal(t, tt.message, resp.Message)
			assert.NotNil(t, resp.Data)
		})
	}
}
