package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/ever-co/invoicing/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DecodeEnvelope parses the recorded body as a response envelope
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to parse JSON response")
	return resp
}

// AssertErrorEnvelope asserts status and error code and returns the envelope
func AssertErrorEnvelope(t *testing.T, w *httptest.ResponseRecorder, status int, code string) dto.Response {
	t.Helper()

	assert.Equal(t, status, w.Code, "Unexpected status code")
	resp := DecodeEnvelope(t, w)
	assert.False(t, resp.Success, "Expected success to be false")
	require.NotNil(t, resp.Error, "Expected error object in response")
	assert.Equal(t, code, resp.Error.Code, "Unexpected error code")
	return resp
}

// JSONReader encodes v for a request body
func JSONReader(t *testing.T, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}
