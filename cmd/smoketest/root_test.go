package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSmokeSuccess(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"item_id":"ITEM_001","date":"2025-11-27","predicted_demand":42}`))
	}))
	defer srv.Close()

	stdout, stderr, err := runRoot(t, "--url", srv.URL)
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.JSONEq(t, `{"item_id":"ITEM_001","date":"2025-11-27"}`, gotBody)
	assert.Equal(t, "Prediction successful:\n{\n  \"item_id\": \"ITEM_001\",\n  \"date\": \"2025-11-27\",\n  \"predicted_demand\": 42\n}\n", stdout)
}

func TestSmokeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Prediction failed","details":"model file not found"}`))
	}))
	defer srv.Close()

	stdout, stderr, err := runRoot(t, "--url", srv.URL, "--item-id", "ITEM_002")
	require.ErrorIs(t, err, errPredictionFailed)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error during prediction:")
	assert.Contains(t, stderr, `"details": "model file not found"`)
}

func TestSmokeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, stderr, err := runRoot(t, "--url", url, "--timeout", "1s")
	require.Error(t, err)
	assert.Contains(t, stderr, "Error during prediction:")
}

func TestSmokeRejectsArgs(t *testing.T) {
	_, _, err := runRoot(t, "extra")
	assert.Error(t, err)
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", indent([]byte(`{"a":1}`)))
	assert.Equal(t, "plain text", indent([]byte("plain text")))
}
