package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/config"
	"inventory/predictor"
)

// TestHelperProcess plays the prediction script for the tests below. It only
// does anything when re-executed by scriptRouter.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}

	switch args[0] {
	case "demand":
		fmt.Println(`{"predicted_demand": 42}`)
	case "missing-model":
		fmt.Fprint(os.Stderr, "model file not found")
		os.Exit(1)
	case "banner":
		fmt.Println("Loading model...")
		fmt.Println(`{"predicted_demand": 42}`)
	case "strict":
		if args[1] != "ITEM_001" {
			fmt.Printf(`{"error": "Item ID %s not recognized by the model."}`+"\n", args[1])
			break
		}
		fmt.Printf(`{"item_id": %q, "date": %q, "predicted_demand": 120}`+"\n", args[1], args[2])
	}
	os.Exit(0)
}

func scriptRouter(t *testing.T, mode string) http.Handler {
	t.Helper()
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")

	runner, err := predictor.NewRunner(config.PredictorConfig{
		Command: []string{os.Args[0], "-test.run=TestHelperProcess", "--", mode},
	})
	require.NoError(t, err)

	return NewRouter(NewPredictHandler(runner, nil))
}

func TestScriptPredictsDemand(t *testing.T) {
	w := postPredict(t, scriptRouter(t, "demand"), `{"item_id":"ITEM_001","date":"2025-11-27"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"predicted_demand": 42}`, w.Body.String())
}

func TestScriptMissingModel(t *testing.T) {
	w := postPredict(t, scriptRouter(t, "missing-model"), `{"item_id":"ITEM_001","date":"2025-11-27"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Prediction failed","details":"model file not found"}`, w.Body.String())
}

func TestScriptNoisyStdout(t *testing.T) {
	w := postPredict(t, scriptRouter(t, "banner"), `{"item_id":"ITEM_001","date":"2025-11-27"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t,
		`{"error":"Failed to parse prediction result","details":"Loading model...\n{\"predicted_demand\": 42}\n"}`,
		w.Body.String())
}

func TestScriptUnknownItem(t *testing.T) {
	h := scriptRouter(t, "strict")

	w := postPredict(t, h, `{"item_id":"ITEM_999","date":"2025-11-27"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Item ID ITEM_999 not recognized by the model."}`, w.Body.String())

	w = postPredict(t, h, `{"item_id":"ITEM_001","date":"2025-11-27"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"item_id":"ITEM_001","date":"2025-11-27","predicted_demand":120}`, w.Body.String())
}

func TestScriptCannotStart(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "predict.py")
	runner, err := predictor.NewRunner(config.PredictorConfig{Command: []string{missing}})
	require.NoError(t, err)

	w := postPredict(t, NewRouter(NewPredictHandler(runner, nil)), `{"item_id":"ITEM_001","date":"2025-11-27"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var got ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Failed to execute prediction script", got.Error)
	require.NotNil(t, got.Details)
	assert.Contains(t, *got.Details, "predict.py")
}
